// This file is part of Timekeeper.
//
// Timekeeper is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Timekeeper is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Timekeeper.  If not, see <https://www.gnu.org/licenses/>.

package timer

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/jetsetilly/timekeeper/curated"
	"github.com/jetsetilly/timekeeper/vtime"
)

// callerTag returns the file and line of the function that called into the
// scheduler. used when a timer is allocated without a tag.
func callerTag(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

// Allocate a timer. The timer is disabled and will not fire until it is
// armed with Adjust(), Reset() or Enable().
//
// Temporary timers are freed automatically after they fire and are never
// saved as part of the machine state. Permanent timers remain allocated
// until they are freed.
//
// The tag is used to identify the timer in diagnostic output. If it is empty
// the location of the caller is used.
func (sch *Scheduler) Allocate(cb Callback, param int, tag string, temporary bool) Handle {
	sch.check()
	if tag == "" {
		tag = callerTag(1)
	}
	return sch.alloc(cb, param, tag, temporary)
}

func (sch *Scheduler) alloc(cb Callback, param int, tag string, temporary bool) Handle {
	if cb == nil {
		sch.fatal(curated.Errorf(InvariantViolation, fmt.Sprintf("nil callback for %s", tag)))
	}
	idx := sch.allocate(cb, param, tag, temporary)
	sch.changed()
	return Handle{index: idx, gen: sch.slots[idx].gen}
}

// Set allocates a temporary timer that fires once after the duration.
func (sch *Scheduler) Set(duration vtime.Time, param int, cb Callback, tag string) Handle {
	sch.check()
	if tag == "" {
		tag = callerTag(1)
	}
	h := sch.alloc(cb, param, tag, true)
	sch.Adjust(h, duration, param, vtime.Zero)
	return h
}

// Pulse allocates a permanent timer that fires every period, starting one
// period from now.
func (sch *Scheduler) Pulse(period vtime.Time, param int, cb Callback, tag string) Handle {
	sch.check()
	if tag == "" {
		tag = callerTag(1)
	}
	h := sch.alloc(cb, param, tag, false)
	sch.Adjust(h, period, param, period)
	return h
}

// Adjust arms the timer to fire after the duration. A negative duration is
// treated as zero and the timer fires on the next call to AdvanceTo(). A
// period of zero or vtime.Never means the timer fires once. Otherwise the
// timer fires again every period after the first firing.
//
// If the timer becomes the earliest timer, and it is earlier than the
// previous earliest timer, any CPU that is executing is asked to end its
// timeslice.
func (sch *Scheduler) Adjust(h Handle, duration vtime.Time, param int, period vtime.Time) {
	sch.check()
	idx := sch.lookup(h)
	sch.touch(idx)

	s := &sch.slots[idx]
	if !s.temporary && !s.registered {
		sch.register(idx)
	}

	duration = duration.Normalise()
	period = period.Normalise()

	prevHead := sch.NextFire()
	now := sch.Now()

	s.enabled = true
	s.param = param
	s.period = period
	s.start = now
	s.expire = now.Add(duration)
	sch.resort(idx)

	if sch.head == idx && s.expire.Before(prevHead) {
		if sch.exec != nil && sch.exec.Executing() {
			sch.exec.AbortTimeslice()
		}
	}

	sch.changed()
}

// Reset arms the timer to fire after the duration. The parameter and period
// are unchanged.
func (sch *Scheduler) Reset(h Handle, duration vtime.Time) {
	sch.check()
	idx := sch.lookup(h)
	sch.Adjust(h, duration, sch.slots[idx].param, sch.slots[idx].period)
}

// Enable or disable the timer. A disabled timer never fires. Returns the
// previous enabled state.
func (sch *Scheduler) Enable(h Handle, enable bool) bool {
	sch.check()
	idx := sch.lookup(h)
	sch.touch(idx)

	s := &sch.slots[idx]
	prev := s.enabled
	s.enabled = enable
	sch.resort(idx)

	sch.changed()
	return prev
}

// Free the timer. The handle is invalid afterwards. A callback may free the
// timer that is currently firing. Unlike a deferred release at the end of the
// dispatch, the slot is released immediately and the dispatch is marked as
// modified so the dispatcher does not touch the slot again.
func (sch *Scheduler) Free(h Handle) {
	sch.check()
	idx := sch.lookup(h)
	sch.touch(idx)
	sch.deallocate(idx)
	sch.changed()
}

// Valid returns true if the handle refers to an allocated timer.
func (sch *Scheduler) Valid(h Handle) bool {
	if h.IsNil() || h.index < 0 || h.index >= len(sch.slots) {
		return false
	}
	s := &sch.slots[h.index]
	return s.inUse && s.gen == h.gen
}

// Elapsed returns the time since the timer was last armed.
func (sch *Scheduler) Elapsed(h Handle) vtime.Time {
	sch.check()
	idx := sch.lookup(h)
	return sch.Now().Sub(sch.slots[idx].start)
}

// Remaining returns the time until the timer fires. Returns vtime.Never if the
// timer is disabled.
func (sch *Scheduler) Remaining(h Handle) vtime.Time {
	sch.check()
	idx := sch.lookup(h)
	return sch.slots[idx].effective().Sub(sch.Now())
}

// StartTime returns the time the timer was last armed.
func (sch *Scheduler) StartTime(h Handle) vtime.Time {
	sch.check()
	return sch.slots[sch.lookup(h)].start
}

// FireTime returns the time the timer next fires. Returns vtime.Never if the
// timer is disabled.
func (sch *Scheduler) FireTime(h Handle) vtime.Time {
	sch.check()
	return sch.slots[sch.lookup(h)].effective()
}

// Parameter returns the value passed to the callback.
func (sch *Scheduler) Parameter(h Handle) int {
	sch.check()
	return sch.slots[sch.lookup(h)].param
}

// Enabled returns true if the timer is enabled.
func (sch *Scheduler) Enabled(h Handle) bool {
	sch.check()
	return sch.slots[sch.lookup(h)].enabled
}

// Period returns the period of the timer. Zero for a one-shot timer.
func (sch *Scheduler) Period(h Handle) vtime.Time {
	sch.check()
	return sch.slots[sch.lookup(h)].period
}

// Temporary returns true if the timer was allocated as temporary.
func (sch *Scheduler) Temporary(h Handle) bool {
	sch.check()
	return sch.slots[sch.lookup(h)].temporary
}

// Tag returns the diagnostic tag of the timer.
func (sch *Scheduler) Tag(h Handle) string {
	sch.check()
	return sch.slots[sch.lookup(h)].tag
}

// Info is a summary of a timer in the active list.
type Info struct {
	Handle    Handle
	Tag       string
	Enabled   bool
	Temporary bool
	Start     vtime.Time
	Expire    vtime.Time
	Period    vtime.Time
	Param     int
}

// Walk calls the function for every timer in the order of the active list.
// Walk stops if the function returns false. The function must not change
// the scheduler.
func (sch *Scheduler) Walk(f func(Info) bool) {
	for i := sch.head; i != nothing; i = sch.slots[i].next {
		s := &sch.slots[i]
		if !f(Info{
			Handle:    Handle{index: i, gen: s.gen},
			Tag:       s.tag,
			Enabled:   s.enabled,
			Temporary: s.temporary,
			Start:     s.start,
			Expire:    s.effective(),
			Period:    s.period,
			Param:     s.param,
		}) {
			return
		}
	}
}
