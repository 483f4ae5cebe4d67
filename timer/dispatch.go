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
	"github.com/jetsetilly/timekeeper/curated"
	"github.com/jetsetilly/timekeeper/vtime"
)

// AdvanceTo moves the scheduler's base time forward and fires every timer
// that is due at or before the new time. Timers fire in the order of the
// active list.
//
// The time must not be earlier than the time given in the previous call.
// Calling AdvanceTo() from inside a callback is an error.
//
// Advancing to vtime.Never fires every due timer once. Periodic timers are
// not rearmed and are left due at vtime.Never.
func (sch *Scheduler) AdvanceTo(t vtime.Time) {
	sch.check()
	if sch.dispatch.active {
		sch.fatal(curated.Errorf(InvariantViolation, "advance during dispatch"))
	}

	sch.base = t

	for sch.head != nothing {
		idx := sch.head
		s := &sch.slots[idx]
		// the list is sorted so nothing after this timer is due either. a
		// timer due at Never never fires, even when advancing to Never
		if !s.enabled || s.expire.IsNever() || s.expire.After(t) {
			break
		}

		sch.dispatch = dispatch{
			active: true,
			index:  idx,
			gen:    s.gen,
			time:   s.expire,
		}

		// one-shot timers are disabled before the callback. the callback may
		// enable the timer again
		if s.period.IsZero() || s.period.IsNever() {
			s.enabled = false
			sch.resort(idx)
		}

		cb := s.callback
		param := s.param
		sch.Fired++
		cb(param)

		// the callback has already moved or freed the timer
		if !sch.dispatch.modified {
			if s.temporary {
				sch.deallocate(idx)
			} else {
				s.start = s.expire
				if t.IsNever() {
					s.expire = vtime.Never
				} else {
					s.expire = s.start.Add(s.period)
				}
				sch.resort(idx)
			}
		}

		sch.dispatch = dispatch{}
		sch.changed()
	}
}

// AdvanceBy is a convenience function that advances the base time by a
// duration.
func (sch *Scheduler) AdvanceBy(d vtime.Time) {
	sch.AdvanceTo(sch.base.Add(d))
}
