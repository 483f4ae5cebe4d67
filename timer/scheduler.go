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
	"strings"

	"github.com/jetsetilly/timekeeper/curated"
	"github.com/jetsetilly/timekeeper/environment"
	"github.com/jetsetilly/timekeeper/logger"
	"github.com/jetsetilly/timekeeper/vtime"
)

// the timer that is currently firing
type dispatch struct {
	active   bool
	index    int
	gen      uint32
	time     vtime.Time
	modified bool
}

// Scheduler is the timer subsystem for a single emulated machine. It is not
// safe for concurrent use. Callbacks are run on the goroutine that called
// AdvanceTo().
type Scheduler struct {
	env *environment.Environment

	slots []slot
	free  []int

	// the active list. every allocated slot is in this list
	head   int
	tail   int
	active int

	// the time most recently passed to AdvanceTo()
	base vtime.Time

	source TimeSource
	exec   Executor
	state  Registrar

	// the slot of every timer registered with the registrar, by prefix
	names map[string]int

	dispatch dispatch

	// the fatal error that stopped the scheduler
	halted error

	// run the Validate() function after every change
	validate bool

	// the number of callbacks made since the scheduler was created
	Fired uint64
}

// NewScheduler is the preferred method of initialisation for the Scheduler
// type. The capacity of the scheduler is taken from the environment's
// preferences. If env is nil a default environment is used.
func NewScheduler(env *environment.Environment) (*Scheduler, error) {
	if env == nil {
		var err error
		env, err = environment.NewEnvironment(environment.MainEmulation, nil)
		if err != nil {
			return nil, err
		}
	}

	capacity := env.Prefs.Capacity.Get().(int)
	if capacity <= 0 {
		return nil, curated.Errorf(BadCapacity, capacity)
	}

	sch := &Scheduler{
		env:      env,
		head:     nothing,
		tail:     nothing,
		validate: env.Prefs.Validate.Get().(bool),
		names:    make(map[string]int),
	}
	sch.source = contextual{sch: sch}
	sch.newArena(capacity)

	logger.Logf(env, "timer", "scheduler created with %d slots", capacity)

	return sch, nil
}

// contextual is the default time source.
type contextual struct {
	sch *Scheduler
}

func (c contextual) Now() vtime.Time {
	if c.sch.dispatch.active {
		return c.sch.dispatch.time
	}
	if c.sch.exec != nil && c.sch.exec.Executing() {
		return c.sch.exec.LocalTime()
	}
	return c.sch.base
}

// SetTimeSource replaces the source of the current time. A value of nil
// restores the default source.
func (sch *Scheduler) SetTimeSource(src TimeSource) {
	if src == nil {
		src = contextual{sch: sch}
	}
	sch.source = src
}

// Plumb the executor into the scheduler. The executor is used by the default
// time source and by Adjust().
func (sch *Scheduler) Plumb(exec Executor) {
	sch.exec = exec
}

// Environment returns the environment the scheduler was created with.
func (sch *Scheduler) Environment() *environment.Environment {
	return sch.env
}

// Now returns the current time according to the time source.
func (sch *Scheduler) Now() vtime.Time {
	return sch.source.Now()
}

// Base returns the time most recently passed to AdvanceTo().
func (sch *Scheduler) Base() vtime.Time {
	return sch.base
}

// NextFire returns the time the earliest timer fires. Returns vtime.Never if
// no timer is enabled.
func (sch *Scheduler) NextFire() vtime.Time {
	if sch.head == nothing {
		return vtime.Never
	}
	return sch.slots[sch.head].effective()
}

// Dispatching returns true if a callback is running.
func (sch *Scheduler) Dispatching() bool {
	return sch.dispatch.active
}

// Capacity returns the number of slots in the scheduler.
func (sch *Scheduler) Capacity() int {
	return len(sch.slots)
}

// ActiveCount returns the number of allocated timers.
func (sch *Scheduler) ActiveCount() int {
	return sch.active
}

// FreeCount returns the number of slots available for allocation.
func (sch *Scheduler) FreeCount() int {
	return len(sch.free)
}

// Halted returns the error that stopped the scheduler or nil.
func (sch *Scheduler) Halted() error {
	return sch.halted
}

// Destroy frees every timer and detaches the scheduler from the executor and
// the save-state registrar. The scheduler can not be used afterwards.
func (sch *Scheduler) Destroy() {
	if sch.halted != nil {
		return
	}
	if sch.dispatch.active {
		sch.fatal(curated.Errorf(InvariantViolation, "destroy during dispatch"))
	}

	for sch.head != nothing {
		sch.deallocate(sch.head)
	}
	if sch.state != nil {
		sch.state.Unregister("timer/")
	}

	sch.exec = nil
	sch.state = nil
	sch.halted = curated.Errorf(InvariantViolation, "scheduler has been destroyed")

	logger.Log(sch.env, "timer", "scheduler destroyed")
}

// fatal logs the error and the timer table and stops the scheduler.
func (sch *Scheduler) fatal(err error) {
	if sch.env.Prefs.DumpOnFatal.Get().(bool) {
		var b strings.Builder
		sch.Dump(&b)
		for _, l := range strings.Split(strings.TrimSpace(b.String()), "\n") {
			logger.Log(sch.env, "timer", l)
		}
	}
	logger.Log(sch.env, "timer", err)

	sch.halted = err
	panic(err)
}

// check is called at the start of every operation.
func (sch *Scheduler) check() {
	if sch.halted != nil {
		panic(sch.halted)
	}
}

// changed is called at the end of every operation that alters the active list.
func (sch *Scheduler) changed() {
	if !sch.validate {
		return
	}
	if err := sch.Validate(); err != nil {
		sch.fatal(err)
	}
}

// lookup returns the slot index for the handle. the handle must refer to an
// allocated slot.
func (sch *Scheduler) lookup(h Handle) int {
	if h.IsNil() || h.index < 0 || h.index >= len(sch.slots) {
		sch.fatal(curated.Errorf(InvalidHandle, h))
	}
	s := &sch.slots[h.index]
	if !s.inUse || s.gen != h.gen {
		sch.fatal(curated.Errorf(InvalidHandle, h))
	}
	return h.index
}

// touch is called by every operation that changes a timer. if the timer is
// the one currently firing then the dispatcher leaves it alone once the
// callback returns.
func (sch *Scheduler) touch(idx int) {
	if sch.dispatch.active && sch.dispatch.index == idx && sch.dispatch.gen == sch.slots[idx].gen {
		sch.dispatch.modified = true
	}
}
