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

	"github.com/jetsetilly/timekeeper/vtime"
)

// Callback is the function called when a timer fires. The param value is
// the value given to Allocate() or most recently to Adjust(). Any other
// context should be captured by the function.
type Callback func(param int)

// Handle refers to an allocated timer. Handles are only valid until the timer
// is freed. Using a handle after that is an error.
type Handle struct {
	index int
	gen   uint32
}

// NilHandle is the zero value of Handle. It never refers to a timer.
var NilHandle = Handle{}

// IsNil returns true if the handle is the zero value.
func (h Handle) IsNil() bool {
	return h.gen == 0
}

func (h Handle) String() string {
	if h.IsNil() {
		return "nil"
	}
	return fmt.Sprintf("%d/%d", h.index, h.gen)
}

// Slot returns the index of the slot the handle refers to.
func (h Handle) Slot() int {
	return h.index
}

// TimeSource supplies the current time.
type TimeSource interface {
	Now() vtime.Time
}

// Executor is implemented by whatever is running the emulated CPUs.
type Executor interface {
	// Executing returns true if a CPU is part way through a timeslice.
	Executing() bool

	// LocalTime is the virtual time of the executing CPU. It is only
	// meaningful when Executing() returns true.
	LocalTime() vtime.Time

	// AbortTimeslice asks the executing CPU to end its timeslice as soon as
	// possible.
	AbortTimeslice()
}

// Registrar is implemented by the save-state mechanism. Fields are
// registered by name and the pointer must remain valid until the name is
// unregistered.
type Registrar interface {
	Register(name string, field any) error
	Unregister(prefix string) int
	RegisterPostLoad(f func())
}

// nothing marks the end of the active list and an unlinked slot.
const nothing = -1

type slot struct {
	// fields that are saved as part of the machine state
	enabled bool
	period  vtime.Time
	start   vtime.Time
	expire  vtime.Time
	param   int

	temporary bool
	callback  Callback
	tag       string

	// the generation is increased every time the slot is freed. zero is never
	// used for an allocated slot
	gen   uint32
	inUse bool

	// the slot fields have been given to the registrar under the prefix
	registered bool
	stateName  string

	prev int
	next int
}

// effective returns the time the slot will next fire. a disabled timer never
// fires.
func (s *slot) effective() vtime.Time {
	if !s.enabled {
		return vtime.Never
	}
	return s.expire
}
