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
)

// insert slot into the active list. the slot is placed before the first entry
// that fires strictly later than it. slots with the same fire time are
// therefore kept in the order they were inserted.
func (sch *Scheduler) insert(idx int) {
	s := &sch.slots[idx]
	if s.prev != nothing || s.next != nothing || sch.head == idx {
		sch.fatal(curated.Errorf(InvariantViolation, "slot is already in the active list"))
	}

	when := s.effective()

	// nothing fires later than Never so a disabled timer always goes to the
	// end of the list
	at := nothing
	if !when.IsNever() {
		for i := sch.head; i != nothing; i = sch.slots[i].next {
			if sch.slots[i].effective().After(when) {
				at = i
				break
			}
		}
	}

	if at == nothing {
		s.prev = sch.tail
		s.next = nothing
		if sch.tail == nothing {
			sch.head = idx
		} else {
			sch.slots[sch.tail].next = idx
		}
		sch.tail = idx
	} else {
		s.next = at
		s.prev = sch.slots[at].prev
		if s.prev == nothing {
			sch.head = idx
		} else {
			sch.slots[s.prev].next = idx
		}
		sch.slots[at].prev = idx
	}

	sch.active++
}

// remove slot from the active list.
func (sch *Scheduler) remove(idx int) {
	s := &sch.slots[idx]

	if s.prev == nothing {
		if sch.head != idx {
			sch.fatal(curated.Errorf(InvariantViolation, "slot is not in the active list"))
		}
		sch.head = s.next
	} else {
		sch.slots[s.prev].next = s.next
	}

	if s.next == nothing {
		sch.tail = s.prev
	} else {
		sch.slots[s.next].prev = s.prev
	}

	s.prev = nothing
	s.next = nothing
	sch.active--
}

// resort moves the slot to the correct position after a change to its fire
// time.
func (sch *Scheduler) resort(idx int) {
	sch.remove(idx)
	sch.insert(idx)
}
