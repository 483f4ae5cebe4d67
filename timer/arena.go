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

// newArena creates the slots and the stack of free slot indexes. the stack is
// filled so that the lowest index is allocated first.
func (sch *Scheduler) newArena(capacity int) {
	sch.slots = make([]slot, capacity)
	sch.free = make([]int, 0, capacity)
	for i := capacity - 1; i >= 0; i-- {
		sch.slots[i].prev = nothing
		sch.slots[i].next = nothing
		sch.free = append(sch.free, i)
	}
}

// take a slot from the free stack and insert it into the active list. the
// slot is disabled with an expiration of Never.
func (sch *Scheduler) allocate(cb Callback, param int, tag string, temporary bool) int {
	if len(sch.free) == 0 {
		sch.fatal(curated.Errorf(ArenaExhausted, len(sch.slots)))
	}

	idx := sch.free[len(sch.free)-1]
	sch.free = sch.free[:len(sch.free)-1]

	s := &sch.slots[idx]
	if s.inUse {
		sch.fatal(curated.Errorf(InvariantViolation, "free slot is in use"))
	}

	s.gen++
	if s.gen == 0 {
		s.gen++
	}
	s.inUse = true
	s.enabled = false
	s.temporary = temporary
	s.callback = cb
	s.param = param
	s.tag = tag
	s.period = vtime.Zero
	s.start = sch.Now()
	s.expire = vtime.Never

	sch.insert(idx)

	if !temporary {
		sch.register(idx)
	}

	return idx
}

// remove the slot from the active list and push it onto the free stack. the
// generation is changed so existing handles to the slot are no longer valid.
func (sch *Scheduler) deallocate(idx int) {
	s := &sch.slots[idx]
	if !s.inUse {
		sch.fatal(curated.Errorf(InvariantViolation, "deallocation of free slot"))
	}

	sch.remove(idx)
	sch.unregister(idx)

	s.inUse = false
	s.enabled = false
	s.callback = nil
	s.gen++
	if s.gen == 0 {
		s.gen++
	}

	sch.free = append(sch.free, idx)
}
