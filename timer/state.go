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
	"strings"

	"github.com/jetsetilly/timekeeper/curated"
	"github.com/jetsetilly/timekeeper/logger"
)

// AttachState gives the scheduler's state to the registrar. The base time
// and the fields of every permanent timer are registered. Timers allocated
// afterwards are registered when they are allocated.
func (sch *Scheduler) AttachState(reg Registrar) error {
	sch.check()
	if sch.state != nil {
		return curated.Errorf(AlreadyAttached)
	}
	sch.state = reg

	if err := reg.Register("timer/base", &sch.base); err != nil {
		return err
	}

	for i := sch.head; i != nothing; i = sch.slots[i].next {
		if !sch.slots[i].temporary {
			sch.register(i)
		}
	}

	reg.RegisterPostLoad(sch.postLoad)

	return nil
}

// stateName returns the registrar prefix for a timer with the tag. the name
// does not depend on the slot so that a different timer in a reused slot
// does not receive the fields of the timer that was saved. timers with the
// same tag are told apart by an ordinal, the lowest not already in use.
func (sch *Scheduler) stateName(tag string) string {
	tag = strings.ReplaceAll(tag, "/", "_")
	for ord := 0; ; ord++ {
		n := fmt.Sprintf("timer/%s#%d/", tag, ord)
		if _, ok := sch.names[n]; !ok {
			return n
		}
	}
}

// register the persistent fields of the slot.
func (sch *Scheduler) register(idx int) {
	s := &sch.slots[idx]
	if sch.state == nil || s.registered {
		return
	}

	p := sch.stateName(s.tag)
	fields := []struct {
		name  string
		field any
	}{
		{"enabled", &s.enabled},
		{"period", &s.period},
		{"start", &s.start},
		{"expire", &s.expire},
		{"param", &s.param},
	}
	for _, f := range fields {
		if err := sch.state.Register(p+f.name, f.field); err != nil {
			sch.fatal(curated.Errorf(InvariantViolation, err))
		}
	}

	s.registered = true
	s.stateName = p
	sch.names[p] = idx
}

func (sch *Scheduler) unregister(idx int) {
	s := &sch.slots[idx]
	if sch.state == nil || !s.registered {
		return
	}
	sch.state.Unregister(s.stateName)
	delete(sch.names, s.stateName)
	s.registered = false
	s.stateName = ""
}

// postLoad is called by the registrar after the state has been restored. the
// fields of the timers have changed underneath the active list so every
// timer is removed and inserted again.
func (sch *Scheduler) postLoad() {
	sch.check()
	if sch.dispatch.active {
		sch.fatal(curated.Errorf(InvariantViolation, "state loaded during dispatch"))
	}

	// temporary timers belong to the state that was replaced
	var order []int
	var discarded int
	for i := sch.head; i != nothing; {
		next := sch.slots[i].next
		if sch.slots[i].temporary {
			sch.deallocate(i)
			discarded++
		} else {
			order = append(order, i)
		}
		i = next
	}

	for _, i := range order {
		sch.remove(i)
	}
	for _, i := range order {
		sch.insert(i)
	}

	logger.Logf(sch.env, "timer", "state restored: %d timers, %d temporary timers discarded", len(order), discarded)

	sch.changed()
}
