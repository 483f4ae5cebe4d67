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
	"io"
	"strings"
	"text/tabwriter"

	"github.com/bradleyjkemp/memviz"
	"github.com/jetsetilly/timekeeper/curated"
	"github.com/jetsetilly/timekeeper/vtime"
)

// Dump writes the state of every slot to the writer, followed by the order
// of the active list.
func (sch *Scheduler) Dump(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "slot\tgen\tstate\tenabled\ttemp\tstart\texpire\tperiod\tparam\ttag\n")

	for i := range sch.slots {
		s := &sch.slots[i]
		if !s.inUse {
			fmt.Fprintf(tw, "%d\t%d\tfree\t\t\t\t\t\t\t\n", i, s.gen)
			continue
		}
		fmt.Fprintf(tw, "%d\t%d\tactive\t%v\t%v\t%s\t%s\t%s\t%d\t%s\n",
			i, s.gen, s.enabled, s.temporary, s.start, s.expire, s.period, s.param, s.tag)
	}
	tw.Flush()

	order := make([]string, 0, sch.active)
	for i := sch.head; i != nothing; i = sch.slots[i].next {
		order = append(order, fmt.Sprintf("%d", i))
		if len(order) > len(sch.slots) {
			order = append(order, "...")
			break
		}
	}

	fmt.Fprintf(w, "base %s: %d active, %d free\n", sch.base, sch.active, len(sch.free))
	fmt.Fprintf(w, "order: %s\n", strings.Join(order, " "))
}

func (sch *Scheduler) String() string {
	return fmt.Sprintf("base=%s active=%d free=%d next=%s", sch.base, sch.active, len(sch.free), sch.NextFire())
}

// GraphNode is a timer in the graph written by DumpGraph().
type GraphNode struct {
	Slot    int
	Tag     string
	Enabled bool
	Expire  string
	Period  string
	Next    *GraphNode
}

// Graph is the root of the graph written by DumpGraph().
type Graph struct {
	Base string
	Head *GraphNode
	Free []int
}

// DumpGraph writes a graphviz representation of the active list to the
// writer.
func (sch *Scheduler) DumpGraph(w io.Writer) {
	g := &Graph{
		Base: sch.base.String(),
		Free: append([]int{}, sch.free...),
	}

	var prev *GraphNode
	for i := sch.head; i != nothing; i = sch.slots[i].next {
		s := &sch.slots[i]
		n := &GraphNode{
			Slot:    i,
			Tag:     s.tag,
			Enabled: s.enabled,
			Expire:  s.effective().String(),
			Period:  s.period.String(),
		}
		if prev == nil {
			g.Head = n
		} else {
			prev.Next = n
		}
		prev = n
	}

	memviz.Map(w, g)
}

// Validate checks the integrity of the arena and the active list. Returns an
// InvariantViolation error describing the first problem found.
func (sch *Scheduler) Validate() error {
	inList := make([]bool, len(sch.slots))

	count := 0
	prev := nothing
	last := vtime.Zero
	for i := sch.head; i != nothing; i = sch.slots[i].next {
		if i < 0 || i >= len(sch.slots) {
			return curated.Errorf(InvariantViolation, fmt.Sprintf("slot %d out of range", i))
		}
		if inList[i] {
			return curated.Errorf(InvariantViolation, fmt.Sprintf("slot %d appears twice in the active list", i))
		}
		inList[i] = true

		s := &sch.slots[i]
		if !s.inUse {
			return curated.Errorf(InvariantViolation, fmt.Sprintf("free slot %d in the active list", i))
		}
		if s.prev != prev {
			return curated.Errorf(InvariantViolation, fmt.Sprintf("slot %d has broken links", i))
		}
		if s.effective().Before(last) {
			return curated.Errorf(InvariantViolation, fmt.Sprintf("slot %d is out of order", i))
		}
		last = s.effective()
		prev = i
		count++
	}

	if prev != sch.tail {
		return curated.Errorf(InvariantViolation, "tail of active list is wrong")
	}
	if count != sch.active {
		return curated.Errorf(InvariantViolation, fmt.Sprintf("active count is %d but list has %d entries", sch.active, count))
	}

	for _, i := range sch.free {
		if inList[i] || sch.slots[i].inUse {
			return curated.Errorf(InvariantViolation, fmt.Sprintf("slot %d is both free and active", i))
		}
		inList[i] = true
	}

	for i := range inList {
		if !inList[i] {
			return curated.Errorf(InvariantViolation, fmt.Sprintf("slot %d is neither free nor active", i))
		}
	}

	return nil
}
