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

package timer_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/jetsetilly/timekeeper/curated"
	"github.com/jetsetilly/timekeeper/logger"
	"github.com/jetsetilly/timekeeper/test"
	"github.com/jetsetilly/timekeeper/timer"
	"github.com/jetsetilly/timekeeper/vtime"
)

func TestSelfFree(t *testing.T) {
	sch := newScheduler(t, 4)

	var fired int
	var h timer.Handle
	h = sch.Allocate(func(_ int) {
		fired++
		sch.Free(h)
	}, 0, "self free", false)
	sch.Adjust(h, secs(1), 0, secs(1))

	free := sch.FreeCount()
	sch.AdvanceTo(secs(10))
	test.ExpectEquality(t, fired, 1)
	test.ExpectEquality(t, sch.FreeCount(), free+1)
	test.ExpectEquality(t, sch.Valid(h), false)

	// the freed slot is the next one to be allocated
	n := sch.Allocate(func(_ int) {}, 0, "", false)
	test.ExpectEquality(t, n.Slot(), h.Slot())
	test.ExpectInequality(t, n, h)
}

func TestSelfFreeIsImmediate(t *testing.T) {
	sch := newScheduler(t, 4)

	var before, after int
	var h timer.Handle
	h = sch.Set(secs(1), 0, func(_ int) {
		before = sch.FreeCount()
		sch.Free(h)
		after = sch.FreeCount()
	}, "")

	// the slot is back on the free stack before the callback returns
	sch.AdvanceTo(secs(2))
	test.ExpectEquality(t, after, before+1)
	test.ExpectEquality(t, sch.FreeCount(), after)
}

func TestSelfFreeTemporary(t *testing.T) {
	sch := newScheduler(t, 4)

	var fired int
	var h timer.Handle
	h = sch.Set(secs(1), 0, func(_ int) {
		fired++
		sch.Free(h)
	}, "")

	sch.AdvanceTo(secs(10))
	test.ExpectEquality(t, fired, 1)
	test.ExpectEquality(t, sch.FreeCount(), 4)
	test.ExpectSuccess(t, sch.Validate())
}

func TestSelfAdjust(t *testing.T) {
	sch := newScheduler(t, 4)

	var fired int
	var h timer.Handle
	h = sch.Allocate(func(_ int) {
		fired++
		if fired == 1 {
			sch.Adjust(h, secs(5), 0, vtime.Zero)
		}
	}, 0, "self adjust", false)
	sch.Adjust(h, secs(10), 0, secs(10))

	sch.AdvanceTo(secs(12))
	test.ExpectEquality(t, fired, 1)

	// without the adjustment the timer would be rescheduled for 20
	test.ExpectEquality(t, sch.FireTime(h), secs(15))
	test.ExpectEquality(t, sch.StartTime(h), secs(10))

	sch.AdvanceTo(secs(100))
	test.ExpectEquality(t, fired, 2)
	test.ExpectEquality(t, sch.Enabled(h), false)
}

func TestSelfAdjustTemporary(t *testing.T) {
	sch := newScheduler(t, 4)

	// a temporary timer that rearms itself is not freed
	var fired int
	var h timer.Handle
	h = sch.Set(secs(1), 0, func(_ int) {
		fired++
		if fired < 3 {
			sch.Reset(h, secs(1))
		}
	}, "")

	sch.AdvanceTo(secs(10))
	test.ExpectEquality(t, fired, 3)
	test.ExpectEquality(t, sch.Valid(h), false)
	test.ExpectEquality(t, sch.FreeCount(), 4)
}

func TestCallbackModifiesOtherTimers(t *testing.T) {
	sch := newScheduler(t, 8)

	var order []string
	var a, b, c timer.Handle
	a = sch.Allocate(func(_ int) {
		order = append(order, "a")
		// move b earlier than c and disable c
		sch.Adjust(b, secs(1), 0, vtime.Zero)
		sch.Enable(c, false)
	}, 0, "a", false)
	b = sch.Allocate(func(_ int) { order = append(order, "b") }, 0, "b", false)
	c = sch.Allocate(func(_ int) { order = append(order, "c") }, 0, "c", false)

	sch.Adjust(a, secs(1), 0, vtime.Zero)
	sch.Adjust(b, secs(10), 0, vtime.Zero)
	sch.Adjust(c, secs(3), 0, vtime.Zero)

	sch.AdvanceTo(secs(20))
	test.DemandEquality(t, len(order), 2)
	test.ExpectEquality(t, order[0], "a")
	test.ExpectEquality(t, order[1], "b")
	test.ExpectEquality(t, sch.Enabled(c), false)
}

func TestCallbackAllocates(t *testing.T) {
	sch := newScheduler(t, 8)

	var times []vtime.Time
	h := sch.Allocate(func(_ int) {
		// the new timer is armed relative to the time of the callback
		sch.Set(secs(2), 0, func(_ int) {
			times = append(times, sch.Now())
		}, "")
	}, 0, "", false)
	sch.Adjust(h, secs(3), 0, secs(3))

	sch.AdvanceTo(secs(11))
	test.DemandEquality(t, len(times), 3)
	test.ExpectEquality(t, times[0], secs(5))
	test.ExpectEquality(t, times[1], secs(8))
	test.ExpectEquality(t, times[2], secs(11))
}

// checkOrder walks the active list and checks that it is sorted.
func checkOrder(t *testing.T, sch *timer.Scheduler) {
	t.Helper()

	last := vtime.Zero
	var n int
	sch.Walk(func(i timer.Info) bool {
		if i.Expire.Before(last) {
			t.Errorf("active list is not sorted at %s", i.Handle)
		}
		last = i.Expire
		n++
		return true
	})
	test.ExpectEquality(t, n, sch.ActiveCount())
	test.ExpectSuccess(t, sch.Validate())
}

func TestRandomOperations(t *testing.T) {
	const capacity = 32
	sch := newScheduler(t, capacity)
	rnd := rand.New(rand.NewSource(2600))

	var live []timer.Handle
	cb := func(_ int) {}

	for i := 0; i < 5000; i++ {
		switch op := rnd.Intn(6); {
		case op == 0 && len(live) < capacity:
			live = append(live, sch.Allocate(cb, 0, "", rnd.Intn(2) == 0))
		case op == 1 && len(live) > 0:
			n := rnd.Intn(len(live))
			sch.Free(live[n])
			live = append(live[:n], live[n+1:]...)
		case op == 2 && len(live) > 0:
			h := live[rnd.Intn(len(live))]
			sch.Adjust(h, vtime.FromAttoseconds(rnd.Int63n(1000)), 0, vtime.FromAttoseconds(rnd.Int63n(3)*100))
		case op == 3 && len(live) > 0:
			sch.Enable(live[rnd.Intn(len(live))], rnd.Intn(2) == 0)
		case op == 4:
			sch.AdvanceBy(vtime.FromAttoseconds(rnd.Int63n(200)))

			// temporary timers may have been freed by the dispatcher
			var still []timer.Handle
			for _, h := range live {
				if sch.Valid(h) {
					still = append(still, h)
				}
			}
			live = still
		}
		checkOrder(t, sch)
		test.DemandEquality(t, sch.ActiveCount()+sch.FreeCount(), capacity)
	}
}

func TestStaleHandle(t *testing.T) {
	sch := newScheduler(t, 4)

	h := sch.Allocate(func(_ int) {}, 0, "", false)
	sch.Free(h)

	r := test.DemandPanic(t, func() {
		sch.Enable(h, true)
	})
	err, ok := r.(error)
	test.DemandEquality(t, ok, true)
	test.ExpectEquality(t, curated.Is(err, timer.InvalidHandle), true)

	// the scheduler is halted and every operation fails with the same error
	test.ExpectEquality(t, curated.Is(sch.Halted(), timer.InvalidHandle), true)
	r = test.DemandPanic(t, func() {
		sch.AdvanceTo(secs(1))
	})
	test.ExpectEquality(t, curated.Is(r.(error), timer.InvalidHandle), true)

	r = test.DemandPanic(t, func() {
		sch.Allocate(func(_ int) {}, 0, "", false)
	})
	test.ExpectEquality(t, curated.Is(r.(error), timer.InvalidHandle), true)
}

func TestNilHandle(t *testing.T) {
	sch := newScheduler(t, 4)
	test.ExpectEquality(t, sch.Valid(timer.NilHandle), false)
	r := test.DemandPanic(t, func() {
		sch.Free(timer.NilHandle)
	})
	test.ExpectEquality(t, curated.Is(r.(error), timer.InvalidHandle), true)
}

func TestArenaExhausted(t *testing.T) {
	sch := newScheduler(t, 2)

	logger.Clear()
	sch.Allocate(func(_ int) {}, 0, "first", false)
	sch.Allocate(func(_ int) {}, 0, "second", true)

	r := test.DemandPanic(t, func() {
		sch.Allocate(func(_ int) {}, 0, "third", false)
	})
	test.ExpectEquality(t, curated.Is(r.(error), timer.ArenaExhausted), true)

	var found bool
	logger.BorrowLog(func(entries []logger.Entry) {
		for _, e := range entries {
			if e.Tag == "timer" && strings.Contains(e.Detail, "arena exhausted") {
				found = true
			}
		}
	})
	test.ExpectEquality(t, found, true)
}

func TestNilCallback(t *testing.T) {
	sch := newScheduler(t, 2)
	r := test.DemandPanic(t, func() {
		sch.Allocate(nil, 0, "", false)
	})
	test.ExpectEquality(t, curated.Is(r.(error), timer.InvariantViolation), true)
}

func TestNestedAdvance(t *testing.T) {
	sch := newScheduler(t, 2)

	h := sch.Allocate(func(_ int) {
		sch.AdvanceTo(secs(5))
	}, 0, "", false)
	sch.Adjust(h, secs(1), 0, vtime.Zero)

	r := test.DemandPanic(t, func() {
		sch.AdvanceTo(secs(2))
	})
	test.ExpectEquality(t, curated.Is(r.(error), timer.InvariantViolation), true)
}

func TestDestroy(t *testing.T) {
	sch := newScheduler(t, 4)
	sch.Allocate(func(_ int) {}, 0, "", false)
	sch.Set(secs(1), 0, func(_ int) {}, "")
	sch.Destroy()

	test.ExpectEquality(t, sch.ActiveCount(), 0)
	test.ExpectEquality(t, sch.FreeCount(), 4)
	test.DemandPanic(t, func() {
		sch.AdvanceTo(secs(1))
	})
}
