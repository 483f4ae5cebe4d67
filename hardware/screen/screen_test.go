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

package screen_test

import (
	"testing"

	"github.com/jetsetilly/timekeeper/curated"
	"github.com/jetsetilly/timekeeper/hardware/screen"
	"github.com/jetsetilly/timekeeper/test"
	"github.com/jetsetilly/timekeeper/timer"
	"github.com/jetsetilly/timekeeper/vtime"
)

type irq struct {
	raised int
}

func (i *irq) SetIRQ(v bool) {
	if v {
		i.raised++
	}
}

func TestTiming(t *testing.T) {
	sch, err := timer.NewScheduler(nil)
	test.DemandSuccess(t, err)

	_, err = screen.NewScreen(sch, nil, 0, 10)
	test.ExpectEquality(t, curated.Is(err, screen.BadGeometry), true)
	_, err = screen.NewScreen(sch, nil, 50, 0)
	test.ExpectEquality(t, curated.Is(err, screen.BadGeometry), true)

	line := &irq{}
	scr, err := screen.NewScreen(sch, line, 50, 10)
	test.DemandSuccess(t, err)

	var frames []uint64
	scr.OnFrame = func(f uint64) {
		frames = append(frames, f)
	}

	// half way through the first frame
	sch.AdvanceTo(scr.LinePeriod().Mul(5))
	test.ExpectEquality(t, scr.Frame, uint64(0))
	test.ExpectEquality(t, scr.Scanline, 5)

	// last line of the first frame
	sch.AdvanceTo(scr.LinePeriod().Mul(9))
	test.ExpectEquality(t, scr.Scanline, 9)

	sch.AdvanceTo(scr.FramePeriod())
	test.ExpectEquality(t, scr.Frame, uint64(1))
	test.ExpectEquality(t, scr.Scanline, 0)
	test.ExpectEquality(t, line.raised, 1)

	sch.AdvanceTo(vtime.FromSeconds(2))
	test.ExpectEquality(t, scr.Frame, uint64(100))
	test.ExpectEquality(t, len(frames), 100)
	test.ExpectEquality(t, line.raised, 100)

	// the scanline timer and the vblank timer are the only timers
	test.ExpectEquality(t, sch.ActiveCount(), 2)
}
