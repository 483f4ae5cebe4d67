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

package beeper_test

import (
	"testing"

	"github.com/jetsetilly/timekeeper/curated"
	"github.com/jetsetilly/timekeeper/hardware/beeper"
	"github.com/jetsetilly/timekeeper/test"
	"github.com/jetsetilly/timekeeper/timer"
	"github.com/jetsetilly/timekeeper/vtime"
)

func TestTone(t *testing.T) {
	sch, err := timer.NewScheduler(nil)
	test.DemandSuccess(t, err)

	_, err = beeper.NewBeeper(sch, 0)
	test.ExpectEquality(t, curated.Is(err, beeper.BadRate), true)

	bp, err := beeper.NewBeeper(sch, 8000)
	test.DemandSuccess(t, err)

	sch.AdvanceTo(vtime.FromSeconds(1))
	s := bp.Drain()
	test.ExpectEquality(t, len(s), 8000)
	for _, v := range s {
		test.DemandEquality(t, v, 0)
	}

	// a 1kHz tone sampled at 8kHz changes level every four samples
	bp.Tone(1000, vtime.FromAttoseconds(vtime.AttosecondsPerSecond/10))
	test.ExpectEquality(t, bp.Playing(), true)
	sch.AdvanceTo(vtime.FromSeconds(2))
	test.ExpectEquality(t, bp.Playing(), false)

	s = bp.Drain()
	test.DemandEquality(t, len(s), 8000)

	// the tone is stopped by a timer that fires at the same time as the
	// 800th sample. the tone timer was armed first so the sample is silent
	var high, low int
	for i, v := range s[:799] {
		expected := beeper.Amplitude
		if ((i+1)/4)%2 == 1 {
			expected = -beeper.Amplitude
		}
		test.ExpectEquality(t, v, expected, i)
		if v > 0 {
			high++
		} else {
			low++
		}
	}
	test.ExpectEquality(t, high, 399)
	test.ExpectEquality(t, low, 400)

	for _, v := range s[799:] {
		test.DemandEquality(t, v, 0)
	}
	test.ExpectEquality(t, bp.Tones, uint64(1))
}

func TestSilence(t *testing.T) {
	sch, err := timer.NewScheduler(nil)
	test.DemandSuccess(t, err)
	bp, err := beeper.NewBeeper(sch, 100)
	test.DemandSuccess(t, err)

	bp.Tone(10, vtime.FromSeconds(10))
	sch.AdvanceTo(vtime.FromSeconds(1))
	bp.Silence()
	sch.AdvanceTo(vtime.FromSeconds(2))

	s := bp.Drain()
	test.DemandEquality(t, len(s), 200)
	for _, v := range s[100:] {
		test.DemandEquality(t, v, 0)
	}
}
