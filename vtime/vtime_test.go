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

package vtime_test

import (
	"math"
	"testing"
	"time"

	"github.com/jetsetilly/timekeeper/vtime"
	"github.com/jetsetilly/timekeeper/test"
)

func TestAdd(t *testing.T) {
	a := vtime.Time{Seconds: 1, Attoseconds: vtime.AttosecondsPerSecond - 1}
	b := vtime.Time{Attoseconds: 2}
	test.ExpectEquality(t, a.Add(b), vtime.Time{Seconds: 2, Attoseconds: 1})

	// adding zero
	test.ExpectEquality(t, a.Add(vtime.Zero), a)

	// never is absorbing
	test.ExpectEquality(t, a.Add(vtime.Never), vtime.Never)
	test.ExpectEquality(t, vtime.Never.Add(a), vtime.Never)

	// saturation rather than wrap-around
	big := vtime.Time{Seconds: vtime.MaxSeconds - 1}
	test.ExpectEquality(t, big.Add(vtime.FromSeconds(1)), vtime.Never)
	test.ExpectEquality(t, big.Add(big), vtime.Never)
	almost := vtime.Time{Seconds: vtime.MaxSeconds - 1, Attoseconds: vtime.AttosecondsPerSecond - 1}
	test.ExpectEquality(t, almost.Add(vtime.FromAttoseconds(1)), vtime.Never)
}

func TestSub(t *testing.T) {
	a := vtime.Time{Seconds: 2, Attoseconds: 1}
	b := vtime.Time{Seconds: 1, Attoseconds: 2}
	test.ExpectEquality(t, a.Sub(b), vtime.Time{Attoseconds: vtime.AttosecondsPerSecond - 1})

	// negative durations are clamped
	test.ExpectEquality(t, b.Sub(a), vtime.Zero)
	test.ExpectEquality(t, a.Sub(a), vtime.Zero)

	// never minus anything is never
	test.ExpectEquality(t, vtime.Never.Sub(a), vtime.Never)
	test.ExpectEquality(t, a.Sub(vtime.Never), vtime.Zero)
}

func TestCompare(t *testing.T) {
	a := vtime.Time{Seconds: 1, Attoseconds: 5}
	b := vtime.Time{Seconds: 1, Attoseconds: 6}
	c := vtime.Time{Seconds: 2}

	test.ExpectEquality(t, a.Compare(b), -1)
	test.ExpectEquality(t, b.Compare(a), 1)
	test.ExpectEquality(t, a.Compare(a), 0)
	test.ExpectEquality(t, b.Compare(c), -1)
	test.ExpectEquality(t, c.Compare(vtime.Never), -1)
	test.ExpectEquality(t, vtime.Never.Compare(vtime.Never), 0)
	test.ExpectEquality(t, vtime.Zero.Compare(a), -1)

	test.ExpectSuccess(t, a.Before(b))
	test.ExpectSuccess(t, b.After(a))
	test.ExpectSuccess(t, a.Equal(a))
	test.ExpectEquality(t, c.Min(a), a)
	test.ExpectEquality(t, a.Min(c), a)
}

func TestPeriodicAccumulation(t *testing.T) {
	// adding a period repeatedly must not drift from the exact multiple
	p := vtime.FromHz(60)
	acc := vtime.Zero
	for range 600 {
		acc = acc.Add(p)
	}
	test.ExpectEquality(t, acc, p.Mul(600))
	test.ExpectEquality(t, acc.Seconds, int64(9))
}

func TestMulDiv(t *testing.T) {
	a := vtime.Time{Seconds: 3, Attoseconds: vtime.AttosecondsPerSecond / 2}
	test.ExpectEquality(t, a.Mul(2), vtime.FromSeconds(7))
	test.ExpectEquality(t, a.Mul(0), vtime.Zero)
	test.ExpectEquality(t, a.Div(7), vtime.Time{Attoseconds: vtime.AttosecondsPerSecond / 2})
	test.ExpectEquality(t, a.Div(0), vtime.Never)
	test.ExpectEquality(t, vtime.Never.Mul(2), vtime.Never)

	// multiplication by a large factor saturates
	test.ExpectEquality(t, vtime.FromSeconds(1<<40).Mul(1<<40), vtime.Never)
	test.ExpectEquality(t, vtime.FromAttoseconds(vtime.AttosecondsPerSecond-1).Mul(math.MaxUint64), vtime.Never)
}

func TestCycles(t *testing.T) {
	const clk = 1193182

	// one second of cycles is exactly one second
	test.ExpectEquality(t, vtime.FromCycles(clk, clk), vtime.FromSeconds(1))

	// conversion back to cycles is exact for whole cycles
	for _, c := range []uint64{0, 1, 76, 1000, clk - 1, clk * 3} {
		test.ExpectEquality(t, vtime.FromCycles(c, clk).Cycles(clk), c, c)
	}

	test.ExpectEquality(t, vtime.FromCycles(1, 0), vtime.Never)
	test.ExpectEquality(t, vtime.Never.Cycles(clk), uint64(math.MaxUint64))
}

func TestConstructors(t *testing.T) {
	test.ExpectEquality(t, vtime.FromHz(0), vtime.Never)
	test.ExpectEquality(t, vtime.FromHz(1), vtime.FromSeconds(1))
	test.ExpectEquality(t, vtime.FromHz(1000), vtime.FromDuration(time.Millisecond))
	test.ExpectEquality(t, vtime.FromDuration(-time.Second), vtime.Zero)
	test.ExpectEquality(t, vtime.FromSeconds(-1), vtime.Zero)
	test.ExpectEquality(t, vtime.FromAttoseconds(-1), vtime.Zero)
	test.ExpectEquality(t, vtime.FromAttoseconds(vtime.AttosecondsPerSecond+1), vtime.Time{Seconds: 1, Attoseconds: 1})
	test.ExpectEquality(t, vtime.FromSeconds(vtime.MaxSeconds), vtime.Never)
}

func TestFloat64(t *testing.T) {
	test.ExpectApproximate(t, vtime.FromDuration(1500*time.Millisecond).Float64(), 1.5, 0.000001)
	test.ExpectSuccess(t, math.IsInf(vtime.Never.Float64(), 1))
}

func TestParse(t *testing.T) {
	cases := []struct {
		s string
		v vtime.Time
	}{
		{"never", vtime.Never},
		{"NEVER", vtime.Never},
		{"60hz", vtime.FromHz(60)},
		{"1000as", vtime.FromAttoseconds(1000)},
		{"1.5ms", vtime.FromDuration(1500 * time.Microsecond)},
		{"100us", vtime.FromDuration(100 * time.Microsecond)},
		{"0", vtime.Zero},
		{"10", vtime.FromSeconds(10)},
		{"2.5", vtime.Time{Seconds: 2, Attoseconds: vtime.AttosecondsPerSecond / 2}},
		{"1.000000000000000001", vtime.Time{Seconds: 1, Attoseconds: 1}},
	}

	for _, c := range cases {
		v, err := vtime.Parse(c.s)
		if test.ExpectSuccess(t, err, c.s) {
			test.ExpectEquality(t, v, c.v, c.s)
		}
	}

	for _, s := range []string{"", "foo", "-1", "-1ms", "xhz", "1.0000000000000000001", "1.-5"} {
		_, err := vtime.Parse(s)
		test.ExpectFailure(t, err, s)
	}

	// string output can be parsed back to the same value
	v := vtime.FromCycles(12345, 3579545)
	p, err := vtime.Parse(v.String())
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, v)
}

func TestNormalise(t *testing.T) {
	// negative times are zero
	test.ExpectEquality(t, vtime.Time{Seconds: -1}.Normalise(), vtime.Zero)
	test.ExpectEquality(t, vtime.Time{Attoseconds: -1}.Normalise(), vtime.Zero)
	test.ExpectEquality(t, vtime.Time{Seconds: math.MinInt64, Attoseconds: -1}.Normalise(), vtime.Zero)
	test.ExpectEquality(t, vtime.Time{Seconds: -1}.IsZero(), true)

	// borrow from the seconds field
	test.ExpectEquality(t, vtime.Time{Seconds: 2, Attoseconds: -1}.Normalise(),
		vtime.Time{Seconds: 1, Attoseconds: vtime.AttosecondsPerSecond - 1})

	// carry into the seconds field
	test.ExpectEquality(t, vtime.Time{Seconds: 1, Attoseconds: 2*vtime.AttosecondsPerSecond + 5}.Normalise(),
		vtime.Time{Seconds: 3, Attoseconds: 5})
	test.ExpectEquality(t, vtime.Time{Seconds: vtime.MaxSeconds - 1, Attoseconds: vtime.AttosecondsPerSecond}.Normalise(), vtime.Never)
}

func TestNegativeOperands(t *testing.T) {
	ten := vtime.FromSeconds(10)
	neg := vtime.Time{Seconds: -1}

	// a negative duration is an empty duration and does not wrap to Never
	test.ExpectEquality(t, ten.Add(neg), ten)
	test.ExpectEquality(t, neg.Add(ten), ten)
	test.ExpectEquality(t, ten.Sub(neg), ten)
	test.ExpectEquality(t, neg.Mul(3), vtime.Zero)
	test.ExpectEquality(t, neg.Div(3), vtime.Zero)
	test.ExpectEquality(t, neg.Cycles(1000), uint64(0))
	test.ExpectEquality(t, neg.Before(vtime.Zero), false)

	// denormal attoseconds are carried
	d := vtime.Time{Attoseconds: vtime.AttosecondsPerSecond + 1}
	test.ExpectEquality(t, ten.Add(d), vtime.Time{Seconds: 11, Attoseconds: 1})
}
