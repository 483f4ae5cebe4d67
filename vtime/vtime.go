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

package vtime

import (
	"fmt"
	"math"
	"math/bits"
	"time"
)

// AttosecondsPerSecond is the resolution of the fractional part of a Time.
const AttosecondsPerSecond int64 = 1_000_000_000_000_000_000

// AttosecondsPerNanosecond is used when converting from time.Duration.
const AttosecondsPerNanosecond int64 = 1_000_000_000

// MaxSeconds is the value of the seconds field for the Never sentinel. Any
// time with this many seconds or more is Never.
const MaxSeconds int64 = math.MaxInt64

// Time is a point in virtual time or a duration of virtual time. The zero
// value is the start of time.
type Time struct {
	Seconds     int64 `cbor:"s" yaml:"seconds"`
	Attoseconds int64 `cbor:"as" yaml:"attoseconds"`
}

// Zero is the start of time and the empty duration.
var Zero = Time{}

// Never is the largest representable time. Timers that are due at Never
// will never fire.
var Never = Time{Seconds: MaxSeconds, Attoseconds: AttosecondsPerSecond - 1}

// FromSeconds creates a Time from a whole number of seconds. Negative values
// are clamped to Zero.
func FromSeconds(s int64) Time {
	if s < 0 {
		return Zero
	}
	if s == MaxSeconds {
		return Never
	}
	return Time{Seconds: s}
}

// FromAttoseconds creates a Time from a number of attoseconds. Negative
// values are clamped to Zero.
func FromAttoseconds(as int64) Time {
	if as < 0 {
		return Zero
	}
	return Time{
		Seconds:     as / AttosecondsPerSecond,
		Attoseconds: as % AttosecondsPerSecond,
	}
}

// FromDuration creates a Time from a time.Duration. Negative durations are
// clamped to Zero.
func FromDuration(d time.Duration) Time {
	if d < 0 {
		return Zero
	}
	ns := int64(d)
	return Time{
		Seconds:     ns / int64(time.Second),
		Attoseconds: (ns % int64(time.Second)) * AttosecondsPerNanosecond,
	}
}

// FromHz returns the period of the specified frequency. A frequency of zero
// has an infinite period and so returns Never.
func FromHz(hz uint64) Time {
	if hz == 0 {
		return Never
	}
	if hz == 1 {
		return Time{Seconds: 1}
	}
	return Time{Attoseconds: AttosecondsPerSecond / int64(hz)}
}

// FromCycles returns the time taken by a number of cycles of a clock running
// at the specified frequency. The fractional part is rounded up to the next
// attosecond so that Cycles() of the result returns the same number of
// cycles. Unlike multiplying the period returned by FromHz(), the rounding
// error does not accumulate with the number of cycles.
func FromCycles(cycles uint64, hz uint64) Time {
	if hz == 0 {
		return Never
	}

	secs := cycles / hz
	rem := cycles % hz
	if secs >= uint64(MaxSeconds) {
		return Never
	}

	// rem < hz so the 128 bit quotient fits in 64 bits
	hi, lo := bits.Mul64(rem, uint64(AttosecondsPerSecond))
	as, r := bits.Div64(hi, lo, hz)
	if r != 0 {
		as++
	}

	return Time{Seconds: int64(secs), Attoseconds: int64(as)}
}

// Cycles returns the number of whole cycles of a clock running at the
// specified frequency that fit into the time. Saturates at math.MaxUint64.
func (t Time) Cycles(hz uint64) uint64 {
	t = t.Normalise()
	if t.IsNever() {
		return math.MaxUint64
	}

	hi, whole := bits.Mul64(uint64(t.Seconds), hz)
	if hi != 0 {
		return math.MaxUint64
	}

	// attoseconds < 1e18 so the 128 bit quotient fits in 64 bits
	hi, lo := bits.Mul64(uint64(t.Attoseconds), hz)
	frac, _ := bits.Div64(hi, lo, uint64(AttosecondsPerSecond))

	n, carry := bits.Add64(whole, frac, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return n
}

// Normalise returns the time with the attoseconds field in the range zero to
// AttosecondsPerSecond-1. Negative times are Zero and anything at or beyond
// MaxSeconds is Never. The fields of a Time are exported so every arithmetic
// function normalises its operands first.
func (t Time) Normalise() Time {
	if t.IsNever() {
		return Never
	}

	s := t.Seconds
	q := t.Attoseconds / AttosecondsPerSecond
	as := t.Attoseconds % AttosecondsPerSecond
	if as < 0 {
		as += AttosecondsPerSecond
		q--
	}

	switch {
	case q > 0 && s > MaxSeconds-q:
		return Never
	case q < 0 && s < math.MinInt64-q:
		return Zero
	}
	s += q

	if s < 0 {
		return Zero
	}
	if s >= MaxSeconds {
		return Never
	}

	return Time{Seconds: s, Attoseconds: as}
}

// IsNever returns true if the time is the Never sentinel.
func (t Time) IsNever() bool {
	return t.Seconds >= MaxSeconds
}

// IsZero returns true if the time is Zero.
func (t Time) IsZero() bool {
	t = t.Normalise()
	return t.Seconds == 0 && t.Attoseconds == 0
}

// Add returns the sum of two times. Saturates at Never.
func (t Time) Add(u Time) Time {
	t = t.Normalise()
	u = u.Normalise()
	if t.IsNever() || u.IsNever() {
		return Never
	}

	as := t.Attoseconds + u.Attoseconds
	var carry int64
	if as >= AttosecondsPerSecond {
		as -= AttosecondsPerSecond
		carry = 1
	}

	// both operands are normalised so the seconds fields are not negative
	if t.Seconds >= MaxSeconds-u.Seconds-carry {
		return Never
	}
	s := t.Seconds + u.Seconds + carry

	return Time{Seconds: s, Attoseconds: as}
}

// Sub returns the difference between two times. If u is later than t the
// result is Zero. If t is Never the result is Never.
func (t Time) Sub(u Time) Time {
	t = t.Normalise()
	u = u.Normalise()
	if t.IsNever() {
		return Never
	}
	if t.Compare(u) <= 0 {
		return Zero
	}

	s := t.Seconds - u.Seconds
	as := t.Attoseconds - u.Attoseconds
	if as < 0 {
		as += AttosecondsPerSecond
		s--
	}

	return Time{Seconds: s, Attoseconds: as}
}

// Mul returns the time multiplied by an integer factor. Saturates at Never.
func (t Time) Mul(factor uint64) Time {
	t = t.Normalise()
	if t.IsNever() {
		return Never
	}
	if factor == 0 {
		return Zero
	}

	// fractional part. attoseconds < 1e18 so the quotient fits in 64 bits
	hi, lo := bits.Mul64(uint64(t.Attoseconds), factor)
	carry, as := bits.Div64(hi, lo, uint64(AttosecondsPerSecond))

	// whole seconds
	hi, s := bits.Mul64(uint64(t.Seconds), factor)
	if hi != 0 {
		return Never
	}
	s, c := bits.Add64(s, carry, 0)
	if c != 0 || s >= uint64(MaxSeconds) {
		return Never
	}

	return Time{Seconds: int64(s), Attoseconds: int64(as)}
}

// Div returns the time divided by an integer divisor. The result is
// truncated to the nearest attosecond. Division by zero returns Never.
func (t Time) Div(divisor uint64) Time {
	t = t.Normalise()
	if t.IsNever() || divisor == 0 {
		return Never
	}

	s := uint64(t.Seconds) / divisor
	rem := uint64(t.Seconds) % divisor

	// rem < divisor so (rem * 1e18 + attoseconds) / divisor < 1e18
	hi, lo := bits.Mul64(rem, uint64(AttosecondsPerSecond))
	lo, c := bits.Add64(lo, uint64(t.Attoseconds), 0)
	hi += c
	as, _ := bits.Div64(hi, lo, divisor)

	return Time{Seconds: int64(s), Attoseconds: int64(as)}
}

// Compare returns -1 if t is earlier than u, +1 if t is later than u, and
// zero if they are the same.
func (t Time) Compare(u Time) int {
	t = t.Normalise()
	u = u.Normalise()

	// all representations of Never compare as equal
	tn, un := t.IsNever(), u.IsNever()
	switch {
	case tn && un:
		return 0
	case tn:
		return 1
	case un:
		return -1
	}

	switch {
	case t.Seconds < u.Seconds:
		return -1
	case t.Seconds > u.Seconds:
		return 1
	case t.Attoseconds < u.Attoseconds:
		return -1
	case t.Attoseconds > u.Attoseconds:
		return 1
	}
	return 0
}

// Before returns true if t is strictly earlier than u.
func (t Time) Before(u Time) bool {
	return t.Compare(u) < 0
}

// After returns true if t is strictly later than u.
func (t Time) After(u Time) bool {
	return t.Compare(u) > 0
}

// Equal returns true if t and u are the same time.
func (t Time) Equal(u Time) bool {
	return t.Compare(u) == 0
}

// Min returns the earlier of t and u.
func (t Time) Min(u Time) Time {
	if u.Before(t) {
		return u
	}
	return t
}

// Float64 returns the time in seconds as a floating point number. The
// conversion is lossy and the result should only be used for diagnostics.
func (t Time) Float64() float64 {
	if t.IsNever() {
		return math.Inf(1)
	}
	return float64(t.Seconds) + float64(t.Attoseconds)/float64(AttosecondsPerSecond)
}

// String returns the time in seconds with the full 18 digits of the
// fractional part.
func (t Time) String() string {
	if t.IsNever() {
		return "never"
	}
	return fmt.Sprintf("%d.%018d", t.Seconds, t.Attoseconds)
}
