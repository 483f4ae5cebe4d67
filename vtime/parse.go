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
	"strconv"
	"strings"
	"time"

	"github.com/jetsetilly/timekeeper/curated"
)

// Sentinal error returned by Parse().
const ParseError = "vtime: cannot parse %q: %v"

// Parse converts a string to a Time. The following forms are accepted:
//
//	never        the Never sentinel
//	60hz         the period of a frequency
//	1000as       a number of attoseconds
//	1.5ms        any string accepted by time.ParseDuration()
//	2.000000001  decimal seconds with up to 18 fractional digits
//
// The last form is the same as that produced by Time.String() and so values
// can be round-tripped without loss.
func Parse(s string) (Time, error) {
	s = strings.TrimSpace(s)
	l := strings.ToLower(s)

	switch {
	case l == "never":
		return Never, nil

	case strings.HasSuffix(l, "hz"):
		hz, err := strconv.ParseUint(strings.TrimSuffix(l, "hz"), 10, 64)
		if err != nil {
			return Zero, curated.Errorf(ParseError, s, err)
		}
		return FromHz(hz), nil

	case strings.HasSuffix(l, "as"):
		as, err := strconv.ParseInt(strings.TrimSuffix(l, "as"), 10, 64)
		if err != nil {
			return Zero, curated.Errorf(ParseError, s, err)
		}
		if as < 0 {
			return Zero, curated.Errorf(ParseError, s, "negative time")
		}
		return FromAttoseconds(as), nil
	}

	if d, err := time.ParseDuration(l); err == nil {
		if d < 0 {
			return Zero, curated.Errorf(ParseError, s, "negative time")
		}
		return FromDuration(d), nil
	}

	return parseDecimal(s)
}

func parseDecimal(s string) (Time, error) {
	whole, frac, _ := strings.Cut(s, ".")

	secs, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return Zero, curated.Errorf(ParseError, s, err)
	}
	if secs < 0 {
		return Zero, curated.Errorf(ParseError, s, "negative time")
	}

	if len(frac) > 18 {
		return Zero, curated.Errorf(ParseError, s, "too many fractional digits")
	}

	var as int64
	if frac != "" {
		as, err = strconv.ParseInt(frac+strings.Repeat("0", 18-len(frac)), 10, 64)
		if err != nil {
			return Zero, curated.Errorf(ParseError, s, err)
		}
		if as < 0 {
			return Zero, curated.Errorf(ParseError, s, "negative time")
		}
	}

	return FromSeconds(secs).Add(Time{Attoseconds: as}), nil
}
