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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. This is similar to
// the Errorf() function in the fmt package. It takes a formatting pattern,
// placeholder values and returns an error.
//
// The pattern is what identifies a curated error. Packages that raise errors
// that callers may want to react to export the pattern as a const string.
// For example, the timer package exports the ArenaExhausted pattern:
//
//	err := curated.Errorf(timer.ArenaExhausted, capacity)
//
//	if curated.Is(err, timer.ArenaExhausted) {
//		fmt.Println("out of timers")
//	}
//
// The Has() function is similar but checks if a pattern occurs somewhere in
// the error chain.
//
//	e := curated.Errorf(timer.ArenaExhausted, 256)
//	f := curated.Errorf("machine: %v", e)
//
//	curated.Has(f, timer.ArenaExhausted) // true
//	curated.Is(f, timer.ArenaExhausted)  // false
//
// The IsAny() function answers whether the error was created by
// curated.Errorf(). Put another way, it returns true if the error is 'curated'
// and false if the error is 'uncurated'. We can think of the difference as
// being 'expected' and 'unexpected' errors.
//
// The Error() function implementation for curated errors ensures that the
// error chain is normalised. Specifically, that the chain does not contain
// duplicate adjacent parts. In practice this means that a function does not
// need to know whether the error it is wrapping already carries the same
// prefix:
//
//	func A() error {
//		if err := B(); err != nil {
//			return curated.Errorf("savestate: %v", err)
//		}
//		return nil
//	}
//
//	func B() error {
//		return curated.Errorf("savestate: %v", "unknown format")
//	}
//
// The message returned by A() will be "savestate: unknown format" and not
// "savestate: savestate: unknown format".
//
// Chains are thought of as being composed of parts separated by the
// sub-string ": " as suggested on p239 of "The Go Programming Language"
// (Donovan, Kernighan).
package curated
