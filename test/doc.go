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

// Package test contains helper functions to remove common boilerplate to make
// testing easier.
//
// The ExpectEquality() family of functions report a failure with t.Errorf()
// and allow the test to continue. The Demand*() functions report with
// t.Fatalf() and stop the test immediately.
//
// Optional tags can be supplied to each function. Tags are prepended to the
// failure message and help to identify which of a series of similar checks
// failed, for example the iteration count of a loop.
//
// The package also contains io.Writer implementations that are useful for
// capturing output in tests.
package test
