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

// Package vtime implements the fixed-point virtual time type used throughout
// the emulation. Virtual time is the emulated elapsed time, independent of
// wall-clock time.
//
// A Time value is a whole number of seconds and a fractional part measured in
// attoseconds (10^-18 seconds). No floating point is involved in any of the
// arithmetic and so there is no drift when a period is added repeatedly.
//
// The same type is used for points in time and for durations. Two sentinel
// values are provided: Zero and Never. Never is the largest representable
// time and is used for timers that should not fire.
//
// Arithmetic never wraps. Results that would exceed the representable range
// saturate to Never, and any operation with Never as an input produces Never.
// Subtraction that would produce a negative duration is clamped to Zero.
package vtime
