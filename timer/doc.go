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

// Package timer implements the scheduler that keeps every part of an emulated
// machine synchronised in virtual time.
//
// A Scheduler owns a fixed number of timer slots. A timer is allocated with
// Allocate() and armed with Adjust(), Reset() or Enable(). Armed timers are
// kept in a list sorted by the time they next fire. Timers that fire at the
// same time are kept in the order they were inserted into the list and fire
// in that order.
//
// Time is moved forward with AdvanceTo(). Every timer due at or before the
// new time is fired in order. Periodic timers are then rescheduled, one-shot
// timers are disabled and temporary timers are freed. A callback may call any
// function of the Scheduler, including functions on the timer that is
// firing. When that happens the scheduler will not reschedule or free the
// timer after the callback returns.
//
// The current time depends on context. Inside a callback the time is the
// time the timer was due. While a CPU is executing a timeslice the time is
// the local time of that CPU. Otherwise it is the time most recently passed to
// AdvanceTo(). The strategy can be replaced with SetTimeSource().
//
// Errors in the scheduler's bookkeeping are fatal. The timer table is written
// to the log and the scheduler panics with a curated error. Every subsequent
// call to the scheduler panics with the same error. A handle to a freed timer
// is detected and is also fatal.
package timer
