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

// Package cpuexec runs the emulated CPUs of a machine in timeslices.
//
// A timeslice ends at the time of the next timer in the scheduler. Each CPU
// in turn is asked to run for the number of its own clock cycles needed to
// reach that time. When every CPU has run, the scheduler is advanced to the
// end of the timeslice and the due timers fire.
//
// A CPU may be asked to end its timeslice early. This happens when a timer is
// adjusted, by the executing CPU, to fire before the end of the timeslice.
// The end of the timeslice is then pulled back to the local time of that CPU
// and any CPU that has yet to run only runs as far as that time.
//
// The Executor implements the timer.Executor interface and must be plumbed
// into the scheduler, which NewExecutor() does automatically.
package cpuexec
