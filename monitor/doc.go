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


// Package monitor is an interactive command line for the demonstration
// machine. Timers can be allocated, adjusted and freed by name and the
// machine can be stepped, run for a period of virtual time or run until a
// key is pressed.
//
// Commands are given to Execute() one line at a time. The Run() function
// reads lines with the readline package and is what the MONITOR mode of the
// timekeeper command uses. Named timers print a line to the output when they
// fire.
//
// A fatal error in the scheduler halts it. The monitor recovers the panic
// and reports the error but the machine cannot be used afterwards.
package monitor
