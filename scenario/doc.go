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

// Package scenario runs scripted sequences of timer operations against a
// scheduler and checks the results. Scenarios are written in YAML:
//
//	name: periodic timer
//	capacity: 8
//	timers:
//	  - name: T3
//	    duration: 10
//	    period: 10
//	steps:
//	  - advance: 105
//	    expect:
//	      fires: {T3: 10}
//	      next: {T3: 110}
//
// Times are in any form accepted by vtime.Parse(). A plain number is a number
// of seconds.
//
// Timers are allocated in the order they are listed. A timer with a duration
// is armed immediately after allocation, again in the order listed. A timer
// can be given an action to perform on itself when it fires, which is used to
// exercise timers that free or adjust themselves from inside their callback.
//
// Each step performs one operation and then checks the expectations of the
// step. Fire counts and fire order are for that step only.
package scenario
