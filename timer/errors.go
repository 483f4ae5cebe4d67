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

package timer

// Sentinal error patterns. All of them are fatal.
const (
	ArenaExhausted     = "timer: arena exhausted: all %d slots in use"
	InvalidHandle      = "timer: invalid handle: %v"
	InvariantViolation = "timer: invariant violation: %v"
)

// Sentinal error patterns returned by NewScheduler() and AttachState().
const (
	BadCapacity     = "timer: capacity must be positive (%d)"
	AlreadyAttached = "timer: scheduler already attached to a registrar"
)
