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

// Package resources contains functions to prepare paths for Timekeeper
// resources, for example the preferences file.
//
// Resources are stored in the "timekeeper" directory of the user's
// configuration directory, as returned by os.UserConfigDir(). If a directory
// named ".timekeeper" exists in the current working directory then that is
// used instead. This is useful for portable installations and development.
package resources
