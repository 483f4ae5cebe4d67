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

// Package hardware is the base package for the demonstration machine. The
// machine has two CPUs running at different clock speeds, a screen that
// interrupts the main CPU at the start of every frame and a beeper that is
// controlled by the sound CPU.
//
// The main CPU passes a note to the sound CPU through a latch. The latch is
// written by a zero length timer so that the sound CPU sees the new value at
// the correct time, even though the main CPU runs ahead of the sound CPU in
// each timeslice. The sound CPU's interrupt handler starts the note on the
// beeper.
//
// The machine state can be saved and loaded with the Save() and Load()
// functions.
package hardware
