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


// Package clocks contains the clock rates of the devices in the
// demonstration machine, in Hz.
package clocks

// Clock rates of the two CPUs. The sound CPU runs at the NTSC colour
// subcarrier frequency and the main CPU at half of that.
const (
	Main  = 1789772
	Sound = 3579545
)

// Rates of the timer driven peripherals.
const (
	Refresh    = 60
	SampleRate = 22050
)
