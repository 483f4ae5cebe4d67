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

// Package cpu is a processor model that counts cycles rather than decoding
// instructions. A program is a list of instructions, each with a cost in
// cycles and an optional operation that is performed once the instruction
// has completed. The program repeats forever.
//
// The CPU has an interrupt request line. The request is serviced at the next
// instruction boundary and costs a fixed number of cycles. The interrupt
// handler, if there is one, is called once the interrupt has been serviced.
//
// The CPU implements the cpuexec.Device interface.
//
//	mc := cpu.NewCPU("main", 1000000, []cpu.Instruction{
//		{Cycles: 2},
//		{Cycles: 3, Op: func() { beep() }},
//	})
//
// The Op function is called with the CPU still executing, so any timer that
// is armed inside the function is armed relative to the local time of the
// CPU.
package cpu
