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

package cpu

import (
	"fmt"

	"github.com/jetsetilly/timekeeper/curated"
	"github.com/jetsetilly/timekeeper/hardware/cpuexec"
	"github.com/jetsetilly/timekeeper/timer"
)

// Sentinal error patterns.
const (
	EmptyProgram = "cpu: %s: empty program"
	NoCycles     = "cpu: %s: instruction %d has no cycles"
)

// Instruction is a single step of a program.
type Instruction struct {
	Cycles uint64

	// called once the cycles have been consumed. may be nil
	Op func()
}

// IRQCycles is the cost of servicing an interrupt.
const IRQCycles = 7

// CPU is a cycle counting processor.
type CPU struct {
	label   string
	clock   uint64
	program []Instruction

	// the index of the next instruction in the program
	PC int

	// the interrupt request line
	IRQ bool

	// called after an interrupt has been serviced. may be nil
	OnInterrupt func()

	// statistics
	Instructions uint64
	Cycles       uint64
	Interrupts   uint64
}

// NewCPU is the preferred method of initialisation for the CPU type.
func NewCPU(label string, clock uint64, program []Instruction) (*CPU, error) {
	if len(program) == 0 {
		return nil, curated.Errorf(EmptyProgram, label)
	}
	for i, in := range program {
		if in.Cycles == 0 {
			return nil, curated.Errorf(NoCycles, label, i)
		}
	}

	return &CPU{
		label:   label,
		clock:   clock,
		program: program,
	}, nil
}

func (mc *CPU) String() string {
	return fmt.Sprintf("%s: PC=%d IRQ=%v instructions=%d cycles=%d interrupts=%d",
		mc.label, mc.PC, mc.IRQ, mc.Instructions, mc.Cycles, mc.Interrupts)
}

// Label implements the cpuexec.Device interface.
func (mc *CPU) Label() string {
	return mc.label
}

// Clock implements the cpuexec.Device interface.
func (mc *CPU) Clock() uint64 {
	return mc.clock
}

// SetIRQ sets the state of the interrupt request line.
func (mc *CPU) SetIRQ(irq bool) {
	mc.IRQ = irq
}

// Execute implements the cpuexec.Device interface.
func (mc *CPU) Execute(ts *cpuexec.Timeslice) {
	for ts.Remaining() > 0 {
		if mc.IRQ {
			mc.IRQ = false
			mc.Interrupts++
			mc.Cycles += IRQCycles
			ts.Consume(IRQCycles)
			if mc.OnInterrupt != nil {
				mc.OnInterrupt()
			}
			continue
		}

		in := mc.program[mc.PC]
		mc.PC++
		if mc.PC >= len(mc.program) {
			mc.PC = 0
		}

		mc.Instructions++
		mc.Cycles += in.Cycles
		ts.Consume(in.Cycles)

		if in.Op != nil {
			in.Op()
		}
	}
}

// AttachState registers the state of the CPU.
func (mc *CPU) AttachState(reg timer.Registrar) error {
	p := fmt.Sprintf("cpu/%s/", mc.label)
	if err := reg.Register(p+"pc", &mc.PC); err != nil {
		return err
	}
	if err := reg.Register(p+"irq", &mc.IRQ); err != nil {
		return err
	}
	if err := reg.Register(p+"instructions", &mc.Instructions); err != nil {
		return err
	}
	if err := reg.Register(p+"cycles", &mc.Cycles); err != nil {
		return err
	}
	return reg.Register(p+"interrupts", &mc.Interrupts)
}
