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

package hardware

import (
	"fmt"
	"io"

	"github.com/jetsetilly/timekeeper/curated"
	"github.com/jetsetilly/timekeeper/environment"
	"github.com/jetsetilly/timekeeper/hardware/beeper"
	"github.com/jetsetilly/timekeeper/hardware/clocks"
	"github.com/jetsetilly/timekeeper/hardware/cpu"
	"github.com/jetsetilly/timekeeper/hardware/cpuexec"
	"github.com/jetsetilly/timekeeper/hardware/screen"
	"github.com/jetsetilly/timekeeper/savestate"
	"github.com/jetsetilly/timekeeper/timer"
	"github.com/jetsetilly/timekeeper/vtime"
)

// Clock speeds and geometry of the machine.
const (
	MainClock   = clocks.Main
	SoundClock  = clocks.Sound
	RefreshRate = clocks.Refresh
	Scanlines   = 262
	SampleRate  = clocks.SampleRate
)

// NoteLength is the duration of a note played by the sound CPU.
var NoteLength = vtime.FromAttoseconds(vtime.AttosecondsPerSecond / 8)

// the notes played by the demonstration, in Hz
var notes = []uint64{262, 294, 330, 349, 392, 440, 494, 523}

// the number of frames between notes
const framesPerNote = 15

// Machine is the demonstration machine.
type Machine struct {
	env *environment.Environment

	Scheduler *timer.Scheduler
	Executor  *cpuexec.Executor
	State     *savestate.Registry

	Main   *cpu.CPU
	Sound  *cpu.CPU
	Screen *screen.Screen
	Beeper *beeper.Beeper

	// the value written by the main CPU for the sound CPU
	latch int

	// the number of notes sent to the sound CPU
	sent int
}

// NewMachine is the preferred method of initialisation for the Machine type.
func NewMachine(env *environment.Environment) (*Machine, error) {
	sch, err := timer.NewScheduler(env)
	if err != nil {
		return nil, curated.Errorf("hardware: %v", err)
	}

	m := &Machine{
		env:       sch.Environment(),
		Scheduler: sch,
		State:     savestate.NewRegistry(sch.Environment()),
	}
	m.Executor = cpuexec.NewExecutor(m.env, sch)

	m.Main, err = cpu.NewCPU("main", MainClock, []cpu.Instruction{
		{Cycles: 2}, {Cycles: 3}, {Cycles: 4}, {Cycles: 2}, {Cycles: 6},
	})
	if err != nil {
		return nil, curated.Errorf("hardware: %v", err)
	}
	m.Main.OnInterrupt = m.vblank

	m.Sound, err = cpu.NewCPU("sound", SoundClock, []cpu.Instruction{
		{Cycles: 4}, {Cycles: 4}, {Cycles: 7},
	})
	if err != nil {
		return nil, curated.Errorf("hardware: %v", err)
	}
	m.Sound.OnInterrupt = m.playNote

	if err := m.Executor.AddDevice(m.Main); err != nil {
		return nil, curated.Errorf("hardware: %v", err)
	}
	if err := m.Executor.AddDevice(m.Sound); err != nil {
		return nil, curated.Errorf("hardware: %v", err)
	}

	m.Screen, err = screen.NewScreen(sch, m.Main, RefreshRate, Scanlines)
	if err != nil {
		return nil, curated.Errorf("hardware: %v", err)
	}

	m.Beeper, err = beeper.NewBeeper(sch, SampleRate)
	if err != nil {
		return nil, curated.Errorf("hardware: %v", err)
	}

	if err := m.attachState(); err != nil {
		return nil, curated.Errorf("hardware: %v", err)
	}

	return m, nil
}

func (m *Machine) attachState() error {
	if err := m.Scheduler.AttachState(m.State); err != nil {
		return err
	}
	if err := m.Executor.AttachState(m.State); err != nil {
		return err
	}
	if err := m.Main.AttachState(m.State); err != nil {
		return err
	}
	if err := m.Sound.AttachState(m.State); err != nil {
		return err
	}
	if err := m.Screen.AttachState(m.State); err != nil {
		return err
	}
	if err := m.Beeper.AttachState(m.State); err != nil {
		return err
	}
	if err := m.State.Register("machine/latch", &m.latch); err != nil {
		return err
	}
	return m.State.Register("machine/sent", &m.sent)
}

func (m *Machine) String() string {
	return fmt.Sprintf("%s %s beeper=%s", m.Scheduler, m.Screen, m.Beeper)
}

// vblank is the interrupt handler of the main CPU.
func (m *Machine) vblank() {
	if m.Screen.Frame%framesPerNote != 0 {
		return
	}

	note := m.sent % len(notes)
	m.sent++

	// the latch is written at the local time of the main CPU. arming the timer
	// ends the main CPU's timeslice so the sound CPU does not run past it
	m.Scheduler.Set(vtime.Zero, note, m.writeLatch, "machine: sound latch")
}

func (m *Machine) writeLatch(note int) {
	m.latch = note
	m.Sound.SetIRQ(true)
}

// playNote is the interrupt handler of the sound CPU.
func (m *Machine) playNote() {
	m.Beeper.Tone(notes[m.latch], NoteLength)
}

// Latch returns the value most recently written to the sound latch.
func (m *Machine) Latch() int {
	return m.latch
}

// Save the state of the machine.
func (m *Machine) Save(w io.Writer) error {
	return m.State.Save(w)
}

// Load a state previously saved with Save().
func (m *Machine) Load(r io.Reader) error {
	_, err := m.State.Load(r)
	return err
}
