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

package hardware_test

import (
	"bytes"
	"testing"

	"github.com/jetsetilly/timekeeper/environment"
	"github.com/jetsetilly/timekeeper/hardware"
	"github.com/jetsetilly/timekeeper/hardware/govern"
	"github.com/jetsetilly/timekeeper/test"
	"github.com/jetsetilly/timekeeper/vtime"
)

func newMachine(t *testing.T) *hardware.Machine {
	t.Helper()
	env, err := environment.NewEnvironment(environment.MainEmulation, nil)
	test.DemandSuccess(t, err)
	env.Normalise()
	m, err := hardware.NewMachine(env)
	test.DemandSuccess(t, err)
	return m
}

func TestRunForFrameCount(t *testing.T) {
	m := newMachine(t)

	test.DemandSuccess(t, m.RunForFrameCount(60, nil))
	test.ExpectEquality(t, m.Screen.Frame, uint64(60))

	// one second of emulation
	test.ExpectEquality(t, m.Scheduler.Base(), vtime.FromHz(hardware.RefreshRate).Mul(60))
	test.ExpectApproximate(t, m.Main.Cycles, hardware.MainClock, 0.001)
	test.ExpectApproximate(t, m.Sound.Cycles, hardware.SoundClock, 0.001)

	// the interrupt for frame 60 has not been serviced yet
	test.ExpectEquality(t, m.Main.Interrupts, uint64(59))
	test.ExpectEquality(t, m.Beeper.Tones, uint64(3))
	test.ExpectEquality(t, m.Sound.Interrupts, uint64(3))
	test.ExpectEquality(t, m.Latch(), 2)

	// every note written to the latch ends the main CPU's timeslice
	test.ExpectEquality(t, m.Executor.Aborts >= 3, true)

	samples := m.Beeper.Drain()
	test.ExpectApproximate(t, len(samples), hardware.SampleRate, 0.001)

	test.ExpectSuccess(t, m.Scheduler.Validate())
}

func TestRunContinueCheck(t *testing.T) {
	m := newMachine(t)

	var steps int
	err := m.Run(func() (govern.State, error) {
		steps++
		if steps == 100 {
			return govern.Ending, nil
		}
		return govern.Running, nil
	})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, m.Executor.Slices, uint64(100))

	err = m.RunForFrameCount(100, func(frame int) (govern.State, error) {
		if frame == 5 {
			return govern.Ending, nil
		}
		return govern.Running, nil
	})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, m.Screen.Frame, uint64(5))
}

type snapshot struct {
	frame     uint64
	base      vtime.Time
	next      vtime.Time
	main      uint64
	sound     uint64
	tones     uint64
	latch     int
	scanline  int
	interrupt uint64
}

func take(m *hardware.Machine) snapshot {
	return snapshot{
		frame:     m.Screen.Frame,
		base:      m.Scheduler.Base(),
		next:      m.Scheduler.NextFire(),
		main:      m.Main.Cycles,
		sound:     m.Sound.Cycles,
		tones:     m.Beeper.Tones,
		latch:     m.Latch(),
		scanline:  m.Screen.Scanline,
		interrupt: m.Main.Interrupts,
	}
}

func TestSaveLoad(t *testing.T) {
	m := newMachine(t)

	test.DemandSuccess(t, m.RunForFrameCount(20, nil))

	var state bytes.Buffer
	test.DemandSuccess(t, m.Save(&state))
	saved := take(m)

	test.DemandSuccess(t, m.RunForFrameCount(40, nil))
	first := take(m)
	test.ExpectInequality(t, first, saved)

	test.DemandSuccess(t, m.Load(&state))
	restored := take(m)

	// the beeper's tone counter is not part of the state
	restored.tones = saved.tones
	test.ExpectEquality(t, restored, saved)
	test.ExpectSuccess(t, m.Scheduler.Validate())

	test.DemandSuccess(t, m.RunForFrameCount(40, nil))
	second := take(m)
	second.tones = first.tones
	test.ExpectEquality(t, second, first)
}
