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


package monitor_test

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/timekeeper/curated"
	"github.com/jetsetilly/timekeeper/environment"
	"github.com/jetsetilly/timekeeper/hardware"
	"github.com/jetsetilly/timekeeper/monitor"
	"github.com/jetsetilly/timekeeper/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMonitor(t *testing.T) (*monitor.Monitor, *hardware.Machine, *bytes.Buffer) {
	t.Helper()

	env, err := environment.NewEnvironment(environment.MainEmulation, nil)
	require.NoError(t, err)
	env.Normalise()
	require.NoError(t, env.Prefs.Validate.Set(true))
	require.NoError(t, env.Prefs.DumpOnFatal.Set(false))

	m, err := hardware.NewMachine(env)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	return monitor.NewMonitor(m, out), m, out
}

func TestUnknownCommand(t *testing.T) {
	mon, _, _ := newMonitor(t)
	err := mon.Execute("frobnicate")
	assert.True(t, curated.Is(err, monitor.UnknownCommand))
	assert.NoError(t, mon.Execute("   "))
}

func TestArgumentCount(t *testing.T) {
	mon, _, _ := newMonitor(t)
	assert.True(t, curated.Is(mon.Execute("set"), monitor.BadArguments))
	assert.True(t, curated.Is(mon.Execute("free a b"), monitor.BadArguments))
	assert.True(t, curated.Is(mon.Execute("set a soon"), monitor.BadArguments))
}

func TestSetFires(t *testing.T) {
	mon, m, out := newMonitor(t)

	require.NoError(t, mon.Execute("set bell 1ms 7"))
	h, ok := mon.Handle("bell")
	require.True(t, ok)
	assert.True(t, m.Scheduler.Valid(h))

	require.NoError(t, mon.Execute("advance 2ms"))
	assert.Equal(t, 1, mon.Fired("bell"))
	assert.Contains(t, out.String(), "bell fired (param 7)")

	// temporary timers free themselves
	assert.False(t, m.Scheduler.Valid(h))
	assert.True(t, curated.Is(mon.Execute("free bell"), monitor.UnknownTimer))

	// and the name can be used again
	assert.NoError(t, mon.Execute("set bell 1ms"))
}

func TestPulseAndAdjust(t *testing.T) {
	mon, _, _ := newMonitor(t)

	require.NoError(t, mon.Execute("pulse tick 1ms"))
	assert.True(t, curated.Is(mon.Execute("pulse tick 1ms"), monitor.BadArguments))

	require.NoError(t, mon.Execute("advance 10ms"))
	test.ExpectApproximate(t, mon.Fired("tick"), 10, 0.1)

	require.NoError(t, mon.Execute("adjust tick 5ms 5ms"))
	before := mon.Fired("tick")
	require.NoError(t, mon.Execute("advance 10ms"))
	assert.Equal(t, before+2, mon.Fired("tick"))

	require.NoError(t, mon.Execute("disable tick"))
	before = mon.Fired("tick")
	require.NoError(t, mon.Execute("advance 10ms"))
	assert.Equal(t, before, mon.Fired("tick"))

	require.NoError(t, mon.Execute("free tick"))
	_, ok := mon.Handle("tick")
	assert.False(t, ok)
}

func TestAllocIsDisabled(t *testing.T) {
	mon, m, out := newMonitor(t)

	require.NoError(t, mon.Execute("alloc idle 3"))
	require.NoError(t, mon.Execute("advance 10ms"))
	assert.Equal(t, 0, mon.Fired("idle"))

	out.Reset()
	require.NoError(t, mon.Execute("enable idle"))
	assert.Equal(t, "idle was disabled\n", out.String())

	h, _ := mon.Handle("idle")
	assert.Equal(t, 3, m.Scheduler.Parameter(h))
}

func TestListing(t *testing.T) {
	mon, _, out := newMonitor(t)

	require.NoError(t, mon.Execute("set bell 1s"))
	out.Reset()
	require.NoError(t, mon.Execute("timers"))
	assert.True(t, strings.HasPrefix(out.String(), "name"))
	assert.Contains(t, out.String(), "bell")

	out.Reset()
	require.NoError(t, mon.Execute("dump"))
	assert.Contains(t, out.String(), "active")

	out.Reset()
	require.NoError(t, mon.Execute("help"))
	assert.Contains(t, out.String(), "advance DURATION")

	fn := filepath.Join(t.TempDir(), "timers.dot")
	require.NoError(t, mon.Execute("graph "+fn))
}

func TestSaveLoad(t *testing.T) {
	mon, m, _ := newMonitor(t)

	assert.True(t, curated.Is(mon.Execute("load"), monitor.BadArguments))

	require.NoError(t, mon.Execute("pulse tick 1ms"))
	require.NoError(t, mon.Execute("frames 2"))
	require.NoError(t, mon.Execute("save"))
	now := m.Scheduler.Now()
	frame := m.Screen.Frame

	require.NoError(t, mon.Execute("frames 3"))
	require.NoError(t, mon.Execute("load"))
	assert.Equal(t, now, m.Scheduler.Now())
	assert.Equal(t, frame, m.Screen.Frame)

	fn := filepath.Join(t.TempDir(), "state")
	require.NoError(t, mon.Execute("save "+fn))
	require.NoError(t, mon.Execute("frames 1"))
	require.NoError(t, mon.Execute("load "+fn))
	assert.Equal(t, frame, m.Screen.Frame)
}

func TestRunWithoutTerminal(t *testing.T) {
	mon, m, _ := newMonitor(t)
	require.NoError(t, mon.Execute("run"))
	assert.Equal(t, uint64(60), m.Screen.Frame)
}

func TestReadline(t *testing.T) {
	mon, m, out := newMonitor(t)

	in := io.NopCloser(strings.NewReader("set bell 1ms\nstep 2\nadvance 5ms\nquit\nframes 10\n"))
	require.NoError(t, mon.Run(in, ""))
	assert.True(t, mon.Quit())
	assert.Equal(t, 1, mon.Fired("bell"))

	// commands after quit are not executed
	assert.Equal(t, uint64(0), m.Screen.Frame)
	assert.Contains(t, out.String(), "bell fired")
}

func TestHaltedOnExhaustion(t *testing.T) {
	env, err := environment.NewEnvironment(environment.MainEmulation, nil)
	require.NoError(t, err)
	env.Normalise()
	require.NoError(t, env.Prefs.DumpOnFatal.Set(false))

	m, err := hardware.NewMachine(env)
	require.NoError(t, err)

	mon := monitor.NewMonitor(m, io.Discard)
	for i := m.Scheduler.FreeCount(); i > 0; i-- {
		require.NoError(t, mon.Execute("pulse t"+strings.Repeat("x", i)+" 1s"))
	}

	err = mon.Execute("set bell 1ms")
	assert.True(t, curated.Is(err, monitor.Halted))
	assert.Error(t, m.Scheduler.Halted())

	// the machine can not be used again
	assert.True(t, curated.Is(mon.Execute("next"), monitor.Halted))
}
