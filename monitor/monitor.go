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


package monitor

import (
	"fmt"
	"io"
	"strings"

	"github.com/jetsetilly/timekeeper/curated"
	"github.com/jetsetilly/timekeeper/hardware"
	"github.com/jetsetilly/timekeeper/logger"
	"github.com/jetsetilly/timekeeper/timer"
)

// Sentinal error patterns.
const (
	UnknownCommand = "monitor: unknown command: %s"
	BadArguments   = "monitor: %s: %v"
	UnknownTimer   = "monitor: no timer named %s"
	Halted         = "monitor: machine halted: %v"
)

// Monitor is the command interpreter.
type Monitor struct {
	m   *hardware.Machine
	out io.Writer

	// named timers. handles may be stale if the timer was temporary and has
	// fired
	timers map[string]timer.Handle

	// number of times a named timer has fired
	fired map[string]int

	// the most recent in-memory snapshot
	snapshot []byte

	// keypress watcher used by the run command. nil means run is not
	// available and runs for a fixed number of frames instead
	keys keypress

	quit bool
}

// NewMonitor is the preferred method of initialisation for the Monitor type.
func NewMonitor(m *hardware.Machine, out io.Writer) *Monitor {
	return &Monitor{
		m:      m,
		out:    out,
		timers: make(map[string]timer.Handle),
		fired:  make(map[string]int),
	}
}

// Quit returns true if the quit command has been executed.
func (mon *Monitor) Quit() bool {
	return mon.quit
}

// Fired returns the number of times the named timer has fired.
func (mon *Monitor) Fired(name string) int {
	return mon.fired[name]
}

// Handle returns the handle of the named timer.
func (mon *Monitor) Handle(name string) (timer.Handle, bool) {
	h, ok := mon.timers[name]
	return h, ok
}

// Execute a single line of input.
func (mon *Monitor) Execute(input string) (rerr error) {
	if err := mon.m.Scheduler.Halted(); err != nil {
		return curated.Errorf(Halted, err)
	}

	tokens := strings.Fields(input)
	if len(tokens) == 0 {
		return nil
	}

	cmd, ok := commands[strings.ToLower(tokens[0])]
	if !ok {
		return curated.Errorf(UnknownCommand, tokens[0])
	}

	if len(tokens)-1 < cmd.min || (cmd.max >= 0 && len(tokens)-1 > cmd.max) {
		return curated.Errorf(BadArguments, tokens[0], fmt.Sprintf("usage: %s", cmd.usage))
	}

	// scheduler errors are fatal and panic. the scheduler remains halted
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok && curated.IsAny(err) {
				rerr = curated.Errorf(Halted, err)
				return
			}
			panic(r)
		}
	}()

	err := cmd.f(mon, tokens[1:])
	if err != nil {
		logger.Logf(logger.Allow, "monitor", "%s: %v", tokens[0], err)
	}
	return err
}

// callback for named timers.
func (mon *Monitor) callback(name string) timer.Callback {
	return func(param int) {
		mon.fired[name]++
		fmt.Fprintf(mon.out, "%s fired (param %d) at %s\n", name, param, mon.m.Scheduler.Now())
	}
}

func (mon *Monitor) lookup(name string) (timer.Handle, error) {
	h, ok := mon.timers[name]
	if !ok || !mon.m.Scheduler.Valid(h) {
		return timer.NilHandle, curated.Errorf(UnknownTimer, name)
	}
	return h, nil
}

// name of the timer with the handle. the tag is used if the timer was not
// allocated by the monitor.
func (mon *Monitor) nameOf(info timer.Info) string {
	for k, h := range mon.timers {
		if h == info.Handle {
			return k
		}
	}
	return info.Tag
}
