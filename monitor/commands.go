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
	"bytes"
	"fmt"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/jetsetilly/timekeeper/curated"
	"github.com/jetsetilly/timekeeper/hardware/govern"
	"github.com/jetsetilly/timekeeper/logger"
	"github.com/jetsetilly/timekeeper/timer"
	"github.com/jetsetilly/timekeeper/vtime"
)

type command struct {
	usage string
	help  string

	// number of arguments. a max of -1 means no maximum
	min int
	max int

	f func(mon *Monitor, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"alloc": {
			usage: "alloc NAME [PARAM]",
			help:  "allocate a permanent timer. the timer is disabled",
			min:   1, max: 2,
			f: (*Monitor).alloc,
		},
		"set": {
			usage: "set NAME DURATION [PARAM]",
			help:  "start a temporary one-shot timer",
			min:   2, max: 3,
			f: (*Monitor).set,
		},
		"pulse": {
			usage: "pulse NAME PERIOD [PARAM]",
			help:  "start a permanent periodic timer",
			min:   2, max: 3,
			f: (*Monitor).pulse,
		},
		"adjust": {
			usage: "adjust NAME DURATION [PERIOD [PARAM]]",
			help:  "rearm a timer",
			min:   2, max: 4,
			f: (*Monitor).adjust,
		},
		"enable": {
			usage: "enable NAME",
			help:  "enable a timer",
			min:   1, max: 1,
			f: func(mon *Monitor, args []string) error { return mon.enable(args[0], true) },
		},
		"disable": {
			usage: "disable NAME",
			help:  "disable a timer",
			min:   1, max: 1,
			f: func(mon *Monitor, args []string) error { return mon.enable(args[0], false) },
		},
		"free": {
			usage: "free NAME",
			help:  "free a timer",
			min:   1, max: 1,
			f: (*Monitor).free,
		},
		"timers": {
			usage: "timers",
			help:  "list the active timers in firing order",
			min:   0, max: 0,
			f: (*Monitor).list,
		},
		"next": {
			usage: "next",
			help:  "show the current time and the time of the next firing",
			min:   0, max: 0,
			f: (*Monitor).next,
		},
		"step": {
			usage: "step [N]",
			help:  "run the machine for N timeslices",
			min:   0, max: 1,
			f: (*Monitor).step,
		},
		"advance": {
			usage: "advance DURATION",
			help:  "run the machine for a period of virtual time",
			min:   1, max: 1,
			f: (*Monitor).advance,
		},
		"frames": {
			usage: "frames N",
			help:  "run the machine for N frames",
			min:   1, max: 1,
			f: (*Monitor).frames,
		},
		"run": {
			usage: "run",
			help:  "run the machine until a key is pressed",
			min:   0, max: 0,
			f: (*Monitor).run,
		},
		"dump": {
			usage: "dump",
			help:  "print the timer table",
			min:   0, max: 0,
			f: (*Monitor).dump,
		},
		"graph": {
			usage: "graph FILE",
			help:  "write the timer list as a graphviz file",
			min:   1, max: 1,
			f: (*Monitor).graph,
		},
		"save": {
			usage: "save [FILE]",
			help:  "save the machine state to memory or to a file",
			min:   0, max: 1,
			f: (*Monitor).save,
		},
		"load": {
			usage: "load [FILE]",
			help:  "restore the machine state from memory or from a file",
			min:   0, max: 1,
			f: (*Monitor).load,
		},
		"log": {
			usage: "log [N]",
			help:  "show the last N log entries",
			min:   0, max: 1,
			f: (*Monitor).log,
		},
		"machine": {
			usage: "machine",
			help:  "summarise the state of the machine",
			min:   0, max: 0,
			f: (*Monitor).machine,
		},
		"help": {
			usage: "help",
			help:  "list commands",
			min:   0, max: 0,
			f: (*Monitor).help,
		},
		"quit": {
			usage: "quit",
			help:  "leave the monitor",
			min:   0, max: 0,
			f: func(mon *Monitor, _ []string) error {
				mon.quit = true
				return nil
			},
		},
	}
}

func parseTime(cmd string, s string) (vtime.Time, error) {
	t, err := vtime.Parse(s)
	if err != nil {
		return vtime.Zero, curated.Errorf(BadArguments, cmd, err)
	}
	return t, nil
}

func parseInt(cmd string, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, curated.Errorf(BadArguments, cmd, err)
	}
	return v, nil
}

func optionalInt(cmd string, args []string, i int, def int) (int, error) {
	if len(args) <= i {
		return def, nil
	}
	return parseInt(cmd, args[i])
}

// a name already in use by a live timer cannot be reused.
func (mon *Monitor) claim(cmd string, name string) error {
	if h, ok := mon.timers[name]; ok && mon.m.Scheduler.Valid(h) {
		return curated.Errorf(BadArguments, cmd, fmt.Sprintf("%s already in use", name))
	}
	return nil
}

func (mon *Monitor) alloc(args []string) error {
	if err := mon.claim("alloc", args[0]); err != nil {
		return err
	}
	param, err := optionalInt("alloc", args, 1, 0)
	if err != nil {
		return err
	}
	h := mon.m.Scheduler.Allocate(mon.callback(args[0]), param, args[0], false)
	mon.timers[args[0]] = h
	return nil
}

func (mon *Monitor) set(args []string) error {
	if err := mon.claim("set", args[0]); err != nil {
		return err
	}
	d, err := parseTime("set", args[1])
	if err != nil {
		return err
	}
	param, err := optionalInt("set", args, 2, 0)
	if err != nil {
		return err
	}
	h := mon.m.Scheduler.Set(d, param, mon.callback(args[0]), args[0])
	mon.timers[args[0]] = h
	return nil
}

func (mon *Monitor) pulse(args []string) error {
	if err := mon.claim("pulse", args[0]); err != nil {
		return err
	}
	p, err := parseTime("pulse", args[1])
	if err != nil {
		return err
	}
	param, err := optionalInt("pulse", args, 2, 0)
	if err != nil {
		return err
	}
	h := mon.m.Scheduler.Pulse(p, param, mon.callback(args[0]), args[0])
	mon.timers[args[0]] = h
	return nil
}

func (mon *Monitor) adjust(args []string) error {
	h, err := mon.lookup(args[0])
	if err != nil {
		return err
	}
	d, err := parseTime("adjust", args[1])
	if err != nil {
		return err
	}

	period := mon.m.Scheduler.Period(h)
	if len(args) > 2 {
		period, err = parseTime("adjust", args[2])
		if err != nil {
			return err
		}
	}

	param, err := optionalInt("adjust", args, 3, mon.m.Scheduler.Parameter(h))
	if err != nil {
		return err
	}

	mon.m.Scheduler.Adjust(h, d, param, period)
	return nil
}

func (mon *Monitor) enable(name string, enable bool) error {
	h, err := mon.lookup(name)
	if err != nil {
		return err
	}
	prev := mon.m.Scheduler.Enable(h, enable)
	fmt.Fprintf(mon.out, "%s was %s\n", name, enabledString(prev))
	return nil
}

func (mon *Monitor) free(args []string) error {
	h, err := mon.lookup(args[0])
	if err != nil {
		return err
	}
	mon.m.Scheduler.Free(h)
	delete(mon.timers, args[0])
	return nil
}

func enabledString(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

func (mon *Monitor) list(_ []string) error {
	w := tabwriter.NewWriter(mon.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "name\thandle\tstate\tremaining\tperiod\tparam")
	mon.m.Scheduler.Walk(func(info timer.Info) bool {
		remaining := vtime.Never
		if info.Expire != vtime.Never {
			remaining = info.Expire.Sub(mon.m.Scheduler.Now())
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n", mon.nameOf(info), info.Handle,
			enabledString(info.Enabled), remaining, info.Period, info.Param)
		return true
	})
	return w.Flush()
}

func (mon *Monitor) next(_ []string) error {
	fmt.Fprintf(mon.out, "now %s, next %s\n", mon.m.Scheduler.Now(), mon.m.Scheduler.NextFire())
	return nil
}

func (mon *Monitor) step(args []string) error {
	n, err := optionalInt("step", args, 0, 1)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := mon.m.Step(); err != nil {
			return err
		}
	}
	return mon.next(nil)
}

func (mon *Monitor) advance(args []string) error {
	d, err := parseTime("advance", args[0])
	if err != nil {
		return err
	}
	if err := mon.m.Executor.RunFor(d); err != nil {
		return err
	}
	return mon.next(nil)
}

func (mon *Monitor) frames(args []string) error {
	n, err := parseInt("frames", args[0])
	if err != nil {
		return err
	}
	if n < 0 {
		return curated.Errorf(BadArguments, "frames", "cannot be negative")
	}
	if err := mon.m.RunForFrameCount(n, nil); err != nil {
		return err
	}
	return mon.machine(nil)
}

// number of frames run by the run command when there is no terminal
const unattendedFrames = 60

func (mon *Monitor) run(_ []string) error {
	if mon.keys == nil {
		fmt.Fprintf(mon.out, "no terminal: running for %d frames\n", unattendedFrames)
		return mon.frames([]string{strconv.Itoa(unattendedFrames)})
	}

	if err := mon.keys.start(); err != nil {
		return err
	}
	defer mon.keys.stop()

	fmt.Fprintln(mon.out, "running. press any key to stop")
	err := mon.m.Run(func() (govern.State, error) {
		if mon.keys.pressed() {
			return govern.Ending, nil
		}
		return govern.Running, nil
	})
	if err != nil {
		return err
	}
	return mon.machine(nil)
}

func (mon *Monitor) dump(_ []string) error {
	mon.m.Scheduler.Dump(mon.out)
	return nil
}

func (mon *Monitor) graph(args []string) error {
	f, err := os.Create(args[0])
	if err != nil {
		return curated.Errorf(BadArguments, "graph", err)
	}
	defer f.Close()
	mon.m.Scheduler.DumpGraph(f)
	return nil
}

func (mon *Monitor) save(args []string) error {
	var buf bytes.Buffer
	if err := mon.m.Save(&buf); err != nil {
		return err
	}

	if len(args) == 0 {
		mon.snapshot = buf.Bytes()
		fmt.Fprintf(mon.out, "saved %d bytes at %s\n", len(mon.snapshot), mon.m.Scheduler.Now())
		return nil
	}

	if err := os.WriteFile(args[0], buf.Bytes(), 0o644); err != nil {
		return curated.Errorf(BadArguments, "save", err)
	}
	return nil
}

func (mon *Monitor) load(args []string) error {
	var data []byte
	if len(args) == 0 {
		if mon.snapshot == nil {
			return curated.Errorf(BadArguments, "load", "nothing saved")
		}
		data = mon.snapshot
	} else {
		var err error
		data, err = os.ReadFile(args[0])
		if err != nil {
			return curated.Errorf(BadArguments, "load", err)
		}
	}

	if err := mon.m.Load(bytes.NewReader(data)); err != nil {
		return err
	}

	// temporary timers do not survive a load
	for k, h := range mon.timers {
		if !mon.m.Scheduler.Valid(h) {
			delete(mon.timers, k)
		}
	}

	return mon.next(nil)
}

func (mon *Monitor) log(args []string) error {
	n, err := optionalInt("log", args, 0, 10)
	if err != nil {
		return err
	}
	logger.Tail(mon.out, n)
	return nil
}

func (mon *Monitor) machine(_ []string) error {
	fmt.Fprintln(mon.out, mon.m.String())
	return nil
}

func (mon *Monitor) help(_ []string) error {
	keys := make([]string, 0, len(commands))
	for k := range commands {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(mon.out, 0, 4, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%s\n", commands[k].usage, commands[k].help)
	}
	return w.Flush()
}
