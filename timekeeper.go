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


package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/jetsetilly/timekeeper/environment"
	"github.com/jetsetilly/timekeeper/hardware"
	"github.com/jetsetilly/timekeeper/hardware/govern"
	"github.com/jetsetilly/timekeeper/logger"
	"github.com/jetsetilly/timekeeper/modalflag"
	"github.com/jetsetilly/timekeeper/monitor"
	"github.com/jetsetilly/timekeeper/preferences"
	"github.com/jetsetilly/timekeeper/prefs"
	"github.com/jetsetilly/timekeeper/resources"
	"github.com/jetsetilly/timekeeper/scenario"
	"github.com/jetsetilly/timekeeper/statsview"
	"github.com/jetsetilly/timekeeper/version"
	"github.com/jetsetilly/timekeeper/vtime"
	"github.com/jetsetilly/timekeeper/wavwriter"
)

// exit values
const (
	exitOK        = 0
	exitInterrupt = 1
	exitArgs      = 10
	exitMode      = 20
	exitFailed    = 30
)

// #mainthread
func main() {
	// #ctrlc
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	done := make(chan int)
	go func() {
		done <- launch(os.Args[1:], os.Stdout)
	}()

	exitVal := exitOK
	select {
	case <-intChan:
		fmt.Println("\r")
		exitVal = exitInterrupt
	case exitVal = <-done:
	}

	os.Exit(exitVal)
}

// launch parses the top level of arguments and runs the selected mode. The
// return value is the exit value of the program.
func launch(args []string, out io.Writer) int {
	md := &modalflag.Modes{Output: out}
	md.NewArgs(args)
	md.AddSubModes("RUN", "DEMO", "MONITOR", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return exitOK
	case modalflag.ParseError:
		fmt.Fprintf(out, "* error: %v\n", err)
		return exitArgs
	}

	var passed bool
	switch md.Mode() {
	case "RUN":
		passed, err = run(md, out)
	case "DEMO":
		passed, err = demo(md, out)
	case "MONITOR":
		passed, err = monitorMode(md, out)
	case "VERSION":
		fmt.Fprintln(out, version.String())
		passed = true
	}

	if err != nil {
		fmt.Fprintf(out, "* error in %s mode: %s\n", md.String(), err)
		return exitMode
	}
	if !passed {
		return exitFailed
	}
	return exitOK
}

// flags common to every mode.
type common struct {
	prefs     *string
	setPrefs  *string
	log       *bool
	statsview *bool
	quantum   *vtime.Time
}

func addCommon(md *modalflag.Modes) common {
	return common{
		prefs:     md.AddString("prefs", "", "preferences file (default is the user's config directory)"),
		setPrefs:  md.AddString("setprefs", "", "override preferences for this run (key::value; key::value)"),
		log:       md.AddBool("log", false, "echo log to stdout"),
		statsview: md.AddBool("statsview", false, "run stats server on "+statsview.Address),
		quantum:   md.AddTime("quantum", vtime.Never, "longest timeslice (overrides preferences)"),
	}
}

// environment creates the emulation environment from the common flags. The
// returned function should be deferred by the caller.
func (c common) environment(out io.Writer) (*environment.Environment, func(), error) {
	if *c.log {
		logger.SetEcho(out)
	} else {
		logger.SetEcho(nil)
	}

	path := *c.prefs
	if path == "" {
		var err error
		path, err = resources.JoinPath(preferences.DefaultPrefsFile)
		if err != nil {
			return nil, nil, err
		}
	}

	// values on the command line stack take the place of those in the
	// preferences file when it is loaded
	if *c.setPrefs != "" {
		prefs.PushCommandLineStack(*c.setPrefs)
	}
	p, err := preferences.NewPreferences(path)
	if *c.setPrefs != "" {
		if unused := prefs.PopCommandLineStack(); unused != "" {
			logger.Logf(logger.Allow, "timekeeper", "unknown preferences: %s", unused)
		}
	}
	if err != nil {
		return nil, nil, err
	}

	if *c.quantum != vtime.Never {
		if err := p.Quantum.Set(c.quantum.String()); err != nil {
			return nil, nil, err
		}
	}

	env, err := environment.NewEnvironment(environment.MainEmulation, p)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	if *c.statsview {
		srv := statsview.Launch(out, "")
		cleanup = srv.Stop
	}

	return env, cleanup, nil
}

func run(md *modalflag.Modes, out io.Writer) (bool, error) {
	md.NewMode()
	md.AdditionalHelp("Each argument is a YAML scenario file. The program exits with\na non-zero value if any scenario fails.")
	c := addCommon(md)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return true, err
	}

	if len(md.RemainingArgs()) == 0 {
		return false, fmt.Errorf("at least one scenario file required for %s mode", md)
	}

	env, cleanup, err := c.environment(out)
	if err != nil {
		return false, err
	}
	defer cleanup()

	passed := true
	for _, fn := range md.RemainingArgs() {
		sc, err := scenario.LoadFile(fn)
		if err != nil {
			return false, err
		}

		rep, err := scenario.Run(sc, env)
		if err != nil {
			return false, err
		}

		rep.Write(out)
		passed = passed && rep.Passed()
	}

	return passed, nil
}

func demo(md *modalflag.Modes, out io.Writer) (bool, error) {
	md.NewMode()
	c := addCommon(md)
	frames := md.AddInt("frames", hardware.RefreshRate*4, "number of frames to run")
	wav := md.AddString("wav", "", "record audio to wav file")
	dump := md.AddBool("dump", false, "dump the timer table on completion")
	boost := md.AddTime("boost", vtime.Zero, "shorten timeslices to this length for the first second")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return true, err
	}

	env, cleanup, err := c.environment(out)
	if err != nil {
		return false, err
	}
	defer cleanup()

	m, err := hardware.NewMachine(env)
	if err != nil {
		return false, err
	}

	var aw *wavwriter.WavWriter
	if *wav != "" {
		aw, err = wavwriter.New(*wav, m.Beeper.SampleRate())
		if err != nil {
			return false, err
		}
	}

	if !boost.IsZero() {
		m.Executor.BoostInterleave(*boost, vtime.FromSeconds(1))
	}

	err = m.RunForFrameCount(*frames, func(_ int) (govern.State, error) {
		if aw != nil {
			return govern.Running, aw.SetAudio(m.Beeper.Drain())
		}
		m.Beeper.Drain()
		return govern.Running, nil
	})
	if err != nil {
		return false, err
	}

	if aw != nil {
		if err := aw.EndMixing(); err != nil {
			return false, err
		}
	}

	fmt.Fprintf(out, "%s\n", m)
	fmt.Fprintf(out, "%d timeslices, %d aborted, %d timers fired\n", m.Executor.Slices, m.Executor.Aborts, m.Scheduler.Fired)
	if *dump {
		m.Scheduler.Dump(out)
	}

	return true, nil
}

func monitorMode(md *modalflag.Modes, out io.Writer) (bool, error) {
	md.NewMode()
	c := addCommon(md)
	tty := md.AddString("tty", "/dev/tty", "terminal used to stop the run command (empty to disable)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return true, err
	}

	env, cleanup, err := c.environment(out)
	if err != nil {
		return false, err
	}
	defer cleanup()

	m, err := hardware.NewMachine(env)
	if err != nil {
		return false, err
	}

	fmt.Fprintf(out, "%s monitor. type help for a list of commands\n", version.String())
	mon := monitor.NewMonitor(m, out)
	return true, mon.Run(os.Stdin, *tty)
}
