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

package cpuexec

import (
	"fmt"

	"github.com/jetsetilly/timekeeper/curated"
	"github.com/jetsetilly/timekeeper/environment"
	"github.com/jetsetilly/timekeeper/logger"
	"github.com/jetsetilly/timekeeper/timer"
	"github.com/jetsetilly/timekeeper/vtime"
)

// Sentinal error patterns.
const (
	DuplicateDevice = "cpuexec: device already added: %s"
	UnknownDevice   = "cpuexec: unknown device: %s"
	NoClock         = "cpuexec: device has no clock: %s"
	NothingToDo     = "cpuexec: no timer is due and there is no quantum"
)

// Device is implemented by every CPU that is run by the executor.
type Device interface {
	Label() string

	// the clock frequency of the device in Hz
	Clock() uint64

	// Execute runs the device until the timeslice has no cycles remaining.
	Execute(ts *Timeslice)
}

// Timeslice is the number of cycles a device is allowed to run for.
type Timeslice struct {
	budget  uint64
	ran     uint64
	aborted bool
}

// Remaining returns the number of cycles remaining in the timeslice.
func (ts *Timeslice) Remaining() uint64 {
	if ts.aborted || ts.ran >= ts.budget {
		return 0
	}
	return ts.budget - ts.ran
}

// Consume records that cycles have been used. The number of cycles may be
// more than the number remaining.
func (ts *Timeslice) Consume(cycles uint64) {
	ts.ran += cycles
}

// Ran returns the number of cycles consumed so far.
func (ts *Timeslice) Ran() uint64 {
	return ts.ran
}

// Aborted returns true if the timeslice was ended early.
func (ts *Timeslice) Aborted() bool {
	return ts.aborted
}

// the local time of a device is the epoch plus the number of cycles run
// since the epoch
type device struct {
	dev   Device
	clock uint64

	epoch  vtime.Time
	cycles uint64

	suspended bool
}

func (d *device) local() vtime.Time {
	return d.epoch.Add(vtime.FromCycles(d.cycles, d.clock))
}

// resync moves the epoch forward to the time. used when a device has been
// left behind because it was suspended.
func (d *device) resync(t vtime.Time) {
	if d.local().Before(t) {
		d.epoch = t
		d.cycles = 0
	}
}

// Executor runs the devices in timeslices.
type Executor struct {
	env *environment.Environment
	sch *timer.Scheduler

	devices []*device

	// the device that is running and its timeslice
	current *device
	ts      Timeslice

	// the interleave boost timer
	boost timer.Handle

	// statistics
	Slices uint64
	Aborts uint64
}

// NewExecutor is the preferred method of initialisation for the Executor
// type. The executor is plumbed into the scheduler. If env is nil the
// scheduler's environment is used.
func NewExecutor(env *environment.Environment, sch *timer.Scheduler) *Executor {
	if env == nil {
		env = sch.Environment()
	}
	ex := &Executor{
		env: env,
		sch: sch,
	}
	sch.Plumb(ex)
	return ex
}

func (ex *Executor) String() string {
	s := fmt.Sprintf("slices=%d aborts=%d", ex.Slices, ex.Aborts)
	for _, d := range ex.devices {
		s = fmt.Sprintf("%s %s=%s", s, d.dev.Label(), d.local())
		if d.suspended {
			s = fmt.Sprintf("%s(suspended)", s)
		}
	}
	return s
}

// AddDevice adds a device to the executor. Devices run in the order they are
// added.
func (ex *Executor) AddDevice(dev Device) error {
	if dev.Clock() == 0 {
		return curated.Errorf(NoClock, dev.Label())
	}
	for _, d := range ex.devices {
		if d.dev.Label() == dev.Label() {
			return curated.Errorf(DuplicateDevice, dev.Label())
		}
	}

	ex.devices = append(ex.devices, &device{
		dev:   dev,
		clock: dev.Clock(),
		epoch: ex.sch.Base(),
	})

	logger.Logf(ex.env, "cpuexec", "added %s at %dHz", dev.Label(), dev.Clock())

	return nil
}

// AttachState registers the local time of every device with the registrar.
func (ex *Executor) AttachState(reg timer.Registrar) error {
	for _, d := range ex.devices {
		p := fmt.Sprintf("cpuexec/%s/", d.dev.Label())
		if err := reg.Register(p+"epoch", &d.epoch); err != nil {
			return err
		}
		if err := reg.Register(p+"cycles", &d.cycles); err != nil {
			return err
		}
		if err := reg.Register(p+"suspended", &d.suspended); err != nil {
			return err
		}
	}
	return nil
}

func (ex *Executor) find(label string) (*device, error) {
	for _, d := range ex.devices {
		if d.dev.Label() == label {
			return d, nil
		}
	}
	return nil, curated.Errorf(UnknownDevice, label)
}

// Executing implements the timer.Executor interface.
func (ex *Executor) Executing() bool {
	return ex.current != nil
}

// LocalTime implements the timer.Executor interface.
func (ex *Executor) LocalTime() vtime.Time {
	if ex.current == nil {
		return ex.sch.Base()
	}
	d := ex.current
	return d.epoch.Add(vtime.FromCycles(d.cycles+ex.ts.ran, d.clock))
}

// AbortTimeslice implements the timer.Executor interface.
func (ex *Executor) AbortTimeslice() {
	if ex.current == nil || ex.ts.aborted {
		return
	}
	ex.ts.aborted = true
	ex.Aborts++
}

// Yield ends the timeslice of the executing device. It does nothing if no
// device is executing.
func (ex *Executor) Yield() {
	ex.AbortTimeslice()
}

// LocalTimeOf returns the local time of the named device.
func (ex *Executor) LocalTimeOf(label string) (vtime.Time, error) {
	d, err := ex.find(label)
	if err != nil {
		return vtime.Zero, err
	}
	if d == ex.current {
		return ex.LocalTime(), nil
	}
	return d.local(), nil
}

// Suspend stops the named device from running. If the device is executing
// its timeslice is ended.
func (ex *Executor) Suspend(label string) error {
	d, err := ex.find(label)
	if err != nil {
		return err
	}
	d.suspended = true
	if d == ex.current {
		ex.AbortTimeslice()
	}
	return nil
}

// Resume allows the named device to run again. The device does not run for
// the time it was suspended.
func (ex *Executor) Resume(label string) error {
	d, err := ex.find(label)
	if err != nil {
		return err
	}
	if d.suspended {
		d.suspended = false
		d.resync(ex.sch.Now())
	}
	return nil
}

// Suspended returns true if the named device is suspended.
func (ex *Executor) Suspended(label string) (bool, error) {
	d, err := ex.find(label)
	if err != nil {
		return false, err
	}
	return d.suspended, nil
}
