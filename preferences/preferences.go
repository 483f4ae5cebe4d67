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

package preferences

import (
	"fmt"

	"github.com/jetsetilly/timekeeper/curated"
	"github.com/jetsetilly/timekeeper/prefs"
	"github.com/jetsetilly/timekeeper/vtime"
)

// Sentinal error patterns.
const (
	BadCapacity = "preferences: timer capacity must be positive (%d)"
)

// DefaultPrefsFile is the name of the preferences file in the resources
// directory.
const DefaultPrefsFile = "preferences"

// Preferences for the timer scheduler and execution loop.
type Preferences struct {
	dsk *prefs.Disk

	// the number of slots in the timer arena. the arena is allocated when the
	// scheduler is created so changing this value has no effect on an
	// existing scheduler
	Capacity prefs.Int

	// write the full timer table to the log when the scheduler stops because
	// of a fatal error
	DumpOnFatal prefs.Bool

	// check the integrity of the active list after every change. this is
	// slow and is intended for development
	Validate prefs.Bool

	// the longest timeslice the execution loop will run a CPU for. a zero
	// value means that timeslices are bounded only by the next timer
	Quantum *prefs.Generic
	quantum vtime.Time
}

func (p *Preferences) String() string {
	if p.dsk == nil {
		return fmt.Sprintf("capacity=%s dumpOnFatal=%s validate=%s quantum=%s",
			p.Capacity.String(), p.DumpOnFatal.String(), p.Validate.String(), p.Quantum.String())
	}
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. If path is not empty the preferences are bound to that
// file and any values in it are loaded.
func NewPreferences(path string) (*Preferences, error) {
	p := &Preferences{}

	p.Quantum = prefs.NewGeneric(
		func(v prefs.Value) error {
			if v.(string) == "" {
				p.quantum = vtime.Zero
				return nil
			}
			t, err := vtime.Parse(v.(string))
			if err != nil {
				return err
			}
			p.quantum = t
			return nil
		},
		func() prefs.Value {
			return p.quantum.String()
		},
	)

	p.Capacity.SetHookPre(func(v prefs.Value) error {
		if v.(int) <= 0 {
			return curated.Errorf(BadCapacity, v.(int))
		}
		return nil
	})

	p.SetDefaults()

	if path == "" {
		return p, nil
	}

	var err error
	p.dsk, err = prefs.NewDisk(path)
	if err != nil {
		return nil, err
	}

	if err := p.dsk.Add("timer.capacity", &p.Capacity); err != nil {
		return nil, err
	}
	if err := p.dsk.Add("timer.dumpOnFatal", &p.DumpOnFatal); err != nil {
		return nil, err
	}
	if err := p.dsk.Add("timer.validate", &p.Validate); err != nil {
		return nil, err
	}
	if err := p.dsk.Add("cpuexec.quantum", p.Quantum); err != nil {
		return nil, err
	}

	if err := p.dsk.Load(); err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all preferences to their default values.
func (p *Preferences) SetDefaults() {
	_ = p.Capacity.Set(256)
	_ = p.DumpOnFatal.Set(true)
	_ = p.Validate.Set(false)
	p.quantum = vtime.Zero
}

// Save current preferences to disk. Does nothing if the preferences were not
// created with a path.
func (p *Preferences) Save() error {
	if p.dsk == nil {
		return nil
	}
	return p.dsk.Save()
}

// QuantumTime returns the current value of the Quantum preference.
func (p *Preferences) QuantumTime() vtime.Time {
	return p.quantum
}
