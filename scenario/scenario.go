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

package scenario

import (
	"fmt"
	"io"
	"os"

	"github.com/jetsetilly/timekeeper/curated"
	"github.com/jetsetilly/timekeeper/vtime"
	"gopkg.in/yaml.v3"
)

// Sentinal error patterns.
const (
	BadScenario = "scenario: %v"
	BadStep     = "scenario: step %d: %v"
)

// Time is a vtime.Time that can be unmarshalled from YAML.
type Time struct {
	vtime.Time
	set bool
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (t *Time) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: time must be a scalar", value.Line)
	}
	v, err := vtime.Parse(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	t.Time = v
	t.set = true
	return nil
}

// IsSet returns true if the value was present in the YAML.
func (t Time) IsSet() bool {
	return t.set
}

// List of actions a timer can perform on itself when it fires.
const (
	ActionNone    = ""
	ActionFree    = "free"
	ActionAdjust  = "adjust"
	ActionDisable = "disable"
)

// OnFire is an action performed by a timer on itself from inside its own
// callback.
type OnFire struct {
	Action   string `yaml:"action"`
	Duration Time   `yaml:"duration"`
	Period   Time   `yaml:"period"`

	// perform the action only on these firings. counting from one. an empty
	// list means every firing
	When []int `yaml:"when"`
}

// Timer is declared at the start of a scenario.
type Timer struct {
	Name      string  `yaml:"name"`
	Temporary bool    `yaml:"temporary"`
	Param     int     `yaml:"param"`
	Duration  Time    `yaml:"duration"`
	Period    Time    `yaml:"period"`
	Disabled  bool    `yaml:"disabled"`
	OnFire    *OnFire `yaml:"on_fire"`
}

// Adjust is the argument of the adjust step.
type Adjust struct {
	Timer    string `yaml:"timer"`
	Duration Time   `yaml:"duration"`
	Period   Time   `yaml:"period"`
	Param    int    `yaml:"param"`
}

// Expect lists the expected state after a step. Every field is optional.
type Expect struct {
	Fires     map[string]int  `yaml:"fires"`
	Order     []string        `yaml:"order"`
	Next      map[string]Time `yaml:"next"`
	Remaining map[string]Time `yaml:"remaining"`
	Enabled   map[string]bool `yaml:"enabled"`
	Freed     []string        `yaml:"freed"`
	FreeCount *int            `yaml:"free_count"`
	Active    *int            `yaml:"active"`
	Params    map[string]int  `yaml:"params"`
}

// Step is a single operation. Exactly one operation field must be set.
type Step struct {
	Advance  Time    `yaml:"advance"`
	Enable   string  `yaml:"enable"`
	Disable  string  `yaml:"disable"`
	Free     string  `yaml:"free"`
	Allocate *Timer  `yaml:"allocate"`
	Adjust   *Adjust `yaml:"adjust"`
	Save     bool    `yaml:"save"`
	Load     bool    `yaml:"load"`
	Comment  string  `yaml:"comment"`

	Expect *Expect `yaml:"expect"`
}

// Scenario is a complete scenario.
type Scenario struct {
	Name     string  `yaml:"name"`
	Capacity int     `yaml:"capacity"`
	Timers   []Timer `yaml:"timers"`
	Steps    []Step  `yaml:"steps"`
}

// Load a scenario from a reader. Unknown fields are an error.
func Load(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, curated.Errorf(BadScenario, err)
	}

	if err := sc.validate(); err != nil {
		return nil, err
	}

	return &sc, nil
}

// LoadFile loads a scenario from the named file.
func LoadFile(filename string) (*Scenario, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, curated.Errorf(BadScenario, err)
	}
	defer f.Close()
	return Load(f)
}

func validTimer(tm *Timer) error {
	if tm.Name == "" {
		return fmt.Errorf("timer has no name")
	}
	if tm.OnFire != nil {
		switch tm.OnFire.Action {
		case ActionNone, ActionFree, ActionAdjust, ActionDisable:
		default:
			return fmt.Errorf("timer %s: unknown action %q", tm.Name, tm.OnFire.Action)
		}
	}
	return nil
}

func (sc *Scenario) validate() error {
	if sc.Capacity == 0 {
		sc.Capacity = 16
	}
	if sc.Capacity < 0 {
		return curated.Errorf(BadScenario, "capacity must be positive")
	}

	names := make(map[string]bool)
	for i := range sc.Timers {
		tm := &sc.Timers[i]
		if err := validTimer(tm); err != nil {
			return curated.Errorf(BadScenario, err)
		}
		if names[tm.Name] {
			return curated.Errorf(BadScenario, fmt.Sprintf("timer %s declared twice", tm.Name))
		}
		names[tm.Name] = true
	}

	for i := range sc.Steps {
		st := &sc.Steps[i]

		ops := 0
		for _, set := range []bool{
			st.Advance.IsSet(), st.Enable != "", st.Disable != "", st.Free != "",
			st.Allocate != nil, st.Adjust != nil, st.Save, st.Load,
		} {
			if set {
				ops++
			}
		}
		if ops > 1 {
			return curated.Errorf(BadStep, i+1, "more than one operation")
		}
		if ops == 0 && st.Expect == nil {
			return curated.Errorf(BadStep, i+1, "no operation")
		}

		if st.Allocate != nil {
			if err := validTimer(st.Allocate); err != nil {
				return curated.Errorf(BadStep, i+1, err)
			}
		}
	}

	return nil
}
