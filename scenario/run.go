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
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jetsetilly/timekeeper/curated"
	"github.com/jetsetilly/timekeeper/environment"
	"github.com/jetsetilly/timekeeper/logger"
	"github.com/jetsetilly/timekeeper/savestate"
	"github.com/jetsetilly/timekeeper/timer"
)

// Report is the result of running a scenario.
type Report struct {
	Name  string
	Steps int

	// total number of times each timer fired
	Fires map[string]int

	// every firing in order
	Order []string

	// expectations that were not met
	Failures []string
}

// Passed returns true if every expectation was met.
func (rep *Report) Passed() bool {
	return len(rep.Failures) == 0
}

// Write the report to the writer.
func (rep *Report) Write(w io.Writer) {
	fmt.Fprintf(w, "%s: %d steps, %d firings\n", rep.Name, rep.Steps, len(rep.Order))

	names := make([]string, 0, len(rep.Fires))
	for n := range rep.Fires {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "  %s fired %d times\n", n, rep.Fires[n])
	}

	for _, f := range rep.Failures {
		fmt.Fprintf(w, "  FAIL %s\n", f)
	}
	if rep.Passed() {
		fmt.Fprintf(w, "  PASS\n")
	}
}

type runner struct {
	sc  *Scenario
	sch *timer.Scheduler
	reg *savestate.Registry
	rep *Report

	handles map[string]timer.Handle
	count   map[string]int

	// firings during the current step
	stepFires map[string]int
	stepOrder []string

	state []byte
}

// Run the scenario on a new scheduler. An error is returned if the scenario
// could not be run. Expectations that are not met are recorded in the
// report.
//
// A fatal scheduler error is returned as an error, with the report up to that
// point.
func Run(sc *Scenario, env *environment.Environment) (rep *Report, err error) {
	if env == nil {
		env, err = environment.NewEnvironment(environment.MainEmulation, nil)
		if err != nil {
			return nil, err
		}
	}
	if err := env.Prefs.Capacity.Set(sc.Capacity); err != nil {
		return nil, curated.Errorf(BadScenario, err)
	}

	sch, err := timer.NewScheduler(env)
	if err != nil {
		return nil, curated.Errorf(BadScenario, err)
	}

	r := &runner{
		sc:  sc,
		sch: sch,
		reg: savestate.NewRegistry(env),
		rep: &Report{
			Name:  sc.Name,
			Fires: make(map[string]int),
		},
		handles: make(map[string]timer.Handle),
		count:   make(map[string]int),
	}
	if err := sch.AttachState(r.reg); err != nil {
		return nil, err
	}

	// scheduler errors are raised as panics
	defer func() {
		if rec := recover(); rec != nil {
			e, ok := rec.(error)
			if !ok || !curated.IsAny(e) {
				panic(rec)
			}
			rep = r.rep
			err = e
		}
	}()

	for i := range sc.Timers {
		r.allocate(&sc.Timers[i])
	}
	for i := range sc.Timers {
		tm := &sc.Timers[i]
		if tm.Duration.IsSet() && !tm.Disabled {
			sch.Adjust(r.handles[tm.Name], tm.Duration.Time, tm.Param, tm.Period.Time)
		}
	}

	for i := range sc.Steps {
		r.stepFires = make(map[string]int)
		r.stepOrder = r.stepOrder[:0]
		if err := r.step(i+1, &sc.Steps[i]); err != nil {
			return r.rep, err
		}
		r.rep.Steps++
	}

	logger.Logf(env, "scenario", "%s: %d steps, %d failures", sc.Name, r.rep.Steps, len(r.rep.Failures))

	return r.rep, nil
}

func (r *runner) allocate(tm *Timer) {
	name := tm.Name
	var h timer.Handle
	h = r.sch.Allocate(func(_ int) {
		r.count[name]++
		r.stepFires[name]++
		r.stepOrder = append(r.stepOrder, name)
		r.rep.Fires[name]++
		r.rep.Order = append(r.rep.Order, name)
		r.onFire(h, tm.OnFire, r.count[name])
	}, tm.Param, name, tm.Temporary)
	r.handles[name] = h
}

func (r *runner) onFire(h timer.Handle, of *OnFire, n int) {
	if of == nil {
		return
	}
	if len(of.When) > 0 {
		var match bool
		for _, w := range of.When {
			match = match || w == n
		}
		if !match {
			return
		}
	}

	switch of.Action {
	case ActionFree:
		r.sch.Free(h)
	case ActionAdjust:
		r.sch.Adjust(h, of.Duration.Time, r.sch.Parameter(h), of.Period.Time)
	case ActionDisable:
		r.sch.Enable(h, false)
	}
}

func (r *runner) handle(step int, name string) (timer.Handle, error) {
	h, ok := r.handles[name]
	if !ok {
		return timer.NilHandle, curated.Errorf(BadStep, step, fmt.Sprintf("unknown timer %s", name))
	}
	return h, nil
}

func (r *runner) step(n int, st *Step) error {
	switch {
	case st.Advance.IsSet():
		r.sch.AdvanceTo(st.Advance.Time)

	case st.Enable != "":
		h, err := r.handle(n, st.Enable)
		if err != nil {
			return err
		}
		r.sch.Enable(h, true)

	case st.Disable != "":
		h, err := r.handle(n, st.Disable)
		if err != nil {
			return err
		}
		r.sch.Enable(h, false)

	case st.Free != "":
		h, err := r.handle(n, st.Free)
		if err != nil {
			return err
		}
		r.sch.Free(h)

	case st.Allocate != nil:
		if _, ok := r.handles[st.Allocate.Name]; ok && r.sch.Valid(r.handles[st.Allocate.Name]) {
			return curated.Errorf(BadStep, n, fmt.Sprintf("timer %s is already allocated", st.Allocate.Name))
		}
		r.allocate(st.Allocate)
		if st.Allocate.Duration.IsSet() && !st.Allocate.Disabled {
			tm := st.Allocate
			r.sch.Adjust(r.handles[tm.Name], tm.Duration.Time, tm.Param, tm.Period.Time)
		}

	case st.Adjust != nil:
		h, err := r.handle(n, st.Adjust.Timer)
		if err != nil {
			return err
		}
		r.sch.Adjust(h, st.Adjust.Duration.Time, st.Adjust.Param, st.Adjust.Period.Time)

	case st.Save:
		var b bytes.Buffer
		if err := r.reg.Save(&b); err != nil {
			return curated.Errorf(BadStep, n, err)
		}
		r.state = b.Bytes()

	case st.Load:
		if r.state == nil {
			return curated.Errorf(BadStep, n, "no saved state")
		}
		if err := r.reg.Restore(r.state); err != nil {
			return curated.Errorf(BadStep, n, err)
		}
	}

	if st.Expect != nil {
		r.check(n, st.Expect)
	}

	return nil
}

func (r *runner) fail(step int, format string, args ...any) {
	r.rep.Failures = append(r.rep.Failures, fmt.Sprintf("step %d: %s", step, fmt.Sprintf(format, args...)))
}

// live returns the handle if the timer is still allocated.
func (r *runner) live(step int, name string) (timer.Handle, bool) {
	h, ok := r.handles[name]
	if !ok {
		r.fail(step, "unknown timer %s", name)
		return timer.NilHandle, false
	}
	if !r.sch.Valid(h) {
		r.fail(step, "timer %s has been freed", name)
		return timer.NilHandle, false
	}
	return h, true
}

func sortedKeys[V any](m map[string]V) []string {
	k := make([]string, 0, len(m))
	for n := range m {
		k = append(k, n)
	}
	sort.Strings(k)
	return k
}

func (r *runner) check(n int, ex *Expect) {
	for _, name := range sortedKeys(ex.Fires) {
		if got := r.stepFires[name]; got != ex.Fires[name] {
			r.fail(n, "%s fired %d times, expected %d", name, got, ex.Fires[name])
		}
	}

	if ex.Order != nil {
		got := strings.Join(r.stepOrder, " ")
		want := strings.Join(ex.Order, " ")
		if got != want {
			r.fail(n, "fire order is [%s], expected [%s]", got, want)
		}
	}

	for _, name := range sortedKeys(ex.Next) {
		if h, ok := r.live(n, name); ok {
			if got := r.sch.FireTime(h); !got.Equal(ex.Next[name].Time) {
				r.fail(n, "%s fires at %s, expected %s", name, got, ex.Next[name].Time)
			}
		}
	}

	for _, name := range sortedKeys(ex.Remaining) {
		if h, ok := r.live(n, name); ok {
			if got := r.sch.Remaining(h); !got.Equal(ex.Remaining[name].Time) {
				r.fail(n, "%s has %s remaining, expected %s", name, got, ex.Remaining[name].Time)
			}
		}
	}

	for _, name := range sortedKeys(ex.Enabled) {
		if h, ok := r.live(n, name); ok {
			if got := r.sch.Enabled(h); got != ex.Enabled[name] {
				r.fail(n, "%s enabled is %v, expected %v", name, got, ex.Enabled[name])
			}
		}
	}

	for _, name := range sortedKeys(ex.Params) {
		if h, ok := r.live(n, name); ok {
			if got := r.sch.Parameter(h); got != ex.Params[name] {
				r.fail(n, "%s parameter is %d, expected %d", name, got, ex.Params[name])
			}
		}
	}

	for _, name := range ex.Freed {
		h, ok := r.handles[name]
		if !ok {
			r.fail(n, "unknown timer %s", name)
		} else if r.sch.Valid(h) {
			r.fail(n, "%s has not been freed", name)
		}
	}

	if ex.FreeCount != nil && r.sch.FreeCount() != *ex.FreeCount {
		r.fail(n, "free count is %d, expected %d", r.sch.FreeCount(), *ex.FreeCount)
	}
	if ex.Active != nil && r.sch.ActiveCount() != *ex.Active {
		r.fail(n, "active count is %d, expected %d", r.sch.ActiveCount(), *ex.Active)
	}

	if err := r.sch.Validate(); err != nil {
		r.fail(n, "%v", err)
	}
}
