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
	"github.com/jetsetilly/timekeeper/curated"
	"github.com/jetsetilly/timekeeper/logger"
	"github.com/jetsetilly/timekeeper/vtime"
)

// Timeslice runs every device up to the time of the next timer and then
// advances the scheduler to that time. The end of the timeslice is returned.
func (ex *Executor) Timeslice() (vtime.Time, error) {
	base := ex.sch.Base()
	target := ex.sch.NextFire()

	if q := ex.env.Prefs.QuantumTime(); !q.IsZero() {
		target = target.Min(base.Add(q))
	}
	if target.IsNever() {
		return base, curated.Errorf(NothingToDo)
	}

	for _, d := range ex.devices {
		if d.suspended {
			continue
		}

		local := d.local()
		if !local.Before(target) {
			continue
		}

		cycles := target.Sub(local).Cycles(d.clock)
		if cycles == 0 {
			continue
		}

		ex.ts = Timeslice{budget: cycles}
		ex.current = d
		d.dev.Execute(&ex.ts)
		ex.current = nil

		d.cycles += ex.ts.ran

		// end the timeslice for every device at the local time of the device
		// that aborted
		if ex.ts.aborted {
			target = target.Min(d.local())
		}
	}

	// the timeslice can not end before the scheduler's current time
	if target.Before(base) {
		target = base
	}

	ex.Slices++
	ex.sch.AdvanceTo(target)

	return target, nil
}

// RunFor runs timeslices until the duration has passed.
func (ex *Executor) RunFor(d vtime.Time) error {
	var done bool
	ex.sch.Set(d, 0, func(_ int) {
		done = true
	}, "cpuexec: run for")

	for !done {
		if _, err := ex.Timeslice(); err != nil {
			return err
		}
	}

	return nil
}

// BoostInterleave shortens every timeslice to no longer than slice, for the
// duration. Calling BoostInterleave() again replaces the previous boost.
func (ex *Executor) BoostInterleave(slice vtime.Time, duration vtime.Time) {
	if ex.sch.Valid(ex.boost) {
		ex.sch.Free(ex.boost)
	}
	ex.boost = ex.sch.Pulse(slice, 0, func(_ int) {}, "cpuexec: boost interleave")

	boost := ex.boost
	ex.sch.Set(duration, 0, func(_ int) {
		if ex.sch.Valid(boost) {
			ex.sch.Free(boost)
		}
	}, "cpuexec: boost interleave end")

	logger.Logf(ex.env, "cpuexec", "interleave boosted to %s for %s", slice, duration)

	// the boost should take effect immediately
	ex.Yield()
}
