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

package hardware

import (
	"github.com/jetsetilly/timekeeper/hardware/govern"
)

// Step runs the machine for a single timeslice.
func (m *Machine) Step() error {
	_, err := m.Executor.Timeslice()
	return err
}

// Run sets the emulation running until the continue check returns
// govern.Ending. The check is made at the end of every timeslice.
func (m *Machine) Run(continueCheck func() (govern.State, error)) error {
	if continueCheck == nil {
		continueCheck = func() (govern.State, error) { return govern.Running, nil }
	}

	state := govern.Running
	for state != govern.Ending {
		if state == govern.Running {
			if err := m.Step(); err != nil {
				return err
			}
		}

		var err error
		state, err = continueCheck()
		if err != nil {
			return err
		}
	}

	return nil
}

// RunForFrameCount sets the emulation running for the specified number of
// frames.
func (m *Machine) RunForFrameCount(numFrames int, continueCheck func(frame int) (govern.State, error)) error {
	if continueCheck == nil {
		continueCheck = func(frame int) (govern.State, error) { return govern.Running, nil }
	}

	targetFrame := m.Screen.Frame + uint64(numFrames)

	state := govern.Running
	for m.Screen.Frame < targetFrame && state != govern.Ending {
		if err := m.Step(); err != nil {
			return err
		}

		var err error
		state, err = continueCheck(int(m.Screen.Frame))
		if err != nil {
			return err
		}
	}

	return nil
}
