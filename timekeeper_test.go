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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/timekeeper/test"
)

func prefsFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "preferences")
}

func TestHelp(t *testing.T) {
	out := &bytes.Buffer{}
	test.ExpectEquality(t, launch([]string{"-help"}, out), exitOK)
	test.ExpectEquality(t, strings.Contains(out.String(), "RUN, DEMO, MONITOR"), true)
}

func TestRunScenarios(t *testing.T) {
	out := &bytes.Buffer{}
	args := []string{"run", "-prefs", prefsFile(t),
		filepath.Join("scenario", "testdata", "one_shot.yaml"),
		filepath.Join("scenario", "testdata", "tie_break.yaml"),
	}
	test.ExpectEquality(t, launch(args, out), exitOK, out.String())
}

func TestRunMissingFile(t *testing.T) {
	out := &bytes.Buffer{}
	args := []string{"run", "-prefs", prefsFile(t), "no_such_scenario.yaml"}
	test.ExpectEquality(t, launch(args, out), exitMode)

	out.Reset()
	args = []string{"run", "-prefs", prefsFile(t)}
	test.ExpectEquality(t, launch(args, out), exitMode)
}

func TestDemo(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "demo.wav")

	out := &bytes.Buffer{}
	args := []string{"demo", "-prefs", prefsFile(t), "-frames", "30", "-wav", fn, "-quantum", "1ms"}
	test.DemandEquality(t, launch(args, out), exitOK, out.String())
	test.ExpectEquality(t, strings.Contains(out.String(), "frame=30"), true)

	st, err := os.Stat(fn)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, st.Size() > 0, true)
}

func TestBadFlag(t *testing.T) {
	out := &bytes.Buffer{}
	args := []string{"demo", "-prefs", prefsFile(t), "-boost", "whenever"}
	test.ExpectEquality(t, launch(args, out), exitMode)
}

func TestVersionMode(t *testing.T) {
	out := &bytes.Buffer{}
	test.ExpectEquality(t, launch([]string{"version"}, out), exitOK)
	test.ExpectEquality(t, strings.HasPrefix(out.String(), "Timekeeper"), true)
}

func TestSetPrefs(t *testing.T) {
	out := &bytes.Buffer{}
	args := []string{"demo", "-log", "-prefs", prefsFile(t), "-frames", "2", "-setprefs", "cpuexec.quantum::1ms; bogus::1"}
	test.DemandEquality(t, launch(args, out), exitOK, out.String())
	test.ExpectEquality(t, strings.Contains(out.String(), "frame=2"), true)
	test.ExpectEquality(t, strings.Contains(out.String(), "unknown preferences: bogus::1"), true)
}
