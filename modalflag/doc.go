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

// Package modalflag wraps the flag package of the standard library so that a
// program can have modes, each with its own set of flags. The timekeeper
// command uses it to select between the RUN, DEMO and MONITOR modes:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "DEMO", "MONITOR")
//	p, err := md.Parse()
//	if p != modalflag.ParseContinue {
//		return err
//	}
//
//	switch md.Mode() {
//	case "DEMO":
//		md.NewMode()
//		frames := md.AddInt("frames", 60, "number of frames to run")
//		...
//	}
//
// Arguments are given to NewArgs() once and Parse() is called once for every
// level of mode. The first sub-mode is the default and is chosen if the next
// argument is not one of the sub-modes. Sub-mode names are not case
// sensitive.
//
// The -help flag is handled by Parse(), which prints the flags and sub-modes
// of the current mode and returns ParseHelp.
//
// Times in the flags of a mode can be added with AddTime(). The value is
// parsed with vtime.Parse() and so accepts forms such as "10ms", "60hz" and
// "never".
package modalflag
