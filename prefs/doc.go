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

// Package prefs facilitates the storage of preferential values in the
// Timekeeper system. It does this through the Disk type. The Disk type
// collates values from the Bool, Int, Float, String and Generic types and
// loads and saves those values to disk. Saved files are simple text files
// with one "key :: value" pair per line.
//
//	dsk, _ := prefs.NewDisk("timekeeper.prefs")
//
//	var capacity prefs.Int
//	_ = dsk.Add("timer.capacity", &capacity)
//	_ = dsk.Load()
//
// Values can be given hooks that run before and after the value changes. A
// pre-hook returning an error prevents the value from changing.
//
//	capacity.SetHookPre(func(v prefs.Value) error {
//		if v.(int) <= 0 {
//			return fmt.Errorf("capacity must be positive")
//		}
//		return nil
//	})
//
// The command line stack allows preference values to be specified as a
// string of the form "key::value; key::value". Values on the stack take
// precedence over values loaded from disk.
package prefs
