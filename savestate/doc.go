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

// Package savestate is a registry of named fields that together make up the
// state of an emulated machine. The registry can save the current value of
// every field and later restore them.
//
// Fields are registered by name with a pointer to the value. Names are
// hierarchical, separated by forward slashes, so that a group of fields can
// be unregistered by prefix. For example, the fields of the first timer
// tagged "screen: vblank" are registered as "timer/screen: vblank#0/enabled",
// "timer/screen: vblank#0/expire" and so on.
//
// The saved state is a CBOR document with a header and a map of names to
// values. Functions registered with RegisterPostLoad() are called after a
// state has been loaded, in the order they were registered. The timer
// scheduler uses this to rebuild its active list.
package savestate
