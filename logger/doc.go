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

// Package logger is the central logging facility. Log entries are kept in a
// bounded list. Entries that exactly repeat the previous entry are collapsed
// into a single entry with a repeat count.
//
// Log entries are made with the Log() and Logf() functions. Both functions
// take a Permission argument which indicates whether the environment making
// the request is allowed to create log entries. The Allow value can be used
// when an entry should always be made.
//
//	logger.Logf(logger.Allow, "timer", "arena capacity is %d", 256)
//
// The tag argument should be short and identify the part of the system making
// the entry. The detail argument can be a string, an error or any type that
// implements the fmt.Stringer interface. Other types are formatted with the
// %v verb.
//
// Private Logger instances can be created with NewLogger(). This is useful
// for testing.
package logger
