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

package savestate

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"sort"

	"github.com/armon/go-radix"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/jetsetilly/timekeeper/curated"
	"github.com/jetsetilly/timekeeper/logger"
	"github.com/jetsetilly/timekeeper/vtime"
)

// Sentinal error patterns.
const (
	UnsupportedField = "savestate: unsupported field type for %s: %T"
	DuplicateName    = "savestate: name already registered: %s"
	EmptyName        = "savestate: field name is empty"
	Encoding         = "savestate: encoding: %v"
	Decoding         = "savestate: decoding: %v"
	WrongVersion     = "savestate: unsupported version %d (expected %d)"
)

// Version of the document format written by Save().
const Version = 1

var encMode cbor.EncMode
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("savestate: cbor encoder: %v", err))
	}

	decMode, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("savestate: cbor decoder: %v", err))
	}
}

// Header identifies a saved state.
type Header struct {
	Version int    `cbor:"1,keyasint"`
	Session string `cbor:"2,keyasint"`
	Fields  int    `cbor:"3,keyasint"`
}

type document struct {
	Header Header                     `cbor:"1,keyasint"`
	Values map[string]cbor.RawMessage `cbor:"2,keyasint"`
}

// Registry of named fields. Implements the timer.Registrar interface.
type Registry struct {
	perm     logger.Permission
	tree     *radix.Tree
	postLoad []func()

	// identifies the registry in saved states
	session string
}

// NewRegistry is the preferred method of initialisation for the Registry
// type.
func NewRegistry(perm logger.Permission) *Registry {
	return &Registry{
		perm:    perm,
		tree:    radix.New(),
		session: uuid.New().String(),
	}
}

// Session returns the identifier written to the header of every saved state.
func (reg *Registry) Session() string {
	return reg.session
}

// Register a field. The field must be a pointer to one of the supported
// types and must remain valid until it is unregistered.
func (reg *Registry) Register(name string, field any) error {
	if name == "" {
		return curated.Errorf(EmptyName)
	}

	switch field.(type) {
	case *bool, *int, *int64, *uint8, *uint16, *uint32, *uint64, *float64, *vtime.Time:
	default:
		return curated.Errorf(UnsupportedField, name, field)
	}

	if _, ok := reg.tree.Get(name); ok {
		return curated.Errorf(DuplicateName, name)
	}
	reg.tree.Insert(name, field)

	return nil
}

// Unregister every field with the prefix. Returns the number of fields
// removed.
func (reg *Registry) Unregister(prefix string) int {
	return reg.tree.DeletePrefix(prefix)
}

// RegisterPostLoad adds a function to be called after a state is loaded.
func (reg *Registry) RegisterPostLoad(f func()) {
	reg.postLoad = append(reg.postLoad, f)
}

// Len returns the number of registered fields.
func (reg *Registry) Len() int {
	return reg.tree.Len()
}

// Names returns the sorted names of every field with the prefix.
func (reg *Registry) Names(prefix string) []string {
	var names []string
	reg.tree.WalkPrefix(prefix, func(k string, _ interface{}) bool {
		names = append(names, k)
		return false
	})
	sort.Strings(names)
	return names
}

// Field returns the pointer registered with the name.
func (reg *Registry) Field(name string) (any, bool) {
	return reg.tree.Get(name)
}

// Save the current value of every field.
func (reg *Registry) Save(w io.Writer) error {
	doc := document{
		Header: Header{
			Version: Version,
			Session: reg.session,
		},
		Values: make(map[string]cbor.RawMessage, reg.tree.Len()),
	}

	var err error
	reg.tree.Walk(func(k string, v interface{}) bool {
		var b []byte
		b, err = encMode.Marshal(v)
		if err != nil {
			err = curated.Errorf(Encoding, fmt.Errorf("%s: %w", k, err))
			return true
		}
		doc.Values[k] = b
		return false
	})
	if err != nil {
		return err
	}
	doc.Header.Fields = len(doc.Values)

	if err := encMode.NewEncoder(w).Encode(doc); err != nil {
		return curated.Errorf(Encoding, err)
	}

	logger.Logf(reg.perm, "savestate", "saved %d fields", doc.Header.Fields)

	return nil
}

// Load values into the registered fields and then call the post-load
// functions. Names in the state that are not registered are ignored. The
// header of the loaded state is returned.
func (reg *Registry) Load(r io.Reader) (Header, error) {
	var doc document
	if err := decMode.NewDecoder(r).Decode(&doc); err != nil {
		return Header{}, curated.Errorf(Decoding, err)
	}

	if doc.Header.Version != Version {
		return doc.Header, curated.Errorf(WrongVersion, doc.Header.Version, Version)
	}

	// decode every value before changing any field so that a bad document
	// does not leave the machine in a partially loaded state
	type pending struct {
		field reflect.Value
		value reflect.Value
	}
	var assign []pending
	var unknown int

	for k, raw := range doc.Values {
		field, ok := reg.tree.Get(k)
		if !ok {
			unknown++
			continue
		}
		f := reflect.ValueOf(field).Elem()
		v := reflect.New(f.Type())
		if err := decMode.Unmarshal(raw, v.Interface()); err != nil {
			return doc.Header, curated.Errorf(Decoding, fmt.Errorf("%s: %w", k, err))
		}
		assign = append(assign, pending{field: f, value: v.Elem()})
	}

	for _, a := range assign {
		a.field.Set(a.value)
	}

	if unknown > 0 {
		logger.Logf(reg.perm, "savestate", "%d unknown fields ignored", unknown)
	}
	if doc.Header.Session != reg.session {
		logger.Logf(reg.perm, "savestate", "state from session %s", doc.Header.Session)
	}
	logger.Logf(reg.perm, "savestate", "loaded %d fields", len(assign))

	for _, f := range reg.postLoad {
		f()
	}

	return doc.Header, nil
}

// Snapshot is a convenience function that saves to a byte slice.
func (reg *Registry) Snapshot() ([]byte, error) {
	var b bytes.Buffer
	if err := reg.Save(&b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Restore is a convenience function that loads from a byte slice.
func (reg *Registry) Restore(state []byte) error {
	_, err := reg.Load(bytes.NewReader(state))
	return err
}
