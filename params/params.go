// Package params implements the Parameter Table: named runtime values
// exposed from a loaded program, writable by the I/O core over the
// Command Channel. Grounded on the teacher's CommandRegistry
// (core/command.go) in shape — a name-keyed map — generalized from command
// dispatch to value storage. Table does no locking of its own.
package params

import "errors"

// ErrUnknownParameter is returned when SetParameter names a parameter the
// running program did not declare.
var ErrUnknownParameter = errors.New("params: unknown parameter")

// ErrOutOfRange is returned when a SetParameter value falls outside the
// parameter's declared [Min, Max].
var ErrOutOfRange = errors.New("params: value out of range")

// Spec declares one parameter's bounds and default, as it would be read
// from a version>=1 program header's forward-compatible params block (see
// the design notes on why version 0 has none). Built-in defaults stand in
// until that block exists.
type Spec struct {
	Name    string
	Min     int16
	Max     int16
	Default int16
}

// Table holds one program's live parameter values. It is created on
// program load and discarded on unload, per spec.md §3's parameter table
// lifecycle.
type Table struct {
	specs  map[string]Spec
	values map[string]int16
	order  []string
}

// NewTable builds a parameter table from a set of declarations, seeding
// every value at its declared default.
func NewTable(specs []Spec) *Table {
	t := &Table{
		specs:  make(map[string]Spec, len(specs)),
		values: make(map[string]int16, len(specs)),
	}
	for _, s := range specs {
		t.specs[s.Name] = s
		t.values[s.Name] = s.Default
		t.order = append(t.order, s.Name)
	}
	return t
}

// Get returns a parameter's current value.
func (t *Table) Get(name string) (int16, bool) {
	v, ok := t.values[name]
	return v, ok
}

// Set validates value against the parameter's declared range and, if
// valid, updates it. This is the Command Channel's SetParameter handler.
func (t *Table) Set(name string, value int16) error {
	spec, ok := t.specs[name]
	if !ok {
		return ErrUnknownParameter
	}
	if value < spec.Min || value > spec.Max {
		return ErrOutOfRange
	}
	t.values[name] = value
	return nil
}

// Names returns parameter names in declaration order, for status/debug
// output.
func (t *Table) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}
