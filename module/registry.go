// Package module implements the Module Registry: it binds module IDs named
// in a program's header to concrete module implementations, in header
// order, and dispatches MOD0/MOD1/MOD2/MODN opcodes to them. Grounded on
// the teacher's core/driver_registry.go (an OID -> implementation map with
// a closed set of lifecycle hooks) and the original rpled-vm's
// modules/define_module.rs (one dispatch table per module, arity checked
// at call time, not resolved by open polymorphism per spec.md §9).
package module

import "github.com/stestagg/rpled/vm"

// CodeSpec describes one function code exposed by a Module: how many
// arguments it takes and whether it produces a result. A mismatch between
// the calling opcode's arity tag and this declaration is a VM fault
// (spec.md §4.2).
type CodeSpec struct {
	Arity     int
	HasReturn bool
}

// Handler is the concrete implementation of one function code. args are in
// call order (the first argument listed in source is args[0], per spec.md
// §4.1's LIFO argument convention already unwound by the VM dispatcher).
type Handler func(args []int16) (result int16, hasResult bool)

// Module is a closed set of function codes bound to one header module ID.
type Module interface {
	// ID is the header module ID this implementation answers to.
	ID() uint8
	// Name is used for diagnostics only.
	Name() string
	// Code looks up a function code, returning its declared arity/return
	// shape and its handler. ok is false for unknown codes.
	Code(code uint8) (spec CodeSpec, handler Handler, ok bool)
}

// Registry resolves header module IDs to Module implementations and binds
// them to VM opcode slots in the order a program's header lists them, per
// spec.md §3 "Module Binding". It implements vm.ModuleCaller so a vm.VM can
// dispatch module opcodes through it directly.
type Registry struct {
	known map[uint8]Module
	bound [vm.MaxModuleSlots]Module
	count int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{known: make(map[uint8]Module)}
}

// Register makes a Module implementation available for binding by its
// header ID. Registering the same ID twice replaces the prior entry.
func (r *Registry) Register(m Module) {
	r.known[m.ID()] = m
}

// Known reports whether a header module ID has a registered implementation,
// without binding it to any slot. Used by program.Validate.
func (r *Registry) Known(id uint8) bool {
	_, ok := r.known[id]
	return ok
}

// Bind resolves ids (in header order) against the known-module table and
// installs them into VM opcode slots 0..len(ids)-1. It fails if any ID is
// unknown or if there are more modules than opcode slots available
// (spec.md §3's four-opcodes-per-slot partition caps this at
// vm.MaxModuleSlots). Bind is atomic: on failure, the previous binding is
// left untouched.
func (r *Registry) Bind(ids []uint8) bool {
	if len(ids) > vm.MaxModuleSlots {
		return false
	}
	var next [vm.MaxModuleSlots]Module
	for i, id := range ids {
		m, ok := r.known[id]
		if !ok {
			return false
		}
		next[i] = m
	}
	r.bound = next
	r.count = len(ids)
	return true
}

// Unbind clears all slot bindings, used on program unload.
func (r *Registry) Unbind() {
	r.bound = [vm.MaxModuleSlots]Module{}
	r.count = 0
}

// ModuleAt returns the module bound to a given slot, if any.
func (r *Registry) ModuleAt(slot int) (Module, bool) {
	if slot < 0 || slot >= r.count {
		return nil, false
	}
	m := r.bound[slot]
	return m, m != nil
}

// CallModule implements vm.ModuleCaller.
func (r *Registry) CallModule(slot int, arity vm.ModuleArity, code uint8, args []int16) (int16, bool, vm.Fault) {
	m, ok := r.ModuleAt(slot)
	if !ok {
		return 0, false, vm.FaultUnknownModuleSlot
	}
	spec, handler, ok := m.Code(code)
	if !ok {
		return 0, false, vm.FaultModuleArityMismatch
	}
	wantArity := spec.Arity
	switch arity {
	case vm.ArityMod0:
		if wantArity != 0 {
			return 0, false, vm.FaultModuleArityMismatch
		}
	case vm.ArityMod1:
		if wantArity != 1 {
			return 0, false, vm.FaultModuleArityMismatch
		}
	case vm.ArityMod2:
		if wantArity != 2 {
			return 0, false, vm.FaultModuleArityMismatch
		}
	case vm.ArityModN:
		if wantArity != len(args) {
			return 0, false, vm.FaultModuleArityMismatch
		}
	}
	result, hasResult := handler(args)
	return result, hasResult, vm.FaultNone
}
