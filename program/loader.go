package program

import (
	"github.com/stestagg/rpled/params"
	"github.com/stestagg/rpled/vm"
)

// vmLoader is the slice of vm.VM's API the loader needs, kept narrow so
// tests can fake it without building a real memory buffer.
type vmLoader interface {
	LoadImage(programBytes []byte, heapLen uint16) bool
}

// moduleBinder is the slice of module.Registry's API the loader needs.
type moduleBinder interface {
	Known(id uint8) bool
	Bind(ids []uint8) bool
}

// Loader wires a module registry and a VM together for LoadProgram
// handling: validate, then install, leaving prior state untouched on any
// failure (spec.md §4.6's "loading is atomic from the caller's view").
type Loader struct {
	vm       vmLoader
	registry moduleBinder
}

// NewLoader binds a Loader to the VM instance and module registry it will
// install programs into. Both are process-wide singletons on the LED
// core, matching spec.md §9's "the VM instance is process-wide".
func NewLoader(v vmLoader, r moduleBinder) *Loader {
	return &Loader{vm: v, registry: r}
}

// Load validates img against memSize, then atomically binds its modules
// and installs its bytecode. On any failure the previously bound modules
// and VM memory are left exactly as they were. On success it returns a
// fresh parameter table seeded with the supplied built-in defaults (the
// version-0 header carries no params block of its own).
func (l *Loader) Load(img Image, memSize uint16, defaults []params.Spec) (*params.Table, error) {
	for _, id := range img.Header.ModuleIDs {
		if !l.registry.Known(id) {
			return nil, ErrUnknownModule
		}
	}
	if _, ok := vm.NewMemoryPlan(memSize, uint16(len(img.Bytecode)), img.Header.HeapSize); !ok {
		return nil, ErrMemoryTooSmall
	}
	if !l.registry.Bind(img.Header.ModuleIDs) {
		return nil, ErrUnknownModule
	}
	if !l.vm.LoadImage(img.Bytecode, img.Header.HeapSize) {
		return nil, ErrMemoryTooSmall
	}
	return params.NewTable(defaults), nil
}
