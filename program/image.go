// Package program implements the Program Image format: header parsing and
// validation, and the loader that installs a validated image into a VM's
// memory plan. Grounded on the original rpled-vm's `impl Program for
// &[u8]` header accessors (program.rs), reworked into an explicit Parse
// step returning a value type rather than reading fields out of a raw
// slice on every access.
package program

import (
	"bytes"
	"errors"

	"github.com/stestagg/rpled/module"
	"github.com/stestagg/rpled/vm"
)

// Magic is the fixed 3-byte prefix every valid image starts with.
var Magic = [3]byte{'P', 'X', 'S'}

// CurrentVersion is the only header version this loader recognizes.
// Version 0 carries no params block; see design notes on the
// forward-compatible params region reserved for version >= 1.
const CurrentVersion = 0

// headerLenOffset is the number of header bytes (magic, version, heap
// size, header-length byte itself) that precede the R-counted region;
// program_start = 7 + R, mirroring the original's header_len + 7
// arithmetic.
const headerLenOffset = 7

var (
	ErrTruncated      = errors.New("program: truncated header")
	ErrBadMagic       = errors.New("program: bad magic")
	ErrBadVersion     = errors.New("program: unrecognized version")
	ErrBadHeapSize    = errors.New("program: heap size is odd")
	ErrUnknownModule  = errors.New("program: unknown module ID")
	ErrNameNotTerm    = errors.New("program: name not null-terminated in header")
	ErrMemoryTooSmall = errors.New("program: program+heap+minimum-stack exceeds memory size")
)

// Header is a parsed, validated Program Image header.
type Header struct {
	Version    uint8
	HeapSize   uint16
	ModuleIDs  []uint8
	Name       string
	headerLen  uint8 // R, the raw remaining-header-length byte
}

// Image is a fully parsed Program Image: its header plus the bytecode
// slice that follows it (program_start = 7+R onward).
type Image struct {
	Header   Header
	Bytecode []byte
}

// Parse validates and decodes a candidate image's header without touching
// VM memory. It never panics: malformed input is always a returned error,
// matching spec.md §7's "image rejection is reported synchronously, the
// running program is not disturbed".
func Parse(data []byte) (Image, error) {
	if len(data) < 8 {
		return Image{}, ErrTruncated
	}
	if !bytes.Equal(data[0:3], Magic[:]) {
		return Image{}, ErrBadMagic
	}
	version := data[3]
	if version != CurrentVersion {
		return Image{}, ErrBadVersion
	}
	heapSize := uint16(data[4]) | uint16(data[5])<<8
	if heapSize%2 != 0 {
		return Image{}, ErrBadHeapSize
	}
	r := data[6]
	moduleCount := data[7]

	programStart := int(headerLenOffset) + int(r)
	if len(data) < programStart {
		return Image{}, ErrTruncated
	}

	idsStart := 8
	idsEnd := idsStart + int(moduleCount)
	if idsEnd > programStart {
		return Image{}, ErrTruncated
	}
	ids := make([]uint8, moduleCount)
	copy(ids, data[idsStart:idsEnd])

	nameRegion := data[idsEnd:programStart]
	nul := bytes.IndexByte(nameRegion, 0)
	if nul < 0 {
		return Image{}, ErrNameNotTerm
	}
	name := string(nameRegion[:nul])

	return Image{
		Header: Header{
			Version:   version,
			HeapSize:  heapSize,
			ModuleIDs: ids,
			Name:      name,
			headerLen: r,
		},
		Bytecode: data[programStart:],
	}, nil
}

// Validate checks an already-parsed image against a module registry and a
// target memory size, without mutating either. This is the synchronous
// check a LoadProgram response is built from.
func Validate(img Image, registry *module.Registry, memSize uint16) error {
	for _, id := range img.Header.ModuleIDs {
		if !registry.Known(id) {
			return ErrUnknownModule
		}
	}
	_, ok := vm.NewMemoryPlan(memSize, uint16(len(img.Bytecode)), img.Header.HeapSize)
	if !ok {
		return ErrMemoryTooSmall
	}
	return nil
}

// Dump re-serializes a parsed image back to its exact byte-for-byte wire
// form, used by the round-trip testable property in spec.md §8.
func Dump(img Image) []byte {
	r := int(img.Header.headerLen)
	if r == 0 {
		// headerLen wasn't carried (e.g. a hand-built Image); recompute it
		// from the module-count byte, module IDs, and name so Dump still
		// round-trips: R spans byte 7 (module count) through the name's
		// null terminator.
		r = 1 + len(img.Header.ModuleIDs) + len(img.Header.Name) + 1
	}
	out := make([]byte, headerLenOffset+r)
	copy(out[0:3], Magic[:])
	out[3] = img.Header.Version
	out[4] = byte(img.Header.HeapSize)
	out[5] = byte(img.Header.HeapSize >> 8)
	out[6] = byte(r)
	out[7] = byte(len(img.Header.ModuleIDs))
	idsEnd := 8 + len(img.Header.ModuleIDs)
	copy(out[8:idsEnd], img.Header.ModuleIDs)
	copy(out[idsEnd:], []byte(img.Header.Name))
	out[idsEnd+len(img.Header.Name)] = 0
	return append(out, img.Bytecode...)
}
