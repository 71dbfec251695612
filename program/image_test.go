package program

import (
	"bytes"
	"testing"

	"github.com/stestagg/rpled/module"
)

// buildImage hand-assembles a valid header per spec.md §3 for one module
// ID and the given bytecode.
func buildImage(moduleIDs []uint8, name string, heapSize uint16, bytecode []byte) []byte {
	r := 1 + len(moduleIDs) + len(name) + 1
	buf := make([]byte, 0, 7+r+len(bytecode))
	buf = append(buf, 'P', 'X', 'S')
	buf = append(buf, 0) // version
	buf = append(buf, byte(heapSize), byte(heapSize>>8))
	buf = append(buf, byte(r))
	buf = append(buf, byte(len(moduleIDs)))
	buf = append(buf, moduleIDs...)
	buf = append(buf, []byte(name)...)
	buf = append(buf, 0)
	buf = append(buf, bytecode...)
	return buf
}

func TestParseValidHeader(t *testing.T) {
	raw := buildImage([]uint8{1}, "blinky", 4, []byte{1, 2, 3})
	img, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Header.Name != "blinky" || img.Header.HeapSize != 4 {
		t.Fatalf("unexpected header: %+v", img.Header)
	}
	if !bytes.Equal(img.Bytecode, []byte{1, 2, 3}) {
		t.Fatalf("unexpected bytecode: %v", img.Bytecode)
	}
	if len(img.Header.ModuleIDs) != 1 || img.Header.ModuleIDs[0] != 1 {
		t.Fatalf("unexpected module ids: %v", img.Header.ModuleIDs)
	}
}

func TestParseBadMagic(t *testing.T) {
	raw := buildImage([]uint8{1}, "x", 0, nil)
	raw[0] = 'X'
	if _, err := Parse(raw); err != ErrBadMagic {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}

func TestParseOddHeapSize(t *testing.T) {
	raw := buildImage([]uint8{1}, "x", 3, nil)
	if _, err := Parse(raw); err != ErrBadHeapSize {
		t.Fatalf("expected ErrBadHeapSize, got %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	raw := buildImage([]uint8{1, 2}, "program-name", 8, []byte{9, 9, 9, 9})
	img, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	dumped := Dump(img)
	if !bytes.Equal(raw, dumped) {
		t.Fatalf("round trip mismatch:\n  in:  %v\n  out: %v", raw, dumped)
	}
}

func TestValidateUnknownModule(t *testing.T) {
	raw := buildImage([]uint8{77}, "x", 0, []byte{})
	img, _ := Parse(raw)
	reg := module.NewRegistry()
	if err := Validate(img, reg, 64); err != ErrUnknownModule {
		t.Fatalf("expected ErrUnknownModule, got %v", err)
	}
}

func TestValidateMemoryTooSmall(t *testing.T) {
	raw := buildImage(nil, "x", 60000, make([]byte, 100))
	img, _ := Parse(raw)
	reg := module.NewRegistry()
	if err := Validate(img, reg, 128); err != ErrMemoryTooSmall {
		t.Fatalf("expected ErrMemoryTooSmall, got %v", err)
	}
}
