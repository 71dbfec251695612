// Package debug provides no-op-by-default diagnostic output and a
// post-mortem timing ring buffer, mirroring the teacher firmware's
// core/debug.go: a platform-pluggable writer plus a fixed-size ring that
// always captures, independent of whether output is enabled.
package debug

import (
	"encoding/binary"

	"github.com/stestagg/rpled/internal/tinyzlib"
)

// Writer is a function type for emitting a debug line to wherever the
// platform wants it (USB CDC, UART, stdout in tests).
type Writer func(string)

// Event type codes recorded in the timing ring.
const (
	EventStep      = 1 // one VM Step executed
	EventFault     = 2 // VM entered a fault state
	EventSleep     = 3 // SLEEP suspended the VM
	EventTransmit  = 4 // a strip transmit completed
	EventLoad      = 5 // a program was loaded
	EventHaltClean = 6 // HALT executed cleanly
)

// RingSize bounds the timing ring to the last N events, for post-mortem
// dumps without unbounded memory growth on a microcontroller.
const RingSize = 32

// TimingEvent captures one timing-relevant occurrence for post-mortem
// analysis after a fault or on an explicit status dump.
type TimingEvent struct {
	EventType uint8
	PC        uint16
	Value1    uint32
	Value2    uint32
}

var (
	writer        Writer = func(string) {}
	enabled       bool
	ring          [RingSize]TimingEvent
	ringHead      uint8
	ringHasWrapped bool
)

// SetWriter installs the platform-specific debug output function. Called
// once at boot by the boot code, which lives outside this repository.
func SetWriter(w Writer) {
	if w == nil {
		w = func(string) {}
	}
	writer = w
}

// SetEnabled toggles whether Printf-style messages are actually emitted.
// Disabled by default: the LED core's real-time path should not pay for
// string formatting unless a developer asked for it.
func SetEnabled(v bool) { enabled = v }

// Enabled reports whether debug output is currently on.
func Enabled() bool { return enabled }

// Println writes msg through the installed writer, if enabled.
func Println(msg string) {
	if enabled {
		writer(msg)
	}
}

// RecordTiming appends an event to the ring buffer. Always active — cheap
// enough to run unconditionally on the VM's hot path, and the ring is what
// DumpTiming and CompressedDump read back for post-mortem context.
func RecordTiming(eventType uint8, pc uint16, v1, v2 uint32) {
	ring[ringHead] = TimingEvent{EventType: eventType, PC: pc, Value1: v1, Value2: v2}
	ringHead++
	if ringHead >= RingSize {
		ringHead = 0
		ringHasWrapped = true
	}
}

// DumpTiming returns the ring's contents oldest-first, for inclusion in a
// post-mortem report. It never allocates more than RingSize entries.
func DumpTiming() []TimingEvent {
	if !ringHasWrapped {
		out := make([]TimingEvent, ringHead)
		copy(out, ring[:ringHead])
		return out
	}
	out := make([]TimingEvent, RingSize)
	copy(out, ring[ringHead:])
	copy(out[RingSize-int(ringHead):], ring[:ringHead])
	return out
}

// timingEventSize is the wire width of one encoded TimingEvent: 1 byte
// event type, 2 bytes PC, 4+4 bytes Value1/Value2.
const timingEventSize = 1 + 2 + 4 + 4

// CompressedDump encodes DumpTiming's events as fixed-width little-endian
// records and wraps them in zlib framing via tinyzlib, the same
// store-block-over-USB trick the teacher's dictionary.go uses so an
// external rpled-debug tool (out of scope here) can pull a post-mortem
// dump through the same narrow, already-CPU-cheap USB CDC path the
// teacher reserves for its compressed command dictionary.
func CompressedDump() []byte {
	events := DumpTiming()
	raw := make([]byte, 0, len(events)*timingEventSize)
	for _, e := range events {
		var rec [timingEventSize]byte
		rec[0] = e.EventType
		binary.LittleEndian.PutUint16(rec[1:3], e.PC)
		binary.LittleEndian.PutUint32(rec[3:7], e.Value1)
		binary.LittleEndian.PutUint32(rec[7:11], e.Value2)
		raw = append(raw, rec[:]...)
	}
	return tinyzlib.Compress(raw)
}

// ClearTiming resets the ring, used when a fresh program is loaded so a
// post-mortem dump never straddles two unrelated runs.
func ClearTiming() {
	ring = [RingSize]TimingEvent{}
	ringHead = 0
	ringHasWrapped = false
}
