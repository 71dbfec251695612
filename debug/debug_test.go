package debug

import "testing"

func TestRecordAndDumpTiming(t *testing.T) {
	ClearTiming()
	RecordTiming(EventStep, 10, 1, 2)
	RecordTiming(EventFault, 20, 3, 4)

	events := DumpTiming()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].PC != 10 || events[1].PC != 20 {
		t.Fatalf("unexpected event order: %+v", events)
	}
}

func TestDumpTimingWrapsAtRingSize(t *testing.T) {
	ClearTiming()
	for i := 0; i < RingSize+5; i++ {
		RecordTiming(EventStep, uint16(i), 0, 0)
	}
	events := DumpTiming()
	if len(events) != RingSize {
		t.Fatalf("expected ring capped at %d, got %d", RingSize, len(events))
	}
	if events[0].PC != 5 {
		t.Fatalf("expected oldest-first starting at PC=5, got %d", events[0].PC)
	}
}

func TestCompressedDumpRoundTripsThroughTinyzlib(t *testing.T) {
	ClearTiming()
	RecordTiming(EventLoad, 7, 100, 200)

	compressed := CompressedDump()
	if len(compressed) == 0 {
		t.Fatalf("expected non-empty compressed dump")
	}
	if compressed[0] != 0x78 {
		t.Fatalf("expected zlib header byte, got %#x", compressed[0])
	}
}

func TestEnabledTogglesWriterOutput(t *testing.T) {
	var got string
	SetWriter(func(s string) { got = s })
	defer SetWriter(nil)

	SetEnabled(false)
	Println("should not appear")
	if got != "" {
		t.Fatalf("expected no output while disabled, got %q", got)
	}

	SetEnabled(true)
	Println("hello")
	if got != "hello" {
		t.Fatalf("expected hello, got %q", got)
	}
	SetEnabled(false)
}
