// Package strip implements the Strip Driver: per-protocol bit encoding,
// a PIO program generator, and a FIFO-push abstraction that takes a pixel
// buffer snapshot and emits the exact waveform a strip's protocol
// requires. PIOTransmitter.Transmit (pio_rp2040.go) feeds the PIO state
// machine's TX FIFO word by word rather than arming a DMA channel, the
// same approach the teacher's own targets/pio/stepper_pio.go and the
// retrieval pack's ws2812 PIO program both take — a real DMA-backed pump
// is future work, not implemented here. Grounded on the teacher's
// targets/pio/stepper_pio.go (PIO program construction via
// github.com/tinygo-org/pio's AssemblerV0) and core/pwm_hal.go /
// core/gpio_hal.go (interface + global-singleton + Set/Must HAL pattern),
// generalized from stepper pulses to LED protocol waveforms.
package strip

// Protocol identifies a strip's wire protocol and its bit-level timing
// requirements. Values are distinct PIO program configurations, not just
// labels: GRB vs GRBW changes the per-pixel word width fed to the PIO
// state machine's TX FIFO.
type Protocol uint8

const (
	// ProtocolWS2812 is the common 24-bit GRB single-wire protocol
	// (WS2812/WS2812B/SK6812-RGB compatible timing).
	ProtocolWS2812 Protocol = iota
	// ProtocolSK6812GRBW is the 32-bit GRBW variant used by SK6812 RGBW
	// strips, carrying an extra white channel.
	ProtocolSK6812GRBW
	// ProtocolAPA102 is the two-wire (clock + data) protocol used by
	// APA102/DotStar strips, with an explicit 5-bit global brightness
	// field per pixel instead of protocol-timing-encoded bits.
	ProtocolAPA102
)

// Timing describes one protocol's single-wire bit timing in nanoseconds.
// The constants were cross-checked by hand against
// tinygo.org/x/drivers/ws2812's published timings; that package is not
// imported, since RPLed needs raw access to the PIO assembler the drivers
// package does not expose. The PIO program's per-instruction delays are
// derived from these values; its clock divider is fixed.
type Timing struct {
	T0HNanos  uint32 // high time for a 0 bit
	T0LNanos  uint32 // low time for a 0 bit
	T1HNanos  uint32 // high time for a 1 bit
	T1LNanos  uint32 // low time for a 1 bit
	ResetMicros uint32 // minimum latch/reset interval after a frame
}

// BitsPerPixel reports the wire width of one pixel under this protocol:
// 24 for GRB strips, 32 for GRBW.
func (p Protocol) BitsPerPixel() int {
	switch p {
	case ProtocolSK6812GRBW:
		return 32
	case ProtocolAPA102:
		return 32 // 3 color bytes + 1 global-brightness byte, APA102 framing
	default:
		return 24
	}
}

// DefaultTiming returns the single-wire bit timing RPLed ships for a
// protocol. APA102 is clock-driven and has no single-wire bit timing;
// callers must not call DefaultTiming for it.
func DefaultTiming(p Protocol) Timing {
	switch p {
	case ProtocolSK6812GRBW:
		return Timing{T0HNanos: 300, T0LNanos: 900, T1HNanos: 600, T1LNanos: 600, ResetMicros: 80}
	default: // ProtocolWS2812
		return Timing{T0HNanos: 400, T0LNanos: 850, T1HNanos: 800, T1LNanos: 450, ResetMicros: 50}
	}
}

// MinInterFrameInterval is the minimum wall-clock gap the Frame Scheduler
// must leave between two transmits on a strip of this protocol, per
// spec.md §4.4's "subject to each protocol's minimum inter-frame
// interval".
func MinInterFrameInterval(p Protocol) uint32 {
	if p == ProtocolAPA102 {
		return 0 // clock-driven; no latch interval to respect
	}
	return DefaultTiming(p).ResetMicros
}
