package strip

import "github.com/stestagg/rpled/led"

// Transmitter is the abstract strip-output interface core code drives.
// Platform-specific implementations own the actual PIO state machine and
// pin configuration; a software implementation exists for host-side
// tests. Mirrors the teacher's GPIODriver/PWMDriver shape (core/gpio_hal.go,
// core/pwm_hal.go): a narrow interface plus a global-singleton registry
// per strip index, generalized from one-driver-per-firmware to
// one-driver-per-strip since RPLed runs up to eight strips concurrently.
type Transmitter interface {
	// Configure prepares hardware for a strip of the given protocol and
	// pixel count. Called once at SetStripConfig time and whenever the
	// configuration changes.
	Configure(protocol Protocol, length int) error

	// Transmit pushes a pixel-buffer snapshot to the wire. It must not
	// block the caller on the full frame + latch interval; completion is
	// reported via Busy() returning false, or synchronously for backends
	// that have no asynchronous completion path (e.g. the software
	// backend).
	Transmit(pixels []led.Pixel) error

	// Busy reports whether a previously started Transmit's frame and
	// latch interval are still in flight.
	Busy() bool
}

// registry is the global per-strip Transmitter table, set up once at boot
// after PIO/DMA resources are partitioned (spec.md §5: "PIO blocks and
// DMA channels are partitioned at boot; each strip owns its hardware
// resources for its lifetime").
var registry []Transmitter

// SetTransmitters installs the fixed set of per-strip transmitters. Called
// once at boot by the boot code (outside this repository) after resource
// partitioning.
func SetTransmitters(t []Transmitter) {
	registry = t
}

// MustTransmitter returns the configured Transmitter for a strip index or
// panics if none was installed — mirrors the teacher's MustGPIO/MustPWM,
// since a missing transmitter at this point is a boot-sequencing bug, not
// a recoverable runtime condition.
func MustTransmitter(index int) Transmitter {
	if index < 0 || index >= len(registry) || registry[index] == nil {
		panic("strip: transmitter not configured")
	}
	return registry[index]
}

// Count returns how many strip transmitters are installed.
func Count() int { return len(registry) }
