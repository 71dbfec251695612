//go:build tinygo

package ticks

import "time"

var bootTime = time.Now()

// getSystemTicks derives the tick count from the runtime monotonic clock
// rather than a hardware timer register, since RPLed's memory plan has no
// reserved MMIO timer the way the teacher's stepper subsystem does; a
// microsecond-resolution software clock is accurate enough for SLEEP
// durations and frame cadence.
func getSystemTicks() uint32 {
	return uint32(time.Since(bootTime).Microseconds())
}

// setSystemTicks is a no-op on-target: Advance is a host-test affordance
// only, never called from firmware code paths.
func setSystemTicks(t uint32) {}
