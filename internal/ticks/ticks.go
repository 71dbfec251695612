// Package ticks abstracts wall-clock time the way the teacher firmware's
// core/timer.go does: a platform-independent tick counter with a
// tinygo/non-tinygo split for the actual read/write, so the scheduler and
// tests can run against the same API on host and target.
package ticks

// Microsecond-resolution monotonic tick count. 32 bits wraps after ~71
// minutes at 1MHz; callers compare deltas, never absolute values, so
// wraparound is harmless (mirrors the teacher's GetTime/TimerFromUS split).
type Micros uint32

// Now returns the current tick count.
func Now() Micros {
	return Micros(getSystemTicks())
}

// Advance is test/simulation-only: it lets host tests move the clock
// forward deterministically instead of sleeping real wall time.
func Advance(d Micros) {
	setSystemTicks(uint32(Now() + d))
}

// Since returns the elapsed ticks from start to now, correct across one
// wraparound because Micros arithmetic is unsigned modulo 2^32.
func Since(start Micros) Micros {
	return Now() - start
}
