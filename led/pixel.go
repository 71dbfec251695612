// Package led implements the LED Module: the VM-facing drawing primitives
// (CLEAR, SET_PIXEL, FILL, GET_NUM_PIXELS, SET_STRIP) and the per-strip
// pixel buffers they mutate, per spec.md §3/§4.2. Grounded on the teacher's
// driver-instance pattern (core/driver_registry.go) generalized from one bus
// device per OID to one pixel buffer per strip index.
package led

// Pixel is a 24-bit RGB value. Protocols that need 32-bit GRBW (SK6812,
// APA102-with-brightness) normalize at the strip driver, never here — the
// pixel buffer is protocol-agnostic per spec.md §3.
type Pixel struct {
	R, G, B uint8
}

// Strip is one strip's pixel buffer plus its dirty-since-last-latch flag.
type Strip struct {
	pixels []Pixel
	dirty  bool
}

// NewStrip creates a strip buffer of the given pixel count.
func NewStrip(length int) *Strip {
	return &Strip{pixels: make([]Pixel, length)}
}

// Len returns the configured pixel count.
func (s *Strip) Len() int { return len(s.pixels) }

// Dirty reports whether the buffer has been written since the last
// successful Snapshot-for-transmit.
func (s *Strip) Dirty() bool { return s.dirty }

// Pixels exposes the current contents read-only-by-convention; callers that
// hand this to a driver must not retain it across the next mutation — the
// Strip Driver contract requires taking a Snapshot instead.
func (s *Strip) Pixels() []Pixel { return s.pixels }

// Snapshot returns a copy of the pixel buffer and clears dirty, for handoff
// to a Strip Driver. Copying here (rather than handing out the live slice)
// is what gives spec.md §4.3's "a transmit emits a coherent pixel-buffer
// snapshot" guarantee: the VM may keep mutating s.pixels on the next Step
// while the driver still has the old data in flight.
func (s *Strip) Snapshot() []Pixel {
	out := make([]Pixel, len(s.pixels))
	copy(out, s.pixels)
	s.dirty = false
	return out
}

// Resize replaces the buffer with a fresh, all-zero buffer of the given
// length, implicitly clearing it — used by SetStripConfig (spec.md §4.5).
func (s *Strip) Resize(length int) {
	s.pixels = make([]Pixel, length)
	s.dirty = true
}

func (s *Strip) clear() {
	for i := range s.pixels {
		s.pixels[i] = Pixel{}
	}
	s.dirty = true
}

func (s *Strip) setPixel(x int, r, g, b uint8) {
	if x < 0 || x >= len(s.pixels) {
		return // silent no-op per spec.md §4.2
	}
	s.pixels[x] = Pixel{R: r, G: g, B: b}
	s.dirty = true
}

func (s *Strip) fill(lo, hi int, r, g, b uint8) {
	if lo > hi {
		return // silent no-op per spec.md §4.2
	}
	if lo < 0 {
		lo = 0
	}
	if hi >= len(s.pixels) {
		hi = len(s.pixels) - 1
	}
	if lo > hi {
		return
	}
	for i := lo; i <= hi; i++ {
		s.pixels[i] = Pixel{R: r, G: g, B: b}
	}
	s.dirty = true
}
