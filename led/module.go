package led

import "github.com/stestagg/rpled/module"

// Function codes exposed by the LED module, per spec.md §4.2's closed set.
const (
	CodeClear        uint8 = 0
	CodeSetPixel     uint8 = 1
	CodeFill         uint8 = 2
	CodeGetNumPixels uint8 = 3
	CodeSetStrip     uint8 = 4
)

// ModuleID is the header module ID RPLed programs use to request the LED
// module. It is independent of opcode-slot position: spec.md's "LED module
// occupies slot 0 when it is the first module in the header" is about
// binding order, not this value.
const ModuleID uint8 = 1

// Module implements module.Module for LED drawing primitives. It owns no
// hardware state itself — it mutates Strip pixel buffers that the Strip
// Driver later reads via Strip.Snapshot.
type Module struct {
	strips []*Strip
	active int
}

// NewModule creates an LED module bound to a fixed set of strip buffers,
// configured in advance via SetStripConfig (spec.md §4.5). Strip 0 is
// active by default.
func NewModule(strips []*Strip) *Module {
	return &Module{strips: strips}
}

// SetStrips replaces the strip set, e.g. after a SetStripConfig message
// reconfigures one strip's length/protocol.
func (m *Module) SetStrips(strips []*Strip) {
	m.strips = strips
	if m.active >= len(strips) {
		m.active = 0
	}
}

func (m *Module) ID() uint8     { return ModuleID }
func (m *Module) Name() string  { return "led" }

func (m *Module) activeStrip() *Strip {
	if m.active < 0 || m.active >= len(m.strips) {
		return nil
	}
	return m.strips[m.active]
}

func (m *Module) Code(code uint8) (module.CodeSpec, module.Handler, bool) {
	switch code {
	case CodeClear:
		return module.CodeSpec{Arity: 0}, m.clear, true
	case CodeSetPixel:
		return module.CodeSpec{Arity: 4}, m.setPixel, true
	case CodeFill:
		return module.CodeSpec{Arity: 5}, m.fill, true
	case CodeGetNumPixels:
		return module.CodeSpec{Arity: 0, HasReturn: true}, m.getNumPixels, true
	case CodeSetStrip:
		return module.CodeSpec{Arity: 1}, m.setStrip, true
	default:
		return module.CodeSpec{}, nil, false
	}
}

func (m *Module) clear(args []int16) (int16, bool) {
	if s := m.activeStrip(); s != nil {
		s.clear()
	}
	return 0, false
}

// setPixel(x, r, g, b): channels are truncated to their low byte per
// spec.md §4.2 ("clamp-to-0..255 on each channel by low-byte truncation").
func (m *Module) setPixel(args []int16) (int16, bool) {
	s := m.activeStrip()
	if s == nil {
		return 0, false
	}
	x, r, g, b := args[0], args[1], args[2], args[3]
	s.setPixel(int(x), uint8(r), uint8(g), uint8(b))
	return 0, false
}

func (m *Module) fill(args []int16) (int16, bool) {
	s := m.activeStrip()
	if s == nil {
		return 0, false
	}
	lo, hi, r, g, b := args[0], args[1], args[2], args[3], args[4]
	s.fill(int(lo), int(hi), uint8(r), uint8(g), uint8(b))
	return 0, false
}

func (m *Module) getNumPixels(args []int16) (int16, bool) {
	s := m.activeStrip()
	if s == nil {
		return 0, true
	}
	return int16(s.Len()), true
}

// setStrip(i): out-of-range selection is a silent no-op that leaves the
// previous active strip selected, per spec.md §4.2.
func (m *Module) setStrip(args []int16) (int16, bool) {
	i := int(args[0])
	if i < 0 || i >= len(m.strips) {
		return 0, false
	}
	m.active = i
	return 0, false
}
