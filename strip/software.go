package strip

import "github.com/stestagg/rpled/led"

// SoftwareTransmitter is a host-side Transmitter that records the last
// frame it was asked to send instead of driving real hardware. It backs
// unit tests for the Frame Scheduler and Strip Driver contract, the way
// the teacher's host/ package exercises core logic without MCU hardware.
type SoftwareTransmitter struct {
	Protocol Protocol
	Length   int

	// Frames accumulates every Transmit call's pixel snapshot, letting
	// tests assert on transmit history (e.g. the Blinky scenario's "at
	// least one transmit carried pixel 5 = (255,0,0)").
	Frames [][]led.Pixel

	// FailNext, if set, causes the next Transmit call to return it once
	// and then clears itself — used to exercise the Frame Scheduler's
	// hardware-error handling (spec.md §7's "affected strip is marked
	// degraded; other strips continue").
	FailNext error
}

// NewSoftwareTransmitter creates an empty software transmitter.
func NewSoftwareTransmitter() *SoftwareTransmitter {
	return &SoftwareTransmitter{}
}

func (s *SoftwareTransmitter) Configure(protocol Protocol, length int) error {
	s.Protocol = protocol
	s.Length = length
	s.Frames = nil
	return nil
}

func (s *SoftwareTransmitter) Transmit(pixels []led.Pixel) error {
	if s.FailNext != nil {
		err := s.FailNext
		s.FailNext = nil
		return err
	}
	frame := make([]led.Pixel, len(pixels))
	copy(frame, pixels)
	s.Frames = append(s.Frames, frame)
	return nil
}

// Busy always reports false: the software backend completes synchronously
// within Transmit, so there is never an in-flight frame to wait on.
func (s *SoftwareTransmitter) Busy() bool { return false }

// LastFrame returns the most recently transmitted snapshot, or nil if
// none has been sent yet.
func (s *SoftwareTransmitter) LastFrame() []led.Pixel {
	if len(s.Frames) == 0 {
		return nil
	}
	return s.Frames[len(s.Frames)-1]
}
