// Package sched implements the Frame Scheduler: it interleaves VM
// execution with strip transmissions, honoring SLEEP's timing discipline
// and each protocol's minimum inter-frame interval. Grounded on the
// teacher's core/scheduler.go sorted-timer-list model (ScheduleTimer /
// TimerDispatch), generalized from Klipper-style step timers to RPLed's
// two wake sources: a VM SLEEP deadline and per-strip dirty buffers.
package sched

import (
	"github.com/stestagg/rpled/debug"
	"github.com/stestagg/rpled/internal/ticks"
	"github.com/stestagg/rpled/strip"
	"github.com/stestagg/rpled/vm"
)

// stepper is the slice of vm.VM's API the scheduler drives. Kept narrow
// so tests can substitute a fake VM.
type stepper interface {
	RunUntilSuspend() vm.Signal
	Fault() vm.Fault
	RequestHalt()
}

// Scheduler coordinates one VM instance with a fixed set of strip
// drivers. It owns no goroutines: Tick is called in a loop by the LED
// core's run loop, the same cooperative shape as the teacher's
// TimerDispatch being called from the firmware main loop rather than from
// an interrupt handler.
type Scheduler struct {
	VM     stepper
	Strips []*strip.Driver

	sleepUntil   ticks.Micros
	sleeping     bool
	lastTransmit []ticks.Micros
	everSent     []bool
}

// New creates a Scheduler over a VM and a fixed strip driver set. The
// driver set's length is fixed for the scheduler's lifetime; reconfiguring
// a strip changes that driver in place, it does not change the slice
// length the scheduler was built with unless the caller rebuilds it.
func New(v stepper, strips []*strip.Driver) *Scheduler {
	return &Scheduler{
		VM:           v,
		Strips:       strips,
		lastTransmit: make([]ticks.Micros, len(strips)),
		everSent:     make([]bool, len(strips)),
	}
}

// Tick runs the VM until its next suspension point (HALT, fault, or
// SLEEP), then transmits every strip that is dirty, not busy, and past
// its protocol's minimum inter-frame interval. It is the scheduler's
// single entry point, called repeatedly by the LED core's main loop.
func (s *Scheduler) Tick() {
	if s.sleeping {
		if int32(s.sleepUntil-ticks.Now()) > 0 {
			s.transmitDue()
			return
		}
		s.sleeping = false
	}

	sig := s.VM.RunUntilSuspend()
	if sig.Slept {
		// SLEEP(0) yields one tick without a guaranteed delay (spec.md
		// §4.4); any nonzero duration becomes a deadline the scheduler
		// polls against on subsequent Tick calls rather than blocking,
		// since the LED core must stay responsive to the Command Channel
		// while "asleep".
		s.sleeping = true
		s.sleepUntil = ticks.Now() + ticks.Micros(sig.SleepMicros)
		debug.RecordTiming(debug.EventSleep, 0, uint32(sig.SleepMicros), 0)
	} else if sig.Halted {
		event := uint8(debug.EventHaltClean)
		if s.VM.Fault() != vm.FaultNone {
			event = debug.EventFault
		}
		debug.RecordTiming(event, 0, uint32(s.VM.Fault()), 0)
	}
	s.transmitDue()
}

// transmitDue pushes a fresh frame to every strip whose buffer is dirty,
// not already mid-transmit, and due per its protocol's minimum
// inter-frame interval. A failed transmit degrades only that strip; the
// others are unaffected (spec.md §7).
func (s *Scheduler) transmitDue() {
	now := ticks.Now()
	for i, d := range s.Strips {
		if d == nil || !d.ShouldTransmit() {
			continue
		}
		minInterval := ticks.Micros(strip.MinInterFrameInterval(d.Protocol))
		if s.everSent[i] && now-s.lastTransmit[i] < minInterval {
			continue
		}
		if err := d.Transmit(); err == nil {
			s.lastTransmit[i] = now
			s.everSent[i] = true
			debug.RecordTiming(debug.EventTransmit, 0, uint32(i), 0)
		}
	}
}

// RequestHalt cancels any in-flight SLEEP and forwards a halt request to
// the VM, so the next Tick's RunUntilSuspend returns without executing
// further instructions — spec.md §5's StopProgram/LoadProgram cancellation
// contract. It does not set the VM's Halted flag; the StopProgram handler
// follows it with vm.VM.Stop for that.
func (s *Scheduler) RequestHalt() {
	s.sleeping = false
	s.VM.RequestHalt()
}
