package strip

import "github.com/stestagg/rpled/led"

// Driver pairs one pixel buffer with the Transmitter that serializes it.
// It is the unit the Frame Scheduler calls "transmit" on: it only ever
// pushes a coherent snapshot, never the live buffer, so a VM mutation
// racing a transmit can't tear a frame (spec.md §5 and §8's "Coherence"
// property).
type Driver struct {
	Strip       *led.Strip
	Protocol    Protocol
	Transmitter Transmitter
	degraded    bool
}

// NewDriver builds a Driver for one configured strip.
func NewDriver(s *led.Strip, protocol Protocol, tx Transmitter) *Driver {
	return &Driver{Strip: s, Protocol: protocol, Transmitter: tx}
}

// Degraded reports whether the last Transmit failed, per spec.md §7's
// hardware-error handling. A failure affects no other strip and not the
// VM. The Frame Scheduler does not skip a degraded strip: it is
// transmitted again the next time its buffer is dirtied.
func (d *Driver) Degraded() bool { return d.degraded }

// ShouldTransmit reports whether this strip has unflushed writes and is
// not still busy finishing a prior frame — the Frame Scheduler's
// demand-driven refresh test (spec.md §4.4).
func (d *Driver) ShouldTransmit() bool {
	return d.Strip.Dirty() && !d.Transmitter.Busy()
}

// Transmit snapshots the pixel buffer (clearing dirty) and hands it to
// the Transmitter. Calling it on an unchanged buffer twice — i.e. the
// buffer was never re-dirtied between calls — is a no-op the second time,
// since ShouldTransmit will be false; Transmit itself does not re-check
// dirty so callers that bypass ShouldTransmit still get a defined result
// (idempotent output for an unchanged buffer, per spec.md §8).
func (d *Driver) Transmit() error {
	snapshot := d.Strip.Snapshot()
	if err := d.Transmitter.Transmit(snapshot); err != nil {
		d.degraded = true
		return err
	}
	d.degraded = false
	return nil
}
