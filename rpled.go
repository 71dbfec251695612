// Package rpled holds the firmware's compile-time constants: the three
// supported Memory Plan sizes, the default Command Channel depth, and the
// strip count. There is no config file and no config library here by design
// (see SPEC_FULL.md's AMBIENT STACK) — the teacher firmware has none
// either, and a handful of named constants needs nothing heavier.
package rpled

// Memory Plan sizes the loader accepts, per spec.md §3 ("N KB (N ∈
// {4, 8, 16}, compile-time)"). The boot code (outside this repository)
// picks exactly one of these at build time.
const (
	MemSize4KB  uint16 = 4 * 1024
	MemSize8KB  uint16 = 8 * 1024
	MemSize16KB uint16 = 16 * 1024
)

// CommandChannelDepth is the bounded mailbox depth New(depth) in the comm
// package is built with on a real firmware boot — enough to absorb a
// QueryStatus racing a SetParameter without the I/O core ever blocking on
// a full channel in practice, without reserving more RAM than a single
// in-flight command batch needs.
const CommandChannelDepth = 4

// MaxStrips is the number of strip driver slots the Strip Driver
// partitions hardware for, per spec.md §4.3 ("Up to eight drivers may run
// concurrently, limited by available state machines") — eight PIO state
// machines across two PIO blocks on RP2040.
const MaxStrips = 8
