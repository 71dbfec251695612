package vm

// MinStackWords is the minimum number of 16-bit stack slots the loader must
// reserve, regardless of how much room program+heap leave. Grounded on the
// original rpled-vm's MIN_STACK_SIZE (8 bytes == 4 words); RPLed keeps the
// byte constant and exposes the word count for readability at call sites.
const MinStackWords = 4

// MinStackBytes is MinStackWords expressed in bytes.
const MinStackBytes = MinStackWords * 2

// MemoryPlan partitions a flat N-byte VM memory buffer into three regions,
// per spec.md §3: program/data at offset 0, heap immediately after, and a
// stack growing upward from the heap's end to the top of memory.
type MemoryPlan struct {
	Size        uint16 // total memory size in bytes (N KB, compile-time constant per build)
	ProgramLen  uint16 // bytecode length in bytes
	HeapLen     uint16 // heap size in bytes, from the program header
	StackBase   uint16 // first valid stack address (== ProgramLen+HeapLen)
	StackTop    uint16 // one past the last valid stack address (== Size)
}

// NewMemoryPlan computes region boundaries and validates that they fit
// within size, reserving at least MinStackBytes for the stack.
func NewMemoryPlan(size, programLen, heapLen uint16) (MemoryPlan, bool) {
	stackBase := uint32(programLen) + uint32(heapLen)
	if stackBase+MinStackBytes > uint32(size) {
		return MemoryPlan{}, false
	}
	return MemoryPlan{
		Size:       size,
		ProgramLen: programLen,
		HeapLen:    heapLen,
		StackBase:  uint16(stackBase),
		StackTop:   size,
	}, true
}

// HeapStart is the address of the first heap byte.
func (p MemoryPlan) HeapStart() uint16 { return p.ProgramLen }

// HeapEnd is one past the last heap byte (== StackBase).
func (p MemoryPlan) HeapEnd() uint16 { return p.StackBase }
