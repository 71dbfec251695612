package vm

import (
	"encoding/binary"
	"testing"
)

// asm is a tiny test-only assembler for hand-written programs; it mirrors
// the table in spec.md §6 rather than reimplementing rpled-compile.
type asm struct {
	buf []byte
}

func (a *asm) op(o Opcode) *asm { a.buf = append(a.buf, byte(o)); return a }
func (a *asm) u16(v uint16) *asm {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	a.buf = append(a.buf, b[:]...)
	return a
}
func (a *asm) i16(v int16) *asm { return a.u16(uint16(v)) }
func (a *asm) u8(v uint8) *asm  { a.buf = append(a.buf, v); return a }

func newVM(t *testing.T, program []byte, heapLen uint16, size uint16) *VM {
	t.Helper()
	v := New(size, nil)
	if !v.LoadImage(program, heapLen) {
		t.Fatalf("LoadImage failed")
	}
	return v
}

func runToHalt(v *VM, maxSteps int) Signal {
	var sig Signal
	for i := 0; i < maxSteps; i++ {
		sig = v.Step()
		if sig.Halted {
			return sig
		}
	}
	return sig
}

func TestPushHalt(t *testing.T) {
	a := (&asm{}).op(OpPush).i16(42).op(OpHalt)
	v := newVM(t, a.buf, 0, 64)
	sig := runToHalt(v, 10)
	if !sig.Halted || v.Fault() != FaultNone {
		t.Fatalf("expected clean halt, got fault=%v", v.Fault())
	}
	top, ok := v.peekAt(0)
	if !ok || top != 42 {
		t.Fatalf("expected top=42, got %v ok=%v", top, ok)
	}
}

func TestDivideByZero(t *testing.T) {
	a := (&asm{}).op(OpPush).i16(10).op(OpPush).i16(0).op(OpDiv).op(OpHalt)
	v := newVM(t, a.buf, 0, 64)
	divPC := uint16(3 + 3) // two 3-byte PUSH instructions
	runToHalt(v, 10)
	if v.Fault() != FaultDivideByZero {
		t.Fatalf("expected DivideByZero, got %v", v.Fault())
	}
	if v.PC != divPC {
		t.Fatalf("expected PC at DIV (%d), got %d", divPC, v.PC)
	}
}

func TestModByZero(t *testing.T) {
	a := (&asm{}).op(OpPush).i16(10).op(OpPush).i16(0).op(OpMod).op(OpHalt)
	v := newVM(t, a.buf, 0, 64)
	runToHalt(v, 10)
	if v.Fault() != FaultDivideByZero {
		t.Fatalf("expected DivideByZero for MOD, got %v", v.Fault())
	}
}

func TestStackOverflow(t *testing.T) {
	// loop: PUSH 1; JMP loop  -- fills the stack and must eventually fault.
	a := &asm{}
	a.op(OpPush).i16(1).op(OpJmp).i16(-6)
	v := newVM(t, a.buf, 0, 16)
	sig := runToHalt(v, 1000)
	if !sig.Halted || v.Fault() != FaultStackOverflow {
		t.Fatalf("expected StackOverflow, got halted=%v fault=%v", sig.Halted, v.Fault())
	}
	if v.SP != v.Plan.StackTop {
		t.Fatalf("expected SP at stack_top (%d), got %d", v.Plan.StackTop, v.SP)
	}
}

func TestStackUnderflow(t *testing.T) {
	a := (&asm{}).op(OpPop).op(OpHalt)
	v := newVM(t, a.buf, 0, 64)
	runToHalt(v, 10)
	if v.Fault() != FaultStackUnderflow {
		t.Fatalf("expected StackUnderflow, got %v", v.Fault())
	}
}

func TestInvalidOpcode(t *testing.T) {
	v := newVM(t, []byte{0xFF & 0x2F}, 0, 64) // opcode 47, reserved
	runToHalt(v, 10)
	if v.Fault() != FaultInvalidOpcode {
		t.Fatalf("expected InvalidOpcode, got %v", v.Fault())
	}
}

func TestLoadStoreRoundTrip(t *testing.T) {
	a := &asm{}
	a.op(OpPush).i16(1234).op(OpStore).u16(0)
	a.op(OpLoad).u16(0).op(OpHalt)
	v := newVM(t, a.buf, 2, 64)
	runToHalt(v, 10)
	if v.Fault() != FaultNone {
		t.Fatalf("unexpected fault %v", v.Fault())
	}
	top, _ := v.peekAt(0)
	if top != 1234 {
		t.Fatalf("expected 1234, got %d", top)
	}
}

func TestStoreOutOfBounds(t *testing.T) {
	a := (&asm{}).op(OpPush).i16(1).op(OpStore).u16(100).op(OpHalt)
	v := newVM(t, a.buf, 2, 64)
	runToHalt(v, 10)
	if v.Fault() != FaultMemoryOutOfBounds {
		t.Fatalf("expected MemoryOutOfBounds, got %v", v.Fault())
	}
}

func TestRot(t *testing.T) {
	a := &asm{}
	a.op(OpPush).i16(1).op(OpPush).i16(2).op(OpPush).i16(3)
	a.op(OpRot).op(OpHalt)
	v := newVM(t, a.buf, 0, 64)
	runToHalt(v, 20)
	s0, _ := v.peekAt(0)
	s1, _ := v.peekAt(1)
	s2, _ := v.peekAt(2)
	// stack before rot (top..bottom): 3,2,1 -> after: 1,3,2
	if s0 != 1 || s1 != 3 || s2 != 2 {
		t.Fatalf("rot mismatch: got s0=%d s1=%d s2=%d", s0, s1, s2)
	}
}

func TestClampLoGreaterThanHi(t *testing.T) {
	// push value, lo, hi ; CLAMP pops hi, lo, value
	a := &asm{}
	a.op(OpPush).i16(5)  // value
	a.op(OpPush).i16(10) // lo
	a.op(OpPush).i16(1)  // hi (lo > hi)
	a.op(OpClamp).op(OpHalt)
	v := newVM(t, a.buf, 0, 64)
	runToHalt(v, 20)
	top, _ := v.peekAt(0)
	if top != 10 {
		t.Fatalf("expected lo (10) returned when lo>hi, got %d", top)
	}
}

func TestClampNormal(t *testing.T) {
	a := &asm{}
	a.op(OpPush).i16(50)  // value
	a.op(OpPush).i16(0)   // lo
	a.op(OpPush).i16(255) // hi
	a.op(OpClamp).op(OpHalt)
	v := newVM(t, a.buf, 0, 64)
	runToHalt(v, 20)
	top, _ := v.peekAt(0)
	if top != 50 {
		t.Fatalf("expected 50 (within range), got %d", top)
	}
}

func TestJmpLandingAtProgramEndFaults(t *testing.T) {
	a := &asm{}
	// JMP with a displacement landing exactly at the end of program space.
	a.op(OpJmp).i16(0) // post-advance PC is already at program end (3 bytes total)
	v := newVM(t, a.buf, 0, 64)
	runToHalt(v, 10)
	if v.Fault() != FaultBranchOutOfRange {
		t.Fatalf("expected BranchOutOfRange, got %v", v.Fault())
	}
}

func TestSleepYieldsWithoutFault(t *testing.T) {
	a := (&asm{}).op(OpPush).i16(0).op(OpSleep).op(OpHalt)
	v := newVM(t, a.buf, 0, 64)
	sig := v.Step() // PUSH
	sig = v.Step()  // SLEEP
	if !sig.Slept || sig.SleepMicros != 0 {
		t.Fatalf("expected Slept with 0us, got %+v", sig)
	}
	if v.Halted {
		t.Fatalf("SLEEP must not halt the VM")
	}
}

func TestSleepNegativeClampsToZero(t *testing.T) {
	a := (&asm{}).op(OpPush).i16(-1).op(OpSleep).op(OpHalt)
	v := newVM(t, a.buf, 0, 64)
	v.Step() // PUSH -1
	sig := v.Step() // SLEEP
	if !sig.Slept || sig.SleepMicros != 0 {
		t.Fatalf("expected negative sleep clamped to 0us, got %+v", sig)
	}
}

func TestSleepInterruptedByHaltRequest(t *testing.T) {
	a := (&asm{}).op(OpPush).i16(100).op(OpSleep).op(OpHalt)
	v := newVM(t, a.buf, 0, 64)
	v.Step() // PUSH
	v.RequestHalt()
	sig := v.Step() // SLEEP, should fault
	if !sig.Halted || v.Fault() != FaultSleepInterrupted {
		t.Fatalf("expected SleepInterrupted fault, got signal=%+v fault=%v", sig, v.Fault())
	}
}

func TestRunUntilSuspendYieldsOnBusyLoop(t *testing.T) {
	// loop: JMP loop -- never halts, faults, or sleeps on its own; a single
	// RunUntilSuspend call must still return so the caller (the LED core's
	// run loop) gets back around to draining the Command Channel.
	a := (&asm{}).op(OpJmp).i16(-3)
	v := newVM(t, a.buf, 0, 64)
	sig := v.RunUntilSuspend()
	if sig.Halted || sig.Slept {
		t.Fatalf("expected a plain yield signal from the instruction budget, got %+v", sig)
	}
	if v.Halted {
		t.Fatalf("VM must not be halted merely because its run slice ended")
	}
}

func TestRunUntilSuspendYieldsOnHaltRequest(t *testing.T) {
	// Same busy loop, but with a halt already requested: RunUntilSuspend
	// must return immediately rather than burning a full instruction
	// budget first.
	a := (&asm{}).op(OpJmp).i16(-3)
	v := newVM(t, a.buf, 0, 64)
	v.RequestHalt()
	sig := v.RunUntilSuspend()
	if sig.Halted || sig.Slept {
		t.Fatalf("expected a plain yield signal, got %+v", sig)
	}
	if v.PC != 0 {
		t.Fatalf("expected PC unmoved by a halt-request yield, got %d", v.PC)
	}
}

func TestCallRet(t *testing.T) {
	a := &asm{}
	// main: CALL +1 ; HALT ; sub: PUSH 99 ; SWAP ; RET
	// SWAP brings the return address CALL pushed back on top for RET.
	a.op(OpCall).i16(1)
	a.op(OpHalt)
	a.op(OpPush).i16(99)
	a.op(OpSwap)
	a.op(OpRet)
	v := newVM(t, a.buf, 0, 64)
	runToHalt(v, 20)
	if v.Fault() != FaultNone {
		t.Fatalf("unexpected fault %v", v.Fault())
	}
	top, _ := v.peekAt(0)
	if top != 99 {
		t.Fatalf("expected 99 from subroutine, got %d", top)
	}
}

func TestArithmeticWraps(t *testing.T) {
	a := &asm{}
	a.op(OpPush).i16(32767).op(OpPush).i16(1).op(OpAdd).op(OpHalt)
	v := newVM(t, a.buf, 0, 64)
	runToHalt(v, 10)
	top, _ := v.peekAt(0)
	if top != -32768 {
		t.Fatalf("expected wraparound to -32768, got %d", top)
	}
}
