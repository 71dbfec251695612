// Package runtime wires the VM Core, Module Registry, LED Module, Strip
// Drivers, Frame Scheduler, and Command Channel into the LED core's main
// run loop. Grounded on the teacher's targets/rp2040/main.go: a tight loop
// that recovers from panics per-iteration so one bad frame cannot take
// the whole firmware down, and drains one pending message before doing
// any time-critical work.
package runtime

import (
	"errors"

	"github.com/stestagg/rpled/comm"
	"github.com/stestagg/rpled/debug"
	"github.com/stestagg/rpled/module"
	"github.com/stestagg/rpled/params"
	"github.com/stestagg/rpled/program"
	"github.com/stestagg/rpled/sched"
	"github.com/stestagg/rpled/strip"
	"github.com/stestagg/rpled/vm"
)

// ErrUnknownStrip is returned by SetStripConfig for an out-of-range strip
// index.
var ErrUnknownStrip = errors.New("runtime: unknown strip index")

// LEDCore owns every piece of process-wide state the LED core's run loop
// touches. Exactly one instance exists per firmware boot, constructed by
// the boot code, which lives outside this repository.
type LEDCore struct {
	VM        *vm.VM
	Registry  *module.Registry
	Loader    *program.Loader
	Scheduler *sched.Scheduler
	Channel   *comm.Channel

	MemSize     uint16
	ParamSpecs  []params.Spec
	Params      *params.Table
	ProgramName string

	// panicCount mirrors the teacher's msgerrors counter: how many times
	// the recovery wrapper in Run has caught a panic, for status/debug
	// reporting.
	panicCount uint32
}

// New assembles an LEDCore from its already-constructed parts. Hardware
// setup (PIO claiming, pin configuration) happens in the boot code before
// this is called; New itself touches no hardware.
func New(v *vm.VM, registry *module.Registry, loader *program.Loader, scheduler *sched.Scheduler, channel *comm.Channel, memSize uint16, paramSpecs []params.Spec) *LEDCore {
	return &LEDCore{
		VM:         v,
		Registry:   registry,
		Loader:     loader,
		Scheduler:  scheduler,
		Channel:    channel,
		MemSize:    memSize,
		ParamSpecs: paramSpecs,
	}
}

// Run executes the LED core's main loop forever: drain one pending
// Command Channel message, then give the scheduler one tick. Each
// iteration is wrapped in a panic recovery, mirroring the teacher's
// targets/rp2040/main.go main loop so a bug in one module's handler
// degrades to a dropped iteration rather than a dead firmware.
func (c *LEDCore) Run() {
	for {
		c.tick()
	}
}

func (c *LEDCore) tick() {
	defer func() {
		if r := recover(); r != nil {
			c.panicCount++
			debug.Println("rpled: recovered panic in LED core tick")
		}
	}()

	if msg, ok := c.Channel.Recv(); ok {
		c.handle(msg)
	}
	c.Scheduler.Tick()
}

// PanicCount reports how many run-loop panics have been recovered, for
// QueryStatus-adjacent diagnostics.
func (c *LEDCore) PanicCount() uint32 { return c.panicCount }

func (c *LEDCore) handle(msg comm.Message) {
	switch msg.Kind {
	case comm.KindLoadProgram:
		c.handleLoad(msg)
	case comm.KindStopProgram:
		c.handleStop(msg)
	case comm.KindSetParameter:
		c.handleSetParameter(msg)
	case comm.KindQueryStatus:
		c.handleQueryStatus(msg)
	case comm.KindSetStripConfig:
		c.handleSetStripConfig(msg)
	default:
		msg.Reply(comm.Response{})
	}
}

func (c *LEDCore) handleLoad(msg comm.Message) {
	args, _ := msg.Args.(comm.LoadProgramArgs)
	img, err := program.Parse(args.Image)
	if err != nil {
		msg.Reply(comm.Response{Err: err})
		return
	}
	table, err := c.Loader.Load(img, c.MemSize, c.ParamSpecs)
	if err != nil {
		msg.Reply(comm.Response{Err: err})
		return
	}
	c.Params = table
	c.ProgramName = img.Header.Name
	c.Scheduler.RequestHalt()
	c.VM.ClearHaltRequest()
	debug.ClearTiming()
	debug.RecordTiming(debug.EventLoad, c.VM.PC, 0, 0)
	msg.Reply(comm.Response{})
}

func (c *LEDCore) handleStop(msg comm.Message) {
	c.Scheduler.RequestHalt()
	c.VM.Stop()
	msg.Reply(comm.Response{})
}

func (c *LEDCore) handleSetParameter(msg comm.Message) {
	args, _ := msg.Args.(comm.SetParameterArgs)
	if c.Params == nil {
		msg.Reply(comm.Response{Err: params.ErrUnknownParameter})
		return
	}
	err := c.Params.Set(args.Name, args.Value)
	msg.Reply(comm.Response{Err: err})
}

func (c *LEDCore) handleQueryStatus(msg comm.Message) {
	state := comm.StateRunning
	if c.VM.Halted {
		state = comm.StateHalted
		if c.VM.Fault() != vm.FaultNone {
			state = comm.StateFault
		}
	}
	msg.Reply(comm.Response{Status: comm.StatusReport{
		State:       state,
		FaultCode:   uint8(c.VM.Fault()),
		PC:          c.VM.PC,
		SP:          c.VM.SP,
		ProgramName: c.ProgramName,
	}})
}

func (c *LEDCore) handleSetStripConfig(msg comm.Message) {
	args, _ := msg.Args.(comm.SetStripConfigArgs)
	if args.Index < 0 || args.Index >= len(c.Scheduler.Strips) {
		msg.Reply(comm.Response{Err: ErrUnknownStrip})
		return
	}
	d := c.Scheduler.Strips[args.Index]
	d.Protocol = strip.Protocol(args.Protocol)
	if err := d.Transmitter.Configure(d.Protocol, args.Length); err != nil {
		msg.Reply(comm.Response{Err: err})
		return
	}
	d.Strip.Resize(args.Length)
	msg.Reply(comm.Response{})
}
