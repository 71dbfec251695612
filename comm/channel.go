// Package comm implements the Command Channel: a bounded single-producer
// (I/O core), single-consumer (LED core) mailbox carrying load/stop/param/
// status/strip-config messages, each producing exactly one response.
// Grounded on the teacher's async debug channel (core/debug.go's
// debugChan, a buffered chan string read by one worker goroutine) —
// generalized from fire-and-forget log lines to a request/response
// mailbox, which is why Send here blocks on a full channel instead of
// dropping: spec.md §4.5 requires FIFO and at-most-once delivery, never
// silent loss.
package comm

// Kind identifies a Command Channel message type.
type Kind uint8

const (
	KindLoadProgram Kind = iota
	KindStopProgram
	KindSetParameter
	KindQueryStatus
	KindSetStripConfig
)

// RunState is the VM run state reported by QueryStatus.
type RunState uint8

const (
	StateRunning RunState = iota
	StateHalted
	StateFault
)

// LoadProgramArgs carries a candidate image for Message.Args.
type LoadProgramArgs struct {
	Image []byte
}

// SetParameterArgs names a parameter update.
type SetParameterArgs struct {
	Name  string
	Value int16
}

// SetStripConfigArgs reconfigures one strip.
type SetStripConfigArgs struct {
	Index    int
	Protocol uint8
	Length   int
}

// Message is one Command Channel request. Args holds the kind-specific
// payload (LoadProgramArgs, SetParameterArgs, SetStripConfigArgs, or nil
// for StopProgram/QueryStatus).
type Message struct {
	Kind Kind
	Args interface{}

	// reply is unexported: only the channel itself constructs it, so a
	// Message can never be sent without a way to deliver exactly one
	// response back to its sender.
	reply chan Response
}

// StatusReport is QueryStatus's response payload.
type StatusReport struct {
	State       RunState
	FaultCode   uint8
	PC          uint16
	SP          uint16
	ProgramName string
}

// Response is what every Message eventually receives, exactly once.
type Response struct {
	Err    error
	Status StatusReport
}

// Channel is the bounded mailbox. The I/O core calls Send; the LED core
// calls Recv in its run loop and must call Reply exactly once per
// received Message.
type Channel struct {
	messages chan Message
}

// New creates a Channel with the given bounded depth.
func New(depth int) *Channel {
	return &Channel{messages: make(chan Message, depth)}
}

// Send enqueues msg and blocks until the LED core replies, returning its
// Response. Blocking (rather than dropping on a full channel) is what
// gives the at-most-once/FIFO guarantee spec.md §4.5 requires: the I/O
// core's caller always gets exactly one matching response, never a
// silently lost request.
func (c *Channel) Send(kind Kind, args interface{}) Response {
	msg := Message{Kind: kind, Args: args, reply: make(chan Response, 1)}
	c.messages <- msg
	return <-msg.reply
}

// Recv is the LED core's non-blocking poll for a pending message,
// returning ok=false if none is queued. Called between VM instructions,
// never mid-dispatch (spec.md §5: "the only suspension points... are
// SLEEP and message-channel drain points inserted between instructions").
func (c *Channel) Recv() (Message, bool) {
	select {
	case m := <-c.messages:
		return m, true
	default:
		return Message{}, false
	}
}

// Reply delivers msg's single response. A second call on the same Message
// is not detected: it lands unread in the one-slot reply buffer if the
// sender has already received the first response, and blocks forever if
// it has not.
func (m Message) Reply(r Response) {
	m.reply <- r
}
