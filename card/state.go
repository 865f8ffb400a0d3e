package card

// state is the card's protocol state. Exactly one state is active at a
// time. Each state is its own type carrying only the fields that are
// meaningful while it is active (countdowns, transfer positions), so an
// invalid combination of counters cannot be represented.
type state interface {
	// name identifies the state in logs and errors.
	name() string
}

// initWait counts power-on clocks until the card may accept commands.
type initWait struct {
	clocks uint32
}

// idle waits for the start of a command frame.
type idle struct{}

// receiveCommand captures the remainder of a 6-byte command frame.
type receiveCommand struct {
	frame [CommandLength]byte
	n     int
}

// sendResult emits the R1 status for a command with no data phase.
type sendResult struct{}

// readResponse delays before signaling a read command ready.
type readResponse struct {
	delay uint32
}

// readToken delays before emitting the data token that starts a read
// payload.
type readToken struct {
	delay uint32
}

// readTransfer streams the block buffer plus two trailing checksum bytes.
type readTransfer struct {
	count uint32
}

// writeResponse delays before signaling a write command ready to receive.
type writeResponse struct {
	delay uint32
}

// writeToken waits for the host's data token that starts a write payload.
type writeToken struct{}

// writeTransfer captures the block payload plus two trailing checksum bytes.
type writeTransfer struct {
	count uint32
}

// writeDataResponse persists the captured block and emits the data-response
// byte.
type writeDataResponse struct{}

func (*initWait) name() string          { return "init-wait" }
func (*idle) name() string              { return "idle" }
func (*receiveCommand) name() string    { return "receive-command" }
func (*sendResult) name() string        { return "send-result" }
func (*readResponse) name() string      { return "read-response" }
func (*readToken) name() string         { return "read-token" }
func (*readTransfer) name() string      { return "read-transfer" }
func (*writeResponse) name() string     { return "write-response" }
func (*writeToken) name() string        { return "write-token" }
func (*writeTransfer) name() string     { return "write-transfer" }
func (*writeDataResponse) name() string { return "write-data-response" }
