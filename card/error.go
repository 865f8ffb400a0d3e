package card

import "fmt"

// ProtocolError reports a byte sequence that violates the SPI-mode command
// protocol. The emulator's purpose is to validate host drivers, so these
// are never tolerated or recovered; callers typically treat them as fatal.
type ProtocolError struct {
	Op     Opcode // offending command, if one was parsed
	Reason error  // sentinel from the pkg package
	Detail string // optional context
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %v (%s)", e.Op, e.Reason, e.Detail)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Reason)
}

// Unwrap returns the underlying sentinel error.
func (e *ProtocolError) Unwrap() error {
	return e.Reason
}

func protocolErr(op Opcode, reason error) *ProtocolError {
	return &ProtocolError{Op: op, Reason: reason}
}
