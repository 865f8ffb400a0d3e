package card

import "fmt"

// Opcode is the low 6 bits of a command frame's first byte.
type Opcode byte

// SPI-mode commands understood by the emulator.
const (
	GoIdleState      Opcode = 0x00 // CMD0: reset, enter idle state
	SendOpCond       Opcode = 0x01 // CMD1: begin initialization, leave idle
	SetBlockLen      Opcode = 0x16 // set the block transfer length
	ReadSingleBlock  Opcode = 0x17 // read one block
	WriteSingleBlock Opcode = 0x18 // write one block
)

// String returns the conventional command name.
func (o Opcode) String() string {
	switch o {
	case GoIdleState:
		return "GO_IDLE_STATE"
	case SendOpCond:
		return "SEND_OP_COND"
	case SetBlockLen:
		return "SET_BLOCKLEN"
	case ReadSingleBlock:
		return "READ_SINGLE_BLOCK"
	case WriteSingleBlock:
		return "WRITE_SINGLE_BLOCK"
	default:
		return fmt.Sprintf("CMD(%#02x)", byte(o))
	}
}

// Wire framing constants (SD Physical Layer Specification, SPI mode).
const (
	// CommandLength is the size of a command frame: opcode, four
	// big-endian parameter bytes, and a checksum byte.
	CommandLength = 6

	// InitClocks is the minimum number of clocks a card must see after
	// power-on before it accepts any command.
	InitClocks = 80

	// DataToken marks the start of a block payload in either direction.
	DataToken = 0xfe

	// BusyToken is the wire value meaning "no response yet".
	BusyToken = 0xff

	// DataAccepted is the data-response value for a successful block write.
	DataAccepted = 0x05

	// checksumLength trails every block payload. The bytes are never
	// validated on either side.
	checksumLength = 2

	// cmdMarkerMask and cmdMarker select frame-start bytes: the top two
	// bits of an opcode byte are fixed to 01.
	cmdMarkerMask = 0xc0
	cmdMarker     = 0x40

	// busyDelayMask bounds the randomized busy delay before a read or
	// write transfer is signaled ready.
	busyDelayMask = 0xf

	// clocksPerByte is how many bus clocks one byte exchange represents.
	clocksPerByte = 8
)
