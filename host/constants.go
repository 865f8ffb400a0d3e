package host

// Driver constants.
const (
	// BlockSize is the block length configured during initialization.
	BlockSize = 512

	// InitClockRateHz is the SPI clock used during the initialization
	// handshake. Cards must be clocked slowly until they leave idle.
	InitClockRateHz = 400_000

	// OperatingClockRateHz is the SPI clock used after initialization.
	OperatingClockRateHz = 5_000_000

	// MaxResultRetries bounds the busy polls while waiting for a command
	// response or data token.
	MaxResultRetries = 100

	// powerOnPulses is how many dummy byte exchanges are clocked with
	// chip select deasserted before the first command, satisfying the
	// card's 80-clock power-up requirement.
	powerOnPulses = 10
)

// command is a wire opcode (low 6 bits of a frame's first byte).
type command byte

// Commands issued by the driver.
const (
	cmdReset       command = 0x00 // GO_IDLE_STATE
	cmdInit        command = 0x01 // SEND_OP_COND
	cmdSetBlockLen command = 0x16 // SET_BLOCKLEN
	cmdReadBlock   command = 0x17 // READ_SINGLE_BLOCK
	cmdWriteBlock  command = 0x18 // WRITE_SINGLE_BLOCK
)

// Wire framing values.
const (
	cmdMarker = 0x40 // top two bits of an opcode byte are 01

	// cmdChecksum is the CRC7 for GO_IDLE_STATE with zero parameter, the
	// only command whose checksum a card validates before leaving idle.
	// It rides along as a dummy on every other command.
	cmdChecksum = 0x95

	busyByte     = 0xff // no response yet
	dataToken    = 0xfe // start of a block payload
	responseIdle = 0x01 // R1: in idle state
	readyByte    = 0x00 // R1: ready, no errors

	// dataRespMask extracts the status bits of a write data response;
	// dataAccepted means the block was taken.
	dataRespMask = 0x1f
	dataAccepted = 0x05
)
