package pkg

import "errors"

// SD SPI-mode protocol errors.
var (
	// ErrBusyTimeout indicates the card stayed busy past the retry bound.
	ErrBusyTimeout = errors.New("busy timeout")

	// ErrBadResponse indicates an unexpected command response value.
	ErrBadResponse = errors.New("unexpected response")

	// ErrDataRejected indicates the card did not accept a data block.
	ErrDataRejected = errors.New("data block rejected")

	// ErrProtocol indicates a violation of the SPI-mode command sequence.
	ErrProtocol = errors.New("protocol violation")

	// ErrNotReady indicates a command that requires the card to have left
	// the idle state was issued while it was still idle.
	ErrNotReady = errors.New("card not ready")

	// ErrUnknownCommand indicates an opcode outside the supported set.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrNoMedia indicates no backing store is attached to the card.
	ErrNoMedia = errors.New("no media attached")

	// ErrStorage indicates a backing store I/O failure.
	ErrStorage = errors.New("storage I/O failure")

	// ErrClosed indicates the backing store has been closed.
	ErrClosed = errors.New("store closed")

	// ErrBufferTooSmall indicates the provided buffer is too small.
	ErrBufferTooSmall = errors.New("buffer too small")

	// ErrOutOfRange indicates a block address beyond the backing store.
	ErrOutOfRange = errors.New("block address out of range")

	// ErrInvalidParameter indicates an invalid parameter was provided.
	ErrInvalidParameter = errors.New("invalid parameter")
)
