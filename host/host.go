package host

import (
	"context"
	"fmt"

	"github.com/ardnew/softsd/host/hal"
	"github.com/ardnew/softsd/pkg"
)

// String returns the conventional command name.
func (c command) String() string {
	switch c {
	case cmdReset:
		return "GO_IDLE_STATE"
	case cmdInit:
		return "SEND_OP_COND"
	case cmdSetBlockLen:
		return "SET_BLOCKLEN"
	case cmdReadBlock:
		return "READ_SINGLE_BLOCK"
	case cmdWriteBlock:
		return "WRITE_SINGLE_BLOCK"
	default:
		return fmt.Sprintf("CMD(%#02x)", byte(c))
	}
}

// ResponseError reports a response value the driver did not expect for
// the command it issued. The caller decides whether to retry.
type ResponseError struct {
	Cmd      command
	Response byte
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s: %v: %#02x", e.Cmd, pkg.ErrBadResponse, e.Response)
}

// Unwrap returns pkg.ErrBadResponse.
func (e *ResponseError) Unwrap() error {
	return pkg.ErrBadResponse
}

// Host is the SPI-mode SD/MMC bus master. It owns its transport
// exclusively; exactly one bus transaction is in flight at a time, so no
// locking is needed.
type Host struct {
	hal hal.HostHAL
}

// New creates a driver over the given transport.
func New(h hal.HostHAL) *Host {
	return &Host{hal: h}
}

// Init brings a freshly powered card to the ready state: slow clock,
// power-on pulses with chip select deasserted, reset into idle, poll
// until initialization completes, configure the block length, then raise
// the clock to the operating rate.
//
// Any unexpected response aborts with a *ResponseError carrying the
// offending value.
func (h *Host) Init(ctx context.Context) error {
	h.hal.SetClockRate(InitClockRateHz)

	// The card requires 74+ clocks before its first command.
	h.hal.SetChipSelect(false)
	for i := 0; i < powerOnPulses; i++ {
		if _, err := h.hal.Transfer(busyByte); err != nil {
			return fmt.Errorf("power-on clocking: %w", err)
		}
	}
	h.hal.SetChipSelect(true)

	// Reset into idle state.
	resp, err := h.command(ctx, cmdReset, 0)
	if err != nil {
		return err
	}
	if resp != responseIdle {
		return &ResponseError{Cmd: cmdReset, Response: resp}
	}

	// Poll until the card leaves idle.
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		resp, err = h.command(ctx, cmdInit, 0)
		if err != nil {
			return err
		}
		if resp == readyByte {
			break
		}
		if resp != responseIdle {
			return &ResponseError{Cmd: cmdInit, Response: resp}
		}
	}

	// Configure the block length.
	resp, err = h.command(ctx, cmdSetBlockLen, BlockSize)
	if err != nil {
		return err
	}
	if resp != readyByte {
		return &ResponseError{Cmd: cmdSetBlockLen, Response: resp}
	}

	h.hal.SetClockRate(OperatingClockRateHz)

	pkg.LogInfo(pkg.ComponentHost, "card initialized",
		"blockSize", BlockSize,
		"clockRate", OperatingClockRateHz)
	return nil
}

// ReadBlock reads the block at blockAddress into buf, which must hold at
// least BlockSize bytes. It returns the number of bytes read.
func (h *Host) ReadBlock(ctx context.Context, blockAddress uint32, buf []byte) (int, error) {
	if len(buf) < BlockSize {
		return 0, pkg.ErrBufferTooSmall
	}

	resp, err := h.command(ctx, cmdReadBlock, blockAddress)
	if err != nil {
		return 0, fmt.Errorf("read block %d: %w", blockAddress, err)
	}
	if resp != readyByte {
		return 0, &ResponseError{Cmd: cmdReadBlock, Response: resp}
	}

	if err := h.waitToken(ctx); err != nil {
		return 0, fmt.Errorf("read block %d: %w", blockAddress, err)
	}

	for i := 0; i < BlockSize; i++ {
		b, err := h.hal.Transfer(busyByte)
		if err != nil {
			return i, fmt.Errorf("read block %d: %w", blockAddress, err)
		}
		buf[i] = b
	}

	// Trailing checksum, transmitted but never validated.
	for i := 0; i < 2; i++ {
		if _, err := h.hal.Transfer(busyByte); err != nil {
			return BlockSize, fmt.Errorf("read block %d: %w", blockAddress, err)
		}
	}

	return BlockSize, nil
}

// WriteBlock writes BlockSize bytes from buf to the block at blockAddress
// and returns the number of bytes written.
func (h *Host) WriteBlock(ctx context.Context, blockAddress uint32, buf []byte) (int, error) {
	if len(buf) < BlockSize {
		return 0, pkg.ErrBufferTooSmall
	}

	resp, err := h.command(ctx, cmdWriteBlock, blockAddress)
	if err != nil {
		return 0, fmt.Errorf("write block %d: %w", blockAddress, err)
	}
	if resp != readyByte {
		return 0, &ResponseError{Cmd: cmdWriteBlock, Response: resp}
	}

	// Data token, payload, dummy checksum.
	if _, err := h.hal.Transfer(dataToken); err != nil {
		return 0, fmt.Errorf("write block %d: %w", blockAddress, err)
	}
	for i := 0; i < BlockSize; i++ {
		if _, err := h.hal.Transfer(buf[i]); err != nil {
			return i, fmt.Errorf("write block %d: %w", blockAddress, err)
		}
	}
	for i := 0; i < 2; i++ {
		if _, err := h.hal.Transfer(busyByte); err != nil {
			return BlockSize, fmt.Errorf("write block %d: %w", blockAddress, err)
		}
	}

	// Data response, then wait for the card to release the line.
	dr, err := h.hal.Transfer(busyByte)
	if err != nil {
		return BlockSize, fmt.Errorf("write block %d: %w", blockAddress, err)
	}
	if dr&dataRespMask != dataAccepted {
		return BlockSize, fmt.Errorf("write block %d: %w: data response %#02x",
			blockAddress, pkg.ErrDataRejected, dr)
	}
	if err := h.waitNotBusy(ctx); err != nil {
		return BlockSize, fmt.Errorf("write block %d: %w", blockAddress, err)
	}

	return BlockSize, nil
}

// command sends a 6-byte frame and polls for its R1 response.
func (h *Host) command(ctx context.Context, cmd command, param uint32) (byte, error) {
	frame := [6]byte{
		cmdMarker | byte(cmd),
		byte(param >> 24),
		byte(param >> 16),
		byte(param >> 8),
		byte(param),
		cmdChecksum,
	}
	for _, b := range frame {
		if _, err := h.hal.Transfer(b); err != nil {
			return 0, fmt.Errorf("%s: %w", cmd, err)
		}
	}

	resp, err := h.waitResult(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", cmd, err)
	}
	return resp, nil
}

// waitResult polls for a response byte, retrying while the wire reads
// busy. Exhausting the retry bound is a recoverable failure, not a fatal
// abort; the caller decides whether to retry the operation.
func (h *Host) waitResult(ctx context.Context) (byte, error) {
	for retry := 0; retry < MaxResultRetries; retry++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		b, err := h.hal.Transfer(busyByte)
		if err != nil {
			return 0, err
		}
		if b != busyByte {
			return b, nil
		}
	}
	return 0, pkg.ErrBusyTimeout
}

// waitToken polls until the card emits the data token that starts a read
// payload.
func (h *Host) waitToken(ctx context.Context) error {
	b, err := h.waitResult(ctx)
	if err != nil {
		return err
	}
	if b != dataToken {
		return fmt.Errorf("%w: %#02x instead of data token", pkg.ErrBadResponse, b)
	}
	return nil
}

// waitNotBusy polls until the card releases the line after a write.
func (h *Host) waitNotBusy(ctx context.Context) error {
	for retry := 0; retry < MaxResultRetries; retry++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		b, err := h.hal.Transfer(busyByte)
		if err != nil {
			return err
		}
		if b == busyByte {
			return nil
		}
	}
	return pkg.ErrBusyTimeout
}
