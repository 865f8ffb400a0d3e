package card

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"

	"github.com/ardnew/softsd/card/store"
	"github.com/ardnew/softsd/pkg"
)

// Card is an emulated SD/MMC card in SPI mode. It owns all of its protocol
// state, so multiple independent cards can coexist in one process. A Card
// is driven synchronously by a single bus master; it is not safe for
// concurrent use, matching the one-transaction-at-a-time discipline of a
// real SPI bus.
type Card struct {
	store store.Store

	state       state
	selected    bool
	inIdleState bool

	// blockBuf is the transfer buffer. Its length is the configured block
	// length; there is no separate length field to fall out of sync.
	blockBuf []byte

	// transferOffset is the byte offset of the block transfer in flight.
	transferOffset int64

	initClocks uint32
	rng        func() uint32
}

// Option configures a Card.
type Option func(*Card)

// WithRand supplies the random source used for busy delays. Inject a
// seeded source for reproducible runs; the default source is seeded from
// the global generator.
func WithRand(r *rand.Rand) Option {
	return func(c *Card) {
		c.rng = r.Uint32
	}
}

// WithInitClocks overrides the power-on clock requirement. The default is
// InitClocks (80); tests that are not exercising the power-up handshake
// can set it to zero.
func WithInitClocks(n uint32) Option {
	return func(c *Card) {
		c.initClocks = n
	}
}

// New creates a card backed by st. A nil store models a socket with no
// card image attached: GO_IDLE_STATE goes unanswered and the host's
// result polling times out instead of hanging.
func New(st store.Store, opts ...Option) *Card {
	c := &Card{
		store:      st,
		state:      &initWait{},
		initClocks: InitClocks,
		rng:        rand.Uint32,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetChipSelect sets whether the card is addressed by the master. While
// deselected the card ignores incoming command bytes. The active-low
// electrical encoding is a transport concern; selected == true means the
// CS line is driven low.
func (c *Card) SetChipSelect(selected bool) {
	c.selected = selected
}

// State returns the name of the active protocol state.
func (c *Card) State() string {
	return c.state.name()
}

// BlockLen returns the configured block transfer length in bytes.
func (c *Card) BlockLen() int {
	return len(c.blockBuf)
}

// Transfer exchanges one byte with the master: value is the byte clocked
// in on MOSI, the returned byte is clocked out on MISO. BusyToken (0xff)
// means the card has no response pending for this exchange.
//
// A non-nil error reports either a protocol violation by the master
// (*ProtocolError) or a backing store failure. The emulator makes no
// attempt to recover; callers validating a host driver should treat any
// error as fatal.
func (c *Card) Transfer(value byte) (byte, error) {
	response := byte(BusyToken)

	switch s := c.state.(type) {
	case *initWait:
		s.clocks += clocksPerByte
		if s.clocks < c.initClocks {
			if c.selected {
				return response, fmt.Errorf(
					"byte %#02x before %d initialization clocks: %w",
					value, c.initClocks, pkg.ErrProtocol)
			}
			break
		}
		c.state = &idle{}
		c.startFrame(value)

	case *idle:
		c.startFrame(value)

	case *receiveCommand:
		if !c.selected {
			break
		}
		s.frame[s.n] = value
		s.n++
		if s.n == CommandLength {
			return c.dispatch(s.frame)
		}

	case *sendResult:
		c.state = &idle{}
		if c.inIdleState {
			response = 1
		} else {
			response = 0
		}

	case *readResponse:
		if s.delay == 0 {
			c.state = &readToken{delay: c.busyDelay()}
			response = 0 // signal ready
		} else {
			s.delay--
		}

	case *readToken:
		if s.delay == 0 {
			c.state = &readTransfer{}
			response = DataToken
		} else {
			s.delay--
		}

	case *readTransfer:
		// The block payload is followed by checksumLength bytes that
		// carry no data.
		if s.count < uint32(len(c.blockBuf)) {
			response = c.blockBuf[s.count]
		} else if s.count == uint32(len(c.blockBuf))+checksumLength-1 {
			c.state = &idle{}
		}
		s.count++

	case *writeResponse:
		if s.delay == 0 {
			c.state = &writeToken{}
			response = 0 // ready to receive
		} else {
			s.delay--
		}

	case *writeToken:
		if value == DataToken {
			c.state = &writeTransfer{}
		}

	case *writeTransfer:
		if s.count < uint32(len(c.blockBuf)) {
			c.blockBuf[s.count] = value
		} else if s.count == uint32(len(c.blockBuf))+checksumLength-1 {
			c.state = &writeDataResponse{}
		}
		s.count++

	case *writeDataResponse:
		c.state = &idle{}
		response = DataAccepted
		if _, err := c.store.WriteAt(c.blockBuf, c.transferOffset); err != nil {
			return response, fmt.Errorf("write block at %#x: %w", c.transferOffset, err)
		}
	}

	return response, nil
}

// startFrame begins capturing a command frame if value carries the frame
// marker and the card is selected.
func (c *Card) startFrame(value byte) {
	if !c.selected || value&cmdMarkerMask != cmdMarker {
		return
	}
	rc := &receiveCommand{n: 1}
	rc.frame[0] = value
	c.state = rc
}

// dispatch executes a complete command frame. The byte that completed the
// frame never carries a response, so the returned byte is always BusyToken.
func (c *Card) dispatch(frame [CommandLength]byte) (byte, error) {
	op := Opcode(frame[0] &^ cmdMarkerMask)
	param := binary.BigEndian.Uint32(frame[1:5])

	pkg.LogDebug(pkg.ComponentCard, "command", "op", op.String(), "param", param)

	switch op {
	case GoIdleState:
		if c.store == nil {
			// No card image attached: swallow the command without
			// scheduling a response.
			c.state = &idle{}
			break
		}
		c.inIdleState = true
		c.state = &sendResult{}

	case SendOpCond:
		c.inIdleState = false
		c.state = &sendResult{}

	case SetBlockLen:
		if c.inIdleState {
			c.state = &idle{}
			return BusyToken, protocolErr(op, pkg.ErrNotReady)
		}
		c.blockBuf = make([]byte, param)
		c.state = &sendResult{}

	case ReadSingleBlock:
		if c.inIdleState {
			c.state = &idle{}
			return BusyToken, protocolErr(op, pkg.ErrNotReady)
		}
		if c.store == nil {
			c.state = &idle{}
			return BusyToken, protocolErr(op, pkg.ErrNoMedia)
		}
		offset := int64(param) * int64(len(c.blockBuf))
		if _, err := c.store.ReadAt(c.blockBuf, offset); err != nil {
			c.state = &idle{}
			return BusyToken, fmt.Errorf("%s: read block %d: %w", op, param, err)
		}
		c.transferOffset = offset
		c.state = &readResponse{delay: c.busyDelay()}

	case WriteSingleBlock:
		if c.inIdleState {
			c.state = &idle{}
			return BusyToken, protocolErr(op, pkg.ErrNotReady)
		}
		if c.store == nil {
			c.state = &idle{}
			return BusyToken, protocolErr(op, pkg.ErrNoMedia)
		}
		c.transferOffset = int64(param) * int64(len(c.blockBuf))
		c.state = &writeResponse{delay: c.busyDelay()}

	default:
		c.state = &idle{}
		return BusyToken, protocolErr(op, pkg.ErrUnknownCommand)
	}

	return BusyToken, nil
}

// busyDelay models the variable latency of a real card before it signals
// readiness. Keeping it nonzero in normal use forces host drivers to
// exercise their retry-and-poll paths.
func (c *Card) busyDelay() uint32 {
	return c.rng() & busyDelayMask
}
