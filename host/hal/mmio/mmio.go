package mmio

import (
	"github.com/ardnew/softsd/host/hal"
)

// SysClockHz is the controller's input clock, from which SPI clock
// divisors are derived.
const SysClockHz = 50_000_000

// Register offsets within the controller block.
const (
	regTxData       = 0x44 // transmit data
	regRxData       = 0x48 // receive data
	regStatus       = 0x4c // status; bit 0 = transfer complete
	regChipSelect   = 0x50 // chip select; hardware inverts to the line
	regClockDivisor = 0x54 // SPI clock divisor
)

// statusTransferDone is set when a byte exchange has completed.
const statusTransferDone = 1 << 0

// Bus provides 32-bit access to the controller's register block.
type Bus interface {
	Load(offset uint32) uint32
	Store(offset uint32, value uint32)
}

// HAL drives the SPI controller through a Bus.
type HAL struct {
	bus Bus
}

// New creates a HAL over the given register bus.
func New(bus Bus) *HAL {
	return &HAL{bus: bus}
}

// Transfer exchanges one byte. It busy-polls the transfer-complete status
// bit with no timeout; the controller is assumed always responsive.
func (h *HAL) Transfer(value byte) (byte, error) {
	h.bus.Store(regTxData, uint32(value))
	for h.bus.Load(regStatus)&statusTransferDone == 0 {
	}
	return byte(h.bus.Load(regRxData)), nil
}

// SetChipSelect drives the chip-select register. The hardware inverts the
// value onto the active-low line, so asserted == true writes 1.
func (h *HAL) SetChipSelect(asserted bool) {
	var value uint32
	if asserted {
		value = 1
	}
	h.bus.Store(regChipSelect, value)
}

// SetClockRate programs the clock divisor for the requested SPI frequency.
func (h *HAL) SetClockRate(hz uint32) {
	h.bus.Store(regClockDivisor, (SysClockHz/hz)/2-1)
}

// Compile-time interface check
var _ hal.HostHAL = (*HAL)(nil)
