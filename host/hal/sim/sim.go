package sim

import (
	"github.com/ardnew/softsd/card"
	"github.com/ardnew/softsd/host/hal"
	"github.com/ardnew/softsd/pkg"
)

// HAL is a loopback transport wired directly to an emulated card. Each
// Transfer is one byte exchange on the simulated wire.
type HAL struct {
	card      *card.Card
	clockRate uint32
	asserted  bool
}

// New creates a transport bound to c.
func New(c *card.Card) *HAL {
	return &HAL{card: c}
}

// Transfer forwards one byte exchange to the card. Card-side protocol
// violations and storage failures surface here as transport errors.
func (h *HAL) Transfer(value byte) (byte, error) {
	return h.card.Transfer(value)
}

// SetChipSelect forwards the chip-select state to the card.
func (h *HAL) SetChipSelect(asserted bool) {
	h.asserted = asserted
	h.card.SetChipSelect(asserted)
}

// SetClockRate records the requested rate. The simulated wire has no
// clock; the value is kept so tests can assert the host's rate changes.
func (h *HAL) SetClockRate(hz uint32) {
	h.clockRate = hz
	pkg.LogDebug(pkg.ComponentHAL, "clock rate set", "hz", hz)
}

// ClockRate returns the most recently requested clock rate.
func (h *HAL) ClockRate() uint32 {
	return h.clockRate
}

// ChipSelected reports the current chip-select state.
func (h *HAL) ChipSelected() bool {
	return h.asserted
}

// Compile-time interface check
var _ hal.HostHAL = (*HAL)(nil)
