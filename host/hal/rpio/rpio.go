package rpio

import (
	"fmt"

	rpio "github.com/stianeikeland/go-rpio/v4"

	"github.com/ardnew/softsd/host/hal"
	"github.com/ardnew/softsd/pkg"
)

// HAL drives an SD card on the Pi's SPI0 bus with a GPIO chip select.
type HAL struct {
	cs rpio.Pin
}

// Open claims the GPIO memory range and SPI0 bus. csPin is the BCM pin
// number used as chip select; it is driven high (deselected) immediately.
func Open(csPin uint8) (*HAL, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("open gpio: %w", err)
	}
	if err := rpio.SpiBegin(rpio.Spi0); err != nil {
		rpio.Close()
		return nil, fmt.Errorf("begin spi: %w", err)
	}

	cs := rpio.Pin(csPin)
	cs.Output()
	cs.High()

	pkg.LogInfo(pkg.ComponentHAL, "rpio transport opened", "csPin", csPin)
	return &HAL{cs: cs}, nil
}

// Transfer exchanges one byte on SPI0.
func (h *HAL) Transfer(value byte) (byte, error) {
	buf := []byte{value}
	rpio.SpiExchange(buf)
	return buf[0], nil
}

// SetChipSelect drives the CS pin: low when asserted.
func (h *HAL) SetChipSelect(asserted bool) {
	if asserted {
		h.cs.Low()
	} else {
		h.cs.High()
	}
}

// SetClockRate sets the SPI clock frequency in Hz.
func (h *HAL) SetClockRate(hz uint32) {
	rpio.SpiSpeed(int(hz))
}

// Close releases the SPI bus and GPIO memory range.
func (h *HAL) Close() error {
	h.cs.High()
	rpio.SpiEnd(rpio.Spi0)
	return rpio.Close()
}

// Compile-time interface check
var _ hal.HostHAL = (*HAL)(nil)
