package hal

// HostHAL is the capability interface the host driver needs from an SPI
// bus transport: one-byte bidirectional exchanges, chip select, and clock
// rate control.
//
// Transfer blocks until the underlying transport completes the exchange.
// The transport layer signals no protocol conditions of its own; bounded
// retries and timeouts are the caller's responsibility. A Transfer error
// means the transport itself failed (or, for the sim transport, that the
// emulated card detected a protocol violation).
type HostHAL interface {
	// Transfer exchanges one byte bidirectionally and returns the byte
	// clocked in from the card.
	Transfer(value byte) (byte, error)

	// SetChipSelect drives the chip-select line. asserted == true selects
	// the card. The line is electrically active-low; implementations hide
	// the inversion.
	SetChipSelect(asserted bool)

	// SetClockRate sets the SPI clock frequency in Hz.
	SetClockRate(hz uint32)
}
