// Package host implements the SPI-mode SD/MMC host driver: the bus master
// that initializes a card and transfers single blocks.
//
// A [Host] is constructed over a [hal.HostHAL] transport, so the same
// command sequencing runs against memory-mapped controller registers on
// real hardware or against an emulated card in tests:
//
//	h := host.New(sim.New(card.New(store)))
//	if err := h.Init(ctx); err != nil {
//	    // card failed initialization
//	}
//	buf := make([]byte, host.BlockSize)
//	n, err := h.ReadBlock(ctx, 0, buf)
package host
