// Package store provides block storage backends for the card emulator.
//
// A [Store] is a flat byte-addressed image of a card's contents. The
// emulator addresses it in whole blocks at whatever block length the host
// has configured, so the interface works in byte offsets rather than
// fixed-size sectors.
package store
