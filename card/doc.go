// Package card emulates an SD/MMC card operating in SPI mode.
//
// A [Card] is a bus slave driven one byte at a time through [Card.Transfer],
// exactly as a real card is clocked by an SPI master. It parses 6-byte
// command frames, executes them against a [store.Store] block backend, and
// emits response bytes with the timing behavior of real hardware: an
// 80-clock initialization window, chip-select-gated command acceptance,
// randomized busy delays before data transfers, and data-token framing
// around block payloads.
//
// The emulator exists to validate host drivers without physical hardware,
// so any byte sequence that violates the SPI-mode protocol (a command
// before the initialization window elapses, a data command while the card
// is still idle, an unknown opcode) is reported as a *ProtocolError rather
// than tolerated. Test harnesses and the example binaries treat these as
// fatal; the library itself never terminates the process.
package card
