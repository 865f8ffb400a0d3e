// Package hal defines the Hardware Abstraction Layer interface for SPI
// bus transports used by the host driver.
//
// Implementations:
//
//   - mmio: memory-mapped SPI controller registers on real hardware
//   - rpio: Raspberry Pi GPIO SPI via go-rpio
//   - sim: in-process loopback to an emulated card
package hal
