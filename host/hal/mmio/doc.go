// Package mmio implements the host HAL against the memory-mapped register
// block of the reference SPI controller.
//
// The controller is accessed through a narrow [Bus] interface rather than
// a raw pointer so the register sequencing can be tested off-target. On
// real hardware the Bus implementation maps the controller's physical base
// address and performs 32-bit loads and stores.
package mmio
