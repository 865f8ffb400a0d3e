// Package rpio implements the host HAL on Raspberry Pi GPIO using the
// go-rpio SPI support.
//
// The kernel SPI controller toggles its own chip select around each
// transfer, but SD initialization needs CS held across many byte
// exchanges, so this transport drives a plain GPIO pin as chip select
// instead.
package rpio
