// Package image builds card image files for the emulator.
//
// A raw image is just a zero-filled file the emulator serves blocks from.
// A FAT32 image additionally carries an MBR partition table and formatted
// filesystem, so the emulated card's contents can be loop-mounted and
// inspected with ordinary tools.
package image
