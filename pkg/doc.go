// Package pkg provides shared utilities for the softsd SD/MMC stack.
//
// This package contains common functionality used across both the host
// driver and the card emulator, including:
//
//   - Structured logging via Go's standard [log/slog] package
//   - Sentinel error values for SPI-mode protocol failures
//   - Component identifiers for log filtering
//
// # Logging
//
// The logging subsystem wraps [log/slog] with SD-specific context:
//
//	pkg.SetLogLevel(slog.LevelDebug)
//	pkg.LogInfo(pkg.ComponentHost, "card initialized", "blockSize", 512)
//
// # Errors
//
// Common protocol errors are defined as sentinel values:
//
//	if errors.Is(err, pkg.ErrBusyTimeout) {
//	    // Card never left the busy state
//	}
package pkg
