// Package sim implements the host HAL as an in-process loopback to an
// emulated card, so a host driver and a card.Card can be exercised
// together without hardware. Only bytes cross the boundary; the two sides
// share no state.
package sim
