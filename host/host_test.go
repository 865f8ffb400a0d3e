package host

import (
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/softsd/card"
	"github.com/ardnew/softsd/card/store"
	"github.com/ardnew/softsd/host/hal"
	"github.com/ardnew/softsd/host/hal/sim"
	"github.com/ardnew/softsd/pkg"
)

// patternStore builds a store of n blocks where block i is filled with
// byte i.
func patternStore(n int) *store.MemStore {
	st := store.NewMem(int64(n) * BlockSize)
	buf := make([]byte, BlockSize)
	for i := 0; i < n; i++ {
		for j := range buf {
			buf[j] = byte(i)
		}
		if _, err := st.WriteAt(buf, int64(i)*BlockSize); err != nil {
			panic(err)
		}
	}
	return st
}

// simHost wires a host to an emulated card over the loopback transport.
func simHost(st store.Store) (*Host, *sim.HAL) {
	c := card.New(st, card.WithRand(rand.New(rand.NewPCG(7, 0))))
	transport := sim.New(c)
	return New(transport), transport
}

func TestInit(t *testing.T) {
	h, transport := simHost(patternStore(4))

	require.NoError(t, h.Init(context.Background()))
	assert.Equal(t, uint32(OperatingClockRateHz), transport.ClockRate(),
		"clock must be raised after initialization")
	assert.True(t, transport.ChipSelected())
}

func TestInitWithoutCardImage(t *testing.T) {
	// A card with no backing store never answers the reset command; the
	// driver must time out cleanly rather than hang.
	h, _ := simHost(nil)

	err := h.Init(context.Background())
	assert.ErrorIs(t, err, pkg.ErrBusyTimeout)
}

func TestInitCancelled(t *testing.T) {
	h, _ := simHost(patternStore(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, h.Init(ctx), context.Canceled)
}

func TestReadBlock(t *testing.T) {
	h, _ := simHost(patternStore(4))
	require.NoError(t, h.Init(context.Background()))

	buf := make([]byte, BlockSize)
	n, err := h.ReadBlock(context.Background(), 3, buf)
	require.NoError(t, err)
	assert.Equal(t, BlockSize, n)
	for i := range buf {
		require.Equal(t, byte(3), buf[i], "byte %d", i)
	}
}

func TestReadBlockShortBuffer(t *testing.T) {
	h, _ := simHost(patternStore(1))
	require.NoError(t, h.Init(context.Background()))

	_, err := h.ReadBlock(context.Background(), 0, make([]byte, BlockSize-1))
	assert.ErrorIs(t, err, pkg.ErrBufferTooSmall)
}

func TestReadBlockOutOfRange(t *testing.T) {
	const blocks = 4
	h, _ := simHost(patternStore(blocks))
	require.NoError(t, h.Init(context.Background()))

	buf := make([]byte, BlockSize)
	_, err := h.ReadBlock(context.Background(), blocks, buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, pkg.ErrOutOfRange)
}

func TestWriteReadRoundTrip(t *testing.T) {
	h, _ := simHost(patternStore(4))
	require.NoError(t, h.Init(context.Background()))

	want := make([]byte, BlockSize)
	for i := range want {
		want[i] = byte(i ^ 0x5a)
	}

	n, err := h.WriteBlock(context.Background(), 2, want)
	require.NoError(t, err)
	assert.Equal(t, BlockSize, n)

	got := make([]byte, BlockSize)
	n, err = h.ReadBlock(context.Background(), 2, got)
	require.NoError(t, err)
	assert.Equal(t, BlockSize, n)
	assert.Equal(t, want, got)
}

func TestWriteBlockPersistsToStore(t *testing.T) {
	st := patternStore(2)
	h, _ := simHost(st)
	require.NoError(t, h.Init(context.Background()))

	payload := make([]byte, BlockSize)
	for i := range payload {
		payload[i] = 0xa5
	}
	_, err := h.WriteBlock(context.Background(), 1, payload)
	require.NoError(t, err)

	got := make([]byte, BlockSize)
	_, err = st.ReadAt(got, BlockSize)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestFileBackedEndToEnd(t *testing.T) {
	const blocks = 8
	path := filepath.Join(t.TempDir(), "card.img")

	data := make([]byte, blocks*BlockSize)
	for i := range data {
		data[i] = byte(i % BlockSize)
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))

	st, err := store.OpenFile(path)
	require.NoError(t, err)
	defer st.Close()

	h, _ := simHost(st)
	require.NoError(t, h.Init(context.Background()))

	buf := make([]byte, BlockSize)
	n, err := h.ReadBlock(context.Background(), 0, buf)
	require.NoError(t, err)
	assert.Equal(t, BlockSize, n)
	assert.Equal(t, data[:BlockSize], buf)

	// One past the last block surfaces the backend failure.
	_, err = h.ReadBlock(context.Background(), blocks, buf)
	assert.ErrorIs(t, err, pkg.ErrOutOfRange)
}

// busyHAL always reads busy, counting transfers.
type busyHAL struct {
	transfers int
}

func (b *busyHAL) Transfer(value byte) (byte, error) {
	b.transfers++
	return busyByte, nil
}

func (b *busyHAL) SetChipSelect(asserted bool) {}

func (b *busyHAL) SetClockRate(hz uint32) {}

var _ hal.HostHAL = (*busyHAL)(nil)

func TestWaitResultRetryBound(t *testing.T) {
	b := &busyHAL{}
	h := New(b)

	buf := make([]byte, BlockSize)
	_, err := h.ReadBlock(context.Background(), 0, buf)
	assert.ErrorIs(t, err, pkg.ErrBusyTimeout)

	// Six frame bytes, then exactly MaxResultRetries busy polls.
	assert.Equal(t, 6+MaxResultRetries, b.transfers)
}

// scriptHAL replays canned response bytes for every transfer.
type scriptHAL struct {
	responses []byte
	pos       int
}

func (s *scriptHAL) Transfer(value byte) (byte, error) {
	if s.pos >= len(s.responses) {
		return busyByte, nil
	}
	b := s.responses[s.pos]
	s.pos++
	return b, nil
}

func (s *scriptHAL) SetChipSelect(asserted bool) {}

func (s *scriptHAL) SetClockRate(hz uint32) {}

var _ hal.HostHAL = (*scriptHAL)(nil)

func TestInitUnexpectedResetResponse(t *testing.T) {
	// 10 power-on pulses, 6 reset frame bytes, then a bogus response.
	script := make([]byte, 16)
	for i := range script {
		script[i] = busyByte
	}
	script = append(script, 0x05)

	h := New(&scriptHAL{responses: script})
	err := h.Init(context.Background())
	require.Error(t, err)

	var rerr *ResponseError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, cmdReset, rerr.Cmd)
	assert.Equal(t, byte(0x05), rerr.Response)
	assert.ErrorIs(t, err, pkg.ErrBadResponse)
}
