package transport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopbackSendReceiveRoundTrip(t *testing.T) {
	lb := NewLoopback(func(frame []byte) ([]byte, error) {
		return append([]byte{0xAA}, frame...), nil
	})

	require.NoError(t, lb.Send([]byte{0x01, 0x02}))
	got, err := lb.Receive()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0x01, 0x02}, got)
}

func TestLoopbackHandlerError(t *testing.T) {
	wantErr := errors.New("boom")
	lb := NewLoopback(func(frame []byte) ([]byte, error) {
		return nil, wantErr
	})

	err := lb.Send([]byte{0x01})
	assert.ErrorIs(t, err, wantErr)
}

func TestLoopbackWakeIdleClose(t *testing.T) {
	lb := NewLoopback(func(frame []byte) ([]byte, error) { return nil, nil })
	assert.NoError(t, lb.Wake())
	assert.NoError(t, lb.Idle())
	assert.False(t, lb.LockOwning())
	assert.NoError(t, lb.Close())
	assert.True(t, lb.Closed)
}

func TestLoopbackWakeErrPropagates(t *testing.T) {
	wantErr := errors.New("no ack")
	lb := &Loopback{WakeErr: wantErr}
	assert.ErrorIs(t, lb.Wake(), wantErr)
}

func TestMPSSERoundTrip(t *testing.T) {
	bus := newFakeBus()
	m := NewMPSSE(bus)

	bus.queueResponse([]byte{0x04, 0x11, 0x00, 0x00})
	require.NoError(t, m.Wake())
	require.NoError(t, m.Send([]byte{0x07, 0x30, 0x00, 0x00, 0x00, 0x01, 0x02}))

	bus.queueResponse([]byte{0x04, 0x00, 0xAA, 0xBB})
	got, err := m.Receive()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x04, 0x00, 0xAA, 0xBB}, got)

	require.NoError(t, m.Idle())
	assert.True(t, m.LockOwning())
	require.NoError(t, m.Close())
	assert.True(t, bus.closed)
}

func TestMPSSEWakeRejectsBadStatus(t *testing.T) {
	bus := newFakeBus()
	m := NewMPSSE(bus)

	bus.queueResponse([]byte{0x04, 0x00, 0x00, 0x00})
	err := m.Wake()
	assert.Error(t, err)
}

// fakeBus is a minimal io.ReadWriteCloser used only to drive MPSSE's
// tests without a real FTDI/MPSSE bridge.
type fakeBus struct {
	written []byte
	toRead  []byte
	closed  bool
}

func newFakeBus() *fakeBus { return &fakeBus{} }

func (b *fakeBus) queueResponse(data []byte) { b.toRead = append(b.toRead, data...) }

func (b *fakeBus) Write(p []byte) (int, error) {
	b.written = append(b.written, p...)
	return len(p), nil
}

func (b *fakeBus) Read(p []byte) (int, error) {
	n := copy(p, b.toRead)
	b.toRead = b.toRead[n:]
	return n, nil
}

func (b *fakeBus) Close() error {
	b.closed = true
	return nil
}
