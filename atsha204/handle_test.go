package atsha204

import (
	"errors"
	"testing"

	"github.com/imrehg/libatsha204/atsha204/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandleRejectsNilTransport(t *testing.T) {
	_, err := NewHandle(Config{}, nil)
	require.Error(t, err)
	assert.True(t, IsInvalidInput(err))
}

func TestNewHandleRejectsLockOwningTransport(t *testing.T) {
	fake := &fakeLockOwningTransport{}
	_, err := NewHandle(Config{}, fake)
	require.Error(t, err)
	assert.True(t, IsInvalidInput(err))
}

func TestNewHandleAcceptsNonLockOwningTransport(t *testing.T) {
	lb := transport.NewLoopback(func(frame []byte) ([]byte, error) {
		return encodeStatusFrame(t, StatusSuccess), nil
	})
	h, err := NewHandle(Config{}, lb)
	require.NoError(t, err)
	require.NotNil(t, h)
}

func TestHandleCloseZeroesCachedSerial(t *testing.T) {
	lb := transport.NewLoopback(func(frame []byte) ([]byte, error) {
		return encodeStatusFrame(t, StatusSuccess), nil
	})
	h, err := NewHandle(Config{}, lb)
	require.NoError(t, err)

	h.sn = NewBigInt([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	h.snCached = true

	require.NoError(t, h.Close())
	assert.True(t, lb.Closed)
	assert.Equal(t, BigInt{}, h.sn)
}

type fakeLockOwningTransport struct{}

func (fakeLockOwningTransport) Wake() error       { return nil }
func (fakeLockOwningTransport) Send([]byte) error { return nil }
func (fakeLockOwningTransport) Receive() ([]byte, error) {
	return nil, nil
}
func (fakeLockOwningTransport) Idle() error      { return nil }
func (fakeLockOwningTransport) LockOwning() bool { return true }
func (fakeLockOwningTransport) Close() error     { return nil }

// encodeStatusFrame builds a minimal valid response frame carrying a
// single status byte, for tests that only need Send/Receive to round
// trip through decodeResponse without exercising a specific operation.
func encodeStatusFrame(t *testing.T, status byte) []byte {
	t.Helper()
	body := []byte{status}
	crc := crc16(append([]byte{0x04}, body...))
	frame := append([]byte{0x04}, body...)
	frame = append(frame, crc[:]...)
	return frame
}

func TestIsWakeNotConfirmedClassifier(t *testing.T) {
	err := newErr("wake", ErrWakeNotConfirmed, errors.New("bus timeout"))
	assert.True(t, IsWakeNotConfirmed(err))
	assert.False(t, IsWakeNotConfirmed(errors.New("other")))
}
