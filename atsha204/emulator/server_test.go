package emulator

import (
	"testing"

	"github.com/imrehg/libatsha204/atsha204"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerEmulatorVerifyMatchesChallengeResponse(t *testing.T) {
	var key [32]byte
	for i := range key {
		key[i] = 0xAA
	}
	var otp [16][4]byte
	serial := [9]byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xAB, 0xCD, 0xEF, 0x01}

	srv := NewServerEmulator(5, key, otp, serial)

	got := computeDigest(key, testChallenge, atsha204.OpHMAC, atsha204.ModeIncludeSN, 5, otp, serial, true)
	assert.True(t, srv.Verify(testChallenge, atsha204.ModeIncludeSN, atsha204.OpHMAC, true, got))

	tampered := got
	tampered[0] ^= 0xFF
	assert.False(t, srv.Verify(testChallenge, atsha204.ModeIncludeSN, atsha204.OpHMAC, true, tampered))
}

func TestServerEmulatorRejectsUnsupportedOps(t *testing.T) {
	var key [32]byte
	var otp [16][4]byte
	var serial [9]byte

	h, err := atsha204.NewHandle(atsha204.Config{}, NewServerEmulator(0, key, otp, serial))
	require.NoError(t, err)

	_, err = h.DevRev()
	require.Error(t, err)
	assert.True(t, errorIsNotImplemented(err))
}

// errorIsNotImplemented checks for atsha204.ErrNotImplemented; the
// package's exported classifiers cover the kinds callers are expected to
// branch on in normal use, so "not implemented" is checked directly here
// against the concrete error type.
func errorIsNotImplemented(err error) bool {
	e, ok := err.(*atsha204.Error)
	return ok && e.Kind == atsha204.ErrNotImplemented
}

func TestServerEmulatorHMACWrongSlotIsNotImplemented(t *testing.T) {
	var key [32]byte
	var otp [16][4]byte
	var serial [9]byte

	h, err := atsha204.NewHandle(atsha204.Config{}, NewServerEmulator(2, key, otp, serial))
	require.NoError(t, err)

	require.NoError(t, h.Nonce(testChallenge[:]))
	_, err = h.HMAC(9, false)
	require.Error(t, err)
	assert.True(t, errorIsNotImplemented(err))
}

func TestServerEmulatorHMACKnownSlotSucceeds(t *testing.T) {
	var key [32]byte
	for i := range key {
		key[i] = 0x11
	}
	var otp [16][4]byte
	serial := [9]byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xAB, 0xCD, 0xEF, 0x01}

	h, err := atsha204.NewHandle(atsha204.Config{}, NewServerEmulator(2, key, otp, serial))
	require.NoError(t, err)

	got, err := h.ChallengeResponse(2, testChallenge[:], false)
	require.NoError(t, err)

	want := computeDigest(key, testChallenge, atsha204.OpHMAC, 0x00, 2, otp, serial, false)
	assert.Equal(t, want[:], got.Bytes())
}
