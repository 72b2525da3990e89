package emulator

import (
	"testing"

	"github.com/imrehg/libatsha204/atsha204"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig() *Config {
	cfg := &Config{
		Serial:   [9]byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xAB, 0xCD, 0xEF, 0x01},
		Revision: [4]byte{0x00, 0x02, 0x00, 0x09},
	}
	for i := range cfg.Slots[7] {
		cfg.Slots[7][i] = 0xFF
	}
	return cfg
}

func openTestHandle(t *testing.T, opts ...Option) *atsha204.Handle {
	t.Helper()
	h, err := atsha204.NewHandle(atsha204.Config{}, New(newTestConfig(), opts...))
	require.NoError(t, err)
	return h
}

func TestEmulatorDevRev(t *testing.T) {
	h := openTestHandle(t)
	rev, err := h.DevRev()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x02, 0x00, 0x09}, rev.Bytes())
}

func TestEmulatorSlotReadWriteRoundTrip(t *testing.T) {
	h := openTestHandle(t)
	data := make([]byte, 32)
	for i := range data {
		data[i] = byte(i)
	}

	require.NoError(t, h.SlotWrite(3, data))
	got, err := h.SlotRead(3)
	require.NoError(t, err)
	assert.Equal(t, data, got.Bytes())
}

func TestEmulatorChallengeResponseMatchesDigestEngine(t *testing.T) {
	h := openTestHandle(t)
	cfg := newTestConfig()

	got, err := h.ChallengeResponse(7, testChallenge[:], false)
	require.NoError(t, err)

	want := computeDigest(cfg.Slots[7], testChallenge, atsha204.OpHMAC, 0x00, 7, cfg.OTP, cfg.Serial, false)
	assert.Equal(t, want[:], got.Bytes())
}

func TestEmulatorChallengeResponseMACMatchesDigestEngine(t *testing.T) {
	h := openTestHandle(t)
	cfg := newTestConfig()

	got, err := h.ChallengeResponseMAC(7, testChallenge[:], true)
	require.NoError(t, err)

	want := computeDigest(cfg.Slots[7], testChallenge, atsha204.OpMAC, atsha204.ModeIncludeSN, 7, cfg.OTP, cfg.Serial, true)
	assert.Equal(t, want[:], got.Bytes())
}

func TestEmulatorHMACWithoutPriorNonceFails(t *testing.T) {
	h := openTestHandle(t)
	_, err := h.HMAC(7, false)
	require.Error(t, err)
	assert.True(t, atsha204.IsBadStatus(err))
}

func TestEmulatorWritesLockedOptionRejectsWrite(t *testing.T) {
	h := openTestHandle(t, WithWritesLocked(true))
	err := h.SlotWrite(0, make([]byte, 32))
	require.Error(t, err)
	assert.True(t, atsha204.IsBadStatus(err))
}

func TestEmulatorLockConfigAcceptsCorrectCRC(t *testing.T) {
	h := openTestHandle(t)
	crcs, err := h.ComputeLockCRCs()
	require.NoError(t, err)
	require.NoError(t, h.LockConfig(crcs.Config))
}

func TestEmulatorLockDataAcceptsCorrectCRC(t *testing.T) {
	h := openTestHandle(t)
	crcs, err := h.ComputeLockCRCs()
	require.NoError(t, err)
	require.NoError(t, h.LockData(crcs.Data))
}

func TestEmulatorLockConfigRejectsWrongCRC(t *testing.T) {
	h := openTestHandle(t)
	err := h.LockConfig([2]byte{0xDE, 0xAD})
	require.Error(t, err)
	assert.True(t, atsha204.IsBadStatus(err))
}

func TestEmulatorLockOwningFalse(t *testing.T) {
	emu := New(newTestConfig())
	assert.False(t, emu.LockOwning())
}
