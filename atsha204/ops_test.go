package atsha204

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDevRevRecv(t *testing.T) {
	v, err := decodeDevRevRecv([]byte{0x00, 0x02, 0x00, 0x09})
	require.NoError(t, err)
	assert.Equal(t, 4, v.Len())

	_, err = decodeDevRevRecv([]byte{0x00})
	assert.Error(t, err)
}

func TestDecodeRandomRecv(t *testing.T) {
	raw := make([]byte, ChallengeLen)
	v, err := decodeRandomRecv(raw)
	require.NoError(t, err)
	assert.Equal(t, ChallengeLen, v.Len())

	_, err = decodeRandomRecv(raw[:10])
	assert.Error(t, err)
}

func TestEncodeReadZoneSelector(t *testing.T) {
	frame := encodeRead(ZoneData, slotAddress(2), true)
	assert.Equal(t, zoneSelector(ZoneData, true), frame[2])
	assert.Equal(t, byte(2<<3), frame[3])
}

func TestEncodeLockPacksCRCLittleEndian(t *testing.T) {
	frame := encodeLock(LockZoneConfig, [2]byte{0x34, 0x12})
	assert.Equal(t, LockZoneConfig, frame[2])
	assert.Equal(t, byte(0x34), frame[3])
	assert.Equal(t, byte(0x12), frame[4])
}

func TestDecodeWriteRecvRequiresOneByteBody(t *testing.T) {
	assert.NoError(t, decodeWriteRecv([]byte{StatusSuccess}))
	assert.Error(t, decodeWriteRecv([]byte{}))
}

func TestValidateSlotBounds(t *testing.T) {
	assert.NoError(t, validateSlot(0))
	assert.NoError(t, validateSlot(MaxSlotIndex))
	assert.Error(t, validateSlot(-1))
	assert.Error(t, validateSlot(MaxSlotIndex+1))
}

func TestValidateChallengeLength(t *testing.T) {
	assert.NoError(t, validateChallenge(make([]byte, ChallengeLen)))
	assert.Error(t, validateChallenge(make([]byte, ChallengeLen-1)))
}
