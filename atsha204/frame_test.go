package atsha204

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCommandDevRev(t *testing.T) {
	frame := encodeCommand(OpDevRev, 0, 0, nil)
	require.Len(t, frame, 7)
	assert.Equal(t, byte(0x07), frame[0])
	assert.Equal(t, OpDevRev, frame[1])
	assert.Equal(t, byte(0x00), frame[2])
	assert.Equal(t, byte(0x00), frame[3])
	assert.Equal(t, byte(0x00), frame[4])

	crc := crc16(frame[:5])
	assert.Equal(t, crc[0], frame[5])
	assert.Equal(t, crc[1], frame[6])
}

func TestEncodeDecodeFrameRoundTrip(t *testing.T) {
	payload := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	cmd := encodeCommand(OpWrite, zoneSelector(ZoneOTP, false), 0x0003, payload)

	// Simulate a device echoing the payload back as the response body.
	resp := make([]byte, 0, len(payload)+3)
	resp = append(resp, byte(len(payload)+3))
	resp = append(resp, payload...)
	crc := crc16(resp)
	resp = append(resp, crc[:]...)

	body, err := decodeResponse("test", resp)
	require.NoError(t, err)
	assert.Equal(t, payload, body)
	assert.NotEmpty(t, cmd)
}

func TestDecodeResponseRejectsBadCRC(t *testing.T) {
	resp := []byte{0x04, StatusSuccess, 0xDE, 0xAD}
	_, err := decodeResponse("test", resp)
	require.Error(t, err)
	assert.True(t, IsCommunication(err))
}

func TestDecodeResponseRejectsBadStatus(t *testing.T) {
	body := []byte{StatusExecError}
	crc := crc16(append([]byte{0x04}, body...))
	resp := append([]byte{0x04}, body...)
	resp = append(resp, crc[:]...)

	_, err := decodeResponse("test", resp)
	require.Error(t, err)
	assert.True(t, IsBadStatus(err))

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, StatusExecError, e.Status)
}

func TestDecodeResponseRejectsLengthMismatch(t *testing.T) {
	resp := []byte{0x09, StatusSuccess, 0x00, 0x00}
	_, err := decodeResponse("test", resp)
	require.Error(t, err)
	assert.True(t, IsCommunication(err))
}

func TestDecodeResponsePassesWakeOK(t *testing.T) {
	body := []byte{StatusWakeOK}
	crc := crc16(append([]byte{0x04}, body...))
	resp := append([]byte{0x04}, body...)
	resp = append(resp, crc[:]...)

	got, err := decodeResponse("wake", resp)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}
