package emulator

import (
	"bytes"
	"fmt"

	"github.com/imrehg/libatsha204/atsha204"
)

// cmdMinLen mirrors atsha204's own framing minimum: len(1) + opcode(1) +
// param1(1) + param2(2) + crc(2), no payload.
const cmdMinLen = 7

// command is a decoded command frame, the device-side mirror of what
// atsha204's encodeCommand produces on the host side.
type command struct {
	opcode  byte
	param1  byte
	param2  uint16
	payload []byte
}

// decodeCommand validates and parses a raw command frame the way the
// chip's own front-end would: declared length must match, and the
// trailing CRC-16 must verify.
func decodeCommand(frame []byte) (command, error) {
	if len(frame) < cmdMinLen {
		return command{}, fmt.Errorf("emulator: command frame too short")
	}
	declaredLen := int(frame[0])
	if declaredLen != len(frame) {
		return command{}, fmt.Errorf("emulator: declared length %d != actual %d", declaredLen, len(frame))
	}

	size := len(frame) - 2
	body := frame[:size]
	crc := frame[size:]
	want := atsha204.CRC16(body)
	if !bytes.Equal(want[:], crc) {
		return command{}, fmt.Errorf("emulator: CRC mismatch")
	}

	return command{
		opcode:  frame[1],
		param1:  frame[2],
		param2:  uint16(frame[3]) | uint16(frame[4])<<8,
		payload: frame[5:size],
	}, nil
}

// encodeResponse builds a response frame around body, matching
// atsha204's decodeResponse expectations:
// len(1) | body(N) | crc_lo(1) | crc_hi(1).
func encodeResponse(body []byte) []byte {
	total := len(body) + 3
	frame := make([]byte, total)
	frame[0] = byte(total)
	copy(frame[1:], body)

	crc := atsha204.CRC16(frame[:total-2])
	frame[total-2] = crc[0]
	frame[total-1] = crc[1]
	return frame
}

// encodeStatus is encodeResponse for the common one-byte status body.
func encodeStatus(status byte) []byte {
	return encodeResponse([]byte{status})
}
