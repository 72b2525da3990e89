package atsha204

import "bytes"

// encodeCommand builds a command frame:
//
//	len(1) | opcode(1) | param1(1) | param2_lo(1) | param2_hi(1) | payload(N) | crc_lo(1) | crc_hi(1)
//
// len is the total frame length including itself and the CRC; param2 is
// little-endian; the CRC covers every byte from len through the last
// payload byte. Ground: teacher ExecuteCmd's packet assembly
// (atecc608/atecc608.go), cross-checked against original_source's
// generate_command_packet.
func encodeCommand(opcode, param1 byte, param2 uint16, payload []byte) []byte {
	total := cmdMinLen + len(payload)
	frame := make([]byte, total)

	frame[0] = byte(total)
	frame[1] = opcode
	frame[2] = param1
	frame[3] = byte(param2 & 0xff)
	frame[4] = byte(param2 >> 8)
	copy(frame[5:], payload)

	crc := crc16(frame[:total-2])
	frame[total-2] = crc[0]
	frame[total-1] = crc[1]

	return frame
}

// decodeResponse validates a response frame:
//
//	len(1) | body(N) | crc_lo(1) | crc_hi(1)
//
// and returns its body. A body of exactly one byte is a status code: if
// it is not StatusSuccess (and not the caller-handled StatusWakeOK) this
// returns ErrBadStatus. Ground: teacher verifyResponse()
// (atecc608/atecc608.go), cross-checked against original_source's
// check_packet/check_crc.
func decodeResponse(op string, raw []byte) ([]byte, error) {
	if len(raw) < respMinLen {
		return nil, newErr(op, ErrCommunication, nil)
	}

	declaredLen := int(raw[0])
	if declaredLen != len(raw) {
		return nil, newErr(op, ErrCommunication, nil)
	}

	size := len(raw) - 2
	payload := raw[:size]
	body := raw[1:size]
	crc := raw[size:]

	want := crc16(payload)
	if !bytes.Equal(want[:], crc) {
		return nil, newErr(op, ErrCommunication, nil)
	}

	if len(body) == 1 {
		status := body[0]
		if status != StatusSuccess && status != StatusWakeOK {
			return nil, newStatusErr(op, status)
		}
	}

	return body, nil
}
