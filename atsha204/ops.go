package atsha204

// This file implements the per-opcode packet layout of spec §4.3.
// Encoders build command frames; decoders extract the typed result (or
// an error) from an already frame-validated response body (see
// decodeResponse in frame.go, called by the session driver before these
// run).

func encodeDevRev() []byte {
	return encodeCommand(OpDevRev, 0, 0, nil)
}

func decodeDevRevRecv(body []byte) (BigInt, error) {
	if len(body) != 4 {
		return BigInt{}, newErr("dev_rev", ErrCommunication, nil)
	}
	return NewBigInt(body), nil
}

func encodeRandom() []byte {
	return encodeCommand(OpRandom, 0, 0, nil)
}

func decodeRandomRecv(body []byte) (BigInt, error) {
	if len(body) != ChallengeLen {
		return BigInt{}, newErr("random", ErrCommunication, nil)
	}
	return NewBigInt(body), nil
}

func encodeRead(zone byte, addr byte, size32 bool) []byte {
	return encodeCommand(OpRead, zoneSelector(zone, size32), uint16(addr), nil)
}

func decodeReadRecv(body []byte) (BigInt, error) {
	if len(body) != OTPWordBytes && len(body) != SlotBytes {
		return BigInt{}, newErr("read", ErrCommunication, nil)
	}
	return NewBigInt(body), nil
}

func encodeWrite(zone byte, addr byte, size32 bool, data []byte) []byte {
	return encodeCommand(OpWrite, zoneSelector(zone, size32), uint16(addr), data)
}

func decodeWriteRecv(body []byte) error {
	if len(body) != 1 {
		return newErr("write", ErrCommunication, nil)
	}
	return nil // decodeResponse already rejected non-success status bytes
}

func encodeNonce(mode byte, challenge []byte) []byte {
	return encodeCommand(OpNonce, mode, 0, challenge)
}

func decodeNonceRecv(body []byte) error {
	if len(body) != 1 {
		return newErr("nonce", ErrCommunication, nil)
	}
	return nil
}

func encodeHMAC(mode byte, slot int) []byte {
	return encodeCommand(OpHMAC, mode, uint16(slot), nil)
}

func decodeHMACRecv(body []byte) (BigInt, error) {
	if len(body) != ChallengeLen {
		return BigInt{}, newErr("hmac", ErrCommunication, nil)
	}
	return NewBigInt(body), nil
}

func encodeMAC(mode byte, slot int, challenge []byte) []byte {
	return encodeCommand(OpMAC, mode, uint16(slot), challenge)
}

func decodeMACRecv(body []byte) (BigInt, error) {
	if len(body) != ChallengeLen {
		return BigInt{}, newErr("mac", ErrCommunication, nil)
	}
	return NewBigInt(body), nil
}

// encodeLock builds a Lock command: param1 selects config vs. data zone,
// param2 carries the caller-computed CRC-16 of that zone's contents,
// little-endian, so the chip (or emulator) can cross-check it before
// irrevocably locking (spec §4.3, §4.9).
func encodeLock(zone byte, crc [2]byte) []byte {
	param2 := uint16(crc[0]) | uint16(crc[1])<<8
	return encodeCommand(OpLock, zone, param2, nil)
}

func decodeLockRecv(body []byte) error {
	if len(body) != 1 {
		return newErr("lock", ErrCommunication, nil)
	}
	return nil
}
