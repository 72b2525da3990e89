package emulator

import (
	"crypto/sha256"

	"github.com/imrehg/libatsha204/atsha204"
)

// digestMessageLen is the fixed size of the HMAC/MAC input block the
// chip's hardware digest engine consumes (spec §4.8).
const digestMessageLen = 88

// digestInput assembles the 88-byte HMAC/MAC message per spec §4.8's
// offset table. challenge is TempKey's contents for HMAC, or the MAC
// command's inline challenge for MAC. otp and serial are only mixed in
// when includeSN is set; otherwise those ranges are zero, matching the
// chip's documented digest input construction.
func digestInput(slotKey [atsha204.SlotBytes]byte, challenge [32]byte, opcode, mode byte, slot int, otp [atsha204.OTPWordCount][atsha204.OTPWordBytes]byte, serial [9]byte, includeSN bool) [digestMessageLen]byte {
	var msg [digestMessageLen]byte

	copy(msg[0:32], slotKey[:])
	copy(msg[32:64], challenge[:])
	msg[64] = opcode
	msg[65] = mode
	msg[66] = byte(slot)
	msg[67] = byte(slot >> 8)

	if includeSN {
		otpFlat := make([]byte, 0, atsha204.OTPZoneBytes)
		for _, word := range otp {
			otpFlat = append(otpFlat, word[:]...)
		}
		copy(msg[68:76], otpFlat[0:8])
		copy(msg[76:79], otpFlat[8:11])

		msg[79] = 0x00

		copy(msg[80:84], serial[0:4])
		copy(msg[84:86], serial[4:6])
		copy(msg[86:88], serial[6:8])
	}

	return msg
}

// computeDigest returns the 32-byte SHA-256 digest of the assembled
// HMAC/MAC input block.
func computeDigest(slotKey [atsha204.SlotBytes]byte, challenge [32]byte, opcode, mode byte, slot int, otp [atsha204.OTPWordCount][atsha204.OTPWordBytes]byte, serial [9]byte, includeSN bool) [32]byte {
	msg := digestInput(slotKey, challenge, opcode, mode, slot, otp, serial, includeSN)
	return sha256.Sum256(msg[:])
}
