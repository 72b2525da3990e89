package atsha204

// CRC16Poly is the polynomial used by the device's frame checksum.
const CRC16Poly uint16 = 0x8005

// crc16 computes the device's CRC-16: polynomial 0x8005, initial
// register 0x0000, bit-reflected (LSB-first per byte) processing, no
// final XOR. Output is two bytes, low byte first.
//
// Ported byte-for-byte from the sibling ATECC608A driver's crc16()
// (atecc608/atecc608.go), which itself matches the ATSHA204/ATECC60x
// datasheet's reference CRC-16 algorithm.
func crc16(data []byte) [2]byte {
	var crc uint16

	for _, b := range data {
		for shift := uint8(0x01); shift > 0x00; shift <<= 1 {
			var dataBit, crcBit uint8

			if b&shift != 0 {
				dataBit = 1
			}
			crcBit = uint8(crc >> 15)
			crc <<= 1

			if dataBit != crcBit {
				crc ^= CRC16Poly
			}
		}
	}

	return [2]byte{byte(crc & 0xff), byte(crc >> 8)}
}

// CRC16 exposes the frame checksum for provisioning callers that need to
// compute a CRC over the config zone or the data-zone-then-OTP-zone
// buffer before issuing Lock (spec §4.9).
func CRC16(data []byte) [2]byte { return crc16(data) }

// hexByte decodes two ASCII hex digits (either case) into one byte.
func hexByte(hi, lo byte) (byte, bool) {
	h, ok1 := hexNibble(hi)
	l, ok2 := hexNibble(lo)
	if !ok1 || !ok2 {
		return 0, false
	}
	return h<<4 | l, true
}

func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// isHexSeparator reports whether b is one of the byte separators
// accepted between hex pairs in config files (spec §4.1, §6): space,
// tab, comma, semicolon, colon.
func isHexSeparator(b byte) bool {
	switch b {
	case ' ', '\t', ',', ';', ':':
		return true
	default:
		return false
	}
}

// DecodeHexLine exposes decodeHexLine to the emulator package, which
// parses config-file lines in the same separator-tolerant hex format.
func DecodeHexLine(line string, want int) ([]byte, bool) {
	return decodeHexLine(line, want)
}

// decodeHexLine reads exactly want bytes of hex-pair data from line,
// skipping accepted separators between pairs. It mirrors
// original_source's chipinit/main.c read_config byte-at-a-time scan.
func decodeHexLine(line string, want int) ([]byte, bool) {
	out := make([]byte, 0, want)
	i := 0
	for len(out) < want {
		for i < len(line) && isHexSeparator(line[i]) {
			i++
		}
		if i+2 > len(line) {
			return nil, false
		}
		b, ok := hexByte(line[i], line[i+1])
		if !ok {
			return nil, false
		}
		out = append(out, b)
		i += 2
	}
	return out, true
}
