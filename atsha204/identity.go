package atsha204

// OTP word addresses used for host-supplied serial number assembly and
// key-origin caching (spec §3 "Cached device identity", §4.11; ground:
// original_source/api.c atsha_serial_number/atsha_raw_otp_read call
// sites against ATSHA204_OTP_MEMORY_MAP_* addresses).
const (
	otpAddrRevNumber    = 0x00
	otpAddrSerialNumber = 0x01
	otpAddrKeyOriginSet = 0x02
)

// SerialNumber returns the handle's cached device identity: 8 bytes
// assembled from two OTP words when useHostSN is true ("host-supplied"
// serial mode), otherwise the chip's native 9-byte SN read from the
// config zone. The result is cached for the handle's lifetime per the
// data-model invariant in spec §3.
func (h *Handle) SerialNumber(useHostSN bool) (BigInt, error) {
	if h.snCached {
		return h.sn, nil
	}

	var out BigInt
	if useHostSN {
		rev, err := h.OTPRead(otpAddrRevNumber)
		if err != nil {
			return out, err
		}
		serial, err := h.OTPRead(otpAddrSerialNumber)
		if err != nil {
			return out, err
		}
		buf := make([]byte, 8)
		copy(buf[0:4], rev.Bytes())
		copy(buf[4:8], serial.Bytes())
		out = NewBigInt(buf)
	} else {
		var err error
		out, err = h.ChipSerialNumber()
		if err != nil {
			return out, err
		}
	}

	h.sn = out
	h.snCached = true
	return out, nil
}

// ChipSerialNumber reads the chip's native SN (9 bytes: config-zone
// bytes 0:4 and 8:13) and revision (config-zone bytes 4:8) directly from
// the first four config words, the way the sibling ATECC608A driver's
// Info() does over its own 32-byte config read (atecc608/atecc608.go).
func (h *Handle) ChipSerialNumber() (BigInt, error) {
	var buf [16]byte
	for addr := 0; addr < 4; addr++ {
		word, err := h.ConfigRead(addr)
		if err != nil {
			return BigInt{}, err
		}
		copy(buf[addr*ConfigWordLen:], word.Bytes())
	}

	serial := make([]byte, 0, 9)
	serial = append(serial, buf[0:4]...)
	serial = append(serial, buf[8:13]...)
	return NewBigInt(serial), nil
}

// Revision reads the 4-byte device revision from the config zone
// (config words 1, bytes 4:8), alongside ChipSerialNumber's assembly.
func (h *Handle) Revision() (BigInt, error) {
	word, err := h.ConfigRead(1)
	if err != nil {
		return BigInt{}, err
	}
	return word, nil
}

// KeyOrigin returns the cached key-origin tag read from OTP (spec §3
// "key-origin tag read from OTP").
func (h *Handle) KeyOrigin() (uint32, error) {
	if h.originSet {
		return h.keyOrigin, nil
	}

	word, err := h.OTPRead(otpAddrKeyOriginSet)
	if err != nil {
		return 0, err
	}
	b := word.Bytes()
	if len(b) != OTPWordBytes {
		return 0, newErr("key_origin", ErrCommunication, nil)
	}

	v := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	h.keyOrigin = v
	h.originSet = true
	return v, nil
}
