package atsha204

import "errors"

// This file is the session driver (spec §4.5): every public call wakes
// the device, runs one or more command/response exchanges, and idles —
// logging (not failing) the call if idle isn't confirmed. It is the
// direct generalization of the teacher's ExecuteCmd(..., wake bool) and
// of original_source/api.c's per-function wake()/command()/idle() shape,
// where every atsha_* call follows the identical five-line bracket.

// bracket wakes the device, runs fn, and idles the device afterward
// regardless of fn's outcome (an idle failure is logged, not returned —
// spec §4.5 step 4).
func (h *Handle) bracket(op string, fn func() error) error {
	if err := h.t.Wake(); err != nil {
		return newErr(op, ErrWakeNotConfirmed, err)
	}
	defer func() {
		if err := h.t.Idle(); err != nil {
			h.cfg.warn("idle not confirmed after call", "op", op, "err", err)
		}
	}()
	return fn()
}

// exchange sends one command frame and returns its validated response
// body.
func (h *Handle) exchange(op string, frame []byte) ([]byte, error) {
	if err := h.t.Send(frame); err != nil {
		return nil, wrapTransportErr(op, err)
	}
	raw, err := h.t.Receive()
	if err != nil {
		return nil, wrapTransportErr(op, err)
	}
	return decodeResponse(op, raw)
}

// wrapTransportErr preserves a transport's own *Error kind (an emulator
// reporting ErrNotImplemented, say) instead of flattening every
// transport failure into ErrCommunication.
func wrapTransportErr(op string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return newErr(op, ErrCommunication, err)
}

// DevRev returns the device's 4-byte revision number.
func (h *Handle) DevRev() (BigInt, error) {
	var out BigInt
	err := h.bracket("dev_rev", func() error {
		body, err := h.exchange("dev_rev", encodeDevRev())
		if err != nil {
			return err
		}
		out, err = decodeDevRevRecv(body)
		return err
	})
	return out, err
}

// Random returns 32 bytes from the device's (or emulator's) random
// number generator.
func (h *Handle) Random() (BigInt, error) {
	var out BigInt
	err := h.bracket("random", func() error {
		body, err := h.exchange("random", encodeRandom())
		if err != nil {
			return err
		}
		out, err = decodeRandomRecv(body)
		return err
	})
	return out, err
}

// SlotRead reads the full 32 bytes of data slot `slot`.
func (h *Handle) SlotRead(slot int) (BigInt, error) {
	var out BigInt
	if err := validateSlot(slot); err != nil {
		return out, err
	}
	err := h.bracket("slot_read", func() error {
		frame := encodeRead(ZoneData, slotAddress(slot), true)
		body, err := h.exchange("slot_read", frame)
		if err != nil {
			return err
		}
		out, err = decodeReadRecv(body)
		return err
	})
	return out, err
}

// SlotWrite writes the full 32 bytes of data slot `slot`.
func (h *Handle) SlotWrite(slot int, data []byte) error {
	if err := validateSlot(slot); err != nil {
		return err
	}
	if len(data) != SlotBytes {
		return newErr("slot_write", ErrInvalidInput, nil)
	}
	return h.bracket("slot_write", func() error {
		frame := encodeWrite(ZoneData, slotAddress(slot), true, data)
		body, err := h.exchange("slot_write", frame)
		if err != nil {
			return err
		}
		return decodeWriteRecv(body)
	})
}

// ConfigRead reads one 4-byte config-zone word at addr (0x00..0x15).
func (h *Handle) ConfigRead(addr int) (BigInt, error) {
	var out BigInt
	if err := validateConfigAddr(addr); err != nil {
		return out, err
	}
	err := h.bracket("config_read", func() error {
		frame := encodeRead(ZoneConfig, byte(addr), false)
		body, err := h.exchange("config_read", frame)
		if err != nil {
			return err
		}
		out, err = decodeReadRecv(body)
		return err
	})
	return out, err
}

// ConfigWrite writes one 4-byte config-zone word at addr.
func (h *Handle) ConfigWrite(addr int, data []byte) error {
	if err := validateConfigAddr(addr); err != nil {
		return err
	}
	if len(data) != ConfigWordLen {
		return newErr("config_write", ErrInvalidInput, nil)
	}
	return h.bracket("config_write", func() error {
		frame := encodeWrite(ZoneConfig, byte(addr), false, data)
		body, err := h.exchange("config_write", frame)
		if err != nil {
			return err
		}
		return decodeWriteRecv(body)
	})
}

// OTPRead reads one 4-byte OTP word at addr (0x00..0x0F).
func (h *Handle) OTPRead(addr int) (BigInt, error) {
	var out BigInt
	if err := validateOTPAddr(addr); err != nil {
		return out, err
	}
	err := h.bracket("otp_read", func() error {
		frame := encodeRead(ZoneOTP, byte(addr), false)
		body, err := h.exchange("otp_read", frame)
		if err != nil {
			return err
		}
		out, err = decodeReadRecv(body)
		return err
	})
	return out, err
}

// OTPWrite writes one 4-byte OTP word at addr.
func (h *Handle) OTPWrite(addr int, data []byte) error {
	if err := validateOTPAddr(addr); err != nil {
		return err
	}
	if len(data) != OTPWordBytes {
		return newErr("otp_write", ErrInvalidInput, nil)
	}
	return h.bracket("otp_write", func() error {
		frame := encodeWrite(ZoneOTP, byte(addr), false, data)
		body, err := h.exchange("otp_write", frame)
		if err != nil {
			return err
		}
		return decodeWriteRecv(body)
	})
}

// Nonce loads a 32-byte challenge into TempKey verbatim (pass-through
// mode). It is almost always called as part of ChallengeResponse rather
// than directly.
func (h *Handle) Nonce(challenge []byte) error {
	if err := validateChallenge(challenge); err != nil {
		return err
	}
	return h.bracket("nonce", func() error {
		body, err := h.exchange("nonce", encodeNonce(0, challenge))
		if err != nil {
			return err
		}
		return decodeNonceRecv(body)
	})
}

// HMAC computes the HMAC digest over TempKey (which must have been
// loaded by a prior Nonce in the same wake bracket) and the given slot's
// key. Use ChallengeResponse for the common Nonce-then-HMAC pairing.
func (h *Handle) HMAC(slot int, includeSN bool) (BigInt, error) {
	var out BigInt
	if err := validateSlot(slot); err != nil {
		return out, err
	}
	mode := byte(0)
	if includeSN {
		mode = ModeIncludeSN
	}
	err := h.bracket("hmac", func() error {
		body, err := h.exchange("hmac", encodeHMAC(mode, slot))
		if err != nil {
			return err
		}
		out, err = decodeHMACRecv(body)
		return err
	})
	return out, err
}

// MAC computes the MAC digest over the given inline challenge and slot
// key in a single command (spec §4.5 "Challenge-response-MAC is a
// single MAC operation that carries the challenge inline").
func (h *Handle) MAC(slot int, challenge []byte, includeSN bool) (BigInt, error) {
	var out BigInt
	if err := validateSlot(slot); err != nil {
		return out, err
	}
	if err := validateChallenge(challenge); err != nil {
		return out, err
	}
	mode := byte(0)
	if includeSN {
		mode = ModeIncludeSN
	}
	err := h.bracket("mac", func() error {
		body, err := h.exchange("mac", encodeMAC(mode, slot, challenge))
		if err != nil {
			return err
		}
		out, err = decodeMACRecv(body)
		return err
	})
	return out, err
}

// ChallengeResponse runs Nonce(challenge) then HMAC(slot) under a single
// wake/idle bracket (spec §4.5 "Multi-step operations").
func (h *Handle) ChallengeResponse(slot int, challenge []byte, includeSN bool) (BigInt, error) {
	var out BigInt
	if err := validateSlot(slot); err != nil {
		return out, err
	}
	if err := validateChallenge(challenge); err != nil {
		return out, err
	}
	mode := byte(0)
	if includeSN {
		mode = ModeIncludeSN
	}
	err := h.bracket("challenge_response", func() error {
		nonceBody, err := h.exchange("challenge_response.nonce", encodeNonce(0, challenge))
		if err != nil {
			return err
		}
		if err := decodeNonceRecv(nonceBody); err != nil {
			return err
		}

		hmacBody, err := h.exchange("challenge_response.hmac", encodeHMAC(mode, slot))
		if err != nil {
			return err
		}
		out, err = decodeHMACRecv(hmacBody)
		return err
	})
	return out, err
}

// ChallengeResponseMAC is the single-command MAC equivalent of
// ChallengeResponse.
func (h *Handle) ChallengeResponseMAC(slot int, challenge []byte, includeSN bool) (BigInt, error) {
	return h.MAC(slot, challenge, includeSN)
}

// LockConfig irrevocably locks the configuration zone; crc must be the
// CRC-16 of the full 88-byte config zone (spec §4.9). A mismatch
// produces ErrBadStatus with StatusExecError.
func (h *Handle) LockConfig(crc [2]byte) error {
	return h.lock(LockZoneConfig, crc)
}

// LockData irrevocably locks the data and OTP zones; crc must be the
// CRC-16 of the concatenated data-zone-then-OTP-zone contents (spec
// §4.9).
func (h *Handle) LockData(crc [2]byte) error {
	return h.lock(LockZoneData, crc)
}

func (h *Handle) lock(zone byte, crc [2]byte) error {
	return h.bracket("lock", func() error {
		body, err := h.exchange("lock", encodeLock(zone, crc))
		if err != nil {
			return err
		}
		return decodeLockRecv(body)
	})
}

// ReadConfigZone reads all 22 config-zone words and returns the
// concatenated 88-byte buffer, for computing the CRC that LockConfig
// expects (original_source chipinit/main.c create_and_lock_config).
func (h *Handle) ReadConfigZone() ([ConfigBytes]byte, error) {
	var out [ConfigBytes]byte
	for addr := 0; addr <= MaxConfigAddr; addr++ {
		word, err := h.ConfigRead(addr)
		if err != nil {
			return out, err
		}
		copy(out[addr*ConfigWordLen:], word.Bytes())
	}
	return out, nil
}

// ReadDataAndOTPZone reads all 16 data slots followed by all 16 OTP
// words and returns the concatenated buffer, for computing the CRC that
// LockData expects (original_source chipinit/main.c
// write_and_lock_data).
func (h *Handle) ReadDataAndOTPZone() ([DataZoneBytes]byte, error) {
	var out [DataZoneBytes]byte
	for slot := 0; slot < SlotCount; slot++ {
		word, err := h.SlotRead(slot)
		if err != nil {
			return out, err
		}
		copy(out[slot*SlotBytes:], word.Bytes())
	}

	otpBase := SlotCount * SlotBytes
	for addr := 0; addr < OTPWordCount; addr++ {
		word, err := h.OTPRead(addr)
		if err != nil {
			return out, err
		}
		copy(out[otpBase+addr*OTPWordBytes:], word.Bytes())
	}
	return out, nil
}

// LockCRCs holds the CRC-16 values LockConfig and LockData each expect,
// as returned by ComputeLockCRCs.
type LockCRCs struct {
	Config [2]byte
	Data   [2]byte
}

// ComputeLockCRCs reads the config zone and the data-then-OTP zone and
// runs this module's own CRC-16 over each, producing the values to pass
// to LockConfig and LockData (original_source chipinit/main.c
// create_and_lock_config / write_and_lock_data, which run the same
// CRC-16 over these same buffers before locking).
func (h *Handle) ComputeLockCRCs() (LockCRCs, error) {
	cfgZone, err := h.ReadConfigZone()
	if err != nil {
		return LockCRCs{}, err
	}
	dataZone, err := h.ReadDataAndOTPZone()
	if err != nil {
		return LockCRCs{}, err
	}
	return LockCRCs{
		Config: CRC16(cfgZone[:]),
		Data:   CRC16(dataZone[:]),
	}, nil
}
