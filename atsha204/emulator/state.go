package emulator

import (
	"fmt"

	"github.com/imrehg/libatsha204/atsha204"
)

// randomConstant is the fixed 32-byte value this emulator's Random
// command returns. The hardware's RNG output is not reproducible and
// the spec leaves the emulator's constant implementation-defined (spec
// §4.7, §9 "emulator's random-number response is implementation-
// defined"); a fixed ramp keeps parity tests that happen to touch
// Random deterministic without meaning anything cryptographically.
var randomConstant = func() (out [atsha204.ChallengeLen]byte) {
	for i := range out {
		out[i] = byte(i)
	}
	return out
}()

// Option configures an Emulator at construction time.
type Option func(*Emulator)

// WithWritesLocked configures the emulator to reject Write commands
// against any zone, as if it had already been provisioned and locked
// (spec §4.7 "Write / Lock: accepted silently, or rejected if the
// emulator is configured as locked; default is accept").
func WithWritesLocked(locked bool) Option {
	return func(e *Emulator) { e.writesLocked = locked }
}

// WithLogger attaches a diagnostic sink.
func WithLogger(l atsha204.Logger) Option {
	return func(e *Emulator) { e.logger = l }
}

// Emulator is a full, device-side software stand-in for the chip: it
// holds all 16 slots, the OTP zone, a synthesized config zone, and the
// TempKey register, and answers the same wire commands hardware would
// (spec §3 "Emulator role flag: device-side"). It satisfies
// atsha204.Transport, so a atsha204.Handle can drive it exactly the way
// it drives a physical bus.
type Emulator struct {
	slots      [atsha204.SlotCount][atsha204.SlotBytes]byte
	otp        [atsha204.OTPWordCount][atsha204.OTPWordBytes]byte
	configZone [atsha204.ConfigBytes]byte
	serial     [9]byte

	tempKey      [32]byte
	tempKeyValid bool

	writesLocked bool
	configLocked bool
	dataLocked   bool
	logger       atsha204.Logger

	pending []byte
	closed  bool
}

// New builds a device-side Emulator from a parsed config file.
func New(cfg *Config, opts ...Option) *Emulator {
	e := &Emulator{
		slots:  cfg.Slots,
		otp:    cfg.OTP,
		serial: cfg.Serial,
	}

	// Synthesize a config zone consistent with atsha204.Handle's own
	// ChipSerialNumber reconstruction (config bytes 0:4 + 8:13 = serial,
	// bytes 4:8 = revision): word0 = serial[0:4], word1 = revision,
	// word2 = serial[4:8], word3[0] = serial[8].
	copy(e.configZone[0:4], cfg.Serial[0:4])
	copy(e.configZone[4:8], cfg.Revision[:])
	copy(e.configZone[8:12], cfg.Serial[4:8])
	e.configZone[12] = cfg.Serial[8]

	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Wake resets TempKey to undefined, mirroring the chip: TempKey is
// defined only after a Nonce and before any intervening Wake (spec §3
// invariant).
func (e *Emulator) Wake() error {
	e.tempKeyValid = false
	return nil
}

// Idle is a no-op: the emulator's state survives idling exactly like a
// real chip's.
func (e *Emulator) Idle() error { return nil }

// LockOwning reports false: emulator transports never hold the
// cross-process lock (spec §3 invariant).
func (e *Emulator) LockOwning() bool { return false }

// Close marks the emulator closed. It owns no OS resources.
func (e *Emulator) Close() error {
	e.closed = true
	return nil
}

// Send decodes and executes one command frame, queuing its response for
// the next Receive.
func (e *Emulator) Send(frame []byte) error {
	cmd, err := decodeCommand(frame)
	if err != nil {
		e.debug("rejecting malformed command frame", "err", err)
		e.pending = encodeStatus(atsha204.StatusCommError)
		return nil
	}

	resp, execErr := e.execute(cmd)
	if execErr != nil {
		return execErr
	}
	e.pending = resp
	return nil
}

func (e *Emulator) debug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}

// Receive returns the response queued by the most recent Send.
func (e *Emulator) Receive() ([]byte, error) {
	if e.pending == nil {
		return nil, fmt.Errorf("emulator: receive with no pending command")
	}
	out := e.pending
	e.pending = nil
	return out, nil
}

// execute dispatches a decoded command to its handler. A (resp, nil)
// return is the common case; a non-nil error is a Go-level
// driver error (ErrNotImplemented) that must reach the caller unmodified
// rather than be folded into a wire status.
func (e *Emulator) execute(cmd command) ([]byte, error) {
	switch cmd.opcode {
	case atsha204.OpDevRev:
		return encodeResponse(e.configZone[4:8]), nil
	case atsha204.OpRandom:
		return encodeResponse(randomConstant[:]), nil
	case atsha204.OpRead:
		return e.read(cmd)
	case atsha204.OpWrite:
		return e.write(cmd)
	case atsha204.OpNonce:
		return e.nonce(cmd)
	case atsha204.OpHMAC:
		return e.hmac(cmd)
	case atsha204.OpMAC:
		return e.mac(cmd)
	case atsha204.OpLock:
		return e.lockZone(cmd)
	default:
		return encodeStatus(atsha204.StatusParseError), nil
	}
}

func (e *Emulator) read(cmd command) ([]byte, error) {
	zone := cmd.param1 & 0x03
	size32 := cmd.param1&0x80 != 0
	addr := int(cmd.param2)

	switch {
	case zone == atsha204.ZoneData && size32:
		slot := addr >> 3
		if slot < 0 || slot > atsha204.MaxSlotIndex {
			return encodeStatus(atsha204.StatusExecError), nil
		}
		return encodeResponse(e.slots[slot][:]), nil
	case zone == atsha204.ZoneOTP:
		if addr < 0 || addr >= atsha204.OTPWordCount {
			return encodeStatus(atsha204.StatusExecError), nil
		}
		return encodeResponse(e.otp[addr][:]), nil
	case zone == atsha204.ZoneConfig:
		if addr < 0 || addr > atsha204.MaxConfigAddr {
			return encodeStatus(atsha204.StatusExecError), nil
		}
		off := addr * atsha204.ConfigWordLen
		return encodeResponse(e.configZone[off : off+atsha204.ConfigWordLen]), nil
	default:
		return encodeStatus(atsha204.StatusExecError), nil
	}
}

func (e *Emulator) write(cmd command) ([]byte, error) {
	if e.writesLocked {
		return encodeStatus(atsha204.StatusExecError), nil
	}

	zone := cmd.param1 & 0x03
	size32 := cmd.param1&0x80 != 0
	addr := int(cmd.param2)

	switch {
	case zone == atsha204.ZoneData && size32:
		if e.dataLocked {
			return encodeStatus(atsha204.StatusExecError), nil
		}
		slot := addr >> 3
		if slot < 0 || slot > atsha204.MaxSlotIndex || len(cmd.payload) != atsha204.SlotBytes {
			return encodeStatus(atsha204.StatusExecError), nil
		}
		copy(e.slots[slot][:], cmd.payload)
		return encodeStatus(atsha204.StatusSuccess), nil
	case zone == atsha204.ZoneOTP:
		if e.dataLocked {
			return encodeStatus(atsha204.StatusExecError), nil
		}
		if addr < 0 || addr >= atsha204.OTPWordCount || len(cmd.payload) != atsha204.OTPWordBytes {
			return encodeStatus(atsha204.StatusExecError), nil
		}
		copy(e.otp[addr][:], cmd.payload)
		return encodeStatus(atsha204.StatusSuccess), nil
	case zone == atsha204.ZoneConfig:
		if e.configLocked {
			return encodeStatus(atsha204.StatusExecError), nil
		}
		if addr < 0 || addr > atsha204.MaxConfigAddr || len(cmd.payload) != atsha204.ConfigWordLen {
			return encodeStatus(atsha204.StatusExecError), nil
		}
		off := addr * atsha204.ConfigWordLen
		copy(e.configZone[off:off+atsha204.ConfigWordLen], cmd.payload)
		return encodeStatus(atsha204.StatusSuccess), nil
	default:
		return encodeStatus(atsha204.StatusExecError), nil
	}
}

func (e *Emulator) nonce(cmd command) ([]byte, error) {
	if len(cmd.payload) != atsha204.ChallengeLen {
		return encodeStatus(atsha204.StatusParseError), nil
	}
	copy(e.tempKey[:], cmd.payload)
	e.tempKeyValid = true
	return encodeStatus(atsha204.StatusSuccess), nil
}

func (e *Emulator) hmac(cmd command) ([]byte, error) {
	if !e.tempKeyValid {
		return encodeStatus(atsha204.StatusExecError), nil
	}
	slot := int(cmd.param2)
	if slot < 0 || slot > atsha204.MaxSlotIndex {
		return encodeStatus(atsha204.StatusExecError), nil
	}
	includeSN := cmd.param1&atsha204.ModeIncludeSN != 0
	digest := computeDigest(e.slots[slot], e.tempKey, atsha204.OpHMAC, cmd.param1, slot, e.otp, e.serial, includeSN)
	return encodeResponse(digest[:]), nil
}

func (e *Emulator) mac(cmd command) ([]byte, error) {
	if len(cmd.payload) != atsha204.ChallengeLen {
		return encodeStatus(atsha204.StatusParseError), nil
	}
	slot := int(cmd.param2)
	if slot < 0 || slot > atsha204.MaxSlotIndex {
		return encodeStatus(atsha204.StatusExecError), nil
	}
	var challenge [32]byte
	copy(challenge[:], cmd.payload)

	includeSN := cmd.param1&atsha204.ModeIncludeSN != 0
	digest := computeDigest(e.slots[slot], challenge, atsha204.OpMAC, cmd.param1, slot, e.otp, e.serial, includeSN)
	return encodeResponse(digest[:]), nil
}

func (e *Emulator) lockZone(cmd command) ([]byte, error) {
	wantCRC := atsha204.CRC16(e.lockableZone(cmd.param1))
	gotCRC := [2]byte{byte(cmd.param2 & 0xff), byte(cmd.param2 >> 8)}
	if wantCRC != gotCRC {
		return encodeStatus(atsha204.StatusExecError), nil
	}

	switch cmd.param1 {
	case atsha204.LockZoneConfig:
		e.configLocked = true
	case atsha204.LockZoneData:
		e.dataLocked = true
	default:
		return encodeStatus(atsha204.StatusExecError), nil
	}
	return encodeStatus(atsha204.StatusSuccess), nil
}

// lockableZone returns the bytes a Lock command's CRC is checked
// against: the full config zone for LockZoneConfig, or the
// data-zone-then-OTP-zone concatenation for LockZoneData (spec §4.9).
func (e *Emulator) lockableZone(zone byte) []byte {
	if zone == atsha204.LockZoneConfig {
		return e.configZone[:]
	}

	buf := make([]byte, 0, atsha204.SlotCount*atsha204.SlotBytes+atsha204.OTPZoneBytes)
	for _, slot := range e.slots {
		buf = append(buf, slot[:]...)
	}
	for _, word := range e.otp {
		buf = append(buf, word[:]...)
	}
	return buf
}
