package emulator

import (
	"fmt"

	"github.com/imrehg/libatsha204/atsha204"
)

// ServerEmulator is the "server-side" emulator role (spec §3 "Emulator
// role flag: ... server-side (holds one known slot key and serial
// only, to verify responses)"). Unlike Emulator, it does not simulate
// the whole chip: it knows exactly one slot's key and the serial
// number a remote device is provisioned with, enough to recompute and
// compare an HMAC/MAC a caller received from elsewhere. Every other
// operation — raw zone read/write, Lock, DevRev, Random — is not
// implemented by this transport.
type ServerEmulator struct {
	slot   int
	key    [atsha204.SlotBytes]byte
	otp    [atsha204.OTPWordCount][atsha204.OTPWordBytes]byte
	serial [9]byte

	tempKey      [32]byte
	tempKeyValid bool

	pending []byte
}

// NewServerEmulator builds a verifier for one known slot.
func NewServerEmulator(slot int, key [atsha204.SlotBytes]byte, otp [atsha204.OTPWordCount][atsha204.OTPWordBytes]byte, serial [9]byte) *ServerEmulator {
	return &ServerEmulator{slot: slot, key: key, otp: otp, serial: serial}
}

// Verify recomputes the HMAC/MAC digest for this server's known slot and
// reports whether it matches got, without going through the Send/Receive
// wire loop. This is the direct verification entry point the "server-
// side, to verify responses" role exists for (spec §3).
func (s *ServerEmulator) Verify(challenge [32]byte, mode byte, opcode byte, includeSN bool, got [32]byte) bool {
	want := computeDigest(s.key, challenge, opcode, mode, s.slot, s.otp, s.serial, includeSN)
	return want == got
}

func (s *ServerEmulator) Wake() error {
	s.tempKeyValid = false
	return nil
}

func (s *ServerEmulator) Idle() error { return nil }

// LockOwning reports false: like the file-backed emulator, the
// server-side verifier never touches physical hardware.
func (s *ServerEmulator) LockOwning() bool { return false }

func (s *ServerEmulator) Close() error { return nil }

func (s *ServerEmulator) Send(frame []byte) error {
	cmd, err := decodeCommand(frame)
	if err != nil {
		s.pending = encodeStatus(atsha204.StatusCommError)
		return nil
	}

	switch cmd.opcode {
	case atsha204.OpNonce:
		return s.nonce(cmd)
	case atsha204.OpHMAC:
		return s.hmac(cmd)
	case atsha204.OpMAC:
		return s.mac(cmd)
	default:
		return atsha204NotImplemented(cmd.opcode)
	}
}

func (s *ServerEmulator) Receive() ([]byte, error) {
	if s.pending == nil {
		return nil, fmt.Errorf("server emulator: receive with no pending command")
	}
	out := s.pending
	s.pending = nil
	return out, nil
}

func (s *ServerEmulator) nonce(cmd command) error {
	if len(cmd.payload) != atsha204.ChallengeLen {
		s.pending = encodeStatus(atsha204.StatusParseError)
		return nil
	}
	copy(s.tempKey[:], cmd.payload)
	s.tempKeyValid = true
	s.pending = encodeStatus(atsha204.StatusSuccess)
	return nil
}

func (s *ServerEmulator) hmac(cmd command) error {
	if int(cmd.param2) != s.slot {
		return atsha204NotImplemented(cmd.opcode)
	}
	if !s.tempKeyValid {
		s.pending = encodeStatus(atsha204.StatusExecError)
		return nil
	}
	includeSN := cmd.param1&atsha204.ModeIncludeSN != 0
	digest := computeDigest(s.key, s.tempKey, atsha204.OpHMAC, cmd.param1, s.slot, s.otp, s.serial, includeSN)
	s.pending = encodeResponse(digest[:])
	return nil
}

func (s *ServerEmulator) mac(cmd command) error {
	if int(cmd.param2) != s.slot {
		return atsha204NotImplemented(cmd.opcode)
	}
	if len(cmd.payload) != atsha204.ChallengeLen {
		s.pending = encodeStatus(atsha204.StatusParseError)
		return nil
	}
	var challenge [32]byte
	copy(challenge[:], cmd.payload)

	includeSN := cmd.param1&atsha204.ModeIncludeSN != 0
	digest := computeDigest(s.key, challenge, atsha204.OpMAC, cmd.param1, s.slot, s.otp, s.serial, includeSN)
	s.pending = encodeResponse(digest[:])
	return nil
}

// atsha204NotImplemented reports an operation this transport variant
// does not serve, letting the Go-level ErrNotImplemented kind reach the
// caller directly (session.go's wrapTransportErr preserves it) instead
// of being flattened into a wire status the server-side emulator has no
// real basis for producing.
func atsha204NotImplemented(opcode byte) error {
	return &atsha204.Error{
		Kind: atsha204.ErrNotImplemented,
		Op:   fmt.Sprintf("opcode 0x%02x", opcode),
	}
}
