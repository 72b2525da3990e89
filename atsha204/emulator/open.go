package emulator

import (
	"github.com/imrehg/libatsha204/atsha204"
)

// OpenFile loads the emulator state file at path and wraps a
// device-side Emulator in a Handle, the emulator equivalent of
// atsha204.OpenUSB/OpenNativeI2C/OpenMPSSE. No cross-process lock is
// acquired: Emulator.LockOwning reports false (spec §3 invariant).
func OpenFile(cfg atsha204.Config, path string, opts ...Option) (*atsha204.Handle, error) {
	econf, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return atsha204.NewHandle(cfg, New(econf, opts...))
}

// OpenServer wraps a ServerEmulator in a Handle for verifying responses
// against one known slot and serial.
func OpenServer(cfg atsha204.Config, slot int, key [atsha204.SlotBytes]byte, otp [atsha204.OTPWordCount][atsha204.OTPWordBytes]byte, serial [9]byte) (*atsha204.Handle, error) {
	return atsha204.NewHandle(cfg, NewServerEmulator(slot, key, otp, serial))
}
