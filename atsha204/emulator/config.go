// Package emulator implements a software stand-in for the chip: a
// file-backed variant that simulates the full device (all 16 slots, OTP
// and config zones, the HMAC/MAC digest engine) and a server-side
// variant that only knows one slot key and serial number well enough to
// verify a response it didn't compute itself (spec §3 "Emulator role
// flag").
//
// Ground: barnettlynn-nfctools/emulator (device-side state held in a
// struct parsed from a config file, served over the same Transport
// boundary real hardware uses) and original_source's chipinit/main.c
// config-file line scanner, generalized from the host-side CRC/config
// provisioning format to the full emulator state file (spec §6
// "Emulator config file").
package emulator

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/imrehg/libatsha204/atsha204"
)

// Config is the parsed emulator state file: 16 slot keys, 16 OTP words,
// a 9-byte chip serial number, and a 4-byte revision (spec §6 "Emulator
// config file (text)").
type Config struct {
	Slots    [atsha204.SlotCount][atsha204.SlotBytes]byte
	OTP      [atsha204.OTPWordCount][atsha204.OTPWordBytes]byte
	Serial   [9]byte
	Revision [4]byte
}

// LoadConfig reads and parses an emulator state file at path.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("emulator: open config %s: %w", path, err)
	}
	defer f.Close()
	return ParseConfig(f)
}

// ParseConfig reads the ordered sections of an emulator state file from
// r: 16 slot-key lines, 16 OTP-word lines, one serial-number line, one
// revision line. Missing or malformed lines fail construction (spec §6
// "Missing lines cause construction to fail").
func ParseConfig(r io.Reader) (*Config, error) {
	scanner := bufio.NewScanner(r)

	lines := make([]string, 0, 34)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("emulator: read config: %w", err)
	}
	if len(lines) < 34 {
		return nil, fmt.Errorf("emulator: config has %d lines, need at least 34", len(lines))
	}

	var cfg Config

	for i := 0; i < atsha204.SlotCount; i++ {
		b, ok := atsha204.DecodeHexLine(lines[i], atsha204.SlotBytes)
		if !ok {
			return nil, fmt.Errorf("emulator: slot line %d: malformed hex", i+1)
		}
		copy(cfg.Slots[i][:], b)
	}

	for i := 0; i < atsha204.OTPWordCount; i++ {
		lineNo := atsha204.SlotCount + i
		b, ok := atsha204.DecodeHexLine(lines[lineNo], atsha204.OTPWordBytes)
		if !ok {
			return nil, fmt.Errorf("emulator: OTP line %d: malformed hex", lineNo+1)
		}
		copy(cfg.OTP[i][:], b)
	}

	serialLine := atsha204.SlotCount + atsha204.OTPWordCount
	b, ok := atsha204.DecodeHexLine(lines[serialLine], 9)
	if !ok {
		return nil, fmt.Errorf("emulator: serial line %d: malformed hex", serialLine+1)
	}
	copy(cfg.Serial[:], b)

	revLine := serialLine + 1
	b, ok = atsha204.DecodeHexLine(lines[revLine], 4)
	if !ok {
		return nil, fmt.Errorf("emulator: revision line %d: malformed hex", revLine+1)
	}
	copy(cfg.Revision[:], b)

	return &cfg, nil
}
