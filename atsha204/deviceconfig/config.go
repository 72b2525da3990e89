// Package deviceconfig loads a YAML file selecting which transport
// variant a process should open its Handle over, and that variant's
// parameters. It replaces the original driver's compile-time USE_LAYER
// build macro with a runtime choice (spec §6 "Environment / build-time
// selection").
//
// Ground: barnettlynn-nfctools/minter/internal/config/config.go and
// sdmconfig/internal/config/config.go (strict yaml.v3 decoding,
// ValidationMode for partial validation, path resolution relative to
// the config file's own directory).
package deviceconfig

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValidationMode controls how strictly Load checks the decoded config.
// ValidationEmulator skips fields that only matter for physical
// transports, mirroring minter's own ValidationEmulator mode.
type ValidationMode int

const (
	ValidationFull ValidationMode = iota
	ValidationEmulator
)

// Transport names the transport variant a config file selects.
type Transport string

const (
	TransportUSB          Transport = "usb"
	TransportNativeI2C    Transport = "native_i2c"
	TransportMPSSE        Transport = "mpsse"
	TransportEmulatorFile Transport = "emulator_file"
)

// Config is the decoded shape of a device config YAML file.
type Config struct {
	Transport Transport       `yaml:"transport"`
	USB       USBConfig       `yaml:"usb"`
	NativeI2C NativeI2CConfig `yaml:"native_i2c"`
	MPSSE     MPSSEConfig     `yaml:"mpsse"`
	Emulator  EmulatorConfig  `yaml:"emulator"`
	Runtime   RuntimeConfig   `yaml:"runtime"`
}

type USBConfig struct {
	VendorID  uint16 `yaml:"vendor_id"`
	ProductID uint16 `yaml:"product_id"`
}

type NativeI2CConfig struct {
	DevicePath string `yaml:"device_path"`
	Address    uint8  `yaml:"address"`
}

// MPSSEConfig describes an MPSSE/FTDI adapter only by name; the adapter
// driver itself is an external collaborator this module does not bind
// to (see atsha204/transport/mpsse.go), so this config only records
// enough to let an operator-supplied bus opener pick the right device.
type MPSSEConfig struct {
	Description string `yaml:"description"`
}

type EmulatorConfig struct {
	StateFile string `yaml:"state_file"`
}

type RuntimeConfig struct {
	Verbose bool `yaml:"verbose"`
}

// Load reads and strictly decodes path, resolves file-path fields
// relative to the config file's directory, and validates the result
// under ValidationFull.
func Load(path string) (*Config, error) {
	return LoadWithMode(path, ValidationFull)
}

// LoadWithMode is Load with an explicit ValidationMode.
func LoadWithMode(path string, mode ValidationMode) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("deviceconfig: read %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("deviceconfig: parse %s: %w", path, err)
	}

	cfg.resolvePaths(path)
	if err := cfg.ValidateWithMode(mode); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the config under ValidationFull.
func (c *Config) Validate() error {
	return c.ValidateWithMode(ValidationFull)
}

// ValidateWithMode checks the config's required fields for its selected
// transport. ValidationEmulator skips the physical-transport branches
// entirely, since an emulator-only process never opens them.
func (c *Config) ValidateWithMode(mode ValidationMode) error {
	switch strings.TrimSpace(string(c.Transport)) {
	case string(TransportUSB), string(TransportNativeI2C), string(TransportMPSSE), string(TransportEmulatorFile):
	case "":
		return fmt.Errorf("deviceconfig: transport is required")
	default:
		return fmt.Errorf("deviceconfig: unknown transport %q", c.Transport)
	}

	if mode == ValidationEmulator {
		if c.Transport != TransportEmulatorFile {
			return nil
		}
	}

	switch c.Transport {
	case TransportUSB:
		if c.USB.VendorID == 0 || c.USB.ProductID == 0 {
			return fmt.Errorf("deviceconfig: usb.vendor_id and usb.product_id are required")
		}
	case TransportNativeI2C:
		if strings.TrimSpace(c.NativeI2C.DevicePath) == "" {
			return fmt.Errorf("deviceconfig: native_i2c.device_path is required")
		}
	case TransportMPSSE:
		if strings.TrimSpace(c.MPSSE.Description) == "" {
			return fmt.Errorf("deviceconfig: mpsse.description is required")
		}
	case TransportEmulatorFile:
		if strings.TrimSpace(c.Emulator.StateFile) == "" {
			return fmt.Errorf("deviceconfig: emulator.state_file is required")
		}
		if err := validateReadableFile(c.Emulator.StateFile, "emulator.state_file"); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) resolvePaths(configPath string) {
	dir := filepath.Dir(configPath)
	c.Emulator.StateFile = resolvePath(dir, c.Emulator.StateFile)
}

func resolvePath(baseDir, path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || filepath.IsAbs(trimmed) {
		return trimmed
	}
	return filepath.Clean(filepath.Join(baseDir, trimmed))
}

func validateReadableFile(path, field string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s must point to a file, got directory", field)
	}
	return nil
}
