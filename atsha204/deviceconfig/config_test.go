package deviceconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadUSB(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "device.yaml", `
transport: usb
usb:
  vendor_id: 1234
  product_id: 5678
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, TransportUSB, cfg.Transport)
	assert.EqualValues(t, 1234, cfg.USB.VendorID)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "device.yaml", `
transport: usb
usb:
  vendor_id: 1234
  product_id: 5678
  bogus_field: true
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsUnknownTransport(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "device.yaml", `
transport: carrier_pigeon
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEmulatorFileResolvesRelativePath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "state.cfg", "placeholder")
	path := writeFile(t, dir, "device.yaml", `
transport: emulator_file
emulator:
  state_file: state.cfg
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "state.cfg"), cfg.Emulator.StateFile)
}

func TestLoadEmulatorFileMissingStateFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "device.yaml", `
transport: emulator_file
emulator:
  state_file: missing.cfg
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidationEmulatorModeSkipsPhysicalFields(t *testing.T) {
	cfg := &Config{Transport: TransportUSB}
	assert.NoError(t, cfg.ValidateWithMode(ValidationEmulator))
	assert.Error(t, cfg.ValidateWithMode(ValidationFull))
}
