package transport

import "fmt"

// statusWakeOK is the wake-confirmation status byte the chip reports in
// its wake response frame (ATSHA204 datasheet "after wake" status), the
// same value the teacher checks as data[0] != 0x11 in its own Wake()
// (atecc608/atecc608.go).
const statusWakeOK = 0x11

// confirmWake validates a just-received wake response frame
// (len(1) | status(1) | ...) against statusWakeOK. Every physical
// transport's Wake reads its response through Receive and passes it
// here before reporting success.
func confirmWake(raw []byte) error {
	if len(raw) < 2 {
		return fmt.Errorf("wake response too short: %d bytes", len(raw))
	}
	if status := raw[1]; status != statusWakeOK {
		return fmt.Errorf("wake not confirmed: status 0x%02x", status)
	}
	return nil
}
