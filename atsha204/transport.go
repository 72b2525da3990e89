package atsha204

// Transport abstracts the byte-level link to a device or emulator.
// Implementations live in the sibling atsha204/transport package (USB
// bridge, native I2C bus descriptor, MPSSE-style I2C adapter) and in the
// emulator package (file-backed and server-side emulation). The session
// driver (session.go) talks only to this interface — Design Notes §9
// "Transport polymorphism ... Model it as a variant ... with a small
// capability set {wake, send, receive, idle, lock-owning?}".
type Transport interface {
	// Wake issues a device wake-up and confirms it, returning an error
	// if the expected wake status is not observed. The session driver
	// reports any Wake error to its caller as ErrWakeNotConfirmed.
	Wake() error
	// Send transmits a fully framed command.
	Send(frame []byte) error
	// Receive reads one response frame.
	Receive() ([]byte, error)
	// Idle puts the device into idle mode, preserving its state for the
	// next Wake. A failure here is logged by the session driver but is
	// non-fatal to the call whose result it follows (spec §4.5 step 4).
	Idle() error
	// LockOwning reports whether this transport variant represents a
	// physical chip that requires the cross-process exclusion lock.
	// Emulator transports return false.
	LockOwning() bool
	// Close releases any transport-owned resources (file descriptors,
	// USB handles). It does not release the cross-process lock; Handle
	// owns that separately (spec §5 "Resource ownership").
	Close() error
}
