// Package atsha204 drives, and emulates, Atmel/Microchip ATSHA204-class
// crypto authenticators: 16 data slots, a one-time-programmable (OTP)
// zone, a configuration zone, and a hardware HMAC/MAC engine over
// SHA-256.
//
// The package is split the way the chip itself is: frame codec (crc.go,
// frame.go), per-opcode packet layout (ops.go, address.go), a transport
// abstraction that the session driver (session.go) runs its wake →
// command → idle sequence over (transport.go), and a handle type that
// owns one of USB, native-I2C, MPSSE, file-backed emulator, or
// server-side emulator transports (handle.go). The software emulator
// itself lives in the sibling atsha204/emulator package.
package atsha204

// Command opcodes.
// (ATSHA204A Data Sheet, 8.1 Command and Response Definitions)
const (
	OpDevRev byte = 0x30
	OpRandom byte = 0x1B
	OpRead   byte = 0x02
	OpWrite  byte = 0x12
	OpNonce  byte = 0x16
	OpHMAC   byte = 0x11
	OpMAC    byte = 0x08
	OpLock   byte = 0x17
)

// Response status/error codes. A one-byte response body (a 4-byte frame)
// carries one of these; any longer body is operation result data.
const (
	StatusSuccess         byte = 0x00
	StatusMACMiscompare    byte = 0x01
	StatusParseError       byte = 0x03
	StatusExecError        byte = 0x0F
	StatusWakeOK           byte = 0x11
	StatusCommError        byte = 0xFF
)

var statusText = map[byte]string{
	StatusSuccess:       "successful command execution",
	StatusMACMiscompare: "MAC miscompare",
	StatusParseError:    "parse error",
	StatusExecError:     "execution error",
	StatusWakeOK:        "after wake, prior to first command",
	StatusCommError:     "CRC or other communications error",
}

// statusIsError reports whether a status byte denotes a failed command.
// StatusWakeOK is only valid immediately after Wake and is handled there;
// everywhere else it would also indicate a protocol error, so it is
// included here.
func statusIsError(status byte) bool {
	return status != StatusSuccess
}

// Memory zones addressed by Read/Write.
const (
	ZoneConfig byte = 0
	ZoneOTP    byte = 1
	ZoneData   byte = 2
)

// Zone selector size flags (param1 bit 7 of Read/Write).
const (
	sizeFlag4Byte  byte = 0x00
	sizeFlag32Byte byte = 0x80
)

// Lock targets (param1 of the Lock opcode).
const (
	LockZoneConfig byte = 0x00
	LockZoneData   byte = 0x01
)

// Zone sizes, in bytes.
const (
	SlotCount     = 16
	SlotBytes     = 32
	OTPWordCount  = 16
	OTPWordBytes  = 4
	OTPZoneBytes  = OTPWordCount * OTPWordBytes // 64
	ConfigWordCnt = 22
	ConfigWordLen = 4
	ConfigBytes   = ConfigWordCnt * ConfigWordLen // 88
	DataZoneBytes = SlotCount*SlotBytes + OTPZoneBytes // 576, data slots followed by OTP
	ChallengeLen  = 32
	TempKeyLen    = 32
	MaxSlotIndex  = SlotCount - 1
	MaxConfigAddr = ConfigWordCnt - 1

	// Minimum command frame length: len(1) + opcode(1) + param1(1) +
	// param2(2) + crc(2), with no payload.
	cmdMinLen = 7
	// Minimum response frame length: len(1) + 1-byte status + crc(2).
	respMinLen = 4
)

// HMAC/MAC mode bit selecting whether the 9-byte serial number (and OTP
// head bytes) are mixed into the digest.
const ModeIncludeSN byte = 0x40
