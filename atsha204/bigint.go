package atsha204

// BigInt is the fixed-capacity byte container used throughout this
// package to carry challenges, responses, slot contents, OTP/config
// words, and serial numbers without per-call heap allocation — the Go
// replacement for the original library's caller-owned atsha_big_int
// struct (Design Notes §9, "Ownership of heap buffers ... Replace with
// values owned by the caller's stack frame").
//
// A zero-value BigInt (Len == 0) signals a decoding failure, matching
// the original's "bytes == 0" convention on its op_*_recv functions.
type BigInt struct {
	data [32]byte
	n    int
}

// NewBigInt copies b (which must be at most 32 bytes) into a BigInt.
func NewBigInt(b []byte) BigInt {
	var v BigInt
	if len(b) > len(v.data) {
		b = b[:len(v.data)]
	}
	v.n = copy(v.data[:], b)
	return v
}

// Bytes returns the used portion of the buffer.
func (v BigInt) Bytes() []byte { return v.data[:v.n] }

// Len returns the used length; 0 means "no value" / decode failure.
func (v BigInt) Len() int { return v.n }
