package transport

// Loopback is an in-memory Transport fake used by this package's own
// tests and by other packages that need a Transport without a real bus
// (atsha204's handle tests).
// Handler receives each sent frame and returns the bytes Receive should
// hand back.
type Loopback struct {
	Handler func(frame []byte) ([]byte, error)

	WakeErr error
	IdleErr error
	Closed  bool

	pending []byte
}

// NewLoopback returns a Loopback driven by handler.
func NewLoopback(handler func(frame []byte) ([]byte, error)) *Loopback {
	return &Loopback{Handler: handler}
}

func (l *Loopback) Wake() error { return l.WakeErr }

func (l *Loopback) Send(frame []byte) error {
	resp, err := l.Handler(frame)
	if err != nil {
		return err
	}
	l.pending = resp
	return nil
}

func (l *Loopback) Receive() ([]byte, error) {
	return l.pending, nil
}

func (l *Loopback) Idle() error { return l.IdleErr }

// LockOwning reports false: a loopback fake never reaches real silicon,
// so atsha204.NewHandle does not require an external lock for it.
func (l *Loopback) LockOwning() bool { return false }

func (l *Loopback) Close() error {
	l.Closed = true
	return nil
}
