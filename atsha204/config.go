package atsha204

import "log/slog"

// Logger is the minimal structured-logging sink a Handle forwards
// diagnostic messages through (spec §7 "Verbose mode forwards log lines
// through a caller-registered sink"). *slog.Logger satisfies it, which
// is the logging style used elsewhere in this codebase's pack
// (barnettlynn-nfctools/emulator's text/JSON slog handlers); no
// third-party structured logger appears in the retrieved examples.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Config is the explicit, per-handle configuration value that replaces
// the original library's process-global atsha_configuration (Design
// Notes §9, "Global library configuration ... Refactor into an explicit
// configuration value passed to or stored on the handle").
type Config struct {
	// Verbose enables the debug-level messages sent through debugf. No
	// wake, idle or frame activity in this package goes through debugf,
	// so setting it adds no messages; the idle-failure warning is logged
	// whether or not Verbose is set.
	Verbose bool
	// Logger receives diagnostic messages. A nil Logger falls back to
	// slog.Default(), matching Go's usual zero-value-is-usable idiom.
	Logger Logger
}

func (c Config) logger() Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c Config) debugf(msg string, args ...any) {
	if !c.Verbose {
		return
	}
	c.logger().Debug(msg, args...)
}

func (c Config) warn(msg string, args ...any) {
	c.logger().Warn(msg, args...)
}
