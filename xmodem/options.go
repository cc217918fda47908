package xmodem

import (
	"io"
	"log/slog"
	"time"
)

// ModeController 切换线路的raw/cooked模式，一次传输里EnterRaw和Restore各调用一次
type ModeController interface {
	EnterRaw() error
	Restore() error
}

type nopMode struct{}

func (nopMode) EnterRaw() error { return nil }
func (nopMode) Restore() error  { return nil }

// SenderOptionFunc is a type that represents functions that modify the Sender config
type SenderOptionFunc func(*Sender)

// WithLogger specifies the logger. slog.Default() is used when none is provided
func WithLogger(logger *slog.Logger) SenderOptionFunc {
	return func(s *Sender) {
		s.logger = logger
	}
}

// WithMaxRetries limits how many times a rejected block is sent again. 0, the
// default, retries forever
func WithMaxRetries(maxRetries int) SenderOptionFunc {
	return func(s *Sender) {
		s.maxRetries = maxRetries
	}
}

// WithTimeout bounds every wait for a control byte. 0, the default, waits forever.
// Reads then happen one byte at a time on a helper goroutine; after a timeout
// that read stays outstanding and may consume one more inbound byte
func WithTimeout(timeout time.Duration) SenderOptionFunc {
	return func(s *Sender) {
		s.timeout = timeout
	}
}

// WithModeController specifies how the channel is switched into raw mode
func WithModeController(mode ModeController) SenderOptionFunc {
	return func(s *Sender) {
		s.mode = mode
	}
}

// WithBanner specifies where the start-of-transfer notice is printed
func WithBanner(w io.Writer) SenderOptionFunc {
	return func(s *Sender) {
		s.banner = w
	}
}

// WithTrace hex-dumps every write to the wire at debug level
func WithTrace(trace bool) SenderOptionFunc {
	return func(s *Sender) {
		s.trace = trace
	}
}
