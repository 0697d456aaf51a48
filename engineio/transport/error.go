package transport

import erro "github.com/njones/eioclient/internal/errors"

const (
	ErrAlreadyConnected  erro.String = "[%s] transport already used"
	ErrNotConnected      erro.String = "[%s] transport not connected"
	ErrDialFailed        erro.String = "[%s] dial %s: %w"
	ErrReadFailed        erro.String = "[%s] read: %w"
	ErrWriteFailed       erro.String = "[%s] write: %w"
	ErrCloseFailed       erro.String = "[%s] close: %w"
	ErrUnsupportedScheme erro.String = "unsupported scheme: %q"
	ErrInvalidURL        erro.String = "invalid url: %w"
	ErrMissingHost       erro.String = "missing host in %q"
	ErrRedirectFailed    erro.String = "redirect lookup %s: %w"
)
