package event

import erro "github.com/njones/eioclient/internal/errors"

const (
	ErrHandlerPanic erro.String = "event %q handler panic: %v"
	ErrActionPanic  erro.String = "wait action panic: %v"
)
