package callback

import (
	erro "github.com/njones/eioclient/internal/errors"
)

const (
	ErrUnexpectedDataInParams   erro.String = "expected %d callback input parameters, found %d"
	ErrUnexpectedParamType      erro.String = "callback parameter %d: expected %s, found %T"
	ErrUnexpectedSingleOutParam erro.String = "expected at most a single error return parameter, found %d return parameters"
	ErrNotAFunc                 erro.String = "expected a func to wrap, found %T"
	ErrUnknownPanic             erro.String = "unknown panic: %v"
)
