package protocol

import erro "github.com/njones/eioclient/internal/errors"

const (
	ErrUnknownPacketType erro.String = "unknown packet type: %q"
	ErrInvalidPacketData erro.String = "[%s] invalid %s packet data: %T"
	ErrMalformedPayload  erro.String = "[%s] malformed %s payload: %w"
	ErrHandshakeEncode   erro.String = "[%s] handshake encode: %w"
)
