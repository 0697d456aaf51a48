package engineio

import erro "github.com/njones/eioclient/internal/errors"

const (
	ErrOpenTimeout           erro.String = "open %s: no handshake within %s"
	ErrOpenHandshakeRejected erro.String = "open %s: handshake rejected: %w"
	ErrOpenTransport         erro.String = "open %s: transport: %w"
	ErrOpenCancelled         erro.String = "open %s: cancelled: %w"
	ErrAlreadyOpen           erro.String = "open: the client is already open"
	ErrAlreadyInProgress     erro.String = "%s: a transition is already in progress"

	ErrSendNotOpen erro.String = "send: the client is %s"
	ErrSendFailed  erro.String = "send: %w"

	ErrCloseCancelled  erro.String = "close: %w"
	ErrClosedByServer  erro.String = "closed by the server"
	ErrClosedByClient  erro.String = "closed by the client"
	ErrTransportClosed erro.String = "transport closed without a close packet"
	ErrTransportFailed erro.String = "transport: %w"

	ErrHandshakeWrongPacket erro.String = "handshake: expected an open packet, found a %s packet"
	ErrHandshakeInvalid     erro.String = "handshake: invalid %s: %v"

	ErrLivenessViolation erro.String = "no ping or pong within %s"

	ErrUnknownTransport erro.String = "unknown transport: %q"
	ErrUnknownHandshake erro.String = "unknown handshake encoding: %q"
	ErrConfigRead       erro.String = "config %s: %w"
)
