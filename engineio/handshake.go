package engineio

import (
	"time"

	eiop "github.com/njones/eioclient/engineio/protocol"
	eios "github.com/njones/eioclient/engineio/session"
)

// HandshakeInfo holds the session values the server sent in the open
// packet. A Client keeps one for as long as the connection is open.
type HandshakeInfo struct {
	SessionID    eios.ID
	PingInterval time.Duration
	PingTimeout  time.Duration
	Upgrades     []string
	MaxPayload   int
}

// ProcessHandshake validates the first packet of a connection and returns
// the session values from it.
func ProcessHandshake(packet eiop.Packet) (HandshakeInfo, error) {
	if packet.T != eiop.OpenPacket {
		return HandshakeInfo{}, ErrHandshakeWrongPacket.F(packet.T)
	}

	var hs eiop.Handshake
	switch v := packet.D.(type) {
	case *eiop.Handshake:
		if v == nil {
			return HandshakeInfo{}, ErrHandshakeInvalid.F("data", nil)
		}
		hs = *v
	case eiop.Handshake:
		hs = v
	default:
		return HandshakeInfo{}, ErrHandshakeInvalid.F("data", packet.D)
	}

	switch {
	case hs.SID == "":
		return HandshakeInfo{}, ErrHandshakeInvalid.F("sid", `""`)
	case hs.PingInterval <= 0:
		return HandshakeInfo{}, ErrHandshakeInvalid.F("pingInterval", hs.PingInterval.Duration())
	case hs.PingTimeout <= 0:
		return HandshakeInfo{}, ErrHandshakeInvalid.F("pingTimeout", hs.PingTimeout.Duration())
	}

	return HandshakeInfo{
		SessionID:    eios.ID(hs.SID),
		PingInterval: hs.PingInterval.Duration(),
		PingTimeout:  hs.PingTimeout.Duration(),
		Upgrades:     append([]string{}, hs.Upgrades...),
		MaxPayload:   hs.MaxPayload,
	}, nil
}
