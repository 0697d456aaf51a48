package protocol

const (
	OpenPacket PacketType = iota
	ClosePacket
	PingPacket
	PongPacket
	MessagePacket
	UpgradePacket
	NoopPacket
)

// ProbeMessage is the token carried by the ping/pong exchange of a
// transport upgrade.
const ProbeMessage = "probe"

// Packet is a single Engine.IO packet. The allowed data depends on the type:
//
//	OpenPacket           *Handshake (required)
//	MessagePacket        string or []byte (required)
//	PingPacket/PongPacket string (optional)
//	Close/Upgrade/Noop   nil
type Packet struct {
	T PacketType  `json:"type"`
	D interface{} `json:"data"`
}

// Frame is one transport level message that carries exactly one encoded packet.
type Frame struct {
	IsBinary bool
	Data     []byte
}

type PacketType byte

// Byte is the text marker of the packet type on the wire.
func (pt PacketType) Byte() byte { return byte(pt) + '0' }

func (pt PacketType) Valid() bool { return pt <= NoopPacket }

func (pt PacketType) String() string {
	switch pt {
	case OpenPacket:
		return "open"
	case ClosePacket:
		return "close"
	case PingPacket:
		return "ping"
	case PongPacket:
		return "pong"
	case MessagePacket:
		return "message"
	case UpgradePacket:
		return "upgrade"
	case NoopPacket:
		return "noop"
	}
	return "unknown packet type"
}
