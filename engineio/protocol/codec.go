package protocol

import (
	"encoding/base64"
)

const (
	Version3 = 3
	Version4 = 4
)

// Codec maps between transport frames and packets. Codecs hold no state
// and are safe for concurrent use.
type Codec interface {
	Version() int
	Encode(Packet) (Frame, error)
	Decode(Frame) (Packet, error)
}

// NewCodec returns the codec for the Engine.IO protocol version, it falls
// back to the latest version when the version is unknown.
func NewCodec(version int, hc HandshakeCodec) Codec {
	switch version {
	case Version3:
		return NewCodecV3(hc)
	}
	return NewCodecV4(hc)
}

// textCodec handles the text frames which are the same for v3 and v4.
type textCodec struct {
	ver       string
	handshake HandshakeCodec
}

func newTextCodec(ver string, hc HandshakeCodec) textCodec {
	if hc == nil {
		hc = JSONHandshake{}
	}
	return textCodec{ver: ver, handshake: hc}
}

func (c textCodec) encode(packet Packet) (Frame, error) {
	buf := []byte{packet.T.Byte()}

	switch packet.T {
	case OpenPacket:
		data, ok := packet.D.(*Handshake)
		if !ok || data == nil {
			return Frame{}, ErrInvalidPacketData.F(c.ver, packet.T, packet.D)
		}
		b, err := c.handshake.MarshalHandshake(data)
		if err != nil {
			return Frame{}, ErrHandshakeEncode.F(c.ver, err)
		}
		buf = append(buf, b...)
	case MessagePacket:
		data, ok := packet.D.(string)
		if !ok {
			return Frame{}, ErrInvalidPacketData.F(c.ver, packet.T, packet.D)
		}
		buf = append(buf, data...)
	case PingPacket, PongPacket:
		switch data := packet.D.(type) {
		case nil:
		case string:
			if data == "" { // "2" decodes to a nil probe
				return Frame{}, ErrInvalidPacketData.F(c.ver, packet.T, packet.D)
			}
			buf = append(buf, data...)
		default:
			return Frame{}, ErrInvalidPacketData.F(c.ver, packet.T, packet.D)
		}
	case ClosePacket, UpgradePacket, NoopPacket:
		if packet.D != nil {
			return Frame{}, ErrInvalidPacketData.F(c.ver, packet.T, packet.D)
		}
	default:
		return Frame{}, ErrUnknownPacketType.F(string(packet.T.Byte()))
	}

	return Frame{Data: buf}, nil
}

func (c textCodec) decode(data []byte) (Packet, error) {
	if len(data) == 0 {
		return Packet{}, ErrUnknownPacketType.F("")
	}

	packet := Packet{T: PacketType(data[0] - '0')}
	if !packet.T.Valid() {
		return Packet{}, ErrUnknownPacketType.F(string(data[:1]))
	}

	rest := data[1:]
	switch packet.T {
	case OpenPacket:
		var hs Handshake
		if err := c.handshake.UnmarshalHandshake(rest, &hs); err != nil {
			return Packet{}, ErrMalformedPayload.F(c.ver, packet.T, err)
		}
		packet.D = &hs
	case MessagePacket:
		packet.D = string(rest)
	case PingPacket, PongPacket:
		if len(rest) > 0 {
			packet.D = string(rest)
		}
	}

	return packet, nil
}

func (c textCodec) decodeBase64(data []byte) (Packet, error) {
	buf := make([]byte, base64.StdEncoding.DecodedLen(len(data)))
	n, err := base64.StdEncoding.Decode(buf, data)
	if err != nil {
		return Packet{}, ErrMalformedPayload.F(c.ver, MessagePacket, err)
	}
	return Packet{T: MessagePacket, D: buf[:n]}, nil
}

// CodecV3 is defined: https://github.com/socketio/engine.io-protocol/tree/v3
//
// Binary frames start with the raw packet type byte, and base64 text frames
// look like "b4<base64>".
type CodecV3 struct{ textCodec }

func NewCodecV3(hc HandshakeCodec) *CodecV3 { return &CodecV3{newTextCodec("v3", hc)} }

func (*CodecV3) Version() int { return Version3 }

func (c *CodecV3) Encode(packet Packet) (Frame, error) {
	if data, ok := packet.D.([]byte); ok && packet.T == MessagePacket {
		return Frame{IsBinary: true, Data: append([]byte{byte(MessagePacket)}, data...)}, nil
	}
	return c.encode(packet)
}

func (c *CodecV3) Decode(frame Frame) (Packet, error) {
	if frame.IsBinary {
		if len(frame.Data) == 0 {
			return Packet{}, ErrUnknownPacketType.F("")
		}
		switch pt := PacketType(frame.Data[0]); {
		case !pt.Valid():
			return Packet{}, ErrUnknownPacketType.F(string(frame.Data[:1]))
		case pt != MessagePacket:
			return Packet{}, ErrInvalidPacketData.F(c.ver, pt, frame.Data)
		}
		return Packet{T: MessagePacket, D: frame.Data[1:]}, nil
	}

	if len(frame.Data) > 0 && frame.Data[0] == 'b' {
		if len(frame.Data) < 2 || frame.Data[1] != MessagePacket.Byte() {
			return Packet{}, ErrUnknownPacketType.F(string(frame.Data[:min(2, len(frame.Data))]))
		}
		return c.decodeBase64(frame.Data[2:])
	}

	return c.decode(frame.Data)
}

// CodecV4 is defined: https://github.com/socketio/engine.io-protocol/tree/v4
//
// Binary frames carry the message data only, and base64 text frames look
// like "b<base64>".
type CodecV4 struct{ textCodec }

func NewCodecV4(hc HandshakeCodec) *CodecV4 { return &CodecV4{newTextCodec("v4", hc)} }

func (*CodecV4) Version() int { return Version4 }

func (c *CodecV4) Encode(packet Packet) (Frame, error) {
	if data, ok := packet.D.([]byte); ok && packet.T == MessagePacket {
		return Frame{IsBinary: true, Data: data}, nil
	}
	return c.encode(packet)
}

func (c *CodecV4) Decode(frame Frame) (Packet, error) {
	if frame.IsBinary {
		return Packet{T: MessagePacket, D: frame.Data}, nil
	}

	if len(frame.Data) > 0 && frame.Data[0] == 'b' {
		return c.decodeBase64(frame.Data[1:])
	}

	return c.decode(frame.Data)
}
