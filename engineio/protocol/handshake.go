package protocol

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack"
)

// Handshake is the data of the open packet. The json layout matches the
// engine.io v3 and v4 servers:
//
//	{"sid":"...","upgrades":[],"pingInterval":25000,"pingTimeout":20000,"maxPayload":1000000}
type Handshake struct {
	SID          string   `json:"sid" msgpack:"sid"`
	Upgrades     []string `json:"upgrades" msgpack:"upgrades"`
	PingInterval Duration `json:"pingInterval" msgpack:"pingInterval"`
	PingTimeout  Duration `json:"pingTimeout" msgpack:"pingTimeout"`
	MaxPayload   int      `json:"maxPayload,omitempty" msgpack:"maxPayload,omitempty"`
}

// HandshakeCodec serializes the open packet data. Which one to use depends
// on the server the client talks to.
type HandshakeCodec interface {
	MarshalHandshake(*Handshake) ([]byte, error)
	UnmarshalHandshake([]byte, *Handshake) error
}

// JSONHandshake is the encoding used by the reference engine.io servers.
type JSONHandshake struct{}

func (JSONHandshake) MarshalHandshake(h *Handshake) ([]byte, error) {
	return json.Marshal(withUpgrades(h))
}

func (JSONHandshake) UnmarshalHandshake(b []byte, h *Handshake) error {
	return json.Unmarshal(b, h)
}

// MsgpackHandshake encodes the open packet data as a msgpack map, for
// servers that run with a msgpack parser end to end.
type MsgpackHandshake struct{}

func (MsgpackHandshake) MarshalHandshake(h *Handshake) ([]byte, error) {
	return msgpack.Marshal(withUpgrades(h))
}

func (MsgpackHandshake) UnmarshalHandshake(b []byte, h *Handshake) error {
	return msgpack.Unmarshal(b, h)
}

// withUpgrades returns a copy where upgrades is never null on the wire.
func withUpgrades(h *Handshake) Handshake {
	out := *h
	if out.Upgrades == nil {
		out.Upgrades = []string{}
	}
	return out
}
