package session

import "github.com/google/uuid"

// ID is a session id. The server hands one out in the handshake, the client
// generates its own for each connection attempt so log lines can be
// matched up before the server id is known.
type ID string

func (id ID) String() string            { return string(id) }
func (id ID) PrefixID(prefix string) ID { return ID(prefix + string(id)) }

var GenerateID = func() ID { return ID("eio-" + uuid.NewString()) }
