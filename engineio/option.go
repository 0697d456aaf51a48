package engineio

import (
	"net/http"
	"time"

	eiop "github.com/njones/eioclient/engineio/protocol"
	eiot "github.com/njones/eioclient/engineio/transport"
	with "github.com/njones/eioclient/internal/option"
)

type Option = with.Option
type OptionWith = with.OptionWith

// WithPath sets where the server is mounted when the uri has no path,
// "socket.io" for servers behind a socket.io framework.
func WithPath(path string) Option {
	return func(o OptionWith) {
		switch v := o.(type) {
		case *Client:
			v.path = path
		}
	}
}

// WithProtocolVersion picks the Engine.IO protocol, 3 or 4.
func WithProtocolVersion(version int) Option {
	return func(o OptionWith) {
		switch v := o.(type) {
		case *Client:
			if version == eiop.Version3 || version == eiop.Version4 {
				v.version = version
			}
		}
	}
}

func WithTransport(fn eiot.NewTransport) Option {
	return func(o OptionWith) {
		switch v := o.(type) {
		case *Client:
			if fn != nil {
				v.newTransport = fn
			}
		}
	}
}

// WithOpenTimeout is used when Open is called without a timeout.
func WithOpenTimeout(d time.Duration) Option {
	return func(o OptionWith) {
		switch v := o.(type) {
		case *Client:
			if d > 0 {
				v.openTimeout = d
			}
		}
	}
}

// WithCloseTimeout bounds how long a close waits for the transport.
func WithCloseTimeout(d time.Duration) Option {
	return func(o OptionWith) {
		switch v := o.(type) {
		case *Client:
			if d > 0 {
				v.closeTimeout = d
			}
		}
	}
}

func WithHandshakeCodec(hc eiop.HandshakeCodec) Option {
	return func(o OptionWith) {
		switch v := o.(type) {
		case *Client:
			v.handshake = hc
		}
	}
}

// WithResolveRedirect looks up the real server with an HTTP request before
// each Open, for hosted servers that answer with a 308 redirect. A nil
// client uses http.DefaultClient.
func WithResolveRedirect(client *http.Client) Option {
	return func(o OptionWith) {
		switch v := o.(type) {
		case *Client:
			v.resolveRedirect = true
			v.httpClient = client
		}
	}
}
