package transport

import (
	"net/http"
	"time"

	eiop "github.com/njones/eioclient/engineio/protocol"
)

type Option func(Transporter)

// WithHeader adds HTTP headers to the websocket upgrade request.
func WithHeader(header http.Header) Option {
	return func(t Transporter) {
		switch v := t.(type) {
		case interface{ InnerTransport() *Transport }:
			for key, values := range header {
				for _, value := range values {
					v.InnerTransport().header.Add(key, value)
				}
			}
		}
	}
}

// WithReadLimit sets the largest frame in bytes that will be read. It
// should be at least the maxPayload the server sends in the handshake.
func WithReadLimit(n int64) Option {
	return func(t Transporter) {
		switch v := t.(type) {
		case interface{ InnerTransport() *Transport }:
			v.InnerTransport().readLimit = n
		}
	}
}

// WithReceiveBuffer sets how many frames are buffered before the reader
// waits for the client.
func WithReceiveBuffer(n int) Option {
	return func(t Transporter) {
		switch v := t.(type) {
		case interface{ InnerTransport() *Transport }:
			v.InnerTransport().receive = make(chan eiop.Frame, n)
		}
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(t Transporter) {
		switch v := t.(type) {
		case *WebsocketTransport:
			v.client = client
		}
	}
}

func WithHandshakeTimeout(d time.Duration) Option {
	return func(t Transporter) {
		switch v := t.(type) {
		case *GorillaTransport:
			v.handshakeTimeout = d
		}
	}
}
