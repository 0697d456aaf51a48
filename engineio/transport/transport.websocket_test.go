package transport

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	eiop "github.com/njones/eioclient/engineio/protocol"
	itst "github.com/njones/eioclient/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTransports = map[string]NewTransport{
	"websocket": NewWebsocketTransport(),
	"gorilla":   NewGorillaTransport(),
}

func newTestServer(t *testing.T, fn func(net.Conn)) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			t.Error(err)
			return
		}
		defer conn.Close()
		fn(conn)
	}))
	t.Cleanup(server.Close)
	return server
}

func wsURL(t *testing.T, server *httptest.Server) *url.URL {
	t.Helper()

	u, err := URL(server.URL, "", eiop.Version4)
	require.NoError(t, err)
	return u
}

func echo(conn net.Conn) {
	for {
		msg, op, err := wsutil.ReadClientData(conn)
		if err != nil {
			return
		}
		if err := wsutil.WriteServerMessage(conn, op, msg); err != nil {
			return
		}
	}
}

func TestTransportEcho(t *testing.T) {
	for name, newTransport := range testTransports {
		t.Run(name, func(t *testing.T) {
			server := newTestServer(t, echo)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			tr := newTransport()
			assert.Equal(t, StateClosed, tr.State())
			require.NoError(t, tr.Connect(ctx, wsURL(t, server)))
			assert.Equal(t, StateOpen, tr.State())

			text := eiop.Frame{Data: []byte("4hello")}
			require.NoError(t, tr.Send(ctx, text))
			assert.Equal(t, text, itst.Receive(t, tr.Receive(), time.Second))

			binary := eiop.Frame{IsBinary: true, Data: []byte{0x1, 0x2, 0x3}}
			require.NoError(t, tr.Send(ctx, binary))
			assert.Equal(t, binary, itst.Receive(t, tr.Receive(), time.Second))

			require.NoError(t, tr.Close(ctx))
			assert.Equal(t, StateClosed, tr.State())
			assert.NoError(t, tr.Err())

			_, ok := <-tr.Receive()
			assert.False(t, ok, "the receive channel is closed")

			assert.ErrorIs(t, tr.Send(ctx, text), ErrNotConnected)
			assert.NoError(t, tr.Close(ctx), "closing twice is a no-op")
		})
	}
}

func TestTransportServerClose(t *testing.T) {
	for name, newTransport := range testTransports {
		t.Run(name, func(t *testing.T) {
			server := newTestServer(t, func(conn net.Conn) {
				wsutil.WriteServerMessage(conn, ws.OpClose, ws.NewCloseFrameBody(ws.StatusNormalClosure, ""))
				wsutil.ReadClientData(conn)
			})

			tr := newTransport()
			require.NoError(t, tr.Connect(context.Background(), wsURL(t, server)))

			select {
			case _, ok := <-tr.Receive():
				assert.False(t, ok)
			case <-time.After(2 * time.Second):
				t.Fatal("the transport did not notice the server close")
			}
			assert.NoError(t, tr.Err())
			assert.Equal(t, StateClosed, tr.State())
		})
	}
}

func TestTransportServerDrop(t *testing.T) {
	for name, newTransport := range testTransports {
		t.Run(name, func(t *testing.T) {
			server := newTestServer(t, func(conn net.Conn) {})

			tr := newTransport()
			require.NoError(t, tr.Connect(context.Background(), wsURL(t, server)))

			select {
			case _, ok := <-tr.Receive():
				assert.False(t, ok)
			case <-time.After(2 * time.Second):
				t.Fatal("the transport did not notice the dropped connection")
			}
			assert.ErrorIs(t, tr.Err(), ErrReadFailed)
			assert.Equal(t, StateFaulted, tr.State())
		})
	}
}

func TestTransportConnect(t *testing.T) {
	for name, newTransport := range testTransports {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.NotFoundHandler())
			defer server.Close()

			tr := newTransport()
			err := tr.Connect(context.Background(), wsURL(t, server))
			assert.ErrorIs(t, err, ErrDialFailed)
			assert.Equal(t, StateFaulted, tr.State())

			_, ok := <-tr.Receive()
			assert.False(t, ok)

			assert.ErrorIs(t, tr.Connect(context.Background(), wsURL(t, server)), ErrAlreadyConnected)
		})
	}
}

func TestTransportHeader(t *testing.T) {
	for name, newTransport := range map[string]func(...Option) NewTransport{
		"websocket": NewWebsocketTransport,
		"gorilla":   NewGorillaTransport,
	} {
		t.Run(name, func(t *testing.T) {
			have := make(chan string, 1)
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				have <- r.Header.Get("Authorization")
				conn, _, _, err := ws.UpgradeHTTP(r, w)
				if err != nil {
					return
				}
				defer conn.Close()
				echo(conn)
			}))
			defer server.Close()

			tr := newTransport(WithHeader(http.Header{"Authorization": {"Bearer abc"}}))()
			require.NoError(t, tr.Connect(context.Background(), wsURL(t, server)))
			defer tr.Close(context.Background())

			assert.Equal(t, "Bearer abc", itst.Receive(t, have, time.Second))
			assert.Equal(t, name, tr.Name().String())
		})
	}
}
