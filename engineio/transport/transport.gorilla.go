package transport

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	eiop "github.com/njones/eioclient/engineio/protocol"
)

// GorillaTransport is a websocket transport that uses gorilla/websocket, for
// servers that need its proxy and TLS handling.
type GorillaTransport struct {
	*Transport

	handshakeTimeout time.Duration
	conn             *websocket.Conn
}

func NewGorillaTransport(opts ...Option) NewTransport {
	return func() Transporter {
		t := &GorillaTransport{
			Transport:        newTransport("gorilla", 0),
			handshakeTimeout: 10 * time.Second,
		}
		for _, opt := range opts {
			opt(t)
		}
		return t
	}
}

func (t *GorillaTransport) Connect(ctx context.Context, u *url.URL) (err error) {
	if !t.swapState(StateClosed, StateConnecting) {
		return ErrAlreadyConnected.F(t.name)
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: t.handshakeTimeout,
	}

	t.conn, _, err = dialer.DialContext(ctx, u.String(), t.header)
	if err != nil {
		t.setState(StateFaulted)
		t.cancel()
		close(t.receive)
		close(t.done)
		return ErrDialFailed.F(t.name, u.Host, err)
	}

	t.conn.SetReadLimit(t.readLimit)
	t.setState(StateOpen)

	go t.readLoop(t.read, isGorillaNormalClose)
	return nil
}

func (t *GorillaTransport) read(context.Context) (eiop.Frame, error) {
	mt, data, err := t.conn.ReadMessage()
	if err != nil {
		return eiop.Frame{}, err
	}
	return eiop.Frame{IsBinary: mt == websocket.BinaryMessage, Data: data}, nil
}

func (t *GorillaTransport) Send(ctx context.Context, frame eiop.Frame) error {
	if t.State() != StateOpen {
		return ErrNotConnected.F(t.name)
	}

	deadline, _ := ctx.Deadline() // the zero time means no deadline
	t.conn.SetWriteDeadline(deadline)

	mt := websocket.TextMessage
	if frame.IsBinary {
		mt = websocket.BinaryMessage
	}
	if err := t.conn.WriteMessage(mt, frame.Data); err != nil {
		return ErrWriteFailed.F(t.name, err)
	}
	return nil
}

// Close sends the close frame and waits for the server to close its side,
// the connection is dropped when ctx ends first.
func (t *GorillaTransport) Close(ctx context.Context) error {
	if !t.swapState(StateOpen, StateClosing) {
		return nil
	}
	defer t.conn.Close()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(5 * time.Second)
	}

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := t.conn.WriteControl(websocket.CloseMessage, msg, deadline); err != nil && err != websocket.ErrCloseSent {
		t.conn.Close()
		<-t.done
		return ErrCloseFailed.F(t.name, err)
	}

	if err := t.awaitDone(ctx, func() { t.conn.Close() }); err != nil {
		return ErrCloseFailed.F(t.name, err)
	}
	return nil
}

func isGorillaNormalClose(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}
