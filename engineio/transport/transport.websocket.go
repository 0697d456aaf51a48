package transport

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	eiop "github.com/njones/eioclient/engineio/protocol"
	ws "nhooyr.io/websocket"
)

// WebsocketTransport is the default transport, it uses nhooyr.io/websocket.
type WebsocketTransport struct {
	*Transport

	client *http.Client
	conn   *ws.Conn
}

func NewWebsocketTransport(opts ...Option) NewTransport {
	return func() Transporter {
		t := &WebsocketTransport{
			Transport: newTransport("websocket", 0),
		}
		for _, opt := range opts {
			opt(t)
		}
		return t
	}
}

func (t *WebsocketTransport) Connect(ctx context.Context, u *url.URL) (err error) {
	if !t.swapState(StateClosed, StateConnecting) {
		return ErrAlreadyConnected.F(t.name)
	}

	t.conn, _, err = ws.Dial(ctx, u.String(), &ws.DialOptions{
		HTTPClient: t.client,
		HTTPHeader: t.header,
	})
	if err != nil {
		t.setState(StateFaulted)
		t.cancel()
		close(t.receive)
		close(t.done)
		return ErrDialFailed.F(t.name, u.Host, err)
	}

	t.conn.SetReadLimit(t.readLimit)
	t.setState(StateOpen)

	go t.readLoop(t.read, isNormalClose)
	return nil
}

func (t *WebsocketTransport) read(ctx context.Context) (eiop.Frame, error) {
	mt, data, err := t.conn.Read(ctx)
	if err != nil {
		return eiop.Frame{}, err
	}
	return eiop.Frame{IsBinary: mt == ws.MessageBinary, Data: data}, nil
}

func (t *WebsocketTransport) Send(ctx context.Context, frame eiop.Frame) error {
	if t.State() != StateOpen {
		return ErrNotConnected.F(t.name)
	}

	mt := ws.MessageText
	if frame.IsBinary {
		mt = ws.MessageBinary
	}
	if err := t.conn.Write(ctx, mt, frame.Data); err != nil {
		return ErrWriteFailed.F(t.name, err)
	}
	return nil
}

// Close runs the websocket closing handshake. If ctx ends first the
// connection is dropped without waiting for the server.
func (t *WebsocketTransport) Close(ctx context.Context) error {
	if !t.swapState(StateOpen, StateClosing) {
		return nil
	}

	errc := make(chan error, 1)
	go func() { errc <- t.conn.Close(ws.StatusNormalClosure, "") }()

	select {
	case err := <-errc:
		t.cancel()
		<-t.done
		if err != nil && !isNormalClose(err) {
			return ErrCloseFailed.F(t.name, err)
		}
		return nil
	case <-ctx.Done():
		t.cancel() // a cancelled read drops the connection
		<-t.done
		return ErrCloseFailed.F(t.name, ctx.Err())
	}
}

func isNormalClose(err error) bool {
	var ce ws.CloseError
	if errors.As(err, &ce) {
		return ce.Code == ws.StatusNormalClosure || ce.Code == ws.StatusGoingAway
	}
	return false
}
