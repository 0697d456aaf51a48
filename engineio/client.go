package engineio

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
	"github.com/njones/eioclient/callback"
	eiop "github.com/njones/eioclient/engineio/protocol"
	eios "github.com/njones/eioclient/engineio/session"
	eiot "github.com/njones/eioclient/engineio/transport"
	"github.com/njones/eioclient/event"
	"golang.org/x/sync/errgroup"
)

// Client is an Engine.IO client over a websocket. A Client can be opened
// again after it has closed, each Open gets a new transport.
//
// Events (see the Event constants):
//
//	Opened            HandshakeInfo
//	Closed            CloseEvent
//	MessageReceived   Message
//	ExceptionOccurred error
type Client struct {
	path         string
	version      int
	newTransport eiot.NewTransport
	openTimeout  time.Duration
	closeTimeout time.Duration
	handshake    eiop.HandshakeCodec

	resolveRedirect bool
	httpClient      *http.Client

	events *event.Emitter

	ʘ       sync.Mutex // guards the transition fields below
	state   State
	busy    bool
	settled *sync.Cond         // broadcast when busy is cleared
	abort   context.CancelFunc // cancels the Open in flight
	conn    *conn
}

// conn is a single connection, from the handshake to the Closed event.
type conn struct {
	id    eios.ID
	tr    eiot.Transporter
	codec eiop.Codec
	hb    *Heartbeat
	info  HandshakeInfo

	ctx    context.Context
	cancel context.CancelCauseFunc

	wʘ sync.Mutex // single writer

	ready chan struct{} // closed after Opened is emitted
	done  chan struct{} // closed after Closed is emitted

	graceful  bool          // guarded by Client.ʘ
	closed    chan struct{} // closed when a graceful close is finished
	reason    CloseReason
	err       error
	abandoned int32
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		path:         eiot.DefaultPath,
		version:      eiop.Version4,
		newTransport: eiot.NewWebsocketTransport(),
		openTimeout:  10 * time.Second,
		closeTimeout: 5 * time.Second,
		handshake:    eiop.JSONHandshake{},
		events:       event.NewEmitter(),
	}
	c.settled = sync.NewCond(&c.ʘ)
	c.With(opts...)
	return c
}

func (c *Client) With(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

func (c *Client) State() State {
	c.ʘ.Lock()
	defer c.ʘ.Unlock()
	return c.state
}

// Handshake returns the session values of the open connection.
func (c *Client) Handshake() (HandshakeInfo, bool) {
	c.ʘ.Lock()
	defer c.ʘ.Unlock()

	if c.conn == nil || c.state != StateOpen {
		return HandshakeInfo{}, false
	}
	return c.conn.info, true
}

func (c *Client) On(name string, cb event.Callback) func() { return c.events.On(name, cb) }

func (c *Client) OnOpened(fn func(HandshakeInfo)) func() {
	return c.On(EventOpened, callback.Wrap{Func: func() interface{} { return fn }})
}

func (c *Client) OnClosed(fn func(CloseEvent)) func() {
	return c.On(EventClosed, callback.Wrap{Func: func() interface{} { return fn }})
}

func (c *Client) OnMessage(fn func(Message)) func() {
	return c.On(EventMessageReceived, callback.Wrap{Func: func() interface{} { return fn }})
}

func (c *Client) OnError(fn func(error)) func() {
	return c.On(EventExceptionOccurred, callback.FuncError(fn))
}

// Open connects to uri and waits for the handshake. A timeout of zero uses
// the open timeout option. The Opened event is raised before Open returns.
func (c *Client) Open(ctx context.Context, uri string, timeout time.Duration) error {
	c.ʘ.Lock()
	switch {
	case c.busy, c.state == StateConnecting, c.state == StateClosing:
		c.ʘ.Unlock()
		return ErrAlreadyInProgress.F("open")
	case c.state == StateOpen:
		c.ʘ.Unlock()
		return ErrAlreadyOpen
	}
	ctx, abort := context.WithCancel(ctx)
	defer abort()

	c.busy = true
	c.abort = abort
	c.state = StateConnecting
	c.ʘ.Unlock()

	if timeout <= 0 {
		timeout = c.openTimeout
	}

	cn, err := c.connect(ctx, uri, timeout)

	c.ʘ.Lock()
	c.busy = false
	c.abort = nil
	c.settled.Broadcast()
	if err != nil {
		c.state = StateClosed
		c.ʘ.Unlock()

		glog.Errorf("engineio: %v", err)
		c.events.Emit(EventExceptionOccurred, err)
		return err
	}
	c.state = StateOpen
	c.conn = cn
	c.ʘ.Unlock()

	glog.Infof("[%s] open, sid: %s interval: %s timeout: %s", cn.id, cn.info.SessionID, cn.info.PingInterval, cn.info.PingTimeout)

	go c.run(cn)
	c.events.Emit(EventOpened, cn.info)
	close(cn.ready)

	return nil
}

func (c *Client) connect(ctx context.Context, uri string, timeout time.Duration) (*conn, error) {
	octx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// the callers ctx wins over the open timeout
	failed := func(err error) error {
		switch {
		case ctx.Err() != nil:
			return ErrOpenCancelled.F(uri, ctx.Err())
		case octx.Err() != nil:
			return ErrOpenTimeout.F(uri, timeout)
		}
		return err
	}

	if c.resolveRedirect {
		resolved, err := eiot.ResolveRedirect(octx, c.httpClient, uri)
		if err != nil {
			return nil, failed(ErrOpenTransport.F(uri, err))
		}
		uri = resolved
	}

	u, err := eiot.URL(uri, c.path, c.version)
	if err != nil {
		return nil, ErrOpenTransport.F(uri, err)
	}

	id := eios.GenerateID()
	glog.V(1).Infof("[%s] connecting to %s", id, u)

	tr := c.newTransport()
	if err := tr.Connect(octx, u); err != nil {
		return nil, failed(ErrOpenTransport.F(uri, err))
	}

	codec := eiop.NewCodec(c.version, c.handshake)

	info, err := awaitHandshake(octx, tr, codec, uri)
	if err != nil {
		cctx, ccancel := context.WithTimeout(context.Background(), c.closeTimeout)
		if cerr := tr.Close(cctx); cerr != nil {
			glog.Warningf("[%s] %v", id, cerr)
		}
		ccancel()
		return nil, failed(err)
	}

	base := eios.WithServerID(eios.WithConnectionID(context.Background(), id), info.SessionID)
	cn := &conn{
		id:     id,
		tr:     tr,
		codec:  codec,
		hb:     NewHeartbeat(info.PingInterval, info.PingTimeout, codec.Version() == eiop.Version3),
		info:   info,
		ready:  make(chan struct{}),
		done:   make(chan struct{}),
		closed: make(chan struct{}),
	}
	cn.ctx, cn.cancel = context.WithCancelCause(base)

	return cn, nil
}

func awaitHandshake(ctx context.Context, tr eiot.Transporter, codec eiop.Codec, uri string) (HandshakeInfo, error) {
	select {
	case frame, ok := <-tr.Receive():
		if !ok {
			if err := tr.Err(); err != nil {
				return HandshakeInfo{}, ErrOpenTransport.F(uri, err)
			}
			return HandshakeInfo{}, ErrOpenTransport.F(uri, ErrTransportClosed)
		}
		packet, err := codec.Decode(frame)
		if err != nil {
			return HandshakeInfo{}, ErrOpenHandshakeRejected.F(uri, err)
		}
		info, err := ProcessHandshake(packet)
		if err != nil {
			return HandshakeInfo{}, ErrOpenHandshakeRejected.F(uri, err)
		}
		return info, nil
	case <-ctx.Done():
		return HandshakeInfo{}, ctx.Err()
	}
}

// run supervises the receive loop and the heartbeat of cn, then takes the
// connection to Closed.
func (c *Client) run(cn *conn) {
	select {
	case <-cn.ready:
	case <-cn.closed: // closed from an Opened handler
	}

	// the first error cancels cn.ctx with itself as the cause
	g, gctx := errgroup.WithContext(cn.ctx)
	g.Go(func() error { return cn.fail(c.receive(gctx, cn)) })
	g.Go(func() error {
		return cn.fail(cn.hb.Run(gctx, func(ctx context.Context) error {
			return c.write(ctx, cn, eiop.Packet{T: eiop.PingPacket})
		}))
	})
	defer g.Wait()

	// The receive loop may be inside a handler that is waiting on Close,
	// so the connection is finished without waiting for it to return.
	<-gctx.Done()

	c.ʘ.Lock()
	graceful := cn.graceful
	if !graceful {
		c.state = StateClosing
	}
	c.ʘ.Unlock()

	reason, err := closeReason(context.Cause(cn.ctx))
	if graceful {
		<-cn.closed
		reason, err = cn.reason, cn.err
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), c.closeTimeout)
		if cerr := cn.tr.Close(ctx); cerr != nil {
			glog.Warningf("[%s] %v", cn.id, cerr)
		}
		cancel()
	}

	c.finish(cn, reason, err)
}

func (cn *conn) fail(err error) error {
	if err != nil {
		cn.cancel(err)
	}
	return err
}

func closeReason(err error) (CloseReason, error) {
	switch {
	case err == nil, errors.Is(err, context.Canceled), errors.Is(err, ErrClosedByServer), errors.Is(err, ErrClosedByClient):
		return ReasonNormal, nil
	case errors.Is(err, ErrLivenessViolation):
		return ReasonLivenessViolation, err
	}
	return ReasonTransportError, err
}

func (c *Client) finish(cn *conn, reason CloseReason, err error) {
	c.ʘ.Lock()
	c.state = StateClosed
	c.conn = nil
	c.ʘ.Unlock()

	if err != nil {
		glog.Errorf("[%s] closed (%s): %v", cn.id, reason, err)
		if reason != ReasonTimeout && reason != ReasonCancelled {
			c.events.Emit(EventExceptionOccurred, err)
		}
	} else {
		glog.Infof("[%s] closed (%s)", cn.id, reason)
	}

	c.events.Emit(EventClosed, CloseEvent{Reason: reason, Err: err})
	close(cn.done)
}

func (c *Client) receive(ctx context.Context, cn *conn) error {
	for ctx.Err() == nil {
		select {
		case <-ctx.Done():
			return nil
		case frame, ok := <-cn.tr.Receive():
			if !ok {
				if err := cn.tr.Err(); err != nil {
					return ErrTransportFailed.F(err)
				}
				return ErrTransportClosed
			}
			if ctx.Err() != nil {
				return nil
			}
			if err := c.handle(ctx, cn, frame); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Client) handle(ctx context.Context, cn *conn, frame eiop.Frame) error {
	packet, err := cn.codec.Decode(frame)
	if err != nil {
		glog.Warningf("[%s] dropped frame: %v", cn.id, err)
		c.events.Emit(EventExceptionOccurred, err)
		return nil
	}

	if glog.V(2) {
		glog.Infof("[%s] received %s packet", cn.id, packet.T)
	}

	switch packet.T {
	case eiop.MessagePacket:
		c.events.Emit(EventMessageReceived, newMessage(packet.D))
	case eiop.PingPacket:
		cn.hb.Alive()
		return c.write(ctx, cn, eiop.Packet{T: eiop.PongPacket, D: packet.D})
	case eiop.PongPacket:
		cn.hb.Alive()
	case eiop.ClosePacket:
		return ErrClosedByServer
	default:
		glog.V(2).Infof("[%s] ignored %s packet", cn.id, packet.T)
	}
	return nil
}

// write is the only path to the transport.
func (c *Client) write(ctx context.Context, cn *conn, packet eiop.Packet) error {
	frame, err := cn.codec.Encode(packet)
	if err != nil {
		return err
	}

	cn.wʘ.Lock()
	defer cn.wʘ.Unlock()

	if err := cn.tr.Send(ctx, frame); err != nil {
		return ErrSendFailed.F(err)
	}

	if glog.V(2) {
		glog.Infof("[%s] sent %s packet", cn.id, packet.T)
	}
	return nil
}

func (c *Client) Send(ctx context.Context, msg string) error {
	return c.send(ctx, eiop.Packet{T: eiop.MessagePacket, D: msg})
}

func (c *Client) SendBinary(ctx context.Context, data []byte) error {
	return c.send(ctx, eiop.Packet{T: eiop.MessagePacket, D: data})
}

// send fails with ErrSendNotOpen unless the client is open. A failed write
// takes the connection down.
func (c *Client) send(ctx context.Context, packet eiop.Packet) error {
	c.ʘ.Lock()
	cn, state := c.conn, c.state
	c.ʘ.Unlock()

	if state != StateOpen || cn == nil {
		return ErrSendNotOpen.F(state)
	}

	if err := c.write(ctx, cn, packet); err != nil {
		if errors.Is(err, ErrSendFailed) {
			cn.cancel(err)
		}
		return err
	}
	return nil
}

// Close sends a close packet and waits for the transport to close, up to
// the close timeout. Closing a closed client does nothing. When ctx ends
// first Close returns ErrCloseCancelled and the close finishes in the
// background.
func (c *Client) Close(ctx context.Context) error {
	c.ʘ.Lock()
	switch {
	case c.busy, c.state == StateConnecting, c.state == StateClosing:
		c.ʘ.Unlock()
		return ErrAlreadyInProgress.F("close")
	case c.state == StateClosed || c.conn == nil:
		c.ʘ.Unlock()
		return nil
	}
	cn := c.conn
	if cn.ctx.Err() != nil {
		// already going down, wait for it
		c.ʘ.Unlock()
		select {
		case <-cn.done:
			return nil
		case <-ctx.Done():
			return ErrCloseCancelled.F(ctx.Err())
		}
	}
	cn.graceful = true
	c.state = StateClosing
	c.ʘ.Unlock()

	glog.V(1).Infof("[%s] closing", cn.id)
	go c.closeGracefully(cn)

	select {
	case <-cn.done:
		return nil
	case <-ctx.Done():
		atomic.StoreInt32(&cn.abandoned, 1)
		return ErrCloseCancelled.F(ctx.Err())
	}
}

func (c *Client) closeGracefully(cn *conn) {
	ctx, cancel := context.WithTimeout(context.Background(), c.closeTimeout)
	defer cancel()

	if err := c.write(ctx, cn, eiop.Packet{T: eiop.ClosePacket}); err != nil {
		glog.Warningf("[%s] %v", cn.id, err)
	}

	reason, err := ReasonNormal, cn.tr.Close(ctx)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		reason = ReasonTimeout
	case err != nil:
		reason = ReasonTransportError
	case atomic.LoadInt32(&cn.abandoned) == 1:
		reason = ReasonCancelled
	}

	cn.reason, cn.err = reason, err
	cn.cancel(ErrClosedByClient)
	close(cn.closed)
}

// Shutdown cancels an Open in flight, closes the client if it is open,
// waits for it to be closed and removes every event handler. It is meant to
// be deferred.
func (c *Client) Shutdown() {
	c.ʘ.Lock()
	if c.abort != nil {
		c.abort()
	}
	for c.busy {
		c.settled.Wait()
	}
	c.ʘ.Unlock()

	if err := c.Close(context.Background()); err != nil {
		c.ʘ.Lock()
		cn := c.conn
		c.ʘ.Unlock()

		if cn != nil {
			<-cn.done
		}
	}
	c.events.Off()
}
