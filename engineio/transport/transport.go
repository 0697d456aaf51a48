package transport

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"

	eiop "github.com/njones/eioclient/engineio/protocol"
)

type Name string

func (name Name) String() string { return string(name) }

type State int32

const (
	StateClosed State = iota
	StateConnecting
	StateOpen
	StateClosing
	StateFaulted
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateFaulted:
		return "faulted"
	}
	return "unknown transport state"
}

// Transporter is a single bidirectional connection that moves frames. A
// Transporter is used for one connection only, see NewTransport.
//
// Send must not be called concurrently. Receive returns a channel that is
// closed when the connection ends, after which Err reports why (nil for a
// clean close).
type Transporter interface {
	Name() Name
	State() State

	Connect(context.Context, *url.URL) error
	Send(context.Context, eiop.Frame) error
	Receive() <-chan eiop.Frame
	Err() error
	Close(context.Context) error
}

// NewTransport returns a fresh Transporter for each connection attempt.
type NewTransport func() Transporter

// Transport is the state that is shared by all of the transports.
type Transport struct {
	name  Name
	state int32

	header    http.Header
	readLimit int64

	receive chan eiop.Frame
	done    chan struct{}

	ʘ   sync.Mutex
	err error

	ctx    context.Context
	cancel context.CancelFunc
}

func newTransport(name Name, chanBuf int) *Transport {
	ctx, cancel := context.WithCancel(context.Background())
	return &Transport{
		name:      name,
		state:     int32(StateClosed),
		header:    make(http.Header),
		readLimit: 1 << 20,
		receive:   make(chan eiop.Frame, chanBuf),
		done:      make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (t *Transport) InnerTransport() *Transport { return t }
func (t *Transport) Name() Name                 { return t.name }
func (t *Transport) State() State               { return State(atomic.LoadInt32(&t.state)) }
func (t *Transport) Receive() <-chan eiop.Frame { return t.receive }

func (t *Transport) Err() error {
	t.ʘ.Lock()
	defer t.ʘ.Unlock()
	return t.err
}

func (t *Transport) setState(s State) { atomic.StoreInt32(&t.state, int32(s)) }

func (t *Transport) swapState(from, to State) bool {
	return atomic.CompareAndSwapInt32(&t.state, int32(from), int32(to))
}

// readLoop pushes frames from read until it fails. A failure while the
// transport is closing, or one that clean reports as a normal close, ends
// the connection without an error.
func (t *Transport) readLoop(read func(context.Context) (eiop.Frame, error), clean func(error) bool) {
	defer close(t.done)
	defer close(t.receive)

	for {
		frame, err := read(t.ctx)
		if err != nil {
			if t.State() == StateClosing || clean(err) {
				t.setState(StateClosed)
				return
			}
			t.ʘ.Lock()
			t.err = ErrReadFailed.F(t.name, err)
			t.ʘ.Unlock()
			t.setState(StateFaulted)
			return
		}

		select {
		case t.receive <- frame:
		case <-t.ctx.Done():
			t.setState(StateClosed)
			return
		}
	}
}

// awaitDone waits for the read loop to finish, aborting the connection with
// abort if ctx is done first.
func (t *Transport) awaitDone(ctx context.Context, abort func()) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		t.cancel()
		abort()
		<-t.done
		return ctx.Err()
	}
}
