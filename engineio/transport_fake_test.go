package engineio

import (
	"context"
	"net/url"
	"sync"
	"sync/atomic"

	eiop "github.com/njones/eioclient/engineio/protocol"
	eiot "github.com/njones/eioclient/engineio/transport"
)

// fakeTransport is the server end of an in-memory connection. Frames pushed
// with serve are received by the client, frames the client sends show up
// on sent.
type fakeTransport struct {
	state int32

	receive chan eiop.Frame
	sent    chan eiop.Frame

	connectErr error
	blockClose chan struct{}

	ʘ       sync.Mutex
	err     error
	sendErr error
	url     *url.URL

	closeOnce  sync.Once
	closeCalls int32
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		receive: make(chan eiop.Frame, 16),
		sent:    make(chan eiop.Frame, 64),
	}
}

func (f *fakeTransport) transport() eiot.NewTransport {
	return func() eiot.Transporter { return f }
}

func (f *fakeTransport) Name() eiot.Name            { return "fake" }
func (f *fakeTransport) State() eiot.State          { return eiot.State(atomic.LoadInt32(&f.state)) }
func (f *fakeTransport) Receive() <-chan eiop.Frame { return f.receive }

func (f *fakeTransport) Err() error {
	f.ʘ.Lock()
	defer f.ʘ.Unlock()
	return f.err
}

func (f *fakeTransport) Connect(_ context.Context, u *url.URL) error {
	f.ʘ.Lock()
	f.url = u
	f.ʘ.Unlock()

	if f.connectErr != nil {
		atomic.StoreInt32(&f.state, int32(eiot.StateFaulted))
		f.end()
		return f.connectErr
	}
	atomic.StoreInt32(&f.state, int32(eiot.StateOpen))
	return nil
}

func (f *fakeTransport) Send(_ context.Context, frame eiop.Frame) error {
	f.ʘ.Lock()
	err := f.sendErr
	f.ʘ.Unlock()

	if err != nil {
		return err
	}
	if f.State() != eiot.StateOpen {
		return eiot.ErrNotConnected.F("fake")
	}
	f.sent <- frame
	return nil
}

func (f *fakeTransport) Close(ctx context.Context) error {
	atomic.AddInt32(&f.closeCalls, 1)

	if f.blockClose != nil {
		select {
		case <-f.blockClose:
		case <-ctx.Done():
			f.end()
			return eiot.ErrCloseFailed.F("fake", ctx.Err())
		}
	}

	atomic.StoreInt32(&f.state, int32(eiot.StateClosed))
	f.end()
	return nil
}

func (f *fakeTransport) end() { f.closeOnce.Do(func() { close(f.receive) }) }

// serve pushes text frames to the client.
func (f *fakeTransport) serve(frames ...string) {
	for _, frame := range frames {
		f.receive <- eiop.Frame{Data: []byte(frame)}
	}
}

// fail breaks the connection as a network error would.
func (f *fakeTransport) fail(err error) {
	f.ʘ.Lock()
	f.err = err
	f.ʘ.Unlock()

	atomic.StoreInt32(&f.state, int32(eiot.StateFaulted))
	f.end()
}

func (f *fakeTransport) failSends(err error) {
	f.ʘ.Lock()
	f.sendErr = err
	f.ʘ.Unlock()
}

func (f *fakeTransport) closed() bool { return atomic.LoadInt32(&f.closeCalls) > 0 }
