package engineio

import (
	"context"
	"time"
)

// Heartbeat enforces the ping interval and the liveness deadline of one
// connection. It never closes anything, Run returns ErrLivenessViolation and
// the Client decides what to do with it.
//
// Engine.IO v3 clients send the pings, v4 servers send them and reject
// pings from the client, so only a v3 Heartbeat sends.
type Heartbeat struct {
	interval time.Duration
	timeout  time.Duration
	sends    bool

	alive chan struct{}
}

func NewHeartbeat(interval, timeout time.Duration, sends bool) *Heartbeat {
	return &Heartbeat{
		interval: interval,
		timeout:  timeout,
		sends:    sends,
		alive:    make(chan struct{}, 1),
	}
}

// Window is how long the connection may go without a ping or pong. The
// ping timeout counts from when the next ping is due.
func (hb *Heartbeat) Window() time.Duration { return hb.interval + hb.timeout }

// Alive re-arms the liveness deadline, it never blocks.
func (hb *Heartbeat) Alive() {
	select {
	case hb.alive <- struct{}{}:
	default:
	}
}

// Run blocks until ctx is done (nil), ping fails (its error) or the
// deadline passes (ErrLivenessViolation).
func (hb *Heartbeat) Run(ctx context.Context, ping func(context.Context) error) error {
	window := hb.Window()

	deadline := time.NewTimer(window)
	defer deadline.Stop()

	var interval <-chan time.Time
	if hb.sends && ping != nil {
		ticker := time.NewTicker(hb.interval)
		defer ticker.Stop()
		interval = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-hb.alive:
			if !deadline.Stop() {
				select {
				case <-deadline.C:
				default:
				}
			}
			deadline.Reset(window)
		case <-interval:
			if err := ping(ctx); err != nil {
				return err
			}
		case <-deadline.C:
			return ErrLivenessViolation.F(window)
		}
	}
}
