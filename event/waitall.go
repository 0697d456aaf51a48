package event

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/njones/eioclient/callback"
)

// Occurrence is the first time an event fired during a WaitAll.
type Occurrence struct {
	Args []interface{}
	At   time.Time
}

// Arg returns the i-th argument of the event or nil.
func (o *Occurrence) Arg(i int) interface{} {
	if o == nil || i < 0 || i >= len(o.Args) {
		return nil
	}
	return o.Args[i]
}

// Result holds an entry for every awaited name, a nil entry is an event that
// did not fire.
type Result map[string]*Occurrence

func (r Result) Fired(name string) bool { return r[name] != nil }

// Missing lists the names that did not fire, sorted.
func (r Result) Missing() []string {
	var names []string
	for name, o := range r {
		if o == nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

type waiter struct {
	ʘ      sync.Mutex
	result Result
	left   int
	done   chan struct{}
}

func (w *waiter) capture(name string, args []interface{}) {
	w.ʘ.Lock()
	defer w.ʘ.Unlock()

	if w.result[name] != nil {
		return
	}

	w.result[name] = &Occurrence{Args: append([]interface{}(nil), args...), At: time.Now()}
	if w.left--; w.left == 0 {
		close(w.done)
	}
}

func (w *waiter) snapshot() Result {
	w.ʘ.Lock()
	defer w.ʘ.Unlock()

	r := make(Result, len(w.result))
	for name, o := range w.result {
		r[name] = o
	}
	return r
}

// WaitAll subscribes to names on src, runs action and waits for every name
// to fire at least once. The action and the wait share a single timeout.
//
// The error is the action's error if it fails, ctx.Err() if ctx ends first,
// otherwise nil, even when the timeout leaves some names missing. Every
// subscription is removed before WaitAll returns.
func WaitAll(ctx context.Context, src Source, timeout time.Duration, action func(context.Context) error, names ...string) (Result, error) {
	w := &waiter{result: make(Result, len(names)), done: make(chan struct{})}
	for _, name := range names {
		w.result[name] = nil
	}
	if w.left = len(w.result); w.left == 0 {
		close(w.done)
	}

	for name := range w.result {
		name := name
		off := src.On(name, callback.FuncAny(func(args ...interface{}) error {
			w.capture(name, args)
			return nil
		}))
		defer off()
	}

	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if action != nil {
		errc := make(chan error, 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					errc <- ErrActionPanic.F(r)
				}
			}()
			errc <- action(tctx)
		}()

		select {
		case err := <-errc:
			if err != nil {
				return w.snapshot(), err
			}
		case <-tctx.Done():
			return w.snapshot(), ctx.Err()
		}
	}

	select {
	case <-w.done:
	case <-tctx.Done():
	}
	return w.snapshot(), ctx.Err()
}
