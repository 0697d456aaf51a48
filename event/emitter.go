package event

import (
	"sync"

	"github.com/golang/glog"
)

// Callback is anything that can receive the arguments of an event, see the
// callback package for adapters.
type Callback interface {
	Callback(...interface{}) error
}

// Source is an event source with named, independently fired events.
type Source interface {
	// On subscribes cb to the named event. The returned func removes the
	// subscription, it is safe to call more than once.
	On(name string, cb Callback) (off func())
}

type handler struct {
	id   uint64
	once bool
	cb   Callback
}

// Emitter is a Source that runs handlers synchronously, in the order they
// were added, on the goroutine that calls Emit.
type Emitter struct {
	ʘ        sync.Mutex
	seq      uint64
	handlers map[string][]handler
}

func NewEmitter() *Emitter {
	return &Emitter{handlers: make(map[string][]handler)}
}

func (e *Emitter) On(name string, cb Callback) func()   { return e.add(name, cb, false) }
func (e *Emitter) Once(name string, cb Callback) func() { return e.add(name, cb, true) }

func (e *Emitter) add(name string, cb Callback, once bool) func() {
	e.ʘ.Lock()
	defer e.ʘ.Unlock()

	if e.handlers == nil {
		e.handlers = make(map[string][]handler)
	}

	e.seq++
	id := e.seq
	e.handlers[name] = append(e.handlers[name], handler{id: id, once: once, cb: cb})

	return func() { e.remove(name, id) }
}

func (e *Emitter) remove(name string, id uint64) {
	e.ʘ.Lock()
	defer e.ʘ.Unlock()

	hs := e.handlers[name]
	for i, h := range hs {
		if h.id == id {
			e.handlers[name] = append(hs[:i:i], hs[i+1:]...)
			break
		}
	}
	if len(e.handlers[name]) == 0 {
		delete(e.handlers, name)
	}
}

// Off removes every handler of the named events, or of all events when no
// names are given.
func (e *Emitter) Off(names ...string) {
	e.ʘ.Lock()
	defer e.ʘ.Unlock()

	if len(names) == 0 {
		e.handlers = make(map[string][]handler)
		return
	}
	for _, name := range names {
		delete(e.handlers, name)
	}
}

// Len is the number of handlers subscribed to name.
func (e *Emitter) Len(name string) int {
	e.ʘ.Lock()
	defer e.ʘ.Unlock()
	return len(e.handlers[name])
}

// Emit calls the handlers of name with args. A handler that fails or panics
// is logged and does not stop the others.
func (e *Emitter) Emit(name string, args ...interface{}) {
	e.ʘ.Lock()
	hs := make([]handler, len(e.handlers[name]))
	copy(hs, e.handlers[name])

	keep := e.handlers[name][:0:0]
	for _, h := range e.handlers[name] {
		if !h.once {
			keep = append(keep, h)
		}
	}
	if len(keep) == 0 {
		delete(e.handlers, name)
	} else {
		e.handlers[name] = keep
	}
	e.ʘ.Unlock()

	for _, h := range hs {
		if err := call(name, h.cb, args); err != nil {
			glog.Warningf("event %q: %v", name, err)
		}
	}
}

func call(name string, cb Callback, args []interface{}) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrHandlerPanic.F(name, r)
		}
	}()
	return cb.Callback(args...)
}
