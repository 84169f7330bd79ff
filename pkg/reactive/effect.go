package reactive

import (
	"sync"
	"sync/atomic"
)

// Effect is a reactive side effect that re-runs when its dependencies change.
//
// Effects run immediately when created and again, synchronously, every time
// a signal or memo read during the previous run changes. The handle returned
// by CreateEffect is the only way to stop it; Stop may be called from inside
// the effect body.
type Effect struct {
	id uint64

	fn      func() Cleanup
	cleanup Cleanup

	sources   []*signalBase
	sourcesMu sync.Mutex

	// running is set while fn executes; a change observed during a run is
	// recorded in pending and replayed once the run returns.
	running atomic.Bool
	pending atomic.Bool
	stopped atomic.Bool

	runs atomic.Int64
}

// CreateEffect creates an effect and runs it once immediately.
//
// Example:
//
//	e := CreateEffect(func() Cleanup {
//	    fmt.Println("Count is:", count.Get())
//	    return func() { fmt.Println("Cleanup") }
//	})
func CreateEffect(fn func() Cleanup) *Effect {
	e := &Effect{
		id: nextID(),
		fn: fn,
	}
	e.run()
	return e
}

// MarkDirty re-runs the effect. Implements Listener.
func (e *Effect) MarkDirty() {
	if e.stopped.Load() {
		return
	}
	if e.running.Load() {
		e.pending.Store(true)
		return
	}
	e.run()
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Runs returns how many times the effect body has executed.
func (e *Effect) Runs() int64 {
	return e.runs.Load()
}

// Stopped reports whether Stop has been called.
func (e *Effect) Stopped() bool {
	return e.stopped.Load()
}

// Stop disposes the effect: the last cleanup runs and all subscriptions
// are released. Stop is idempotent.
func (e *Effect) Stop() {
	if e.stopped.Swap(true) {
		return
	}

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
	e.releaseSources()
}

func (e *Effect) run() {
	for {
		if e.stopped.Load() {
			return
		}
		e.running.Store(true)
		e.pending.Store(false)

		if e.cleanup != nil {
			e.cleanup()
			e.cleanup = nil
		}
		e.releaseSources()

		old := setCurrentListener(e)
		cleanup := e.fn()
		setCurrentListener(old)
		e.runs.Add(1)
		e.running.Store(false)

		if e.stopped.Load() {
			// Stopped from inside its own body.
			if cleanup != nil {
				cleanup()
			}
			e.releaseSources()
			return
		}
		e.cleanup = cleanup

		if !e.pending.Load() {
			return
		}
	}
}

func (e *Effect) releaseSources() {
	e.sourcesMu.Lock()
	sources := e.sources
	e.sources = nil
	e.sourcesMu.Unlock()

	for _, source := range sources {
		source.unsubscribe(e)
	}
}

func (e *Effect) addSource(source *signalBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()
	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

var (
	_ Listener      = (*Effect)(nil)
	_ sourceTracker = (*Effect)(nil)
)
