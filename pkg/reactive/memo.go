package reactive

import (
	"sync"
	"sync/atomic"
)

// Memo is a cached computation that tracks its dependencies.
// When a dependency changes the memo is invalidated and recomputes on the
// next read. Memos are lazy and can themselves be depended upon.
type Memo[T any] struct {
	base signalBase

	compute func() T

	value   T
	valueMu sync.RWMutex

	// valid is false until the first computation and after invalidation.
	valid atomic.Bool

	sources   []*signalBase
	sourcesMu sync.Mutex

	// computing guards against circular dependencies.
	computing atomic.Bool
}

// NewMemo creates a memo. The computation runs lazily on first read.
func NewMemo[T any](compute func() T) *Memo[T] {
	return &Memo[T]{
		base:    signalBase{id: nextID()},
		compute: compute,
	}
}

// Get returns the memo's value, recomputing if necessary, and subscribes
// the current listener.
func (m *Memo[T]) Get() T {
	m.base.track()

	if !m.valid.Load() {
		m.recompute()
	}

	m.valueMu.RLock()
	defer m.valueMu.RUnlock()
	return m.value
}

// Read implements Readable.
func (m *Memo[T]) Read() any {
	return m.Get()
}

// Peek returns the value without subscribing.
func (m *Memo[T]) Peek() T {
	if !m.valid.Load() {
		m.recompute()
	}
	m.valueMu.RLock()
	defer m.valueMu.RUnlock()
	return m.value
}

// MarkDirty invalidates the memo and propagates to subscribers.
func (m *Memo[T]) MarkDirty() {
	if m.valid.CompareAndSwap(true, false) {
		m.base.notifySubscribers()
	}
}

// ID returns the unique identifier for this memo.
func (m *Memo[T]) ID() uint64 {
	return m.base.id
}

func (m *Memo[T]) addSource(source *signalBase) {
	m.sourcesMu.Lock()
	defer m.sourcesMu.Unlock()
	for _, s := range m.sources {
		if s == source {
			return
		}
	}
	m.sources = append(m.sources, source)
}

func (m *Memo[T]) recompute() {
	if m.computing.Swap(true) {
		return
	}
	defer m.computing.Store(false)

	m.sourcesMu.Lock()
	for _, source := range m.sources {
		source.unsubscribe(m)
	}
	m.sources = m.sources[:0]
	m.sourcesMu.Unlock()

	old := setCurrentListener(m)
	newValue := m.compute()
	setCurrentListener(old)

	m.valueMu.Lock()
	m.value = newValue
	m.valueMu.Unlock()

	m.valid.Store(true)
}

var (
	_ Readable      = (*Memo[int])(nil)
	_ Listener      = (*Memo[int])(nil)
	_ sourceTracker = (*Memo[int])(nil)
	_ Readable      = (*Signal[int])(nil)
)
