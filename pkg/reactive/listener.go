package reactive

// Listener is anything that can be notified when a dependency changes.
// Implemented by memos and effects.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies changed.
	// For memos, this invalidates the cached value.
	// For effects, this re-runs the effect.
	MarkDirty()

	// ID returns a unique identifier used for deduplication in batches.
	ID() uint64
}

// Cleanup is a function returned by effects to release resources.
// It is called before the effect re-runs and when the effect is stopped.
type Cleanup func()

// Readable is a reactive value whose current content can be read without
// knowing its element type. Reading tracks the dependency like Get does.
type Readable interface {
	Read() any
}

// IsReadable reports whether v is a reactive value.
func IsReadable(v any) bool {
	_, ok := v.(Readable)
	return ok
}
