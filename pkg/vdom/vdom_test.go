package vdom

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/cv-dev/cv/pkg/dom"
)

// recordingObserver collects observer callbacks for assertions.
type recordingObserver struct {
	mu       sync.Mutex
	rendered int
	replaced []FocusOutcome
	stopped  []string
	modules  []string
	failed   []string
}

func (o *recordingObserver) NodeRendered(dom.NodeType) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rendered++
}

func (o *recordingObserver) NodeReplaced(outcome FocusOutcome) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.replaced = append(o.replaced, outcome)
}

func (o *recordingObserver) EffectStopped(kind string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopped = append(o.stopped, kind)
}

func (o *recordingObserver) ModuleLoaded(spec string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.failed = append(o.failed, spec)
		return
	}
	o.modules = append(o.modules, spec)
}

func (o *recordingObserver) lastReplaced() FocusOutcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.replaced) == 0 {
		return FocusNone
	}
	return o.replaced[len(o.replaced)-1]
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, opts ...Option) (*dom.MemoryDocument, *Engine, *recordingObserver) {
	t.Helper()
	doc := dom.NewDocument()
	obs := &recordingObserver{}
	opts = append([]Option{WithLogger(quietLogger()), WithObserver(obs)}, opts...)
	return doc, New(doc, opts...), obs
}

// mount renders v and appends the result to the body.
func mount(e *Engine, doc *dom.MemoryDocument, v any) dom.Node {
	n := e.Render(v)
	doc.Body().Append(n)
	return n
}

func primitiveValues(children []Child) []any {
	var out []any
	for _, c := range children {
		if p, ok := c.(Primitive); ok {
			out = append(out, p.Value())
		}
	}
	return out
}
