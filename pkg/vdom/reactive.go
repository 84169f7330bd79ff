package vdom

import (
	"github.com/cv-dev/cv/pkg/dom"
	"github.com/cv-dev/cv/pkg/reactive"
)

// subscription keeps a rendered target in sync with reactive reads made by
// apply. Once the target has left the document the next change stops the
// effect instead of applying it.
type subscription struct {
	engine *Engine
	kind   string
	target func() dom.Node
	apply  func()

	// ran is set after the first apply; before that the target is still
	// being built and is not expected to be attached.
	ran    bool
	effect *reactive.Effect

	onCancel func()
}

// watch runs apply now and again on every change of what it reads.
func (e *Engine) watch(kind string, target func() dom.Node, apply func()) *subscription {
	s := &subscription{
		engine: e,
		kind:   kind,
		target: target,
		apply:  apply,
	}
	s.effect = reactive.CreateEffect(s.run)
	return s
}

func (s *subscription) run() reactive.Cleanup {
	if s.ran && !s.attached() {
		s.cancel()
		return nil
	}
	s.apply()
	s.ran = true
	return nil
}

func (s *subscription) attached() bool {
	n := s.target()
	return n != nil && s.engine.doc.Contains(n)
}

func (s *subscription) cancel() {
	s.effect.Stop()
	if s.onCancel != nil {
		s.onCancel()
	}
	s.engine.observer.EffectStopped(s.kind)
	s.engine.logger.Debug("cv: subscription stopped", "kind", s.kind)
}

// Stopped reports whether the subscription has been cancelled.
func (s *subscription) Stopped() bool {
	return s.effect.Stopped()
}

// Reactive virtualizes a reactive value. The returned Node is stable: every
// change of src re-renders this same Node in place, until its document
// node is found detached.
//
// The value is rendered like a child list; anything other than exactly
// one resulting document node is wrapped in a div.
func (e *Engine) Reactive(src reactive.Readable) *Node {
	vn := &Node{
		Attributes: Attributes{},
		Events:     Events{},
		Children:   []Child{},
	}
	vn.renderer = func() dom.Node {
		var value any
		reactive.Untracked(func() {
			value = src.Read()
		})
		nodes := e.render(value, true)
		if len(nodes) == 1 {
			return nodes[0]
		}
		div := e.doc.CreateElement("div")
		div.Append(nodes...)
		return div
	}

	s := e.watch(SubscriptionNode, vn.DOMNode, func() {
		src.Read()
		e.render(vn, false)
	})
	s.onCancel = func() {
		vn.node = nil
	}
	return vn
}

// State creates a reactive value holding initial.
func State[T any](initial T) *reactive.Signal[T] {
	return reactive.NewSignal(initial)
}

// Computed creates a reactive value derived from the reactive reads in
// compute.
func Computed[T any](compute func() T) *reactive.Memo[T] {
	return reactive.NewMemo(compute)
}
