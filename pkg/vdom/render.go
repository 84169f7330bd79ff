package vdom

import (
	"reflect"
	"sort"

	"github.com/cv-dev/cv/pkg/dom"
	"github.com/cv-dev/cv/pkg/reactive"
)

// Render renders v into the document and returns the resulting node.
//
// A *Node that has rendered before has its previous document node replaced
// in place, with keyboard focus and text selection carried over. A slice is
// rendered into a new div. A reactive value is virtualized first. Any other
// value becomes a text node.
func (e *Engine) Render(v any) dom.Node {
	nodes := e.render(v, false)
	if len(nodes) == 0 {
		return e.doc.CreateTextNode("")
	}
	return nodes[0]
}

// render renders v. Nested renders produce nodes for a parent to append
// and never replace anything; top-level renders return exactly one node.
func (e *Engine) render(v any, nested bool) []dom.Node {
	switch val := v.(type) {
	case nil:
		if nested {
			return nil
		}
		return []dom.Node{e.doc.CreateTextNode("")}
	case *Node:
		if val == nil {
			return e.render(nil, nested)
		}
		return []dom.Node{e.renderNode(val, nested)}
	case Primitive:
		return []dom.Node{e.doc.CreateTextNode(val.String())}
	case reactive.Readable:
		return e.render(e.Reactive(val), nested)
	case dom.Node:
		return e.render(e.Static(val), nested)
	case []Child:
		return e.renderList(len(val), func(i int) any { return val[i] }, nested)
	case []*Node:
		return e.renderList(len(val), func(i int) any { return val[i] }, nested)
	case []any:
		return e.renderList(len(val), func(i int) any { return val[i] }, nested)
	}

	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return e.renderList(rv.Len(), func(i int) any { return rv.Index(i).Interface() }, nested)
	}

	return []dom.Node{e.doc.CreateTextNode(stringify(v))}
}

// renderList renders n items. At top level they are wrapped in a div.
func (e *Engine) renderList(n int, item func(int) any, nested bool) []dom.Node {
	var out []dom.Node
	for i := 0; i < n; i++ {
		out = append(out, e.render(item(i), true)...)
	}
	if nested {
		return out
	}
	div := e.doc.CreateElement("div")
	div.Append(out...)
	return []dom.Node{div}
}

// renderNode produces a fresh document node for vn and records it as
// vn's back-reference.
func (e *Engine) renderNode(vn *Node, nested bool) dom.Node {
	node := vn.renderer()

	if el, ok := node.(dom.Element); ok {
		e.addAttributes(el, vn.Attributes)
		e.addEvents(el, vn.Events)

		var children []dom.Node
		for _, c := range vn.Children {
			children = append(children, e.render(c, true)...)
		}
		el.Append(children...)
	}

	if vn.node != nil && !nested {
		e.replace(vn.node, node)
	}

	vn.node = node
	e.observer.NodeRendered(node.NodeType())
	return node
}

// replace swaps old for node, carrying focus over.
func (e *Engine) replace(old, node dom.Node) {
	info := captureFocus(e.doc, old)

	old.ReplaceWith(node)

	outcome := FocusNone
	if info != nil {
		outcome = FocusLost
		if el, ok := node.(dom.Element); ok {
			outcome = restoreFocus(el, info)
		}
	}

	e.observer.NodeReplaced(outcome)
	if outcome != FocusNone {
		e.logger.Debug("cv: node replaced", "focus", outcome.String(), "tag", info.tag)
	}
}

// addAttributes applies attributes in name order. Functions are called
// and reactive values get an attribute subscription.
func (e *Engine) addAttributes(el dom.Element, attributes Attributes) {
	names := make([]string, 0, len(attributes))
	for name := range attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		val := resolveAttribute(attributes[name])

		if src, ok := val.(reactive.Readable); ok {
			e.watch(SubscriptionAttribute, func() dom.Node { return el }, func() {
				setAttribute(el, name, src.Read())
			})
			continue
		}

		setAttribute(el, name, val)
	}
}

// resolveAttribute calls function attribute values.
func resolveAttribute(v any) any {
	switch fn := v.(type) {
	case func() any:
		return fn()
	case func() string:
		return fn()
	case func() bool:
		return fn()
	case func() int:
		return fn()
	}
	if out, ok := callThunk(v); ok {
		return out
	}
	return v
}

func (e *Engine) addEvents(el dom.Element, events Events) {
	names := make([]string, 0, len(events))
	for name := range events {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if l := events[name]; l != nil {
			el.AddEventListener(name, l)
		}
	}
}

// setAttribute applies one attribute value. The value of a form control
// sets its live value; booleans toggle presence; nil removes.
func setAttribute(el dom.Element, name string, val any) {
	if ve, ok := el.(dom.ValueElement); ok && name == "value" {
		ve.SetValue(stringify(val))
		return
	}
	switch v := val.(type) {
	case nil:
		el.RemoveAttribute(name)
	case bool:
		el.ToggleAttribute(name, v)
	default:
		el.SetAttribute(name, stringify(v))
	}
}
