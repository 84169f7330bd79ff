// Package vdom is the virtualization and reconciliation engine of cv.
//
// A virtual Node describes how to produce one real document node: a
// renderer function, attributes, event listeners and children. Three
// virtualizers produce Node trees and one renderer materializes them:
//
//   - Engine.H turns a (tag, properties, children) template call into a Node.
//   - Engine.Virtualize turns an existing document subtree into a Node,
//     optionally handing it to a component loaded from a module, and
//     replaces the static markup with the live rendering.
//   - Engine.Reactive wraps a reactive value in a stable Node that
//     re-renders itself whenever the value changes.
//   - Engine.Render walks a Node tree, creates document nodes, attaches
//     attributes and listeners, and replaces previously rendered nodes in
//     place while keeping keyboard focus and text selection.
//
// # Example
//
//	doc := dom.NewDocument()
//	e := vdom.New(doc)
//
//	name := vdom.State("world")
//	view := e.H("div", vdom.Props{"class": "greeting"},
//	    "Hello, ", name, "!",
//	    e.H("input", vdom.Props{
//	        "key":     "name",
//	        "value":   name,
//	        "onInput": func(ev dom.Event) { name.Set(ev.Value) },
//	    }),
//	)
//	doc.Body().Append(e.Render(view))
//
// # Reactivity
//
// Any reactive.Readable in tag, attribute or child position is tracked.
// The effect behind it stops itself as soon as the node it maintains is no
// longer attached to the document; detachment is the only cancellation
// signal.
//
// # Replacement
//
// There is no tree diff. A reactive change re-renders the owning Node and
// swaps the old document node for the new one. Focus is carried over by
// recording the sibling-index path (and the "key" attribute) of the focused
// element relative to the replaced node and replaying it on the new tree.
package vdom
