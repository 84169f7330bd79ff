// Package vtest provides testing helpers for cv components.
//
// A Harness mounts a tree into an in-memory document, drives it with
// events and asserts on the rendered markup.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    h := vtest.Mount(t, func(e *vdom.Engine) any {
//	        n := vdom.State(0)
//	        return e.H("div", nil,
//	            e.H("button", vdom.Props{"onclick": func() { n.Set(n.Peek() + 1) }}, "+"),
//	            e.H("span", nil, n),
//	        )
//	    })
//	    h.Click("button")
//	    vtest.ExpectContains(t, h, "<span>1</span>")
//	}
//
// # Pages
//
// MountPage parses a whole page and virtualizes its module markers:
//
//	h := vtest.MountPage(t, page, vdom.WithLoader(loader))
//	vtest.ExpectElement(t, h, "article")
//
// # Selectors
//
// Find, Click, Input and the assertions take a tag name ("button") or an
// id ("#email") and use the first match in document order.
package vtest
