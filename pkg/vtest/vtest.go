package vtest

import (
	"context"
	"strings"
	"testing"

	"github.com/cv-dev/cv/pkg/dom"
	"github.com/cv-dev/cv/pkg/vdom"
)

// Harness is a mounted tree in an in-memory document.
type Harness struct {
	t      testing.TB
	Doc    *dom.MemoryDocument
	Engine *vdom.Engine
}

// Mount renders the value returned by build into the body of a fresh
// document.
//
// Example:
//
//	h := vtest.Mount(t, func(e *vdom.Engine) any {
//	    return e.H("p", nil, "hi")
//	})
//	vtest.ExpectContains(t, h, "<p>hi</p>")
func Mount(t testing.TB, build func(e *vdom.Engine) any, opts ...vdom.Option) *Harness {
	t.Helper()
	doc := dom.NewDocument()
	h := &Harness{t: t, Doc: doc, Engine: vdom.New(doc, opts...)}
	doc.Body().Append(h.Engine.Render(build(h.Engine)))
	return h
}

// MountPage parses markup as a full page and enhances its module markers.
// Parse and enhance errors fail the test.
//
// Example:
//
//	h := vtest.MountPage(t, `<body><div module="card"></div></body>`,
//	    vdom.WithLoader(registry))
func MountPage(t testing.TB, markup string, opts ...vdom.Option) *Harness {
	t.Helper()
	doc, err := dom.ParseHTML(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("vtest: parse page: %v", err)
	}
	h := &Harness{t: t, Doc: doc, Engine: vdom.New(doc, opts...)}
	if _, err := h.Engine.Enhance(context.Background(), doc.Body()); err != nil {
		t.Fatalf("vtest: enhance page: %v", err)
	}
	return h
}

// HTML returns the body markup.
func (h *Harness) HTML() string {
	return dom.InnerHTML(h.Doc.Body())
}

// Find returns the first element in document order matching tag, or an
// element with id when tag has the form "#id". It fails the test when
// nothing matches.
func (h *Harness) Find(tag string) dom.Element {
	h.t.Helper()
	if el := find(h.Doc.Body(), tag); el != nil {
		return el
	}
	h.t.Fatalf("vtest: no element matches %q in:\n%s", tag, truncate(h.HTML(), 500))
	return nil
}

func find(root dom.Element, sel string) dom.Element {
	for _, el := range root.Children() {
		if matches(el, sel) {
			return el
		}
		if found := find(el, sel); found != nil {
			return found
		}
	}
	return nil
}

func matches(el dom.Element, sel string) bool {
	if id, ok := strings.CutPrefix(sel, "#"); ok {
		v, _ := el.GetAttribute("id")
		return v == id
	}
	return el.TagName() == strings.ToLower(sel)
}

// Click dispatches a click event on the element matching sel.
func (h *Harness) Click(sel string) {
	h.t.Helper()
	h.Find(sel).DispatchEvent(dom.Event{Type: "click"})
}

// Input sets the live value of the control matching sel and dispatches an
// input event.
func (h *Harness) Input(sel, value string) {
	h.t.Helper()
	el := h.Find(sel)
	ve, ok := el.(dom.ValueElement)
	if !ok {
		h.t.Fatalf("vtest: %q is not a form control", sel)
	}
	ve.SetValue(value)
	el.DispatchEvent(dom.Event{Type: "input", Value: value})
}

// RenderToString renders v into a fresh document and returns its markup.
//
// Example:
//
//	html := vtest.RenderToString(func(e *vdom.Engine) any {
//	    return e.H("b", nil, "bold")
//	})
func RenderToString(build func(e *vdom.Engine) any) string {
	doc := dom.NewDocument()
	e := vdom.New(doc)
	return dom.OuterHTML(e.Render(build(e)))
}

// ExpectContains asserts that the body markup contains expected.
//
// Example:
//
//	vtest.ExpectContains(t, h, "Welcome")
func ExpectContains(t testing.TB, h *Harness, expected string) {
	t.Helper()
	html := h.HTML()
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that the body markup does not contain
// unexpected.
func ExpectNotContains(t testing.TB, h *Harness, unexpected string) {
	t.Helper()
	html := h.HTML()
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that the body contains an element with tag.
func ExpectElement(t testing.TB, h *Harness, tag string) {
	t.Helper()
	if find(h.Doc.Body(), tag) == nil {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(h.HTML(), 500))
	}
}

// ExpectAttribute asserts that the element matching sel has attr set to
// value.
//
// Example:
//
//	vtest.ExpectAttribute(t, h, "button", "class", "btn-primary")
func ExpectAttribute(t testing.TB, h *Harness, sel, attr, value string) {
	t.Helper()
	el := find(h.Doc.Body(), sel)
	if el == nil {
		t.Errorf("expected element %q not found, got:\n%s", sel, truncate(h.HTML(), 500))
		return
	}
	if got, ok := el.GetAttribute(attr); !ok || got != value {
		t.Errorf("expected %s %s=%q, got %q (present: %v)", sel, attr, value, got, ok)
	}
}

// ExpectFocused asserts that the element matching sel holds focus.
func ExpectFocused(t testing.TB, h *Harness, sel string) {
	t.Helper()
	el := find(h.Doc.Body(), sel)
	if el == nil || !h.Doc.ActiveElement().IsSameNode(el) {
		t.Errorf("expected %q to be focused, active element is <%s>", sel, h.Doc.ActiveElement().TagName())
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
