package vdom

import (
	"fmt"
	"testing"

	"github.com/cv-dev/cv/pkg/dom"
)

func TestRenderElement(t *testing.T) {
	_, e, _ := newTestEngine(t)

	n := e.H("div", Props{"id": "x", "class": "a", "data-n": 3}, "hi ", 1)
	got := dom.OuterHTML(e.Render(n))
	want := `<div class="a" data-n="3" id="x">hi 1</div>`
	if got != want {
		t.Errorf("Render = %s, want %s", got, want)
	}
}

func TestRenderValues(t *testing.T) {
	_, e, _ := newTestEngine(t)

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"string", "plain", "plain"},
		{"number", 42, "42"},
		{"bool", false, "false"},
		{"nil", nil, ""},
		{"top-level slice", []any{"a", e.H("b", nil)}, "<div>a<b></b></div>"},
		{"nested slice", e.H("p", nil, []any{"x", []any{"y"}}), "<p>xy</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dom.OuterHTML(e.Render(tt.value)); got != tt.want {
				t.Errorf("Render(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestRenderBooleanAttributes(t *testing.T) {
	_, e, _ := newTestEngine(t)

	el := e.Render(e.H("button", Props{"disabled": true, "hidden": false})).(dom.Element)

	if v, ok := el.GetAttribute("disabled"); !ok || v != "" {
		t.Errorf("disabled = %q, %v; want present and empty", v, ok)
	}
	if el.HasAttribute("hidden") {
		t.Error("hidden present, want absent")
	}
	if got, want := dom.OuterHTML(el), "<button disabled></button>"; got != want {
		t.Errorf("OuterHTML = %s, want %s", got, want)
	}
}

func TestRenderFunctionAttribute(t *testing.T) {
	_, e, _ := newTestEngine(t)

	calls := 0
	el := e.Render(e.H("span", Props{"title": func() string {
		calls++
		return "computed"
	}})).(dom.Element)

	if v, _ := el.GetAttribute("title"); v != "computed" {
		t.Errorf("title = %q, want computed", v)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRenderNilAttributeRemoves(t *testing.T) {
	_, e, _ := newTestEngine(t)

	el := e.Render(e.H("a", Props{"href": nil})).(dom.Element)
	if el.HasAttribute("href") {
		t.Error("nil attribute rendered")
	}
}

func TestRenderInputValue(t *testing.T) {
	_, e, _ := newTestEngine(t)

	el := e.Render(e.H("input", Props{"value": "abc"}))
	input, ok := el.(dom.ValueElement)
	if !ok {
		t.Fatalf("input is %T, not a ValueElement", el)
	}
	if input.Value() != "abc" {
		t.Errorf("Value() = %q, want abc", input.Value())
	}
	if input.HasAttribute("value") {
		t.Error("value set as attribute, want live value only")
	}
}

func TestRenderEvents(t *testing.T) {
	_, e, _ := newTestEngine(t)

	var got []string
	el := e.Render(e.H("button", Props{
		"onClick": func(ev dom.Event) { got = append(got, ev.Type) },
	})).(dom.Element)

	el.DispatchEvent(dom.Event{Type: "click"})
	el.DispatchEvent(dom.Event{Type: "keydown"})

	if len(got) != 1 || got[0] != "click" {
		t.Errorf("events = %v, want [click]", got)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	doc, e, _ := newTestEngine(t)

	n := e.H("section", Props{"id": "s", "hidden": false, "open": true},
		e.H("h2", Props{"class": "title"}, "Items ", 2),
		e.H("ul", nil, e.H("li", nil, "one"), e.H("li", nil, true)),
		"tail",
	)
	first := dom.OuterHTML(mount(e, doc, n))
	second := dom.OuterHTML(e.Render(n))

	if first != second {
		t.Errorf("second render = %s, want %s", second, first)
	}
	if got := dom.OuterHTML(doc.Body()); got != "<body>"+first+"</body>" {
		t.Errorf("body = %s", got)
	}
}

func TestRenderCallableAttributes(t *testing.T) {
	_, e, _ := newTestEngine(t)

	n := e.H("meter", Props{
		"value": func() float64 { return 0.5 },
		"title": func() fmt.Stringer { return Text("half") },
	})
	got := dom.OuterHTML(e.Render(n))
	want := `<meter title="half" value="0.5"></meter>`
	if got != want {
		t.Errorf("Render = %s, want %s", got, want)
	}
}

func TestRenderReplacesInPlace(t *testing.T) {
	doc, e, obs := newTestEngine(t)

	n := e.H("p", nil, "one")
	first := mount(e, doc, n)
	second := e.Render(n)

	if first.IsSameNode(second) {
		t.Fatal("second render reused the document node")
	}
	if !n.DOMNode().IsSameNode(second) {
		t.Error("back-reference not updated")
	}
	if doc.Contains(first) {
		t.Error("old node still attached")
	}
	if !doc.Contains(second) {
		t.Error("new node not attached")
	}
	if got := len(doc.Body().ChildNodes()); got != 1 {
		t.Errorf("body has %d children, want 1", got)
	}
	if len(obs.replaced) != 1 || obs.replaced[0] != FocusNone {
		t.Errorf("replacements = %v, want [none]", obs.replaced)
	}
}

func TestRenderDetachedNodeIsNotReplaced(t *testing.T) {
	_, e, obs := newTestEngine(t)

	n := e.H("p", nil)
	e.Render(n)
	e.Render(n)

	// Replacing a parentless node is a no-op but still reported.
	if len(obs.replaced) != 1 {
		t.Errorf("replacements = %d, want 1", len(obs.replaced))
	}
	if n.DOMNode() == nil {
		t.Error("back-reference not set")
	}
}
