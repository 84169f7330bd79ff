package vtest_test

import (
	"testing"

	"github.com/cv-dev/cv/pkg/dom"
	"github.com/cv-dev/cv/pkg/module"
	"github.com/cv-dev/cv/pkg/vdom"
	"github.com/cv-dev/cv/pkg/vtest"
)

func counter(e *vdom.Engine) any {
	n := vdom.State(0)
	return e.H("div", nil,
		e.H("button", vdom.Props{"class": "inc", "onclick": func() { n.Set(n.Peek() + 1) }}, "+"),
		e.H("span", nil, n),
	)
}

func TestMountAndClick(t *testing.T) {
	h := vtest.Mount(t, counter)
	vtest.ExpectContains(t, h, "<span>0</span>")

	h.Click("button")
	h.Click("button")
	vtest.ExpectContains(t, h, "<span>2</span>")
	vtest.ExpectNotContains(t, h, "<span>0</span>")
	vtest.ExpectAttribute(t, h, "button", "class", "inc")
}

func TestInputKeepsFocus(t *testing.T) {
	h := vtest.Mount(t, func(e *vdom.Engine) any {
		text := vdom.State("")
		return e.Reactive(vdom.Computed(func() *vdom.Node {
			return e.H("form", nil,
				e.H("input", vdom.Props{"id": "q", "value": text.Get(), "oninput": func(ev dom.Event) {
					text.Set(ev.Value)
				}}),
				e.H("p", nil, text.Get()),
			)
		}))
	})

	h.Find("#q").Focus()
	h.Input("#q", "abc")

	vtest.ExpectContains(t, h, "<p>abc</p>")
	vtest.ExpectFocused(t, h, "#q")
	if got := h.Find("input").(dom.ValueElement).Value(); got != "abc" {
		t.Errorf("input value = %q, want abc", got)
	}
}

func TestMountPage(t *testing.T) {
	reg := module.NewRegistry()
	reg.RegisterComponent("badge", vdom.DefaultExport, func(args vdom.ComponentArgs) *vdom.Node {
		return args.Engine.H("mark", nil, args.Children...)
	})

	h := vtest.MountPage(t, `<html><body><p>x <b module="badge">new</b></p></body></html>`,
		vdom.WithLoader(reg))
	vtest.ExpectElement(t, h, "mark")
	vtest.ExpectContains(t, h, "<p>x <mark>new</mark></p>")
}

func TestRenderToString(t *testing.T) {
	got := vtest.RenderToString(func(e *vdom.Engine) any {
		return []any{e.H("i", nil, "a"), "b"}
	})
	if got != "<div><i>a</i>b</div>" {
		t.Errorf("RenderToString = %q", got)
	}
}
