//go:build js && wasm

package dom

import (
	"strings"
	"syscall/js"
)

// Browser returns the page's document.
func Browser() Document {
	return &jsDocument{v: js.Global().Get("document")}
}

type jsValuer interface {
	jsValue() js.Value
}

type jsDocument struct {
	v js.Value
}

func (d *jsDocument) CreateElement(tag string) Element {
	return wrapElement(d.v.Call("createElement", tag))
}

func (d *jsDocument) CreateTextNode(data string) Text {
	return &jsText{jsNode{d.v.Call("createTextNode", data)}}
}

func (d *jsDocument) Body() Element {
	return wrapElement(d.v.Get("body"))
}

func (d *jsDocument) ActiveElement() Element {
	active := d.v.Get("activeElement")
	if active.IsNull() || active.IsUndefined() {
		return nil
	}
	return wrapElement(active)
}

func (d *jsDocument) Contains(n Node) bool {
	jv, ok := n.(jsValuer)
	if !ok {
		return false
	}
	return d.v.Call("contains", jv.jsValue()).Bool()
}

func wrap(v js.Value) Node {
	if v.IsNull() || v.IsUndefined() {
		return nil
	}
	switch NodeType(v.Get("nodeType").Int()) {
	case ElementNode:
		return wrapElement(v)
	case TextNode:
		return &jsText{jsNode{v}}
	}
	return nil
}

func wrapElement(v js.Value) Element {
	if v.IsNull() || v.IsUndefined() {
		return nil
	}
	el := &jsElement{jsNode{v}}
	if IsValueControl(el.TagName()) {
		return &jsControl{el}
	}
	return el
}

type jsNode struct {
	v js.Value
}

func (n *jsNode) jsValue() js.Value { return n.v }

func (n *jsNode) ParentElement() Element {
	return wrapElement(n.v.Get("parentElement"))
}

func (n *jsNode) IsSameNode(other Node) bool {
	jv, ok := other.(jsValuer)
	return ok && n.v.Equal(jv.jsValue())
}

func (n *jsNode) ReplaceWith(r Node) {
	if jv, ok := r.(jsValuer); ok {
		n.v.Call("replaceWith", jv.jsValue())
	}
}

func (n *jsNode) Remove() { n.v.Call("remove") }

func (n *jsNode) TextContent() string { return n.v.Get("textContent").String() }

type jsText struct {
	jsNode
}

func (t *jsText) NodeType() NodeType  { return TextNode }
func (t *jsText) Data() string        { return t.v.Get("data").String() }
func (t *jsText) SetData(data string) { t.v.Set("data", data) }

type jsElement struct {
	jsNode
}

func (e *jsElement) NodeType() NodeType { return ElementNode }

func (e *jsElement) TagName() string {
	return strings.ToLower(e.v.Get("tagName").String())
}

func (e *jsElement) GetAttribute(name string) (string, bool) {
	v := e.v.Call("getAttribute", name)
	if v.IsNull() {
		return "", false
	}
	return v.String(), true
}

func (e *jsElement) HasAttribute(name string) bool {
	return e.v.Call("hasAttribute", name).Bool()
}

func (e *jsElement) SetAttribute(name, value string) { e.v.Call("setAttribute", name, value) }

func (e *jsElement) RemoveAttribute(name string) { e.v.Call("removeAttribute", name) }

func (e *jsElement) ToggleAttribute(name string, force bool) {
	e.v.Call("toggleAttribute", name, force)
}

func (e *jsElement) Attributes() []Attr {
	attrs := e.v.Get("attributes")
	out := make([]Attr, attrs.Length())
	for i := range out {
		a := attrs.Index(i)
		out[i] = Attr{Name: a.Get("name").String(), Value: a.Get("value").String()}
	}
	return out
}

func (e *jsElement) Append(children ...Node) {
	for _, c := range children {
		if jv, ok := c.(jsValuer); ok {
			e.v.Call("appendChild", jv.jsValue())
		}
	}
}

func (e *jsElement) ChildNodes() []Node {
	list := e.v.Get("childNodes")
	out := make([]Node, 0, list.Length())
	for i := 0; i < list.Length(); i++ {
		if n := wrap(list.Index(i)); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (e *jsElement) Children() []Element {
	list := e.v.Get("children")
	out := make([]Element, list.Length())
	for i := range out {
		out[i] = wrapElement(list.Index(i))
	}
	return out
}

func (e *jsElement) PreviousElementSibling() Element {
	return wrapElement(e.v.Get("previousElementSibling"))
}

func (e *jsElement) AddEventListener(event string, l Listener) {
	if l == nil {
		return
	}
	fn := js.FuncOf(func(this js.Value, args []js.Value) any {
		ev := Event{Type: event}
		if len(args) > 0 {
			target := args[0].Get("target")
			ev.Target = wrapElement(target)
			if value := target.Get("value"); value.Type() == js.TypeString {
				ev.Value = value.String()
			}
		}
		l(ev)
		return nil
	})
	e.v.Call("addEventListener", event, fn)
}

func (e *jsElement) DispatchEvent(ev Event) {
	e.v.Call("dispatchEvent", js.Global().Get("Event").New(ev.Type, map[string]any{"bubbles": true}))
}

func (e *jsElement) Focus() { e.v.Call("focus") }

type jsControl struct {
	*jsElement
}

func (c *jsControl) Value() string     { return c.v.Get("value").String() }
func (c *jsControl) SetValue(v string) { c.v.Set("value", v) }

func (c *jsControl) SelectionRange() (Selection, bool) {
	start := c.v.Get("selectionStart")
	if start.IsNull() || start.IsUndefined() {
		return Selection{}, false
	}
	dir := Direction(c.v.Get("selectionDirection").String())
	if dir == "" {
		dir = DirectionNone
	}
	return Selection{Start: start.Int(), End: c.v.Get("selectionEnd").Int(), Direction: dir}, true
}

func (c *jsControl) SetSelectionRange(sel Selection) {
	if _, ok := c.SelectionRange(); !ok {
		return
	}
	c.v.Call("setSelectionRange", sel.Start, sel.End, string(sel.Direction))
}

var (
	_ Document     = (*jsDocument)(nil)
	_ Element      = (*jsElement)(nil)
	_ Selectable   = (*jsControl)(nil)
	_ ValueElement = (*jsControl)(nil)
	_ Text         = (*jsText)(nil)
)
