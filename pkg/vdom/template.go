package vdom

import (
	"fmt"
	"reflect"
	"strings"

	cverrors "github.com/cv-dev/cv/internal/errors"
	"github.com/cv-dev/cv/pkg/dom"
	"github.com/cv-dev/cv/pkg/reactive"
)

// eventPrefix marks a property as an event handler.
const eventPrefix = "on"

// Tag is the first argument of a template call: a Name, a Component or a
// ReactiveTag.
type Tag interface {
	isTag()
}

// Name is a plain element name.
type Name string

// ReactiveTag makes a reactive value the whole content of the call.
type ReactiveTag struct {
	Source reactive.Readable
}

func (Name) isTag()        {}
func (Component) isTag()   {}
func (ReactiveTag) isTag() {}

// classifyTag maps an untyped template tag onto the Tag variant.
func classifyTag(tag any) (Tag, *cverrors.Error) {
	switch t := tag.(type) {
	case nil:
		return Name("div"), nil
	case Tag:
		return t, nil
	case string:
		return Name(t), nil
	case func(ComponentArgs) *Node:
		return Component(t), nil
	case reactive.Readable:
		return ReactiveTag{Source: t}, nil
	}
	return nil, cverrors.New("CV101").WithDetailf("tag of type %T", tag)
}

// H virtualizes a template call. tag is an element name, a Component, a
// reactive value, or a Tag variant. Children may be Nodes, primitives,
// reactive values, zero-argument functions, slices of any of these, or
// document nodes; nil children are dropped.
func (e *Engine) H(tag any, props Props, children ...any) *Node {
	attributes, events := mapProperties(props)

	t, err := classifyTag(tag)
	if err != nil {
		e.fail(err)
		t = Name("div")
	}

	switch t := t.(type) {
	case Component:
		n := t(ComponentArgs{
			Engine:     e,
			Attributes: attributes,
			Events:     events,
			Children:   children,
		})
		if n == nil {
			e.fail(cverrors.New("CV103"))
			return e.emptyNode()
		}
		return n
	case ReactiveTag:
		return e.Reactive(t.Source)
	case Name:
		name := strings.ToLower(string(t))
		if name == "" {
			name = "div"
		}
		return &Node{
			renderer:   e.elementRenderer(name),
			Attributes: attributes,
			Events:     events,
			Children:   e.Flatten(children...),
		}
	}
	panic(fmt.Sprintf("vdom: unhandled tag variant %T", t))
}

// elementRenderer returns a renderer creating an element named tag.
func (e *Engine) elementRenderer(tag string) func() dom.Node {
	return func() dom.Node {
		return e.doc.CreateElement(tag)
	}
}

// emptyNode renders as an empty text node.
func (e *Engine) emptyNode() *Node {
	return NewNode(func() dom.Node { return e.doc.CreateTextNode("") }, nil, nil)
}

// mapProperties splits props into attributes and events. Names are
// lower-cased; an "on" name with a callable value becomes an event.
func mapProperties(props Props) (Attributes, Events) {
	attributes := Attributes{}
	events := Events{}

	for prop, val := range props {
		prop = strings.ToLower(prop)
		if strings.HasPrefix(prop, eventPrefix) {
			if l, ok := asListener(val); ok {
				events[prop[len(eventPrefix):]] = l
				continue
			}
		}
		attributes[prop] = val
	}

	return attributes, events
}

// asListener reports whether v is callable as an event listener.
func asListener(v any) (dom.Listener, bool) {
	switch fn := v.(type) {
	case dom.Listener:
		return fn, fn != nil
	case func(dom.Event):
		return fn, fn != nil
	case func():
		if fn == nil {
			return nil, false
		}
		return func(dom.Event) { fn() }, true
	}
	return nil, false
}

// Flatten converts template children into Node children: slices are
// flattened, functions are called, reactive values become reactive Nodes,
// document nodes are statically virtualized and nil is dropped. Sibling
// order is preserved.
func (e *Engine) Flatten(children ...any) []Child {
	out := make([]Child, 0, len(children))
	for _, c := range children {
		out = e.flatten(out, c)
	}
	return out
}

func (e *Engine) flatten(out []Child, child any) []Child {
	switch c := child.(type) {
	case nil:
		return out
	case *Node:
		if c == nil {
			return out
		}
		return append(out, c)
	case Primitive:
		return append(out, c)
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return append(out, Primitive{value: c})
	case reactive.Readable:
		return append(out, e.Reactive(c))
	case []any:
		for _, cc := range c {
			out = e.flatten(out, cc)
		}
		return out
	case []Child:
		for _, cc := range c {
			out = e.flatten(out, cc)
		}
		return out
	case []*Node:
		for _, cc := range c {
			out = e.flatten(out, cc)
		}
		return out
	case func() any:
		return e.flatten(out, c())
	case func() *Node:
		return e.flatten(out, c())
	case func() []*Node:
		return e.flatten(out, c())
	case func() string:
		return e.flatten(out, c())
	case dom.Node:
		return append(out, e.Static(c))
	}

	if v, ok := callThunk(child); ok {
		return e.flatten(out, v)
	}

	if rv := reflect.ValueOf(child); rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		for i := 0; i < rv.Len(); i++ {
			out = e.flatten(out, rv.Index(i).Interface())
		}
		return out
	}

	e.fail(cverrors.New("CV102").WithDetailf("child of type %T", child))
	return out
}

// Static virtualizes an existing document node without resolving module
// markers. Text becomes a Primitive; elements keep their tag, non-event
// attributes and element/text children.
func (e *Engine) Static(n dom.Node) Child {
	switch v := n.(type) {
	case dom.Text:
		return Text(v.Data())
	case dom.Element:
		children := make([]Child, 0)
		for _, c := range contentChildren(v) {
			children = append(children, e.Static(c))
		}
		return &Node{
			renderer:   e.elementRenderer(v.TagName()),
			Attributes: sourceAttributes(v),
			Events:     Events{},
			Children:   children,
		}
	}
	return Text("")
}

// sourceAttributes copies an element's attributes, skipping event-like
// ones: inline handlers on static markup are not rehydrated.
func sourceAttributes(el dom.Element) Attributes {
	attrs := Attributes{}
	for _, a := range el.Attributes() {
		if strings.HasPrefix(a.Name, eventPrefix) {
			continue
		}
		attrs[a.Name] = a.Value
	}
	return attrs
}

// contentChildren returns the element and text children of el.
func contentChildren(el dom.Element) []dom.Node {
	var out []dom.Node
	for _, c := range el.ChildNodes() {
		switch c.NodeType() {
		case dom.ElementNode, dom.TextNode:
			out = append(out, c)
		}
	}
	return out
}

// callThunk calls v if it is a function taking no arguments and returning
// exactly one value.
func callThunk(v any) (any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, false
	}
	if t := rv.Type(); t.NumIn() != 0 || t.NumOut() != 1 {
		return nil, false
	}
	return rv.Call(nil)[0].Interface(), true
}
