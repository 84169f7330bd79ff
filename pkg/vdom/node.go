package vdom

import (
	"fmt"
	"strconv"

	"github.com/cv-dev/cv/pkg/dom"
)

// Node is a virtual node: the description of one real document node.
type Node struct {
	// renderer produces the base document node. Set once at construction.
	renderer func() dom.Node

	// Attributes maps lower-cased names to a value, a zero-argument
	// function returning a value, or a reactive.Readable.
	Attributes Attributes

	// Events maps lower-cased event names, without the "on" prefix,
	// to listeners.
	Events Events

	Children []Child

	// node is the document node most recently produced for this Node.
	// The document owns it; it is only used to find what to replace.
	node dom.Node
}

// Attributes holds a Node's attribute values.
type Attributes map[string]any

// Events holds a Node's event listeners.
type Events map[string]dom.Listener

// Props is the property mapping passed to H. Names starting with "on"
// whose value is callable become events; everything else is an attribute.
type Props map[string]any

// NewNode creates a Node around renderer. It panics if renderer is nil.
func NewNode(renderer func() dom.Node, attributes Attributes, events Events, children ...Child) *Node {
	if renderer == nil {
		panic("vdom: NewNode requires a renderer")
	}
	if attributes == nil {
		attributes = Attributes{}
	}
	if events == nil {
		events = Events{}
	}
	if children == nil {
		children = []Child{}
	}
	return &Node{
		renderer:   renderer,
		Attributes: attributes,
		Events:     events,
		Children:   children,
	}
}

// DOMNode returns the document node this Node last rendered, or nil.
func (n *Node) DOMNode() dom.Node {
	return n.node
}

// Child is a member of Node.Children: a *Node or a Primitive.
type Child interface {
	isChild()
}

func (*Node) isChild() {}

// Primitive is a string, number or boolean standing in for a text node.
// It is converted to a fresh text node on every render.
type Primitive struct {
	value any
}

func (Primitive) isChild() {}

// Value returns the wrapped value.
func (p Primitive) Value() any {
	return p.value
}

// String returns the text the primitive renders as.
func (p Primitive) String() string {
	return stringify(p.value)
}

// Text returns a string Primitive.
func Text(s string) Primitive {
	return Primitive{value: s}
}

// Textf returns a formatted string Primitive.
func Textf(format string, args ...any) Primitive {
	return Text(fmt.Sprintf(format, args...))
}

// PrimitiveOf wraps v if it is a string, number or boolean.
func PrimitiveOf(v any) (Primitive, bool) {
	switch val := v.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return Primitive{value: v}, true
	case Primitive:
		return val, true
	}
	return Primitive{}, false
}

// stringify coerces a value to its text form.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int8:
		return strconv.FormatInt(int64(val), 10)
	case int16:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint8:
		return strconv.FormatUint(uint64(val), 10)
	case uint16:
		return strconv.FormatUint(uint64(val), 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case Primitive:
		return val.String()
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// ComponentArgs is what a Component receives.
type ComponentArgs struct {
	// Engine is the engine virtualizing the component.
	Engine *Engine

	// Tag is the source element's tag name when called by Virtualize.
	Tag string

	Attributes Attributes
	Events     Events

	// Children are the raw children of the template call, or the element
	// and text nodes of the source element when called by Virtualize.
	Children []any
}

// Component produces a Node from its arguments.
type Component func(args ComponentArgs) *Node
