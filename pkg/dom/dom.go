package dom

// NodeType discriminates nodes, using the DOM's numeric codes.
type NodeType uint8

const (
	ElementNode NodeType = 1
	TextNode    NodeType = 3
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	default:
		return "unknown"
	}
}

// Node is any node living in a host document.
type Node interface {
	NodeType() NodeType

	// ParentElement returns the parent, or nil for a detached or root node.
	ParentElement() Element

	// IsSameNode reports whether other refers to the same underlying node.
	IsSameNode(other Node) bool

	// ReplaceWith puts n where this node is. No-op for a parentless node.
	ReplaceWith(n Node)

	// Remove detaches the node from its parent.
	Remove()

	TextContent() string
}

// Attr is a single attribute as it appears on an element.
type Attr struct {
	Name  string
	Value string
}

// Element is a node that carries attributes, children and listeners.
type Element interface {
	Node

	// TagName returns the lower-cased tag name.
	TagName() string

	GetAttribute(name string) (string, bool)
	HasAttribute(name string) bool
	SetAttribute(name, value string)
	RemoveAttribute(name string)

	// ToggleAttribute adds the attribute with an empty value when force is
	// true and removes it otherwise.
	ToggleAttribute(name string, force bool)

	// Attributes returns the attributes in document order.
	Attributes() []Attr

	Append(children ...Node)
	ChildNodes() []Node

	// Children returns only the element children.
	Children() []Element

	PreviousElementSibling() Element

	AddEventListener(event string, l Listener)
	DispatchEvent(ev Event)

	Focus()
}

// Text is a text node.
type Text interface {
	Node
	Data() string
	SetData(data string)
}

// Document creates nodes and answers document-wide questions.
type Document interface {
	CreateElement(tag string) Element
	CreateTextNode(data string) Text

	Body() Element

	// ActiveElement returns the focused element, or Body when nothing is.
	ActiveElement() Element

	// Contains reports whether n is attached to this document.
	Contains(n Node) bool
}

// Direction is a text selection direction.
type Direction string

const (
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
	DirectionNone     Direction = "none"
)

// Selection is a text selection range inside a text control.
type Selection struct {
	Start     int
	End       int
	Direction Direction
}

// Selectable is implemented by elements that support text selection.
type Selectable interface {
	Element
	// SelectionRange returns the current range; ok is false when the
	// element does not currently support selection.
	SelectionRange() (sel Selection, ok bool)
	SetSelectionRange(sel Selection)
}

// ValueElement is implemented by form controls with a live value that is
// distinct from their "value" attribute.
type ValueElement interface {
	Element
	Value() string
	SetValue(v string)
}

// Event is delivered to listeners.
type Event struct {
	Type   string
	Target Element
	// Value carries the target's live value for input-like events.
	Value string
}

// Listener handles an event.
type Listener func(ev Event)

// IsTextControl reports whether tag is an element with a live value and
// text selection.
func IsTextControl(tag string) bool {
	switch tag {
	case "input", "textarea":
		return true
	}
	return false
}

// IsValueControl reports whether tag has a live value property.
func IsValueControl(tag string) bool {
	return IsTextControl(tag) || tag == "select"
}
