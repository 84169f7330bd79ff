package dom

import (
	"strings"
	"unicode/utf8"
)

// MemoryDocument is an in-memory Document. It is not safe for concurrent
// use; callers serialize access the same way a browser's single UI thread
// does.
type MemoryDocument struct {
	root   *memElement
	head   *memElement
	body   *memElement
	active Element
}

// NewDocument returns an empty document with html, head and body elements.
func NewDocument() *MemoryDocument {
	d := &MemoryDocument{}
	d.root = d.newElement("html")
	d.head = d.newElement("head")
	d.body = d.newElement("body")
	d.root.Append(d.head, d.body)
	return d
}

// DocumentElement returns the root html element.
func (d *MemoryDocument) DocumentElement() Element { return d.root }

// Head returns the head element.
func (d *MemoryDocument) Head() Element { return d.head }

// Body returns the body element.
func (d *MemoryDocument) Body() Element { return d.body }

// CreateElement creates a detached element. Form controls get live value
// and selection state.
func (d *MemoryDocument) CreateElement(tag string) Element {
	tag = strings.ToLower(tag)
	if tag == "" {
		tag = "div"
	}
	if IsValueControl(tag) {
		c := &memControl{memElement: &memElement{tag: tag}}
		c.doc = d
		c.self = c
		return c
	}
	return d.newElement(tag)
}

func (d *MemoryDocument) newElement(tag string) *memElement {
	e := &memElement{tag: tag}
	e.doc = d
	e.self = e
	return e
}

// CreateTextNode creates a detached text node.
func (d *MemoryDocument) CreateTextNode(data string) Text {
	t := &memText{data: data}
	t.doc = d
	t.self = t
	return t
}

// ActiveElement returns the focused element if it is still attached,
// otherwise the body.
func (d *MemoryDocument) ActiveElement() Element {
	if d.active != nil && d.Contains(d.active) {
		return d.active
	}
	return d.body
}

// Blur clears focus.
func (d *MemoryDocument) Blur() {
	d.active = nil
}

// Contains reports whether n is attached under the document root.
func (d *MemoryDocument) Contains(n Node) bool {
	if n == nil {
		return false
	}
	var top Node = n
	for {
		parent := top.ParentElement()
		if parent == nil {
			break
		}
		top = parent
	}
	return top.IsSameNode(d.root)
}

// memNode holds the state shared by elements and text nodes.
type memNode struct {
	doc    *MemoryDocument
	parent *memElement
	// self is the outer node value, so shared methods can find themselves
	// in their parent's child list.
	self Node
}

func (n *memNode) ParentElement() Element {
	if n.parent == nil {
		return nil
	}
	return n.parent.self.(Element)
}

func (n *memNode) IsSameNode(other Node) bool {
	if other == nil {
		return false
	}
	return n.self == other
}

func (n *memNode) ReplaceWith(r Node) {
	parent := n.parent
	if parent == nil || r == nil || n.self.IsSameNode(r) {
		return
	}
	detach(r)
	i := parent.indexOf(n.self)
	if i < 0 {
		return
	}
	parent.children[i] = r
	setParent(r, parent)
	n.parent = nil
}

func (n *memNode) Remove() {
	if n.parent == nil {
		return
	}
	n.parent.removeChild(n.self)
}

// memElement is an element of a MemoryDocument.
type memElement struct {
	memNode

	tag       string
	attrs     []Attr
	children  []Node
	listeners map[string][]Listener
}

func (e *memElement) NodeType() NodeType { return ElementNode }

func (e *memElement) TagName() string { return e.tag }

func (e *memElement) TextContent() string {
	var b strings.Builder
	for _, c := range e.children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

func (e *memElement) GetAttribute(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range e.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func (e *memElement) HasAttribute(name string) bool {
	_, ok := e.GetAttribute(name)
	return ok
}

func (e *memElement) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	for i, a := range e.attrs {
		if a.Name == name {
			e.attrs[i].Value = value
			return
		}
	}
	e.attrs = append(e.attrs, Attr{Name: name, Value: value})
}

func (e *memElement) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	for i, a := range e.attrs {
		if a.Name == name {
			e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
			return
		}
	}
}

func (e *memElement) ToggleAttribute(name string, force bool) {
	if !force {
		e.RemoveAttribute(name)
		return
	}
	if !e.HasAttribute(name) {
		e.SetAttribute(name, "")
	}
}

func (e *memElement) Attributes() []Attr {
	out := make([]Attr, len(e.attrs))
	copy(out, e.attrs)
	return out
}

func (e *memElement) Append(children ...Node) {
	for _, c := range children {
		if c == nil {
			continue
		}
		detach(c)
		e.children = append(e.children, c)
		setParent(c, e)
	}
}

func (e *memElement) ChildNodes() []Node {
	out := make([]Node, len(e.children))
	copy(out, e.children)
	return out
}

func (e *memElement) Children() []Element {
	var out []Element
	for _, c := range e.children {
		if el, ok := c.(Element); ok {
			out = append(out, el)
		}
	}
	return out
}

func (e *memElement) PreviousElementSibling() Element {
	if e.parent == nil {
		return nil
	}
	i := e.parent.indexOf(e.self)
	for j := i - 1; j >= 0; j-- {
		if el, ok := e.parent.children[j].(Element); ok {
			return el
		}
	}
	return nil
}

func (e *memElement) AddEventListener(event string, l Listener) {
	if l == nil {
		return
	}
	if e.listeners == nil {
		e.listeners = make(map[string][]Listener)
	}
	event = strings.ToLower(event)
	e.listeners[event] = append(e.listeners[event], l)
}

func (e *memElement) DispatchEvent(ev Event) {
	if ev.Target == nil {
		ev.Target = e.self.(Element)
	}
	for _, l := range e.listeners[strings.ToLower(ev.Type)] {
		l(ev)
	}
}

// ListenerCount returns the number of listeners registered for event.
func (e *memElement) ListenerCount(event string) int {
	return len(e.listeners[strings.ToLower(event)])
}

func (e *memElement) Focus() {
	if e.doc == nil || !e.doc.Contains(e.self) {
		return
	}
	e.doc.active = e.self.(Element)
}

func (e *memElement) indexOf(n Node) int {
	for i, c := range e.children {
		if c.IsSameNode(n) {
			return i
		}
	}
	return -1
}

func (e *memElement) removeChild(n Node) {
	i := e.indexOf(n)
	if i < 0 {
		return
	}
	e.children = append(e.children[:i], e.children[i+1:]...)
	setParent(n, nil)
}

// memControl is an input, textarea or select element.
type memControl struct {
	*memElement

	value string
	dirty bool
	sel   Selection
}

func (c *memControl) Value() string {
	if c.dirty {
		return c.value
	}
	if c.tag == "textarea" {
		return c.TextContent()
	}
	v, _ := c.GetAttribute("value")
	return v
}

// SetValue sets the live value and moves the caret to the end.
func (c *memControl) SetValue(v string) {
	c.value = v
	c.dirty = true
	n := utf8.RuneCountInString(v)
	c.sel = Selection{Start: n, End: n, Direction: DirectionNone}
}

func (c *memControl) supportsSelection() bool {
	if c.tag == "textarea" {
		return true
	}
	if c.tag != "input" {
		return false
	}
	typ, _ := c.GetAttribute("type")
	switch strings.ToLower(typ) {
	case "", "text", "search", "url", "tel", "password":
		return true
	}
	return false
}

func (c *memControl) SelectionRange() (Selection, bool) {
	if !c.supportsSelection() {
		return Selection{}, false
	}
	sel := c.sel
	if sel.Direction == "" {
		sel.Direction = DirectionNone
	}
	return sel, true
}

func (c *memControl) SetSelectionRange(sel Selection) {
	if !c.supportsSelection() {
		return
	}
	n := utf8.RuneCountInString(c.Value())
	sel.Start = clamp(sel.Start, 0, n)
	sel.End = clamp(sel.End, sel.Start, n)
	if sel.Direction == "" {
		sel.Direction = DirectionNone
	}
	c.sel = sel
}

func (c *memControl) DispatchEvent(ev Event) {
	if ev.Target == nil {
		ev.Target = c
	}
	if ev.Value == "" {
		ev.Value = c.Value()
	}
	c.memElement.DispatchEvent(ev)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// memText is a text node of a MemoryDocument.
type memText struct {
	memNode
	data string
}

func (t *memText) NodeType() NodeType  { return TextNode }
func (t *memText) TextContent() string { return t.data }
func (t *memText) Data() string        { return t.data }
func (t *memText) SetData(data string) { t.data = data }

// base returns the shared state of a node created by a MemoryDocument.
func base(n Node) *memNode {
	switch v := n.(type) {
	case *memElement:
		return &v.memNode
	case *memControl:
		return &v.memNode
	case *memText:
		return &v.memNode
	}
	return nil
}

func detach(n Node) {
	if b := base(n); b != nil && b.parent != nil {
		b.parent.removeChild(n)
	}
}

func setParent(n Node, parent *memElement) {
	b := base(n)
	if b == nil {
		return
	}
	b.parent = parent
	if parent != nil && parent.doc != nil && b.doc != parent.doc {
		adopt(n, parent.doc)
	}
}

// adopt moves n and its subtree into doc.
func adopt(n Node, doc *MemoryDocument) {
	b := base(n)
	if b == nil {
		return
	}
	b.doc = doc
	if el, ok := n.(Element); ok {
		for _, c := range el.ChildNodes() {
			adopt(c, doc)
		}
	}
}

var (
	_ Document     = (*MemoryDocument)(nil)
	_ Element      = (*memElement)(nil)
	_ Selectable   = (*memControl)(nil)
	_ ValueElement = (*memControl)(nil)
	_ Text         = (*memText)(nil)
)
