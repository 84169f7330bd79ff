package vdom

import (
	"slices"

	"github.com/cv-dev/cv/pkg/dom"
)

// keyAttribute identifies an element among its siblings across renders.
const keyAttribute = "key"

// focusInfo records where focus was inside a node about to be replaced.
type focusInfo struct {
	// self is set when the replaced node itself was focused.
	self bool

	// path holds element-sibling indices from the replaced node down to
	// the focused element, outermost first.
	path []int

	// key is the focused element's key attribute, if non-empty.
	key string

	tag string

	selection    dom.Selection
	hasSelection bool
}

// captureFocus returns where focus is relative to root, or nil if focus is
// not on root or inside it.
func captureFocus(doc dom.Document, root dom.Node) *focusInfo {
	active := doc.ActiveElement()
	body := doc.Body()
	if active == nil || (body != nil && active.IsSameNode(body)) {
		return nil
	}

	info := &focusInfo{tag: active.TagName()}
	if s, ok := active.(dom.Selectable); ok {
		info.selection, info.hasSelection = s.SelectionRange()
	}

	if active.IsSameNode(root) {
		info.self = true
		return info
	}

	if key, ok := active.GetAttribute(keyAttribute); ok && key != "" {
		info.key = key
	}

	var current dom.Element = active
	for !current.IsSameNode(root) {
		if body != nil && current.IsSameNode(body) {
			return nil
		}
		info.path = append(info.path, siblingIndex(current))
		current = current.ParentElement()
		if current == nil {
			return nil
		}
	}
	slices.Reverse(info.path)

	return info
}

// siblingIndex counts the element siblings before el.
func siblingIndex(el dom.Element) int {
	i := 0
	for prev := el.PreviousElementSibling(); prev != nil; prev = prev.PreviousElementSibling() {
		i++
	}
	return i
}

// restoreFocus focuses the element in root matching info and reapplies its
// selection.
func restoreFocus(root dom.Element, info *focusInfo) FocusOutcome {
	target := root
	outcome := FocusSelf

	if !info.self {
		outcome = FocusPath
		for i, idx := range info.path {
			children := target.Children()

			if i == len(info.path)-1 && info.key != "" {
				if keyed := findKeyed(children, info.key); keyed != nil {
					target = keyed
					outcome = FocusKey
					break
				}
			}

			if idx >= len(children) {
				return FocusLost
			}
			target = children[idx]
		}
	}

	target.Focus()
	if s, ok := target.(dom.Selectable); ok && info.hasSelection {
		s.SetSelectionRange(info.selection)
	}
	return outcome
}

func findKeyed(children []dom.Element, key string) dom.Element {
	for _, c := range children {
		if v, ok := c.GetAttribute(keyAttribute); ok && v == key {
			return c
		}
	}
	return nil
}
