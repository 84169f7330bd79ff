package module

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	cverrors "github.com/cv-dev/cv/internal/errors"
	"github.com/cv-dev/cv/pkg/dom"
	"github.com/cv-dev/cv/pkg/vdom"
)

const (
	templateTag     = "template"
	slotTag         = "slot"
	exportAttribute = "export"
	slotAttribute   = "slot"
	slotNameAttr    = "name"
)

// MarkupLoader loads HTML component modules from a Source. Parsed modules
// are cached per specifier; concurrent loads of the same specifier share
// one read.
type MarkupLoader struct {
	source Source

	mu    sync.Mutex
	cache map[string]*markupEntry
}

type markupEntry struct {
	done chan struct{}
	mod  vdom.Namespace
	err  error
}

// NewMarkupLoader creates a loader reading from source.
func NewMarkupLoader(source Source) *MarkupLoader {
	return &MarkupLoader{
		source: source,
		cache:  make(map[string]*markupEntry),
	}
}

// Load implements vdom.Loader.
func (l *MarkupLoader) Load(ctx context.Context, spec string) (vdom.Module, error) {
	l.mu.Lock()
	entry, ok := l.cache[spec]
	if !ok {
		entry = &markupEntry{done: make(chan struct{})}
		l.cache[spec] = entry
		l.mu.Unlock()

		entry.mod, entry.err = l.read(ctx, spec)
		close(entry.done)

		// Failures are not cached.
		if entry.err != nil {
			l.mu.Lock()
			delete(l.cache, spec)
			l.mu.Unlock()
		}
	} else {
		l.mu.Unlock()
		select {
		case <-entry.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if entry.err != nil {
		return nil, entry.err
	}
	return entry.mod, nil
}

// Forget drops spec from the cache so the next Load reads it again.
func (l *MarkupLoader) Forget(spec string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.cache, spec)
}

func (l *MarkupLoader) read(ctx context.Context, spec string) (vdom.Namespace, error) {
	rc, err := l.source.Open(ctx, spec)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return ParseModule(rc, spec)
}

// ParseModule parses a markup module into its exports.
func ParseModule(r io.Reader, spec string) (vdom.Namespace, error) {
	store := dom.NewDocument()
	nodes, err := dom.ParseFragment(store, r)
	if err != nil {
		return nil, err
	}

	ns := vdom.Namespace{}
	for _, n := range nodes {
		el, ok := n.(dom.Element)
		if !ok || el.TagName() != templateTag {
			continue
		}
		name, _ := el.GetAttribute(exportAttribute)
		if name == "" {
			name = vdom.DefaultExport
		}
		if _, dup := ns[name]; dup {
			return nil, cverrors.New("CV203").WithDetailf("module %q exports %q twice", spec, name)
		}
		t, err := newTemplate(el)
		if err != nil {
			return nil, cverrors.New("CV203").WithDetailf("module %q export %q: %v", spec, name, err)
		}
		ns[name] = t.component
	}

	if len(ns) == 0 {
		return nil, cverrors.New("CV203").WithDetailf("module %q has no template elements", spec)
	}
	return ns, nil
}

// template is a parsed template element: its single root element.
type template struct {
	root dom.Element
}

func newTemplate(el dom.Element) (*template, error) {
	var root dom.Element
	for _, c := range el.ChildNodes() {
		switch v := c.(type) {
		case dom.Element:
			if root != nil {
				return nil, fmt.Errorf("more than one root element")
			}
			root = v
		case dom.Text:
			if strings.TrimSpace(v.Data()) != "" {
				return nil, fmt.Errorf("text outside the root element")
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("empty template")
	}
	return &template{root: root}, nil
}

// component instantiates the template for one call.
func (t *template) component(args vdom.ComponentArgs) *vdom.Node {
	e := args.Engine
	slots := distribute(args.Children)

	props := vdom.Props{}
	for _, a := range t.root.Attributes() {
		props[a.Name] = a.Value
	}
	for name, v := range args.Attributes {
		if name == "class" {
			if base, ok := props["class"].(string); ok && base != "" {
				v = base + " " + fmt.Sprint(v)
			}
		}
		props[name] = v
	}
	for name, l := range args.Events {
		props["on"+name] = l
	}

	return e.H(t.root.TagName(), props, t.children(e, t.root, slots)...)
}

// children converts the children of el, filling slots.
func (t *template) children(e *vdom.Engine, el dom.Element, slots map[string][]any) []any {
	var out []any
	for _, c := range el.ChildNodes() {
		switch v := c.(type) {
		case dom.Text:
			out = append(out, v.Data())
		case dom.Element:
			if v.TagName() == slotTag {
				name, _ := v.GetAttribute(slotNameAttr)
				if filled := slots[name]; len(filled) > 0 {
					out = append(out, filled...)
				} else {
					out = append(out, t.children(e, v, slots)...)
				}
				continue
			}
			props := vdom.Props{}
			for _, a := range v.Attributes() {
				props[a.Name] = a.Value
			}
			out = append(out, e.H(v.TagName(), props, t.children(e, v, slots)...))
		}
	}
	return out
}

// distribute groups caller children by slot name. Elements carrying a slot
// attribute go to that named slot; everything else goes to the default
// slot, keyed by "". Whitespace-only text is dropped.
func distribute(children []any) map[string][]any {
	slots := map[string][]any{}
	for _, c := range children {
		name := ""
		switch v := c.(type) {
		case dom.Element:
			if s, ok := v.GetAttribute(slotAttribute); ok {
				name = s
			}
		case dom.Text:
			if strings.TrimSpace(v.Data()) == "" {
				continue
			}
		case string:
			if strings.TrimSpace(v) == "" {
				continue
			}
		}
		slots[name] = append(slots[name], c)
	}
	return slots
}
