package dom

import (
	"bufio"
	"io"
	"strings"

	"github.com/wavetermdev/htmltoken"

	"github.com/cv-dev/cv/internal/errors"
)

// voidElements cannot have children and have no end tag.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// rawTextElements hold text that is written without escaping.
var rawTextElements = map[string]bool{
	"script": true,
	"style":  true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// ParseHTML parses a full page into a new MemoryDocument. html, head and
// body tags map onto the document's own elements; anything outside them
// lands in the body.
func ParseHTML(r io.Reader) (*MemoryDocument, error) {
	doc := NewDocument()
	b := &treeBuilder{doc: doc, stack: []Element{doc.body}, page: doc}
	if err := b.parse(r); err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseFragment parses markup into detached nodes owned by doc.
func ParseFragment(doc Document, r io.Reader) ([]Node, error) {
	holder := doc.CreateElement("template")
	b := &treeBuilder{doc: doc, stack: []Element{holder}}
	if err := b.parse(r); err != nil {
		return nil, err
	}
	nodes := holder.ChildNodes()
	for _, n := range nodes {
		n.Remove()
	}
	return nodes, nil
}

// ParseFragmentString is ParseFragment over a string.
func ParseFragmentString(doc Document, markup string) ([]Node, error) {
	return ParseFragment(doc, strings.NewReader(markup))
}

type treeBuilder struct {
	doc   Document
	stack []Element
	// page is set when building a whole document.
	page *MemoryDocument
	// inBody is set between the body start and end tags of a page.
	inBody bool
}

func (b *treeBuilder) top() Element {
	return b.stack[len(b.stack)-1]
}

func (b *treeBuilder) parse(r io.Reader) error {
	z := htmltoken.NewTokenizer(r)
	for {
		tt := z.Next()
		tok := z.Token()
		switch tt {
		case htmltoken.ErrorToken:
			if z.Err() == io.EOF {
				return nil
			}
			return errors.New("CV401").Wrap(z.Err())
		case htmltoken.StartTagToken, htmltoken.SelfClosingTagToken:
			if b.pageTag(tok) {
				continue
			}
			el := b.doc.CreateElement(tok.Data)
			for _, a := range tok.Attr {
				el.SetAttribute(a.Key, a.Val)
			}
			b.top().Append(el)
			if tt == htmltoken.StartTagToken && !IsVoidElement(el.TagName()) {
				b.stack = append(b.stack, el)
			}
		case htmltoken.EndTagToken:
			b.closeTag(strings.ToLower(tok.Data))
		case htmltoken.TextToken:
			if tok.Data == "" {
				continue
			}
			if b.page != nil && strings.TrimSpace(tok.Data) == "" && b.outsideBody() {
				continue
			}
			b.top().Append(b.doc.CreateTextNode(tok.Data))
		case htmltoken.CommentToken, htmltoken.DoctypeToken:
			continue
		}
	}
}

// pageTag handles html, head and body when building a whole page.
func (b *treeBuilder) pageTag(tok htmltoken.Token) bool {
	if b.page == nil {
		return false
	}
	var target *memElement
	switch strings.ToLower(tok.Data) {
	case "html":
		target = b.page.root
	case "head":
		target = b.page.head
		b.stack = []Element{b.page.body, b.page.head}
	case "body":
		target = b.page.body
		b.stack = []Element{b.page.body}
		b.inBody = true
	default:
		return false
	}
	for _, a := range tok.Attr {
		target.SetAttribute(a.Key, a.Val)
	}
	return true
}

// outsideBody reports whether the builder sits in the head or between the
// page-level tags, where whitespace is not content.
func (b *treeBuilder) outsideBody() bool {
	top := b.top()
	return top.IsSameNode(b.page.head) || (top.IsSameNode(b.page.body) && !b.inBody)
}

// closeTag pops the stack up to the nearest open element named tag.
// Stray end tags are ignored.
func (b *treeBuilder) closeTag(tag string) {
	if b.page != nil {
		switch tag {
		case "head":
			b.stack = []Element{b.page.body}
			return
		case "body", "html":
			b.inBody = false
			return
		}
	}
	for i := len(b.stack) - 1; i > 0; i-- {
		if b.stack[i].TagName() == tag {
			b.stack = b.stack[:i]
			return
		}
	}
}

// OuterHTML serializes n and its subtree.
func OuterHTML(n Node) string {
	var sb strings.Builder
	_ = WriteHTML(&sb, n)
	return sb.String()
}

// InnerHTML serializes the children of el.
func InnerHTML(el Element) string {
	var sb strings.Builder
	for _, c := range el.ChildNodes() {
		_ = WriteHTML(&sb, c)
	}
	return sb.String()
}

// WriteHTML serializes n to w. Attributes keep document order and empty
// values are written as bare names.
func WriteHTML(w io.Writer, n Node) error {
	bw := bufio.NewWriter(w)
	if err := writeNode(bw, n, false); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteDocument serializes a whole MemoryDocument with a doctype.
func WriteDocument(w io.Writer, doc *MemoryDocument) error {
	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}
	return WriteHTML(w, doc.root)
}

func writeNode(w *bufio.Writer, n Node, raw bool) error {
	switch v := n.(type) {
	case Element:
		return writeElement(w, v)
	case Text:
		data := v.Data()
		if !raw {
			data = escapeText(data)
		}
		_, err := w.WriteString(data)
		return err
	}
	return nil
}

func writeElement(w *bufio.Writer, el Element) error {
	tag := el.TagName()

	w.WriteByte('<')
	w.WriteString(tag)
	for _, a := range el.Attributes() {
		w.WriteByte(' ')
		w.WriteString(a.Name)
		if a.Value != "" {
			w.WriteString(`="`)
			w.WriteString(escapeAttr(a.Value))
			w.WriteByte('"')
		}
	}
	if _, err := w.WriteString(">"); err != nil {
		return err
	}

	if IsVoidElement(tag) {
		return nil
	}

	raw := rawTextElements[tag]
	for _, c := range el.ChildNodes() {
		if err := writeNode(w, c, raw); err != nil {
			return err
		}
	}

	w.WriteString("</")
	w.WriteString(tag)
	_, err := w.WriteString(">")
	return err
}
