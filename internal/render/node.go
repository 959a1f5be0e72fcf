// Package render turns an AppSchema into a UI node tree and serialises that
// tree to HTML for the builder preview.
package render

import (
	"bytes"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Node is one element of the rendered UI tree.
type Node struct {
	Tag      string
	Kind     string // element type on element roots, "page"/"header" on chrome
	Key      string // element id on element roots
	Class    string
	Attrs    []Attr
	Text     string
	Children []*Node
}

// Attr is an HTML attribute. Order is preserved.
type Attr struct {
	Key string
	Val string
}

func newNode(tag, class string, children ...*Node) *Node {
	return &Node{Tag: tag, Class: class, Children: children}
}

func textNode(tag, class, text string) *Node {
	return &Node{Tag: tag, Class: class, Text: text}
}

func (n *Node) attr(key, val string) *Node {
	n.Attrs = append(n.Attrs, Attr{Key: key, Val: val})
	return n
}

func (n *Node) add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Find returns every node in the subtree rooted at n (n included) for which
// match returns true, in document order.
func (n *Node) Find(match func(*Node) bool) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		if match(cur) {
			out = append(out, cur)
		}
		for _, c := range cur.Children {
			walk(c)
		}
	}
	walk(n)
	return out
}

// TextContent concatenates the text of the subtree in document order.
func (n *Node) TextContent() string {
	var buf bytes.Buffer
	for _, t := range n.Find(func(c *Node) bool { return c.Text != "" }) {
		buf.WriteString(t.Text)
	}
	return buf.String()
}

func (n *Node) toHTML() *html.Node {
	h := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
	}
	if n.Class != "" {
		h.Attr = append(h.Attr, html.Attribute{Key: "class", Val: n.Class})
	}
	if n.Kind != "" {
		h.Attr = append(h.Attr, html.Attribute{Key: "data-kind", Val: n.Kind})
	}
	if n.Key != "" {
		h.Attr = append(h.Attr, html.Attribute{Key: "data-key", Val: n.Key})
	}
	for _, a := range n.Attrs {
		h.Attr = append(h.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}
	if n.Text != "" {
		h.AppendChild(&html.Node{Type: html.TextNode, Data: n.Text})
	}
	for _, c := range n.Children {
		h.AppendChild(c.toHTML())
	}
	return h
}

// WriteHTML serialises the tree rooted at n.
func WriteHTML(w io.Writer, n *Node) error {
	return html.Render(w, n.toHTML())
}

// HTML serialises the tree rooted at n to a string.
func HTML(n *Node) (string, error) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
