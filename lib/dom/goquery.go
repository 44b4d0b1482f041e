package dom

import (
	"io"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Parse reads an HTML document into a Node backed by goquery.
func Parse(r io.Reader) (Node, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return FromSelection(doc.Selection), nil
}

// FromSelection wraps the first node of a goquery selection.
func FromSelection(sel *goquery.Selection) Node {
	if sel == nil || sel.Length() == 0 {
		return nil
	}
	return selectionNode{sel: sel.First()}
}

type selectionNode struct {
	sel *goquery.Selection
}

func wrapEach(sel *goquery.Selection) []Node {
	out := make([]Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, selectionNode{sel: s})
	})
	return out
}

func (n selectionNode) node() *html.Node {
	return n.sel.Nodes[0]
}

func (n selectionNode) Tag() string {
	switch n.node().Type {
	case html.ElementNode:
		return n.node().Data
	case html.DocumentNode:
		return "#document"
	}
	return ""
}

func (n selectionNode) IsText() bool {
	return n.node().Type == html.TextNode
}

func (n selectionNode) Attr(key string) (string, bool) {
	return n.sel.Attr(key)
}

func (n selectionNode) Text() string {
	if n.IsText() {
		return n.node().Data
	}
	return n.sel.Text()
}

func (n selectionNode) Contents() []Node {
	var out []Node
	n.sel.Contents().Each(func(_ int, s *goquery.Selection) {
		switch s.Nodes[0].Type {
		case html.TextNode, html.ElementNode:
			out = append(out, selectionNode{sel: s})
		}
	})
	return out
}

func (n selectionNode) Find(m Matcher) []Node {
	return wrapEach(n.sel.Find(m.Selector()))
}

func (n selectionNode) Children(m Matcher) []Node {
	return wrapEach(n.sel.ChildrenFiltered(m.Selector()))
}

func (n selectionNode) NextSibling() Node {
	next := n.sel.Next()
	if next.Length() == 0 {
		return nil
	}
	return selectionNode{sel: next}
}
