// Package dom is a small structural query layer over HTML trees.
//
// Extraction code is written against Node so that it can run on a goquery
// parsed document (Parse) as well as on hand built trees (E, T, Doc).
package dom

import (
	"fmt"
	"slices"
	"strings"
)

// Matcher selects element nodes. Empty fields match anything.
type Matcher struct {
	Tag   string
	ID    string
	Class string
	// Attr is the attribute key used by AttrEquals and AttrContains, if both
	// are empty the attribute only has to be present.
	Attr         string
	AttrEquals   string
	AttrContains string
}

// Selector renders the matcher as a CSS selector.
func (m Matcher) Selector() string {
	var b strings.Builder
	b.WriteString(m.Tag)
	if m.ID != "" {
		b.WriteString("#")
		b.WriteString(m.ID)
	}
	if m.Class != "" {
		b.WriteString(".")
		b.WriteString(m.Class)
	}
	if m.Attr != "" {
		switch {
		case m.AttrEquals != "":
			fmt.Fprintf(&b, "[%s=%q]", m.Attr, m.AttrEquals)
		case m.AttrContains != "":
			fmt.Fprintf(&b, "[%s*=%q]", m.Attr, m.AttrContains)
		default:
			fmt.Fprintf(&b, "[%s]", m.Attr)
		}
	}
	if b.Len() == 0 {
		return "*"
	}
	return b.String()
}

// Matches reports whether n satisfies the matcher, it agrees with how a CSS engine
// would evaluate Selector().
func (m Matcher) Matches(n Node) bool {
	if n == nil || n.IsText() {
		return false
	}
	if m.Tag != "" && n.Tag() != m.Tag {
		return false
	}
	if m.ID != "" {
		id, _ := n.Attr("id")
		if id != m.ID {
			return false
		}
	}
	if m.Class != "" {
		class, _ := n.Attr("class")
		if !slices.Contains(strings.Fields(class), m.Class) {
			return false
		}
	}
	if m.Attr != "" {
		val, ok := n.Attr(m.Attr)
		if !ok {
			return false
		}
		if m.AttrEquals != "" && val != m.AttrEquals {
			return false
		}
		if m.AttrContains != "" && !strings.Contains(val, m.AttrContains) {
			return false
		}
	}
	return true
}

// Node is a node of a parsed document.
type Node interface {
	// Tag is the lowercase element name, it is empty for text nodes.
	Tag() string
	IsText() bool
	Attr(key string) (string, bool)
	// Text is the concatenated text of the node and all of its descendants.
	Text() string
	// Contents returns every child node, text nodes included.
	Contents() []Node
	// Find returns the descendant elements matching m in document order.
	Find(m Matcher) []Node
	// Children returns the direct child elements matching m.
	Children(m Matcher) []Node
	// NextSibling returns the next element sibling or nil.
	NextSibling() Node
}

// First returns the first descendant of n matching m or nil.
func First(n Node, m Matcher) Node {
	found := n.Find(m)
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

// FindLabel returns the element matching m whose trimmed text is exactly
// `text` and that is followed by an element sibling. Nested matches are tried from the innermost outward, so
// both <dt>label</dt><dd> and <dt><span>label</span></dt><dd> resolve to the
// element in front of the container.
func FindLabel(n Node, m Matcher, text string) Node {
	for _, candidate := range n.Find(m) {
		if strings.TrimSpace(candidate.Text()) != text {
			continue
		}
		chain := []Node{candidate}
	descend:
		for {
			for _, child := range chain[len(chain)-1].Children(m) {
				if strings.TrimSpace(child.Text()) == text {
					chain = append(chain, child)
					continue descend
				}
			}
			break
		}
		for i := len(chain) - 1; i >= 0; i-- {
			if chain[i].NextSibling() != nil {
				return chain[i]
			}
		}
	}
	return nil
}

// TextWithBreaks is like Node.Text but <br> elements become newlines and
// script/style contents are skipped.
func TextWithBreaks(n Node) string {
	var b strings.Builder
	textWithBreaks(n, &b)
	return b.String()
}

func textWithBreaks(n Node, b *strings.Builder) {
	if n.IsText() {
		b.WriteString(n.Text())
		return
	}
	switch n.Tag() {
	case "br":
		b.WriteString("\n")
		return
	case "script", "style":
		return
	}
	for _, child := range n.Contents() {
		textWithBreaks(child, b)
	}
}
