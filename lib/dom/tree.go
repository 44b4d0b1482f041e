package dom

import "strings"

// Elem is an in-memory Node, used to build documents by hand.
type Elem struct {
	Name  string
	Attrs map[string]string
	Kids  []*Elem
	Data  string

	text   bool
	parent *Elem
}

// E builds an element node. attrs may be nil.
func E(name string, attrs map[string]string, kids ...*Elem) *Elem {
	e := &Elem{Name: name, Attrs: attrs, Kids: kids}
	for _, k := range kids {
		k.parent = e
	}
	return e
}

// T builds a text node.
func T(data string) *Elem {
	return &Elem{Data: data, text: true}
}

// Doc builds a document root.
func Doc(kids ...*Elem) *Elem {
	return E("#document", nil, kids...)
}

func (e *Elem) Tag() string {
	if e.text {
		return ""
	}
	return e.Name
}

func (e *Elem) IsText() bool {
	return e.text
}

func (e *Elem) Attr(key string) (string, bool) {
	v, ok := e.Attrs[key]
	return v, ok
}

func (e *Elem) Text() string {
	if e.text {
		return e.Data
	}
	var b strings.Builder
	for _, k := range e.Kids {
		b.WriteString(k.Text())
	}
	return b.String()
}

func (e *Elem) Contents() []Node {
	out := make([]Node, len(e.Kids))
	for i, k := range e.Kids {
		out[i] = k
	}
	return out
}

func (e *Elem) Find(m Matcher) []Node {
	var out []Node
	var walk func(*Elem)
	walk = func(cur *Elem) {
		for _, k := range cur.Kids {
			if m.Matches(k) {
				out = append(out, k)
			}
			walk(k)
		}
	}
	walk(e)
	return out
}

func (e *Elem) Children(m Matcher) []Node {
	var out []Node
	for _, k := range e.Kids {
		if m.Matches(k) {
			out = append(out, k)
		}
	}
	return out
}

func (e *Elem) NextSibling() Node {
	if e.parent == nil {
		return nil
	}
	seen := false
	for _, k := range e.parent.Kids {
		if k == e {
			seen = true
			continue
		}
		if seen && !k.text {
			return k
		}
	}
	return nil
}
