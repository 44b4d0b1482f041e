package notion

import (
	"fmt"
	"strings"
)

type TextContent struct {
	Content string `json:"content"`
}

type RichText struct {
	Type      string       `json:"type,omitempty"`
	Text      *TextContent `json:"text,omitempty"`
	PlainText string       `json:"plain_text,omitempty"`
}

type SelectOption struct {
	Name string `json:"name"`
}

// PropertyValue is the subset of a page property value this client reads.
type PropertyValue struct {
	Type        string         `json:"type"`
	Title       []RichText     `json:"title,omitempty"`
	RichText    []RichText     `json:"rich_text,omitempty"`
	URL         *string        `json:"url,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
}

// PlainText concatenates the plain text of a title or rich_text value.
func (p PropertyValue) PlainText() string {
	var b strings.Builder
	for _, t := range p.Title {
		b.WriteString(t.PlainText)
	}
	for _, t := range p.RichText {
		b.WriteString(t.PlainText)
	}
	return b.String()
}

func (p PropertyValue) URLValue() string {
	if p.URL == nil {
		return ""
	}
	return *p.URL
}

func (p PropertyValue) Names() []string {
	out := make([]string, 0, len(p.MultiSelect))
	for _, o := range p.MultiSelect {
		out = append(out, o.Name)
	}
	return out
}

type Page struct {
	Object     string                   `json:"object"`
	ID         string                   `json:"id"`
	Properties map[string]PropertyValue `json:"properties"`
}

type TextCondition struct {
	IsEmpty    bool `json:"is_empty,omitempty"`
	IsNotEmpty bool `json:"is_not_empty,omitempty"`
}

// Filter is a database query filter, either a compound (And) or a single
// property condition.
type Filter struct {
	And      []Filter       `json:"and,omitempty"`
	Property string         `json:"property,omitempty"`
	URL      *TextCondition `json:"url,omitempty"`
	RichText *TextCondition `json:"rich_text,omitempty"`
}

type QueryRequest struct {
	Filter      *Filter `json:"filter,omitempty"`
	StartCursor string  `json:"start_cursor,omitempty"`
	PageSize    int     `json:"page_size,omitempty"`
}

type QueryResponse struct {
	Results    []Page  `json:"results"`
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

func (r QueryResponse) Cursor() string {
	if r.NextCursor == nil {
		return ""
	}
	return *r.NextCursor
}

// APIError is the error object returned by the API for non 2xx responses.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion: %d %s: %s", e.Status, e.Code, e.Message)
}

// TextObjects splits content into rich text objects of at most
// MaxTextLength characters each.
func TextObjects(content string) []RichText {
	runes := []rune(content)
	out := []RichText{}
	for len(runes) > 0 {
		n := min(len(runes), MaxTextLength)
		out = append(out, RichText{
			Type: "text",
			Text: &TextContent{Content: string(runes[:n])},
		})
		runes = runes[n:]
	}
	return out
}

// NamedOptions turns names into multi_select options, it never returns nil
// so that an empty list clears the property.
func NamedOptions(names []string) []SelectOption {
	out := make([]SelectOption, 0, len(names))
	for _, n := range names {
		out = append(out, SelectOption{Name: n})
	}
	return out
}
