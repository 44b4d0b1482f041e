package cmoa

import (
	"encoding/json"
	"fmt"
	"strings"

	"cmoa-notion-sync/internal/components/telemetry"
	"cmoa-notion-sync/internal/genre"
	"cmoa-notion-sync/lib/dom"
	"cmoa-notion-sync/lib/textutil"
)

const (
	report_extractor_structured_data = "extractor.structured-data"
)

// Result is what could be recovered from one title page.
type Result struct {
	Synopsis string
	Genres   []string
	Magazine string
	Tags     []string
}

type Extractor struct {
	layout  Layout
	phrases []string
	renamer genre.Renamer
	tel     telemetry.API
}

func NewExtractor(layout Layout, phrases []string, renamer genre.Renamer, tel telemetry.API) Extractor {
	return Extractor{
		layout:  layout,
		phrases: phrases,
		renamer: renamer,
		tel:     tel,
	}
}

// Extract never fails, fields that cannot be found are left empty.
func (e Extractor) Extract(doc dom.Node) Result {
	return Result{
		Synopsis: e.synopsis(doc),
		Genres:   e.genres(doc),
		Magazine: e.magazine(doc),
		Tags:     e.tags(doc),
	}
}

func (e Extractor) synopsis(doc dom.Node) string {
	for _, script := range doc.Find(e.layout.StructuredData) {
		description, err := descriptionFromStructuredData(script.Text())
		if err != nil {
			e.tel.ReportWarning(report_extractor_structured_data, err)
			continue
		}
		synopsis := textutil.NormalizeSynopsis(description, e.phrases)
		if synopsis != "" {
			return synopsis
		}
	}

	for _, m := range e.layout.DescriptionContainers {
		var b strings.Builder
		for _, container := range doc.Find(m) {
			b.WriteString(dom.TextWithBreaks(container))
		}
		synopsis := textutil.NormalizeSynopsis(b.String(), e.phrases)
		if synopsis != "" {
			return synopsis
		}
	}

	return ""
}

func descriptionFromStructuredData(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	var payload any
	err := json.Unmarshal([]byte(raw), &payload)
	if err != nil {
		return "", fmt.Errorf("unmarshal json-ld: %w", err)
	}
	return findDescription(payload), nil
}

// findDescription looks through objects, arrays and @graph lists for the
// first non-blank "description".
func findDescription(v any) string {
	switch value := v.(type) {
	case map[string]any:
		description, ok := value["description"].(string)
		if ok && strings.TrimSpace(description) != "" {
			return description
		}
		graph, ok := value["@graph"]
		if ok {
			return findDescription(graph)
		}
	case []any:
		for _, item := range value {
			description := findDescription(item)
			if description != "" {
				return description
			}
		}
	}
	return ""
}

func (e Extractor) genres(doc dom.Node) []string {
	genres := []string{}
	for _, container := range doc.Find(e.layout.GenreContainer) {
		for _, link := range container.Find(e.layout.GenreLink) {
			label := textutil.CleanGenreLabel(link.Text())
			if label == "" {
				continue
			}
			genres = append(genres, e.renamer.Rename(label))
		}
	}
	return textutil.DedupOrdered(genres)
}

func (e Extractor) magazine(doc dom.Node) string {
	for _, crumb := range doc.Find(e.layout.MagazineBreadcrumb) {
		for _, link := range crumb.Children(e.layout.MagazineLink) {
			name := strings.TrimSpace(link.Text())
			if name != "" {
				return name
			}
		}
	}
	for _, line := range doc.Find(e.layout.CategoryLine) {
		for _, link := range line.Find(e.layout.PublisherLink) {
			name := strings.TrimSpace(link.Text())
			if name != "" {
				return name
			}
		}
	}
	return ""
}

func (e Extractor) tags(doc dom.Node) []string {
	tags := []string{}
	label := dom.FindLabel(doc, e.layout.TagLabel, e.layout.TagCaption)
	if label == nil {
		return tags
	}
	container := label.NextSibling()
	for _, link := range container.Find(e.layout.TagLink) {
		tag := strings.TrimSpace(link.Text())
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
	}
	return textutil.DedupOrdered(tags)
}
