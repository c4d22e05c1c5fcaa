package richhtml

import (
	"sort"

	"github.com/riverfjs/richhtml-go/internal/types"
	"github.com/riverfjs/richhtml-go/internal/util"
)

// Entity is a span flattened for serialization. Offsets are in UTF-16 code units.
type Entity struct {
	Type   string       `json:"type"`
	Offset int          `json:"offset"`
	Length int          `json:"length"`
	URL    string       `json:"url,omitempty"`
	Source string       `json:"source,omitempty"`
	Scale  float64      `json:"scale,omitempty"`
	Ref    string       `json:"ref,omitempty"`
	Bullet *BulletStyle `json:"bullet,omitempty"`
}

// Document is rendered text together with its entities.
type Document struct {
	Text     string   `json:"text"`
	Entities []Entity `json:"entities"`
}

// UTF16Len returns the length of text measured in UTF-16 code units, the unit of every
// span offset.
func UTF16Len(text string) int {
	return util.UTF16Len(text)
}

// SpanText returns the text sp covers, or "" when sp is not attached to text.
func SpanText(text *Spannable, sp *Span) string {
	start, end := text.SpanStart(sp), text.SpanEnd(sp)
	if start < 0 {
		return ""
	}
	return text.Substring(start, end)
}

// Export flattens text into a Document. Entities are ordered by offset, longer first.
func Export(text *Spannable) Document {
	spans := text.Spans()
	entities := make([]Entity, 0, len(spans))
	for _, sp := range spans {
		if sp.Kind == types.SpanMark {
			continue
		}
		entities = append(entities, Entity{
			Type:   sp.Kind.String(),
			Offset: sp.Start,
			Length: sp.Len(),
			URL:    sp.URL,
			Source: sp.Source,
			Scale:  sp.Scale,
			Ref:    sp.Ref,
			Bullet: sp.Bullet,
		})
	}
	sort.SliceStable(entities, func(i, j int) bool {
		if entities[i].Offset != entities[j].Offset {
			return entities[i].Offset < entities[j].Offset
		}
		return entities[i].Length > entities[j].Length
	})
	return Document{Text: text.String(), Entities: entities}
}

// FindEntities returns the entities of doc with the given type.
func (d Document) FindEntities(kind SpanKind) []Entity {
	var out []Entity
	name := kind.String()
	for _, e := range d.Entities {
		if e.Type == name {
			out = append(out, e)
		}
	}
	return out
}
