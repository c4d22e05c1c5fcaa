package converter

import (
	"github.com/riverfjs/richhtml-go/internal/buffer"
	"github.com/riverfjs/richhtml-go/internal/types"
)

// TagHandler renders one custom tag.
//
// HandleTag receives the tag's attributes and the range [openIndex, closeIndex) its content
// occupies in output (empty for self-closing tags). It may edit output freely but must not keep
// a reference to it after returning.
type TagHandler interface {
	HandleTag(attrs types.Attributes, openIndex, closeIndex int, output *buffer.SpannableBuilder)
}

// Registry maps custom tag names to the handlers that render them.
// It is built once and only read afterwards.
type Registry map[string]TagHandler

// Lookup returns the handler registered for tag.
func (r Registry) Lookup(tag string) (TagHandler, bool) {
	if r == nil {
		return nil, false
	}
	h, ok := r[tag]
	return h, ok && h != nil
}

// TagHandlerFunc adapts a function to TagHandler.
type TagHandlerFunc func(attrs types.Attributes, openIndex, closeIndex int, output *buffer.SpannableBuilder)

// HandleTag calls f.
func (f TagHandlerFunc) HandleTag(attrs types.Attributes, openIndex, closeIndex int, output *buffer.SpannableBuilder) {
	f(attrs, openIndex, closeIndex, output)
}

// State is where the walker is in the document.
type State int

const (
	StateScanning State = iota
	StateInsideCustomTag
	StateDone
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateScanning:
		return "scanning"
	case StateInsideCustomTag:
		return "inside_custom_tag"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// TagScope tracks an element that has been opened but not yet closed.
//
// The start offset lives in a zero-length marker span attached to the buffer, so edits made by
// custom tag handlers before the element closes move it along with the text.
type TagScope struct {
	Tag    string
	Kind   types.SpanKind // span emitted on close, SpanNone for plain blocks
	Mark   *types.Span
	Margin int // newlines guaranteed on close, 0 for inline elements
	URL    string
	Scale  float64
	Level  int // heading level

	// custom tags only
	Attrs   types.Attributes
	Handler TagHandler
}

// Custom reports whether the scope belongs to a registered custom tag.
func (s *TagScope) Custom() bool {
	return s.Handler != nil
}
