package richhtml

import (
	"github.com/riverfjs/richhtml-go/internal/buffer"
	"github.com/riverfjs/richhtml-go/internal/types"
)

// Skill review tag attributes.
const (
	SkillIDAttribute = "skill_id-with-value"
	TextAttribute    = "text-with-value"
)

// ConceptCardTagHandler replaces a skill review tag with its label, made clickable.
// Clicking reports the skill id to Listener; with no listener the click does nothing.
type ConceptCardTagHandler struct {
	Listener CustomTagActionListener
}

// HandleTag implements TagHandler.
func (h *ConceptCardTagHandler) HandleTag(attrs Attributes, openIndex, closeIndex int, output *Spannable) {
	skillID := attrs.Value(SkillIDAttribute)
	label := attrs.Value(TextAttribute)
	listener := h.Listener

	run := buffer.FromString(label)
	run.SetSpan(&types.Span{
		Kind: types.SpanClickable,
		Ref:  skillID,
		OnClick: func(view Surface) {
			if listener != nil {
				listener.OnConceptCardLinkClicked(view, skillID)
			}
		},
	}, 0, run.Len(), types.InclusiveExclusive)

	output.Replace(openIndex, closeIndex, run)
}
