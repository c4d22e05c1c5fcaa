package richhtml

import (
	"github.com/riverfjs/richhtml-go/internal/buffer"
	"github.com/riverfjs/richhtml-go/internal/latex"
	"github.com/riverfjs/richhtml-go/internal/types"
)

// MathContentAttribute carries the math tag's {raw_latex, svg_filename} object.
const MathContentAttribute = "math_content-with-value"

// MathTagHandler replaces a math tag with a Unicode rendering of its LaTeX.
// The span keeps the raw LaTeX in Source and the pre-rendered SVG filename in URL.
type MathTagHandler struct{}

// HandleTag implements TagHandler.
func (MathTagHandler) HandleTag(attrs Attributes, openIndex, closeIndex int, output *Spannable) {
	content := latex.ParseMathContent(attrs.Value(MathContentAttribute))
	run := buffer.FromString(latex.Convert(content.RawLatex))
	if run.Len() > 0 {
		run.SetSpan(&types.Span{
			Kind:   types.SpanMath,
			Source: content.RawLatex,
			URL:    content.SvgFilename,
		}, 0, run.Len(), types.ExclusiveExclusive)
	}
	output.Replace(openIndex, closeIndex, run)
}
