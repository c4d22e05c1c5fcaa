package converter

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/riverfjs/richhtml-go/internal/buffer"
	"github.com/riverfjs/richhtml-go/internal/types"
	"github.com/riverfjs/richhtml-go/internal/util"
)

// blockMargin is the number of newlines every block element keeps around itself.
const blockMargin = 2

var inlineStyles = map[string]types.SpanKind{
	"b":      types.SpanBold,
	"strong": types.SpanBold,
	"i":      types.SpanItalic,
	"em":     types.SpanItalic,
	"cite":   types.SpanItalic,
	"dfn":    types.SpanItalic,
	"u":      types.SpanUnderline,
	"ins":    types.SpanUnderline,
	"s":      types.SpanStrikethrough,
	"strike": types.SpanStrikethrough,
	"del":    types.SpanStrikethrough,
	"sup":    types.SpanSuperscript,
	"sub":    types.SpanSubscript,
	"tt":     types.SpanMonospace,
	"code":   types.SpanMonospace,
}

var relativeSizes = map[string]float64{
	"big":   1.25,
	"small": 0.8,
}

// wrappers carry no styling of their own and are skipped silently.
var wrappers = map[string]bool{
	"html": true,
	"head": true,
	"body": true,
	"span": true,
	"font": true,
}

// EventWalker consumes markup events in document order and builds the styled buffer.
type EventWalker struct {
	buf      *buffer.SpannableBuilder
	images   types.ImageGetter
	registry Registry
	config   *types.RenderConfig
	log      *zap.Logger

	stack []*TagScope
	done  bool
}

// NewEventWalker 创建新的 EventWalker
func NewEventWalker(images types.ImageGetter, registry Registry, config *types.RenderConfig, log *zap.Logger) *EventWalker {
	if config == nil {
		config = types.DefaultRenderConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &EventWalker{
		buf:      buffer.New(),
		images:   images,
		registry: registry,
		config:   config,
		log:      log,
		stack:    make([]*TagScope, 0),
	}
}

// State reports where the walker is: scanning, inside a registered custom tag, or done.
func (w *EventWalker) State() State {
	if w.done {
		return StateDone
	}
	for _, scope := range w.stack {
		if scope.Custom() {
			return StateInsideCustomTag
		}
	}
	return StateScanning
}

// Result returns the buffer built so far.
func (w *EventWalker) Result() *buffer.SpannableBuilder {
	return w.buf
}

// StartTag handles an opening tag.
func (w *EventWalker) StartTag(name string, attrs types.Attributes) {
	if w.done {
		return
	}
	if h, ok := w.registry.Lookup(name); ok {
		w.startCustom(name, attrs, h)
		return
	}

	if kind, ok := inlineStyles[name]; ok {
		w.pushScope(&TagScope{Tag: name, Kind: kind})
		return
	}
	if scale, ok := relativeSizes[name]; ok {
		w.pushScope(&TagScope{Tag: name, Kind: types.SpanRelativeSize, Scale: scale})
		return
	}

	switch name {
	case "br":
		w.buf.Append("\n")
	case "img":
		w.onImage(attrs)
	case "a":
		w.pushScope(&TagScope{Tag: name, Kind: types.SpanURL, URL: attrs.Value("href")})
	case "p", "div", "ul", "ol":
		w.startBlock(&TagScope{Tag: name})
	case "li":
		w.startBlock(&TagScope{Tag: name, Kind: types.SpanBullet})
	case "blockquote":
		w.startBlock(&TagScope{Tag: name, Kind: types.SpanQuote})
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level, _ := strconv.Atoi(name[1:])
		w.startBlock(&TagScope{
			Tag:   name,
			Kind:  types.SpanRelativeSize,
			Scale: w.config.HeadingScale(level),
			Level: level,
		})
	default:
		if !wrappers[name] {
			w.log.Debug("Dropping unsupported tag", zap.String("tag", name))
		}
	}
}

// EndTag handles a closing tag. Closing tags without a matching open tag are ignored.
func (w *EventWalker) EndTag(name string) {
	if w.done {
		return
	}
	if _, ok := w.registry.Lookup(name); ok {
		w.endCustom(name)
		return
	}
	switch name {
	case "br", "img":
		return
	}
	if i := w.findScope(name, false); i >= 0 {
		w.finalize(w.removeScope(i))
		return
	}
	if !wrappers[name] {
		w.log.Debug("Ignoring unmatched closing tag", zap.String("tag", name))
	}
}

// SelfClosingTag handles <tag/>. Custom tags get an empty content range.
func (w *EventWalker) SelfClosingTag(name string, attrs types.Attributes) {
	w.StartTag(name, attrs)
	switch name {
	case "br", "img":
		return
	}
	w.EndTag(name)
}

// Text handles character data. Entities must already be decoded.
func (w *EventWalker) Text(text string) {
	if w.done || text == "" {
		return
	}
	units := util.EncodeUTF16(text)
	out := make([]uint16, 0, len(units))
	for _, c := range units {
		if !util.IsCollapsibleSpace(c) {
			out = append(out, c)
			continue
		}
		var pred uint16
		switch {
		case len(out) > 0:
			pred = out[len(out)-1]
		case w.buf.Len() > 0:
			pred = w.buf.CharAt(w.buf.Len() - 1)
		default:
			pred = '\n'
		}
		if pred != ' ' && pred != '\n' {
			out = append(out, ' ')
		}
	}
	if len(out) > 0 {
		w.buf.Append(util.DecodeUTF16(out))
	}
}

// Finish closes everything still open at end of input, innermost first.
func (w *EventWalker) Finish() {
	if w.done {
		return
	}
	for len(w.stack) > 0 {
		scope := w.stack[len(w.stack)-1]
		w.log.Debug("Closing unterminated tag at end of input", zap.String("tag", scope.Tag))
		if scope.Custom() {
			w.endCustom(scope.Tag)
		} else {
			w.finalize(w.removeScope(len(w.stack) - 1))
		}
	}
	w.done = true
}

// --- Custom tags ---

func (w *EventWalker) startCustom(name string, attrs types.Attributes, h TagHandler) {
	w.pushScope(&TagScope{Tag: name, Attrs: attrs, Handler: h})
}

func (w *EventWalker) endCustom(name string) {
	i := w.findScope(name, true)
	if i < 0 {
		w.log.Debug("Ignoring unmatched custom closing tag", zap.String("tag", name))
		return
	}
	scope := w.removeScope(i)
	openIndex := scope.Mark.Start
	w.buf.RemoveSpan(scope.Mark)
	closeIndex := w.buf.Len()
	scope.Handler.HandleTag(scope.Attrs, openIndex, closeIndex, w.buf)
}

// --- Images ---

func (w *EventWalker) onImage(attrs types.Attributes) {
	src := attrs.Value(ImageSourceAttribute)
	var d types.Drawable
	if w.images != nil {
		d = w.images.GetDrawable(src)
	}
	start := w.buf.Len()
	w.buf.Append(string(util.ObjectReplacement))
	w.buf.SetSpan(&types.Span{
		Kind:     types.SpanImage,
		Source:   src,
		Drawable: d,
	}, start, w.buf.Len(), types.ExclusiveExclusive)
}

// --- Blocks ---

func (w *EventWalker) startBlock(scope *TagScope) {
	scope.Margin = blockMargin
	w.appendNewlines(blockMargin)
	w.pushScope(scope)
}

// appendNewlines makes the buffer end with at least n newlines. An empty buffer stays empty.
func (w *EventWalker) appendNewlines(n int) {
	if w.buf.Len() == 0 {
		return
	}
	for i := w.buf.TrailingNewlineCount(); i < n; i++ {
		w.buf.Append("\n")
	}
}

// --- Scope helpers ---

func (w *EventWalker) pushScope(scope *TagScope) {
	scope.Mark = &types.Span{Kind: types.SpanMark, Tag: scope.Tag}
	w.buf.SetSpan(scope.Mark, w.buf.Len(), w.buf.Len(), types.InclusiveExclusive)
	w.stack = append(w.stack, scope)
}

// findScope searches from the top of the stack for an open scope named tag.
func (w *EventWalker) findScope(tag string, custom bool) int {
	for i := len(w.stack) - 1; i >= 0; i-- {
		if w.stack[i].Tag == tag && w.stack[i].Custom() == custom {
			return i
		}
	}
	return -1
}

func (w *EventWalker) removeScope(i int) *TagScope {
	scope := w.stack[i]
	w.stack = append(w.stack[:i], w.stack[i+1:]...)
	return scope
}

func (w *EventWalker) finalize(scope *TagScope) {
	start := scope.Mark.Start
	w.buf.RemoveSpan(scope.Mark)
	if scope.Margin > 0 {
		w.appendNewlines(scope.Margin)
	}
	end := w.buf.Len()
	if scope.Kind == types.SpanNone || end <= start {
		return
	}

	switch scope.Kind {
	case types.SpanURL:
		if scope.URL == "" {
			return
		}
		w.setSpan(&types.Span{Kind: types.SpanURL, URL: scope.URL}, start, end)
	case types.SpanRelativeSize:
		w.setSpan(&types.Span{Kind: types.SpanRelativeSize, Scale: scope.Scale}, start, end)
		if scope.Level > 0 {
			w.setSpan(&types.Span{Kind: types.SpanBold}, start, end)
		}
	default:
		w.setSpan(&types.Span{Kind: scope.Kind}, start, end)
	}
}

func (w *EventWalker) setSpan(sp *types.Span, start, end int) {
	w.buf.SetSpan(sp, start, end, types.ExclusiveExclusive)
}
