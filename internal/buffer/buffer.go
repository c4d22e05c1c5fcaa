package buffer

import (
	"github.com/riverfjs/richhtml-go/internal/types"
	"github.com/riverfjs/richhtml-go/internal/util"
)

// SpannableBuilder is mutable text, stored as UTF-16 code units, with spans layered over it.
//
// Every edit moves the spans it touches according to their SpanFlags, so a span always refers
// to the same characters it was set on. Offsets outside the text are clamped instead of
// panicking. A SpannableBuilder is not safe for concurrent use.
//
// Appending at the end only visits spans with a boundary there, so building text front to
// back costs time linear in its length.
type SpannableBuilder struct {
	text  []uint16
	spans []*types.Span // in the order set, nil where a span was removed
	index map[*types.Span]int
	holes int
	tail  map[*types.Span]struct{} // spans with a boundary at len(text)
}

// New creates an empty SpannableBuilder.
func New() *SpannableBuilder {
	return &SpannableBuilder{
		text:  make([]uint16, 0, 64),
		spans: make([]*types.Span, 0),
		index: make(map[*types.Span]int),
		tail:  make(map[*types.Span]struct{}),
	}
}

// FromString creates a SpannableBuilder holding text and no spans.
func FromString(text string) *SpannableBuilder {
	b := New()
	b.text = append(b.text, util.EncodeUTF16(text)...)
	return b
}

// Len returns the length in UTF-16 code units.
func (b *SpannableBuilder) Len() int {
	return len(b.text)
}

// String returns the accumulated text.
func (b *SpannableBuilder) String() string {
	return util.DecodeUTF16(b.text)
}

// Substring returns the text of [start, end).
func (b *SpannableBuilder) Substring(start, end int) string {
	start, end = b.clampRange(start, end)
	return util.DecodeUTF16(b.text[start:end])
}

// CharAt returns the code unit at index i, or 0 when i is out of range.
func (b *SpannableBuilder) CharAt(i int) uint16 {
	if i < 0 || i >= len(b.text) {
		return 0
	}
	return b.text[i]
}

// TrailingNewlineCount counts trailing newline characters in the buffer.
func (b *SpannableBuilder) TrailingNewlineCount() int {
	count := 0
	for i := len(b.text) - 1; i >= 0 && b.text[i] == '\n'; i-- {
		count++
	}
	return count
}

// Append adds text at the end.
func (b *SpannableBuilder) Append(text string) {
	b.appendUnits(util.EncodeUTF16(text))
}

// Insert adds text at the given offset.
func (b *SpannableBuilder) Insert(where int, text string) {
	b.change(where, where, util.EncodeUTF16(text))
}

// ReplaceString replaces [start, end) with plain text.
func (b *SpannableBuilder) ReplaceString(start, end int, text string) {
	b.change(start, end, util.EncodeUTF16(text))
}

// Replace replaces [start, end) with the contents of src, including its spans.
// The spans of src are transferred, not copied: src must not be used afterwards.
func (b *SpannableBuilder) Replace(start, end int, src *SpannableBuilder) {
	if src == nil {
		b.Delete(start, end)
		return
	}
	start, _ = b.clampRange(start, end)
	b.change(start, end, src.text)
	for _, sp := range src.spans {
		if sp == nil {
			continue
		}
		sp.Start += start
		sp.End += start
		b.attach(sp)
	}
	src.text = nil
	src.spans = nil
	src.index = nil
	src.tail = nil
}

// Delete removes [start, end).
func (b *SpannableBuilder) Delete(start, end int) {
	b.change(start, end, nil)
}

// SetSpan attaches sp to [start, end). Setting a span that is already attached moves it.
func (b *SpannableBuilder) SetSpan(sp *types.Span, start, end int, flags types.SpanFlags) {
	if sp == nil {
		return
	}
	start, end = b.clampRange(start, end)
	sp.Start = start
	sp.End = end
	sp.Flags = flags
	if _, ok := b.index[sp]; !ok {
		b.attach(sp)
		return
	}
	b.track(sp)
}

// RemoveSpan detaches sp. Removing a span that is not attached does nothing.
func (b *SpannableBuilder) RemoveSpan(sp *types.Span) {
	i, ok := b.index[sp]
	if !ok {
		return
	}
	b.spans[i] = nil
	b.holes++
	delete(b.index, sp)
	delete(b.tail, sp)
	if b.holes > 32 && b.holes > len(b.spans)/2 {
		b.compact()
	}
}

// SpanStart returns the start of sp, or -1 when sp is not attached.
func (b *SpannableBuilder) SpanStart(sp *types.Span) int {
	if _, ok := b.index[sp]; !ok {
		return -1
	}
	return sp.Start
}

// SpanEnd returns the end of sp, or -1 when sp is not attached.
func (b *SpannableBuilder) SpanEnd(sp *types.Span) int {
	if _, ok := b.index[sp]; !ok {
		return -1
	}
	return sp.End
}

// Spans returns all attached spans in the order they were set.
func (b *SpannableBuilder) Spans() []*types.Span {
	result := make([]*types.Span, 0, len(b.index))
	for _, sp := range b.spans {
		if sp != nil {
			result = append(result, sp)
		}
	}
	return result
}

// GetSpans returns spans of the given kind touching [start, end]. SpanNone matches every kind.
func (b *SpannableBuilder) GetSpans(start, end int, kind types.SpanKind) []*types.Span {
	result := make([]*types.Span, 0)
	for _, sp := range b.spans {
		if sp == nil || (kind != types.SpanNone && sp.Kind != kind) {
			continue
		}
		if sp.Start > end || sp.End < start {
			continue
		}
		result = append(result, sp)
	}
	return result
}

// SpansOf returns all spans of the given kind.
func (b *SpannableBuilder) SpansOf(kind types.SpanKind) []*types.Span {
	return b.GetSpans(0, len(b.text), kind)
}

// appendUnits adds units at the end. Only spans with a boundary at the old end can move.
func (b *SpannableBuilder) appendUnits(units []uint16) {
	n := len(units)
	if n == 0 {
		return
	}
	at := len(b.text)
	b.text = append(b.text, units...)
	for sp := range b.tail {
		sp.Start = movePoint(sp.Start, at, at, n, sp.Flags.StartInclusive(), true)
		sp.End = movePoint(sp.End, at, at, n, sp.Flags.EndInclusive(), false)
		if sp.End < sp.Start {
			sp.End = sp.Start
		}
		if sp.Start != len(b.text) && sp.End != len(b.text) {
			delete(b.tail, sp)
		}
	}
}

// change replaces [start, end) with units and moves every span accordingly.
//
// When text is removed, boundaries inside the removed range collapse to start and spans lying
// entirely within it are dropped, except marks, which stay as zero-length spans at start.
func (b *SpannableBuilder) change(start, end int, units []uint16) {
	start, end = b.clampRange(start, end)
	if start == end && end == len(b.text) {
		b.appendUnits(units)
		return
	}
	n := len(units)

	text := make([]uint16, 0, len(b.text)-(end-start)+n)
	text = append(text, b.text[:start]...)
	text = append(text, units...)
	text = append(text, b.text[end:]...)
	b.text = text

	kept := make([]*types.Span, 0, len(b.index))
	for _, sp := range b.spans {
		if sp == nil {
			continue
		}
		removing := end > start
		touched := sp.Start <= end && sp.End >= start
		contained := sp.Start >= start && sp.End <= end
		if removing && contained && sp.Kind != types.SpanMark {
			continue
		}
		sp.Start = movePoint(sp.Start, start, end, n, sp.Flags.StartInclusive(), true)
		sp.End = movePoint(sp.End, start, end, n, sp.Flags.EndInclusive(), false)
		if sp.End < sp.Start {
			sp.End = sp.Start
		}
		// Empty exclusive spans disappear once an edit has collapsed them.
		if removing && touched && sp.Start == sp.End && sp.Flags == types.ExclusiveExclusive {
			continue
		}
		kept = append(kept, sp)
	}
	b.rebuild(kept)
}

// movePoint computes where a span boundary p ends up after [start, end) became n units long.
func movePoint(p, start, end, n int, inclusive, isStart bool) int {
	switch {
	case p < start:
		return p
	case p > end:
		return p + n - (end - start)
	case start == end:
		// pure insertion at p
		if isStart == inclusive {
			return p
		}
		return p + n
	case p == start:
		if !isStart && inclusive {
			return start + n
		}
		return start
	case p == end:
		if isStart && inclusive {
			return start
		}
		return start + n
	default:
		// inside removed text
		return start
	}
}

// attach adds sp, which must not be attached yet, after all other spans.
func (b *SpannableBuilder) attach(sp *types.Span) {
	b.index[sp] = len(b.spans)
	b.spans = append(b.spans, sp)
	b.track(sp)
}

// track keeps the tail set in step with sp's boundaries.
func (b *SpannableBuilder) track(sp *types.Span) {
	if sp.Start == len(b.text) || sp.End == len(b.text) {
		b.tail[sp] = struct{}{}
	} else {
		delete(b.tail, sp)
	}
}

func (b *SpannableBuilder) compact() {
	kept := make([]*types.Span, 0, len(b.index))
	for _, sp := range b.spans {
		if sp != nil {
			kept = append(kept, sp)
		}
	}
	b.rebuild(kept)
}

// rebuild replaces the span list with spans, which must hold no holes.
func (b *SpannableBuilder) rebuild(spans []*types.Span) {
	b.spans = spans
	b.holes = 0
	b.index = make(map[*types.Span]int, len(spans))
	b.tail = make(map[*types.Span]struct{})
	for i, sp := range spans {
		b.index[sp] = i
		b.track(sp)
	}
}

func (b *SpannableBuilder) clampRange(start, end int) (int, int) {
	start = util.Clamp(start, 0, len(b.text))
	end = util.Clamp(end, start, len(b.text))
	return start, end
}
