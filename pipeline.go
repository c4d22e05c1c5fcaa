package richhtml

import (
	"github.com/riverfjs/richhtml-go/internal/types"
)

// ReplaceBulletSpans 将所有列表圆点替换为使用 style 绘制的自定义圆点，范围不变
func ReplaceBulletSpans(text *Spannable, style BulletStyle) {
	for _, sp := range text.SpansOf(types.SpanBullet) {
		start, end := sp.Start, sp.End
		text.RemoveSpan(sp)
		bullet := style
		text.SetSpan(&types.Span{
			Kind:   types.SpanCustomBullet,
			Bullet: &bullet,
		}, start, end, types.InclusiveExclusive)
	}
}

// TrimSpannable 裁剪首尾换行
//
// A single leading newline is removed. If what remains ends with a newline, the last two
// code units are removed, which also drops the character before a lone trailing newline.
// Content already rendered this way depends on that, so it is kept.
func TrimSpannable(text *Spannable) *Spannable {
	if text.Len() > 0 && text.CharAt(0) == '\n' {
		text.Delete(0, 1)
	}
	if n := text.Len(); n > 0 && text.CharAt(n-1) == '\n' {
		text.Delete(max(n-2, 0), n)
	}
	return text
}
