package richhtml

import (
	"strconv"
	"strings"
	"testing"

	"github.com/riverfjs/richhtml-go/internal/types"
)

// findSpan 查找指定类型的第一个 span
func findSpan(text *Spannable, kind SpanKind) *Span {
	spans := text.SpansOf(kind)
	if len(spans) == 0 {
		return nil
	}
	return spans[0]
}

// TestFromHTML_Bold 测试简单的粗体
func TestFromHTML_Bold(t *testing.T) {
	text := FromHTML("<b>hello</b>", nil, nil)
	if text.String() != "hello" {
		t.Fatalf("text = %q", text.String())
	}
	sp := findSpan(text, types.SpanBold)
	if sp == nil {
		t.Fatal("no bold span")
	}
	if sp.Start != 0 || sp.Len() != 5 {
		t.Errorf("bold = [%d,%d), want [0,5)", sp.Start, sp.End)
	}
}

// TestFromHTML_NoRewrite 测试 FromHTML 不做自定义图片标签改写和裁剪
func TestFromHTML_NoRewrite(t *testing.T) {
	getter := &fakeGetter{factory: &fakeFactory{}}
	markup := `<p>x</p><oppia-noninteractive-image filepath-with-value="a.png"></oppia-noninteractive-image>`
	text := FromHTML(markup, getter, nil)
	if got := text.String(); got != "x\n\n" {
		t.Errorf("text = %q, want %q", got, "x\n\n")
	}
	if len(getter.factory.requests) != 0 {
		t.Errorf("image requested without rewrite: %v", getter.factory.requests)
	}
}

func TestFromHTML_Handlers(t *testing.T) {
	handlers := map[string]TagHandler{
		SkillReviewTag: &ConceptCardTagHandler{},
	}
	text := FromHTML(`see <oppia-noninteractive-skillreview text-with-value="card"></oppia-noninteractive-skillreview>`, nil, handlers)
	if got := text.String(); got != "see card" {
		t.Errorf("text = %q", got)
	}
	if findSpan(text, types.SpanClickable) == nil {
		t.Error("no clickable span")
	}
}

// TestFromHTML_UTF16Offsets 测试偏移量以 UTF-16 code unit 计算
func TestFromHTML_UTF16Offsets(t *testing.T) {
	text := FromHTML("📌 <i>你好</i>", nil, nil)
	sp := findSpan(text, types.SpanItalic)
	if sp == nil {
		t.Fatal("no italic span")
	}
	if sp.Start != 3 || sp.End != 5 {
		t.Errorf("italic = [%d,%d), want [3,5)", sp.Start, sp.End)
	}
	if got := SpanText(text, sp); got != "你好" {
		t.Errorf("italic covers %q", got)
	}
}

func TestFromMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		kind     SpanKind
		covered  string
	}{
		{"bold", "**bold** text", types.SpanBold, "bold"},
		{"italic", "*it* text", types.SpanItalic, "it"},
		{"link", "[site](https://example.org)", types.SpanURL, "site"},
		{"code", "run `go` now", types.SpanMonospace, "go"},
		{"heading", "# Title", types.SpanRelativeSize, "Title\n\n"},
		{"list", "- one\n- two", types.SpanBullet, "one\n\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := FromMarkdown(tt.markdown, nil, nil)
			sp := findSpan(text, tt.kind)
			if sp == nil {
				t.Fatalf("no %v span in %q", tt.kind, text.String())
			}
			if got := SpanText(text, sp); got != tt.covered {
				t.Errorf("%v covers %q, want %q", tt.kind, got, tt.covered)
			}
		})
	}
}

func TestFromMarkdown_CustomTag(t *testing.T) {
	handlers := map[string]TagHandler{SkillReviewTag: &ConceptCardTagHandler{}}
	text := FromMarkdown(`Try <oppia-noninteractive-skillreview skill_id-with-value="s" text-with-value="this"></oppia-noninteractive-skillreview>.`, nil, handlers)
	sp := findSpan(text, types.SpanClickable)
	if sp == nil || SpanText(text, sp) != "this" || sp.Ref != "s" {
		t.Errorf("clickable = %+v in %q", sp, text.String())
	}
}

// BenchmarkFromHTML 解析耗时应随输入长度线性增长
func BenchmarkFromHTML(b *testing.B) {
	for _, n := range []int{1000, 10000, 40000} {
		markup := strings.Repeat("<p>word <b>bold</b> text</p>", n)
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				FromHTML(markup, nil, nil)
			}
		})
	}
}
