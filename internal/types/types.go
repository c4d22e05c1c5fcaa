package types

import (
	"image"
	"time"
)

// SpanKind identifies what a span does to the text it covers.
type SpanKind int

const (
	SpanNone SpanKind = iota
	// SpanMark is a zero-length marker used while a tag is open. Never left in output.
	SpanMark
	SpanBold
	SpanItalic
	SpanUnderline
	SpanStrikethrough
	SpanSuperscript
	SpanSubscript
	SpanMonospace
	SpanRelativeSize
	SpanQuote
	SpanURL
	SpanImage
	SpanBullet
	SpanCustomBullet
	SpanClickable
	SpanMath
)

var spanKindNames = map[SpanKind]string{
	SpanNone:          "none",
	SpanMark:          "mark",
	SpanBold:          "bold",
	SpanItalic:        "italic",
	SpanUnderline:     "underline",
	SpanStrikethrough: "strikethrough",
	SpanSuperscript:   "superscript",
	SpanSubscript:     "subscript",
	SpanMonospace:     "monospace",
	SpanRelativeSize:  "relative_size",
	SpanQuote:         "quote",
	SpanURL:           "url",
	SpanImage:         "image",
	SpanBullet:        "bullet",
	SpanCustomBullet:  "custom_bullet",
	SpanClickable:     "clickable",
	SpanMath:          "math",
}

// String returns the snake_case name used when spans are exported.
func (k SpanKind) String() string {
	if name, ok := spanKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// SpanFlags controls whether text inserted exactly at a span boundary becomes part of the span.
type SpanFlags int

const (
	ExclusiveExclusive SpanFlags = iota
	InclusiveExclusive
	ExclusiveInclusive
	InclusiveInclusive
)

// StartInclusive reports whether insertion at the start point grows the span.
func (f SpanFlags) StartInclusive() bool {
	return f == InclusiveExclusive || f == InclusiveInclusive
}

// EndInclusive reports whether insertion at the end point grows the span.
func (f SpanFlags) EndInclusive() bool {
	return f == ExclusiveInclusive || f == InclusiveInclusive
}

// Span annotates the range [Start, End) of a buffer, in UTF-16 code units.
//
// Only the payload fields relevant to Kind are set.
type Span struct {
	Kind  SpanKind
	Start int
	End   int
	Flags SpanFlags

	URL      string       // SpanURL
	Source   string       // SpanImage (src), SpanMath (raw LaTeX)
	Drawable Drawable     // SpanImage
	Scale    float64      // SpanRelativeSize
	Bullet   *BulletStyle // SpanCustomBullet
	Ref      string       // SpanClickable: identifier handed to OnClick (skill id for concept cards)
	Tag      string       // SpanMark: the element that opened it

	OnClick func(view Surface) // SpanClickable
}

// Click activates a clickable span. A span without a callback does nothing.
func (s *Span) Click(view Surface) {
	if s == nil || s.OnClick == nil {
		return
	}
	s.OnClick(view)
}

// Len returns the number of code units covered by the span.
func (s *Span) Len() int {
	return s.End - s.Start
}

// Attribute is a single name/value pair of a start tag.
type Attribute struct {
	Key string
	Val string
}

// Attributes keeps tag attributes in document order.
type Attributes []Attribute

// Get returns the value of the named attribute and whether it was present.
func (a Attributes) Get(key string) (string, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// Value returns the named attribute or an empty string when it is absent.
func (a Attributes) Value(key string) string {
	v, _ := a.Get(key)
	return v
}

// Surface is the display target for rendered text. Only link handling and sizing are needed here.
type Surface interface {
	// SetLinksClickable enables interactive handling of URL spans.
	SetLinksClickable(enabled bool)
	// Width is the available width in pixels, 0 when unknown.
	Width() int
}

// Drawable is whatever an ImageGetter hands back for an <img>. Bounds may be empty until loaded.
type Drawable interface {
	Source() string
	Bounds() image.Rectangle
}

// ImageGetter resolves image sources found while parsing.
type ImageGetter interface {
	GetDrawable(source string) Drawable
}

// ImageGetterFactory creates an ImageGetter bound to one render request.
type ImageGetterFactory interface {
	Create(surface Surface, resourceNamespace, entityType, entityID string, centerAlign bool) ImageGetter
}

// BulletStyle describes how custom bullets are drawn.
type BulletStyle struct {
	Radius   int    `yaml:"radius" json:"radius"`
	GapWidth int    `yaml:"gap_width" json:"gap_width"`
	Color    string `yaml:"color" json:"color"`
}

// ImageConfig holds settings of the URL image getter.
type ImageConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
	MaxWidth int           `yaml:"max_width"`
}

// RenderConfig 渲染配置
type RenderConfig struct {
	Bullet        BulletStyle `yaml:"bullet"`
	HeadingScales []float64   `yaml:"heading_scales"`
	Images        ImageConfig `yaml:"images"`
}

// HeadingScale returns the relative size for heading level 1..6.
func (c *RenderConfig) HeadingScale(level int) float64 {
	if level < 1 || level > len(c.HeadingScales) {
		return 1
	}
	return c.HeadingScales[level-1]
}

// DefaultRenderConfig 返回默认渲染配置
func DefaultRenderConfig() *RenderConfig {
	return &RenderConfig{
		Bullet: BulletStyle{
			Radius:   6,
			GapWidth: 24,
			Color:    "#000000",
		},
		HeadingScales: []float64{1.5, 1.4, 1.3, 1.2, 1.1, 1},
		Images: ImageConfig{
			BaseURL:  "https://storage.googleapis.com",
			Timeout:  10 * time.Second,
			MaxWidth: 0,
		},
	}
}
