// Package richhtml 将课程 HTML 内容转换为带样式 span 的文本
//
// 输入是课程编辑器产出的 HTML，其中夹带自定义标签（图片、技能复习卡片、数学公式）。
// 输出是 Spannable：UTF-16 文本加上一组 span 标注，可直接交给支持富文本的视图显示。
//
// 处理流程：
//   - Rewrite: 将自定义图片标签改写为标准 <img>，清理编辑器遗留的空白与转义
//   - Parse: 单遍扫描 HTML，生成文本与 span；已注册的自定义标签交给 TagHandler
//   - Post-process: 列表圆点替换为可配置样式，首尾换行裁剪
//
// 示例：
//
//	factory := richhtml.NewFactory(imagesrc.NewFactory(cfg.Images, nil, log))
//	parser := factory.Create("bucket", "exploration", "exp1", true,
//	    richhtml.WithTagActionListener(listener))
//	text := parser.ParseHTML(html, view, true)
//	for _, sp := range text.Spans() {
//	    // 应用到视图
//	}
package richhtml

import (
	"go.uber.org/zap"

	"github.com/riverfjs/richhtml-go/internal/buffer"
	"github.com/riverfjs/richhtml-go/internal/converter"
	"github.com/riverfjs/richhtml-go/internal/parser"
	"github.com/riverfjs/richhtml-go/internal/types"
)

// 导出类型别名
type (
	Spannable          = buffer.SpannableBuilder
	Span               = types.Span
	SpanKind           = types.SpanKind
	SpanFlags          = types.SpanFlags
	Surface            = types.Surface
	Drawable           = types.Drawable
	ImageGetter        = types.ImageGetter
	ImageGetterFactory = types.ImageGetterFactory
	Attributes         = types.Attributes
	TagHandler         = converter.TagHandler
	TagHandlerFunc     = converter.TagHandlerFunc
)

// Custom tags handled out of the box.
const (
	SkillReviewTag = "oppia-noninteractive-skillreview"
	MathTag        = "oppia-noninteractive-math"
)

// CustomTagActionListener is notified when the reader interacts with a custom tag.
type CustomTagActionListener interface {
	OnConceptCardLinkClicked(view Surface, skillID string)
}

// Factory creates parsers bound to one content entity.
type Factory struct {
	images ImageGetterFactory
	opts   []Option
}

// NewFactory returns a factory whose parsers resolve images through images.
// Options given here apply to every parser; Create may override them.
func NewFactory(images ImageGetterFactory, opts ...Option) *Factory {
	if images == nil {
		panic("richhtml: NewFactory called with nil ImageGetterFactory")
	}
	return &Factory{images: images, opts: opts}
}

// Create returns a parser for content of the given entity. Images are requested with the
// same namespace, entity type, entity id and alignment.
func (f *Factory) Create(resourceNamespace, entityType, entityID string, imageCenterAlign bool, opts ...Option) *Parser {
	all := make([]Option, 0, len(f.opts)+len(opts))
	all = append(all, f.opts...)
	all = append(all, opts...)
	options := applyOptions(all...)

	registry := converter.Registry{
		SkillReviewTag: &ConceptCardTagHandler{Listener: options.Listener},
		MathTag:        MathTagHandler{},
	}
	for name, h := range options.Handlers {
		registry[name] = h
	}

	return &Parser{
		images:      f.images,
		namespace:   resourceNamespace,
		entityType:  entityType,
		entityID:    entityID,
		centerAlign: imageCenterAlign,
		registry:    registry,
		config:      options.Config,
		log:         options.Logger,
	}
}

// Parser renders content of one entity. It is read-only after creation and may be
// used from several goroutines.
type Parser struct {
	images      ImageGetterFactory
	namespace   string
	entityType  string
	entityID    string
	centerAlign bool

	registry converter.Registry
	config   *RenderConfig
	log      *zap.Logger
}

// ParseHTML 将课程 HTML 转换为 Spannable
//
// 参数：
//   - raw: 编辑器产出的 HTML
//   - surface: 显示目标，传给图片 getter；supportsLinks 为 true 时启用链接点击
//   - supportsLinks: 是否启用链接
//
// 返回值总是非 nil；格式错误的输入得到尽力而为的结果。
func (p *Parser) ParseHTML(raw string, surface Surface, supportsLinks bool) *Spannable {
	markup := converter.Rewrite(raw)
	if supportsLinks && surface != nil {
		surface.SetLinksClickable(true)
	}
	getter := p.images.Create(surface, p.namespace, p.entityType, p.entityID, p.centerAlign)

	text := parser.Parse(markup, getter, p.registry, p.config, p.log)
	ReplaceBulletSpans(text, p.config.Bullet)
	return TrimSpannable(text)
}

// ParseMarkdown renders Markdown to HTML first and then behaves like ParseHTML.
// Custom tags written as raw HTML inside the Markdown are kept.
func (p *Parser) ParseMarkdown(raw string, surface Surface, supportsLinks bool) *Spannable {
	markup, err := parser.MarkdownToHTML(raw)
	if err != nil {
		p.log.Warn("Markdown rendering failed, parsing source as HTML", zap.Error(err))
		markup = raw
	}
	return p.ParseHTML(markup, surface, supportsLinks)
}

// Registered reports whether a handler is registered for tag.
func (p *Parser) Registered(tag string) bool {
	_, ok := p.registry.Lookup(tag)
	return ok
}
