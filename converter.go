package richhtml

import (
	"go.uber.org/zap"

	"github.com/riverfjs/richhtml-go/internal/converter"
	"github.com/riverfjs/richhtml-go/internal/parser"
)

// FromHTML 将 HTML 直接解析为 Spannable
//
// 不做标签改写，也不做圆点替换与裁剪。images 可以为 nil，此时图片只留下占位字符。
// handlers 中的标签按小写名称匹配。
func FromHTML(markup string, images ImageGetter, handlers map[string]TagHandler, opts ...Option) *Spannable {
	options := applyOptions(opts...)
	return parser.Parse(markup, images, converter.Registry(handlers), options.Config, options.Logger)
}

// FromMarkdown 将 Markdown 渲染为 HTML 后交给 FromHTML
func FromMarkdown(markdown string, images ImageGetter, handlers map[string]TagHandler, opts ...Option) *Spannable {
	options := applyOptions(opts...)
	markup, err := parser.MarkdownToHTML(markdown)
	if err != nil {
		options.Logger.Warn("Markdown rendering failed, parsing source as HTML", zap.Error(err))
		markup = markdown
	}
	return parser.Parse(markup, images, converter.Registry(handlers), options.Config, options.Logger)
}
