package parser

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmparser "github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// StandardOptions goldmark 扩展配置
//
// Raw HTML is passed through so custom content tags written inside Markdown survive.
var StandardOptions = []goldmark.Option{
	goldmark.WithExtensions(
		extension.GFM,
	),
	goldmark.WithParserOptions(
		gmparser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		gmhtml.WithUnsafe(),
	),
}

var markdown = goldmark.New(StandardOptions...)

// MarkdownToHTML renders Markdown into the HTML dialect the walker understands.
func MarkdownToHTML(source string) (string, error) {
	var out bytes.Buffer
	if err := markdown.Convert([]byte(source), &out); err != nil {
		return "", fmt.Errorf("unable to render markdown: %w", err)
	}
	return out.String(), nil
}
