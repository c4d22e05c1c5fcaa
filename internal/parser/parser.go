package parser

import (
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/riverfjs/richhtml-go/internal/buffer"
	"github.com/riverfjs/richhtml-go/internal/converter"
	"github.com/riverfjs/richhtml-go/internal/types"
)

// rawTextElements are tokenized as raw text; none of their content reaches the output.
var rawTextElements = map[string]bool{
	"iframe":    true,
	"noembed":   true,
	"noframes":  true,
	"noscript":  true,
	"plaintext": true,
	"script":    true,
	"style":     true,
	"textarea":  true,
	"title":     true,
	"xmp":       true,
}

// Parse tokenizes markup and walks it into a styled buffer.
//
// Markup is expected to have gone through converter.Rewrite already. Parsing never fails:
// malformed input produces a best-effort buffer.
func Parse(markup string, images types.ImageGetter, registry converter.Registry, config *types.RenderConfig, log *zap.Logger) *buffer.SpannableBuilder {
	walker := converter.NewEventWalker(images, registry, config, log)
	walk(strings.NewReader(markup), walker, log)
	return walker.Result()
}

// walk streams tokens from r into walker until end of input, then finishes the walker.
func walk(r io.Reader, walker *converter.EventWalker, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	z := html.NewTokenizer(r)
	skipping := ""

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != nil && err != io.EOF {
				log.Debug("Markup read stopped early", zap.Error(err))
			}
			walker.Finish()
			return

		case html.TextToken:
			if skipping == "" {
				walker.Text(string(z.Text()))
			}

		case html.StartTagToken:
			name, attrs := readTag(z)
			if skipping != "" {
				continue
			}
			if rawTextElements[name] {
				skipping = name
				continue
			}
			walker.StartTag(name, attrs)

		case html.SelfClosingTagToken:
			name, attrs := readTag(z)
			if skipping == "" && !rawTextElements[name] {
				walker.SelfClosingTag(name, attrs)
			}

		case html.EndTagToken:
			tn, _ := z.TagName()
			name := string(tn)
			if skipping != "" {
				if name == skipping {
					skipping = ""
				}
				continue
			}
			walker.EndTag(name)
		}
		// comments and doctypes carry no content
	}
}

// readTag returns the lower-cased tag name and its attributes with entities decoded.
func readTag(z *html.Tokenizer) (string, types.Attributes) {
	tn, hasAttr := z.TagName()
	name := string(tn)
	var attrs types.Attributes
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		attrs = append(attrs, types.Attribute{Key: string(key), Val: string(val)})
	}
	return name, attrs
}
