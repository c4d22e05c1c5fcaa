package converter

import (
	"strings"
)

const (
	// CustomImageTag is the content generator's element for embedded images.
	CustomImageTag = "oppia-noninteractive-image"
	// ImageTag is the standard element CustomImageTag is rewritten to.
	ImageTag = "img"
	// CustomImageFilePathAttribute holds the image file name on CustomImageTag.
	CustomImageFilePathAttribute = "filepath-with-value"
	// ImageSourceAttribute is the standard attribute CustomImageFilePathAttribute is rewritten to.
	ImageSourceAttribute = "src"

	// escapedQuote wraps attribute values emitted by the content generator.
	escapedQuote = "&amp;quot;"
)

// rewriteRules are applied in order. All of them are literal, global and case-sensitive.
var rewriteRules = []struct {
	old string
	new string
}{
	{"\n\t", ""},
	{"\n\n", ""},
	{CustomImageTag, ImageTag},
	{CustomImageFilePathAttribute, ImageSourceAttribute},
	{escapedQuote, ""},
}

// Rewrite normalizes raw content markup before it is parsed.
//
// 移除内容生成器留下的空白伪影，并将自定义图片标签/属性替换为标准 img/src
func Rewrite(markup string) string {
	for _, rule := range rewriteRules {
		if strings.Contains(markup, rule.old) {
			markup = strings.ReplaceAll(markup, rule.old, rule.new)
		}
	}
	return markup
}
