package latex

import (
	"encoding/json"
	"regexp"
	"strings"
)

// MathContent is the value of a math tag's content attribute.
type MathContent struct {
	RawLatex    string `json:"raw_latex"`
	SvgFilename string `json:"svg_filename"`
}

// unquotedField matches `key: value` inside content whose quotes were stripped upstream.
// Values run up to the next known key or the closing brace.
var unquotedField = regexp.MustCompile(`(raw_latex|svg_filename)"?\s*:\s*"?(.*?)"?\s*(?:,\s*"?(?:raw_latex|svg_filename)|}\s*$|$)`)

// ParseMathContent 解析数学标签内容，兼容引号已被剥离的 JSON
func ParseMathContent(value string) MathContent {
	var mc MathContent
	if err := json.Unmarshal([]byte(value), &mc); err == nil {
		return mc
	}

	for rest := value; ; {
		m := unquotedField.FindStringSubmatchIndex(rest)
		if m == nil {
			break
		}
		key, val := rest[m[2]:m[3]], rest[m[4]:m[5]]
		val = strings.ReplaceAll(val, `\\`, `\`)
		switch key {
		case "raw_latex":
			mc.RawLatex = val
		case "svg_filename":
			mc.SvgFilename = val
		}
		rest = rest[m[5]:]
	}
	return mc
}
