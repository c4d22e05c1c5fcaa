// Package latex renders the small LaTeX subset used in lesson math as plain Unicode text.
package latex

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Convert 将 LaTeX 转换为 Unicode 文本。未知命令原样保留，不会失败。
func Convert(src string) string {
	c := &converter{src: src}
	return strings.TrimSpace(c.sequence(false))
}

type converter struct {
	src string
	pos int
}

// sequence converts until end of input, or until the closing brace when inGroup.
func (c *converter) sequence(inGroup bool) string {
	var out strings.Builder
	for c.pos < len(c.src) {
		ch := c.src[c.pos]
		switch {
		case ch == '}':
			c.pos++
			if inGroup {
				return out.String()
			}
		case ch == '{':
			c.pos++
			out.WriteString(c.sequence(true))
		case ch == '^' || ch == '_':
			c.pos++
			arg := c.argument()
			if ch == '^' {
				out.WriteString(Superscript(arg))
			} else {
				out.WriteString(Subscript(arg))
			}
		case ch == '\\':
			out.WriteString(c.command())
		case ch == '~':
			c.pos++
			out.WriteByte(' ')
		case isSpace(ch):
			for c.pos < len(c.src) && isSpace(c.src[c.pos]) {
				c.pos++
			}
			if s := out.String(); s != "" && !strings.HasSuffix(s, " ") {
				out.WriteByte(' ')
			}
		default:
			r, n := utf8.DecodeRuneInString(c.src[c.pos:])
			c.pos += n
			out.WriteRune(r)
		}
	}
	return out.String()
}

// argument reads one brace group, one command or one character.
func (c *converter) argument() string {
	for c.pos < len(c.src) && isSpace(c.src[c.pos]) {
		c.pos++
	}
	if c.pos >= len(c.src) {
		return ""
	}
	switch c.src[c.pos] {
	case '{':
		c.pos++
		return c.sequence(true)
	case '\\':
		return c.command()
	}
	r, n := utf8.DecodeRuneInString(c.src[c.pos:])
	c.pos += n
	return string(r)
}

// optional reads a [...] argument if one follows.
func (c *converter) optional() string {
	if c.pos >= len(c.src) || c.src[c.pos] != '[' {
		return ""
	}
	end := strings.IndexByte(c.src[c.pos:], ']')
	if end < 0 {
		return ""
	}
	inner := c.src[c.pos+1 : c.pos+end]
	c.pos += end + 1
	return Convert(inner)
}

// name reads a command name after the backslash: a run of letters or a single character.
func (c *converter) name() string {
	c.pos++ // backslash
	start := c.pos
	for c.pos < len(c.src) && isLetter(c.src[c.pos]) {
		c.pos++
	}
	if c.pos == start && c.pos < len(c.src) {
		_, n := utf8.DecodeRuneInString(c.src[c.pos:])
		c.pos += n
	}
	return c.src[start:c.pos]
}

func (c *converter) command() string {
	name := c.name()
	switch name {
	case "frac", "dfrac", "tfrac":
		num := c.argument()
		return Fraction(num, c.argument())
	case "sqrt":
		index := c.optional()
		return Root(index, c.argument())
	case "text", "textrm", "textbf", "textit", "mathrm", "mathbf", "mathit", "mathsf",
		"operatorname", "mbox", "boxed":
		return c.argument()
	case "mathbb":
		return mapRunes(c.argument(), doubleStruck)
	case "left", "right", "bigl", "bigr", "Bigl", "Bigr", "big", "Big":
		return c.delimiter()
	case "not":
		return negate(c.argument())
	case "binom", "dbinom", "tbinom":
		n := c.argument()
		return "C(" + n + "," + c.argument() + ")"
	case "pmod":
		return " (mod " + c.argument() + ")"
	case "color":
		c.argument()
		return ""
	case "":
		return "\\"
	}
	if mark, ok := combining[name]; ok {
		return combine(c.argument(), mark, name == "bar" || name == "overline")
	}
	if s, ok := symbols[name]; ok {
		return s
	}
	return "\\" + name
}

// delimiter reads what follows \left or \right. "." is the invisible delimiter.
func (c *converter) delimiter() string {
	for c.pos < len(c.src) && isSpace(c.src[c.pos]) {
		c.pos++
	}
	if c.pos >= len(c.src) {
		return ""
	}
	switch c.src[c.pos] {
	case '.':
		c.pos++
		return ""
	case '\\':
		return c.command()
	}
	r, n := utf8.DecodeRuneInString(c.src[c.pos:])
	c.pos += n
	return string(r)
}

// Superscript 生成上标。整体无法映射时退回 ^x 或 ^(...)
func Superscript(text string) string {
	return script(text, superscripts, "^")
}

// Subscript 生成下标。整体无法映射时退回 _x 或 _(...)
func Subscript(text string) string {
	return script(text, subscripts, "_")
}

func script(text string, table map[rune]rune, marker string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if mapped, ok := mapAll(text, table); ok {
		return mapped
	}
	if utf8.RuneCountInString(text) == 1 {
		return marker + text
	}
	return marker + "(" + text + ")"
}

// Fraction renders num/den, using a single character for common fractions.
func Fraction(num, den string) string {
	num, den = strings.TrimSpace(num), strings.TrimSpace(den)
	if num == "" && den == "" {
		return ""
	}
	if f, ok := vulgarFractions[[2]string{num, den}]; ok {
		return f
	}
	return parenthesize(num) + "/" + parenthesize(den)
}

// Root renders the index-th root of radicand. An empty index means square root.
func Root(index, radicand string) string {
	var radix string
	switch strings.TrimSpace(index) {
	case "", "2":
		radix = "√"
	case "3":
		radix = "∛"
	case "4":
		radix = "∜"
	default:
		radix = Superscript(index) + "√"
	}
	return radix + parenthesize(strings.TrimSpace(radicand))
}

func combine(text string, mark rune, every bool) string {
	if text == "" {
		return string(mark)
	}
	if !every {
		return text + string(mark)
	}
	var out strings.Builder
	for _, r := range text {
		out.WriteRune(r)
		if !unicode.IsSpace(r) {
			out.WriteRune(mark)
		}
	}
	return out.String()
}

var negations = map[string]string{
	"=": "≠", "<": "≮", ">": "≯", "≤": "≰", "≥": "≱", "∈": "∉", "⊂": "⊄", "≡": "≢", "∼": "≁",
}

func negate(text string) string {
	text = strings.TrimSpace(text)
	if n, ok := negations[text]; ok {
		return n
	}
	if text == "" {
		return "\u0338"
	}
	r, size := utf8.DecodeRuneInString(text)
	return string(r) + "\u0338" + text[size:]
}

// parenthesize wraps text unless it is a single number or word.
func parenthesize(text string) string {
	for _, r := range text {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && !unicode.Is(unicode.Mn, r) {
			return "(" + text + ")"
		}
	}
	return text
}

func mapAll(text string, table map[rune]rune) (string, bool) {
	var out strings.Builder
	for _, r := range text {
		m, ok := table[r]
		if !ok {
			return "", false
		}
		out.WriteRune(m)
	}
	return out.String(), true
}

func mapRunes(text string, table map[rune]rune) string {
	var out strings.Builder
	for _, r := range text {
		if m, ok := table[r]; ok {
			out.WriteRune(m)
		} else {
			out.WriteRune(r)
		}
	}
	return out.String()
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
