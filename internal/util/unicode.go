package util

import (
	"unicode/utf16"
)

// ObjectReplacement is the character an inline image occupies in the text.
const ObjectReplacement = '\uFFFC'

// UTF16Len returns the length of text measured in UTF-16 code units.
func UTF16Len(text string) int {
	count := 0
	for _, r := range text {
		if r > 0xFFFF {
			count += 2
		} else {
			count++
		}
	}
	return count
}

// EncodeUTF16 converts text to UTF-16 code units.
func EncodeUTF16(text string) []uint16 {
	return utf16.Encode([]rune(text))
}

// DecodeUTF16 converts UTF-16 code units back to a Go string. Lone surrogates become U+FFFD.
func DecodeUTF16(units []uint16) string {
	return string(utf16.Decode(units))
}

// IsCollapsibleSpace reports whether u is whitespace that collapses in HTML text content.
// Only space and line feed collapse; tabs are kept as-is.
func IsCollapsibleSpace(u uint16) bool {
	return u == ' ' || u == '\n'
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
