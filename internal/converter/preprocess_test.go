package converter

import (
	"testing"
)

func TestRewrite(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "custom image tag and attribute",
			input: `<oppia-noninteractive-image filepath-with-value="&amp;quot;pic.png&amp;quot;"></oppia-noninteractive-image>`,
			want:  `<img src="pic.png"></img>`,
		},
		{
			name:  "whitespace artifacts",
			input: "<p>a</p>\n\n<p>b</p>\n\t<p>c</p>",
			want:  "<p>a</p><p>b</p><p>c</p>",
		},
		{
			name:  "escaped quotes stripped everywhere",
			input: `<x-tag v="&amp;quot;s1&amp;quot;"></x-tag>`,
			want:  `<x-tag v="s1"></x-tag>`,
		},
		{
			name:  "case sensitive",
			input: `<OPPIA-NONINTERACTIVE-IMAGE FILEPATH-WITH-VALUE="x">`,
			want:  `<OPPIA-NONINTERACTIVE-IMAGE FILEPATH-WITH-VALUE="x">`,
		},
		{
			name:  "single newline kept",
			input: "a\nb",
			want:  "a\nb",
		},
		{
			name:  "every occurrence",
			input: `<oppia-noninteractive-image filepath-with-value="a"><oppia-noninteractive-image filepath-with-value="b">`,
			want:  `<img src="a"><img src="b">`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rewrite(tt.input); got != tt.want {
				t.Errorf("Rewrite() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRewrite_Idempotent(t *testing.T) {
	inputs := []string{
		`<p>Look:</p><oppia-noninteractive-image filepath-with-value="&amp;quot;a.png&amp;quot;" alt-with-value="x"></oppia-noninteractive-image>`,
		`<p><img src="already.png"></p>`,
		"plain text",
	}
	for _, in := range inputs {
		once := Rewrite(in)
		if twice := Rewrite(once); twice != once {
			t.Errorf("Rewrite not idempotent for %q: %q != %q", in, twice, once)
		}
	}
	standard := `<p><img src="already.png"></p>`
	if got := Rewrite(standard); got != standard {
		t.Errorf("Rewrite changed standard markup: %q", got)
	}
}
