package llm

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/joseph-ayodele/paper-extractor/constants"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "shorter than limit", in: "abc", n: 10, want: "abc"},
		{name: "exact", in: "abc", n: 3, want: "abc"},
		{name: "cut", in: "abcdef", n: 4, want: "abcd"},
		{name: "zero", in: "abc", n: 0, want: ""},
		{name: "multibyte kept whole", in: "ééééé", n: 2, want: "éé"},
		{name: "emoji", in: "a😀b😀c", n: 3, want: "a😀b"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in, tt.n)
			if got != tt.want {
				t.Fatalf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Fatalf("invalid utf-8 in %q", got)
			}
		})
	}
}

func TestBuildPrompt_ListsFieldsAndText(t *testing.T) {
	p := BuildPrompt("Paper body text", 100)
	for _, f := range constants.AsStringSlice() {
		if !strings.Contains(p, "- "+f+"\n") {
			t.Errorf("prompt missing field %q", f)
		}
	}
	if !strings.HasSuffix(p, "Paper body text\n") {
		t.Fatalf("prompt does not end with the document text: %q", p[len(p)-40:])
	}
}

func TestBuildPrompt_LengthBound(t *testing.T) {
	const maxChars = 10000
	text := strings.Repeat("ü", 25000)
	p := BuildPrompt(text, maxChars)

	got := utf8.RuneCountInString(p)
	if limit := TemplateLen() + maxChars; got > limit {
		t.Fatalf("prompt has %d characters, want <= %d", got, limit)
	}
	if strings.Count(p, "ü") != maxChars {
		t.Fatalf("expected exactly %d document characters", maxChars)
	}
}

func TestPreview(t *testing.T) {
	if got := Preview("short", 500); got != "short" {
		t.Fatalf("Preview = %q", got)
	}
	if got := Preview(strings.Repeat("x", 600), 500); len(got) != 503 || !strings.HasSuffix(got, "...") {
		t.Fatalf("Preview length = %d", len(got))
	}
}
