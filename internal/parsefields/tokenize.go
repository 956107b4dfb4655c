package parsefields

import (
	"regexp"
	"strings"
)

// headingPattern recognizes one heading per line. A heading may follow a list marker
// ("- ", "* ", "1. ", "2) ") and takes one of three forms:
//
//	**Heading**            bold line, optional colon inside or after the closing **
//	**Heading:** value     bold with colon, content continues on the same line
//	## Heading             two to four hashes, optional trailing colon
//
// Groups: 1 bold heading, 2 inline bold heading, 3 inline content, 4 hash heading.
var headingPattern = regexp.MustCompile(`(?m)^[ \t]*(?:(?:[-*+]|\d+[.)])[ \t]+)?` +
	`(?:` +
	`\*\*([^*\n]+?)[ \t]*:?[ \t]*\*\*[ \t]*:?` +
	`|\*\*([^*\n]+?)[ \t]*(?::[ \t]*\*\*|\*\*[ \t]*:)[ \t]*(\S[^\n]*?)` +
	`|#{2,4}[ \t]*([^#\s][^\n]*?)[ \t]*:?` +
	`)[ \t]*$`)

// Span is a recognized heading and the text up to the next heading.
type Span struct {
	Heading string
	Content string
}

// Tokenize splits raw into heading spans in order of appearance.
// Text before the first heading is dropped. Content is trimmed.
func Tokenize(raw string) []Span {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	matches := headingPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	spans := make([]Span, 0, len(matches))
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		var heading, inline string
		switch {
		case m[2] >= 0:
			heading = text[m[2]:m[3]]
		case m[4] >= 0:
			heading = text[m[4]:m[5]]
			inline = text[m[6]:m[7]]
		case m[8] >= 0:
			heading = text[m[8]:m[9]]
		}

		content := strings.TrimSpace(text[m[1]:end])
		if inline != "" {
			content = strings.TrimSpace(inline + "\n" + content)
		}
		spans = append(spans, Span{Heading: strings.TrimSpace(heading), Content: content})
	}
	return spans
}
