package parsefields

import (
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/paper-extractor/internal/entity"
)

// MinResponseChars is the shortest trimmed response worth segmenting.
const MinResponseChars = 50

// Parse turns a model response into a record. Every field is present; fields without a
// matching heading, or whose heading has no content, stay "Not Available".
// Repeated headings overwrite earlier ones.
// The raw response is kept verbatim as the summary. Parse never fails.
func Parse(raw string) entity.Record {
	rec := entity.NewRecord(raw)
	if utf8.RuneCountInString(strings.TrimSpace(raw)) < MinResponseChars {
		return rec
	}
	for _, span := range Tokenize(raw) {
		field, ok := Match(span.Heading)
		if !ok || span.Content == "" {
			continue
		}
		rec.Values[string(field)] = span.Content
	}
	return rec
}
