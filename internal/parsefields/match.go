package parsefields

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/paper-extractor/constants"
)

var (
	leadingNumber = regexp.MustCompile(`^\d+[.)]\s*`)
	spaceRun      = regexp.MustCompile(`\s+`)
)

// Normalize lowercases a heading and strips colons, asterisks and leading numbering.
func Normalize(heading string) string {
	h := strings.ToLower(heading)
	h = strings.NewReplacer(":", "", "*", "").Replace(h)
	h = strings.TrimSpace(h)
	h = leadingNumber.ReplaceAllString(h, "")
	return strings.TrimSpace(spaceRun.ReplaceAllString(h, " "))
}

// Match maps a heading onto the field set. An exact match on the normalized name wins;
// otherwise the first field in declared order where either name contains the other.
// Empty headings never match.
func Match(heading string) (constants.Field, bool) {
	h := Normalize(heading)
	if h == "" {
		return "", false
	}
	fields := constants.Fields()
	for _, f := range fields {
		if strings.ToLower(string(f)) == h {
			return f, true
		}
	}
	for _, f := range fields {
		name := strings.ToLower(string(f))
		if strings.Contains(name, h) || strings.Contains(h, name) {
			return f, true
		}
	}
	return "", false
}
