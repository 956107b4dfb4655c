package llm

import (
	"strings"

	"github.com/joseph-ayodele/paper-extractor/constants"
)

const (
	promptHead = "Extract and summarize the following sections from the research paper:\n"
	promptBody = "\nProvide a **clean, structured response** in simple text format.\n" +
		"Start each section with its name in bold on its own line, for example **Title**.\n\n" +
		"**Research Paper Text**:\n"
)

// BuildPrompt renders the extraction prompt for a document. The document text is cut to at
// most maxChars characters, so the result is never longer than the template plus maxChars.
func BuildPrompt(text string, maxChars int) string {
	var b strings.Builder
	b.WriteString(promptHead)
	for _, f := range constants.AsStringSlice() {
		b.WriteString("- ")
		b.WriteString(f)
		b.WriteString("\n")
	}
	b.WriteString(promptBody)
	b.WriteString(Truncate(text, maxChars))
	b.WriteString("\n")
	return b.String()
}

// TemplateLen is the prompt length for an empty document.
func TemplateLen() int {
	return len([]rune(BuildPrompt("", 0)))
}

// Truncate returns the first n characters of s. Multi-byte characters are never split.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Preview shortens s for progress logs.
func Preview(s string, n int) string {
	t := Truncate(s, n)
	if len(t) < len(s) {
		return t + "..."
	}
	return t
}
