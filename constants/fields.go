package constants

// Field is one named attribute of the extraction schema.
type Field string

const (
	Title                  Field = "Title"
	Abstract               Field = "Abstract"
	Introduction           Field = "Introduction"
	Methodology            Field = "Methodology"
	Results                Field = "Results"
	Conclusion             Field = "Conclusion"
	MethodologyUsed        Field = "Methodology Used"
	HypothesisTested       Field = "Hypothesis Tested"
	LiteratureReview       Field = "Literature Review"
	Limitations            Field = "Limitations"
	Keywords               Field = "Keywords"
	TypeOfStudy            Field = "Type of Study"
	CountryRegion          Field = "Country/Region"
	SampleSizePopulation   Field = "Sample Size & Population"
	IntentionModelUsed     Field = "Entrepreneurial Intention Model Used"
	KeyFindings            Field = "Key Findings"
	RelevanceToOurResearch Field = "Relevance to Our Research"
)

// Column names that sit outside the field set.
const (
	ColumnFileName = "File Name"
	ColumnSummary  = "Summary"
	ColumnStatus   = "Status"
)

// NotAvailable is written for every field the response did not provide.
const NotAvailable = "Not Available"

// Markers stored in the Summary column of degraded records.
const (
	CompletionErrorMarker = "❌ Error in AI response"
	ExtractionErrorMarker = "Error extracting text"
)

// allFields is the schema in match and column order. Fuzzy heading matching walks it front to back.
var allFields = []Field{
	Title,
	Abstract,
	Introduction,
	Methodology,
	Results,
	Conclusion,
	MethodologyUsed,
	HypothesisTested,
	LiteratureReview,
	Limitations,
	Keywords,
	TypeOfStudy,
	CountryRegion,
	SampleSizePopulation,
	IntentionModelUsed,
	KeyFindings,
	RelevanceToOurResearch,
}

// Fields returns a copy of the field set in declared order.
func Fields() []Field {
	out := make([]Field, len(allFields))
	copy(out, allFields)
	return out
}

func AsStringSlice() []string {
	result := make([]string, len(allFields))
	for i, f := range allFields {
		result[i] = string(f)
	}
	return result
}

// Columns is the spreadsheet header order: file name, every field, then the audit columns.
func Columns() []string {
	cols := make([]string, 0, len(allFields)+3)
	cols = append(cols, ColumnFileName)
	cols = append(cols, AsStringSlice()...)
	cols = append(cols, ColumnSummary, ColumnStatus)
	return cols
}
