package entity

import (
	"github.com/joseph-ayodele/paper-extractor/constants"
)

// Record is one output row: every field of the field set plus the audit columns.
type Record struct {
	FileName string                 `json:"file_name"`
	Values   map[string]string      `json:"values"`
	Summary  string                 `json:"summary"`
	Status   constants.RecordStatus `json:"status"`
}

// NewRecord returns a record with every field set to constants.NotAvailable.
func NewRecord(summary string) Record {
	values := make(map[string]string, len(constants.Fields()))
	for _, f := range constants.Fields() {
		values[string(f)] = constants.NotAvailable
	}
	return Record{
		Values:  values,
		Summary: summary,
		Status:  constants.RecordStatusOK,
	}
}

// Get returns the value for a field, falling back to constants.NotAvailable.
func (r Record) Get(field constants.Field) string {
	if v, ok := r.Values[string(field)]; ok {
		return v
	}
	return constants.NotAvailable
}

// Column returns the cell value for a spreadsheet column name.
func (r Record) Column(name string) string {
	switch name {
	case constants.ColumnFileName:
		return r.FileName
	case constants.ColumnSummary:
		return r.Summary
	case constants.ColumnStatus:
		return string(r.Status)
	}
	if v, ok := r.Values[name]; ok {
		return v
	}
	return ""
}

// Keys lists the record's column names: file name, field values, summary and status.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r.Values)+3)
	keys = append(keys, constants.ColumnFileName)
	for k := range r.Values {
		keys = append(keys, k)
	}
	return append(keys, constants.ColumnSummary, constants.ColumnStatus)
}
