package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/paper-extractor/constants"
)

// Batch is the ordered result of one run over the input folder.
type Batch struct {
	RunID      uuid.UUID `json:"run_id"`
	InputDir   string    `json:"input_dir"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Records    []Record  `json:"records"`
}

// Failures counts records that did not reach a parsed state.
func (b Batch) Failures() int {
	n := 0
	for _, r := range b.Records {
		if r.Status != constants.RecordStatusOK {
			n++
		}
	}
	return n
}
