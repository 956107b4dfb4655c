package constants

// RecordStatus is the per-document outcome written to the "Status" column and the run ledger.
type RecordStatus string

// Stable values (store these exact strings in the ledger).
const (
	RecordStatusOK               RecordStatus = "OK"                // extracted, completed and parsed
	RecordStatusExtractFailed    RecordStatus = "EXTRACT_FAILED"    // text extraction failed
	RecordStatusCompletionFailed RecordStatus = "COMPLETION_FAILED" // retries exhausted
)

// RunStatus tracks a batch run in the ledger.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "RUNNING"
	RunStatusFinished RunStatus = "FINISHED"
	RunStatusFailed   RunStatus = "FAILED"
)
