package constants

// RunStatus is the canonical status for persisted review runs.
type RunStatus string

// Stable values (store these exact strings in DB).
const (
	RunStatusQueued  RunStatus = "QUEUED"
	RunStatusRunning RunStatus = "RUNNING"
	RunStatusDone    RunStatus = "DONE"
	RunStatusFailed  RunStatus = "FAILED"
)

// CompareStatus is the outcome of reconciling one field across two documents.
type CompareStatus string

const (
	StatusMatch         CompareStatus = "match"
	StatusMismatch      CompareStatus = "mismatch"
	StatusMissing       CompareStatus = "missing"
	StatusNeedsReview   CompareStatus = "needs_review"
	StatusNotApplicable CompareStatus = "not_applicable"
)
