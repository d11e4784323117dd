package models

// IngestResult summarises a roster upload. Per-row insert failures are
// counted, not enumerated, so a large upload is never aborted by one bad
// row.
type IngestResult struct {
	CreatedClasses  []ClassSummary `json:"createdClasses"`
	CreatedStudents int            `json:"createdStudents"`
	SkippedRows     int            `json:"skippedRows"`
	ErrorCount      int            `json:"errorCount"`
}

// ClassSummary is the per-group slice of an ingest result.
type ClassSummary struct {
	ClassID         string `json:"classId"`
	Name            string `json:"name"`
	CreatedStudents int    `json:"createdStudents"`
	ErrorCount      int    `json:"errorCount"`
}

// ProvisionOutcome classifies one student's provisioning attempt.
type ProvisionOutcome string

const (
	OutcomeCreated            ProvisionOutcome = "created"
	OutcomeAlreadyProvisioned ProvisionOutcome = "already_provisioned"
	OutcomeFailed             ProvisionOutcome = "failed"
)

// ProvisionFailure records why one student could not be provisioned.
type ProvisionFailure struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Reason    string `json:"reason"`
}

// BatchReport aggregates a provisioning run. It is returned to the caller
// and never persisted.
type BatchReport struct {
	Created            int                `json:"created"`
	AlreadyProvisioned int                `json:"alreadyProvisioned"`
	Failed             int                `json:"failed"`
	Failures           []ProvisionFailure `json:"failures,omitempty"`
}

// RemoveClassResult reports a cascade removal. Failed IDs can be retried by
// re-invoking the removal; deletes of already-absent documents succeed.
type RemoveClassResult struct {
	Succeeded []string `json:"succeeded"`
	Failed    []string `json:"failed"`
}
