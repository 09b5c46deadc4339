package model

import "time"

// JobKind is what a bulk load ingests.
type JobKind string

// Job kinds.
const (
	JobKindMovies  JobKind = "movies"
	JobKindCredits JobKind = "credits"
)

// JobStatus is the lifecycle state of a bulk load.
type JobStatus string

// Job statuses, a job only moves forward through this list.
const (
	JobStatusReceived JobStatus = "received"
	JobStatusRunning  JobStatus = "running"
	JobStatusDone     JobStatus = "done"
	JobStatusFailed   JobStatus = "failed"
)

// RowFailure is a row that was skipped during ingestion.
type RowFailure struct {
	// Row is the 1-based data row, the header is not counted
	Row    int    `json:"row"`
	Title  string `json:"title,omitempty"`
	Reason string `json:"reason"`
}

// Job tracks one background bulk load.
type Job struct {
	ID      string    `json:"id"`
	Kind    JobKind   `json:"kind"`
	File    string    `json:"file"`
	Status  JobStatus `json:"status"`
	Rows    int       `json:"rows"`
	Created int       `json:"created"`
	Failed  int       `json:"failed"`
	// Failures keeps the first few skipped rows, Failed has the full count
	Failures   []RowFailure `json:"failures,omitempty"`
	Error      string       `json:"error,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
	FinishedAt *time.Time   `json:"finished_at,omitempty"`
}

// Clone returns a deep copy safe to hand to another goroutine.
func (j *Job) Clone() *Job {
	cp := *j
	cp.Failures = append([]RowFailure(nil), j.Failures...)
	if j.FinishedAt != nil {
		t := *j.FinishedAt
		cp.FinishedAt = &t
	}

	return &cp
}

// Finished reports whether the job reached a terminal status.
func (j *Job) Finished() bool {
	return j.Status == JobStatusDone || j.Status == JobStatusFailed
}
