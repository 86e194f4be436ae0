// Package types provides type definitions for structured data used throughout the jobserve-agent system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// Status represents the lifecycle state of one application attempt.
type Status string

const (
	// StatusPending is the initial state of an attempt before it reaches a terminal state
	StatusPending Status = "pending"
	// StatusSubmitted means the site confirmed the application was received
	StatusSubmitted Status = "submitted"
	// StatusVerified means the application was additionally found in the application history
	StatusVerified Status = "verified"
	// StatusFailed means a workflow step produced a negative result (form missing, submit unconfirmed)
	StatusFailed Status = "failed"
	// StatusError means an unexpected error interrupted the workflow mid-attempt
	StatusError Status = "error"
)

// ApplicationOutcome records the result of one job application attempt.
// Exactly one outcome is produced per consumed listing. Transitions are
// monotonic: pending -> {submitted|failed|error}, then optionally
// submitted -> verified. An outcome never regresses.
type ApplicationOutcome struct {
	JobTitle     string    `json:"job_title"`
	Company      string    `json:"company"`
	Reference    string    `json:"reference"`
	Status       Status    `json:"status"`
	ErrorMessage string    `json:"error_message"`
	AppliedAt    time.Time `json:"application_date"`
}

// NewOutcome creates a pending outcome for the given job title, stamped now.
func NewOutcome(jobTitle string) ApplicationOutcome {
	return ApplicationOutcome{
		JobTitle:  jobTitle,
		Status:    StatusPending,
		AppliedAt: time.Now(),
	}
}

// Listing represents one discovered job posting candidate within a single run.
// The Selector is an ephemeral handle to the apply affordance that discovered
// the listing; it is only meaningful while the results view is still loaded.
type Listing struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Selector string `json:"-"`
}

// RunReport is the append-only sequence of outcomes produced by one run.
type RunReport struct {
	RunID     string               `json:"run_id"`
	StartedAt time.Time            `json:"started_at"`
	Outcomes  []ApplicationOutcome `json:"applications"`
}

// Append adds an outcome to the report, preserving arrival order.
func (r *RunReport) Append(outcome ApplicationOutcome) {
	r.Outcomes = append(r.Outcomes, outcome)
}

// Submitted returns the number of outcomes that reached submitted or verified.
func (r *RunReport) Submitted() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == StatusSubmitted || o.Status == StatusVerified {
			n++
		}
	}
	return n
}
