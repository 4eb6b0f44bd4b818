// Package types provides type definitions for structured data used throughout the specsense system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "encoding/json"

// Status is the tri-state compliance outcome
type Status string

// Verdict statuses, best first
const (
	StatusReady        Status = "READY"
	StatusUnverifiable Status = "UNVERIFIABLE"
	StatusNotReady     Status = "NOT_READY"
)

// ParseStatus returns the Status named by s and whether it is known
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusReady, StatusUnverifiable, StatusNotReady:
		return Status(s), true
	}
	return "", false
}

// Rank orders statuses so that a higher rank is a worse outcome
func (s Status) Rank() int {
	switch s {
	case StatusReady:
		return 0
	case StatusUnverifiable:
		return 1
	default:
		return 2
	}
}

// Verdict is the result of evaluating a corrected record
type Verdict struct {
	Status     Status   `json:"status"`
	Valid      bool     `json:"valid"`
	Violations []string `json:"violations"`
	Missing    []string `json:"missing"`
}

// NewVerdict derives the status from the two diagnostic lists.
// unverifiable forces at least UNVERIFIABLE when there are no violations.
func NewVerdict(violations, missing []string, unverifiable bool) Verdict {
	if violations == nil {
		violations = []string{}
	}
	if missing == nil {
		missing = []string{}
	}

	status := StatusReady
	switch {
	case len(violations) > 0:
		status = StatusNotReady
	case len(missing) > 0 || unverifiable:
		status = StatusUnverifiable
	}

	return Verdict{
		Status:     status,
		Valid:      status == StatusReady,
		Violations: violations,
		Missing:    missing,
	}
}

// MarshalJSON never emits null lists
func (v Verdict) MarshalJSON() ([]byte, error) {
	type alias Verdict
	out := alias(v)
	if out.Violations == nil {
		out.Violations = []string{}
	}
	if out.Missing == nil {
		out.Missing = []string{}
	}
	return json.Marshal(out)
}
