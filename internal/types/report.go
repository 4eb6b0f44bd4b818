// Package types provides type definitions for structured data used throughout the specsense system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// Enrichment holds downstream keyword and category tags for a document.
// It is only produced for records that are not NOT_READY.
type Enrichment struct {
	Keywords      map[string][]string `json:"keywords"`
	FrequentWords []string            `json:"frequent_words"`
	Category      string              `json:"category"`
}

// DocumentMetadata describes the text a report was produced from
type DocumentMetadata struct {
	Hash        string `json:"hash"` // SHA256 hex digest of the cleaned text
	Bytes       int    `json:"bytes"`
	ContentType string `json:"content_type,omitempty"`
}

// Report is the full outcome of running one document through the pipeline
type Report struct {
	ID          uuid.UUID        `json:"id"`
	Source      string           `json:"source,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	Metadata    DocumentMetadata `json:"metadata"`
	RawSpecs    SpecRecord       `json:"raw_specs"`
	Specs       SpecRecord       `json:"specs"`
	Corrections CorrectionLog    `json:"corrections"`
	Verdict     Verdict          `json:"verdict"`
	Enrichment  *Enrichment      `json:"enrichment,omitempty"`
}

// Category returns the enrichment category, or "" when enrichment was gated off
func (r *Report) Category() string {
	if r == nil || r.Enrichment == nil {
		return ""
	}
	return r.Enrichment.Category
}
