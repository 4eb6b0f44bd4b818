package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonathan/specsense/internal/types"
)

// Metadata contains metadata about an ingested datasheet
type Metadata struct {
	Source      string `json:"source,omitempty"`       // File path or URL
	Timestamp   string `json:"timestamp"`              // RFC3339 format
	Hash        string `json:"hash"`                   // SHA256 hex digest of the cleaned text
	Bytes       int    `json:"bytes"`                  // Size of the cleaned text
	ContentType string `json:"content_type,omitempty"` // MIME type of the original document
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(content string, source string, contentType string) *Metadata {
	return &Metadata{
		Source:      source,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Hash:        computeHash(content),
		Bytes:       len(content),
		ContentType: contentType,
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// Document returns the subset of metadata stored with a report
func (m *Metadata) Document() types.DocumentMetadata {
	if m == nil {
		return types.DocumentMetadata{}
	}
	return types.DocumentMetadata{
		Hash:        m.Hash,
		Bytes:       m.Bytes,
		ContentType: m.ContentType,
	}
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
