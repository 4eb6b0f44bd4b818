// Package schemas embeds the JSON Schemas for documents produced and accepted by specsense.
package schemas

import "embed"

// Schema file names
const (
	Report     = "report.schema.json"
	SpecRecord = "spec_record.schema.json"
)

//go:embed *.schema.json
var files embed.FS

// Load returns the content of an embedded schema file
func Load(name string) ([]byte, error) {
	return files.ReadFile(name)
}

// Names lists the embedded schema files
func Names() []string {
	return []string{Report, SpecRecord}
}
