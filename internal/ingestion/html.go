package ingestion

import (
	"fmt"

	"github.com/jonathan/specsense/internal/fetch"
)

// TextFromHTML extracts the specification text of a saved datasheet page
func TextFromHTML(html string) (string, error) {
	text, err := fetch.ExtractText(html, fetch.DatasheetSelectors())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}
	return text, nil
}
