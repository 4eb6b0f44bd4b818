package ingestion

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Content types reported in Metadata
const (
	ContentTypeText = "text/plain"
	ContentTypeHTML = "text/html"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Extensions maps each supported file extension to its content type
var Extensions = map[string]string{
	".txt":  ContentTypeText,
	".text": ContentTypeText,
	".ocr":  ContentTypeText,
	".html": ContentTypeHTML,
	".htm":  ContentTypeHTML,
	".xlsx": ContentTypeXLSX,
}

var (
	inlineWhitespace = regexp.MustCompile(`[ \t\f\v]+`)
	blankLineRun     = regexp.MustCompile(`\n\n\n+`)
)

// Supported reports whether path has an extension IngestFromFile can read
func Supported(path string) bool {
	_, ok := Extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// CleanText cleans and normalizes recognized text while preserving its line structure
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	// 1. Normalize line endings (CRLF → LF)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	// 2. Clean each line
	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, cleanLine(line))
	}

	// 3. Remove excessive blank lines (max 2 consecutive)
	result := removeExcessiveBlankLines(strings.Join(cleanedLines, "\n"))

	return strings.TrimSpace(result)
}

// cleanLine collapses runs of spaces and tabs and drops control characters.
// Recognition output often carries form feeds and NULs between pages.
func cleanLine(line string) string {
	line = strings.Map(func(r rune) rune {
		if r == '\t' || r >= ' ' && r != 0x7f {
			return r
		}
		if r == '\f' || r == '\v' {
			return ' '
		}
		return -1
	}, line)
	return strings.TrimSpace(inlineWhitespace.ReplaceAllString(line, " "))
}

// removeExcessiveBlankLines reduces consecutive blank lines to max 2
func removeExcessiveBlankLines(content string) string {
	return blankLineRun.ReplaceAllString(content, "\n\n")
}

// IngestFromFile reads a datasheet file, extracts and cleans its text and returns it with metadata.
// The reader is chosen by file extension.
func IngestFromFile(path string) (string, *Metadata, error) {
	contentType, ok := Extensions[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", nil, &Error{
			Source:  path,
			Message: fmt.Sprintf("extension %q", filepath.Ext(path)),
			Cause:   ErrUnsupportedFormat,
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}

	var text string
	switch contentType {
	case ContentTypeHTML:
		text, err = TextFromHTML(string(content))
	case ContentTypeXLSX:
		text, err = TextFromXLSX(content)
	default:
		text = string(content)
	}
	if err != nil {
		return "", nil, &Error{
			Source:  path,
			Message: "failed to extract text",
			Cause:   err,
		}
	}

	cleanedText := CleanText(text)
	return cleanedText, NewMetadata(cleanedText, path, contentType), nil
}
