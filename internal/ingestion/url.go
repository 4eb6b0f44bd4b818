package ingestion

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/specsense/internal/fetch"
)

// IngestFromURL fetches a datasheet page, extracts its specification text, cleans it
// and returns it with metadata.
// If useBrowser is true, pages whose static text holds no specifications are rendered in a headless browser.
func IngestFromURL(ctx context.Context, urlStr string, useBrowser bool, logger *zap.Logger) (string, *Metadata, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	page, err := fetch.URL(ctx, urlStr, nil)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	logger.Debug("fetched page",
		zap.String("url", page.FinalURL),
		zap.Int("bytes", len(page.HTML)),
		zap.Bool("truncated", page.Truncated))

	textContent, err := TextFromHTML(page.HTML)
	if err != nil {
		return "", nil, err
	}

	if useBrowser && fetch.NeedsRendering(textContent) {
		logger.Info("static page has no specification text, rendering in browser",
			zap.Int("chars", len(textContent)),
			zap.Int("min_chars", fetch.MinContentLength))

		browserHTML, browserErr := fetch.Render(ctx, urlStr, 0, logger)
		if browserErr != nil {
			// keep the HTTP content
			logger.Warn("browser rendering failed", zap.Error(browserErr))
		} else if rendered, err := TextFromHTML(browserHTML); err != nil {
			logger.Warn("browser content extraction failed", zap.Error(err))
		} else {
			textContent = rendered
		}
	}

	cleanedText := CleanText(textContent)
	logger.Debug("cleaned text", zap.Int("chars", len(cleanedText)))

	return cleanedText, NewMetadata(cleanedText, urlStr, ContentTypeHTML), nil
}
