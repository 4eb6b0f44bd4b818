package fetch

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// MinContentLength is the shortest static text accepted without rendering
const MinContentLength = 500

// RenderTimeout bounds one headless render
const RenderTimeout = 45 * time.Second

// settleDelay lets script-built specification tabs fill in after load
const settleDelay = 2 * time.Second

// specToken is a rating or cross-section, e.g. "0.6/1kV" or "16 mm"
var specToken = regexp.MustCompile(`(?i)\d\s*(?:k?v\b|mm)`)

// Clicked when present, so hidden specification tabs are in the DOM before capture
const (
	acceptCookiesSelector = `button[id*="accept"], button[class*="accept"]`
	specTabSelector       = `[data-tab='specifications'], a[href*='#spec'], a[href*='#technical']`
)

// NeedsRendering reports whether statically fetched text is too thin to hold a
// datasheet: it is short, or it carries no voltage or size token at all.
func NeedsRendering(text string) bool {
	text = strings.TrimSpace(text)
	return len(text) < MinContentLength || !specToken.MatchString(text)
}

// Render loads url in headless Chrome and returns the rendered HTML.
// Chrome or Chromium must be installed. A zero timeout uses RenderTimeout.
func Render(ctx context.Context, url string, timeout time.Duration, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = RenderTimeout
	}
	logger.Debug("rendering datasheet page", zap.String("url", url))

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, timeout)
	defer cancelRun()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			clickIfPresent(ctx, acceptCookiesSelector)
			clickIfPresent(ctx, specTabSelector)
			return nil
		}),
		chromedp.Sleep(settleDelay),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	logger.Debug("rendered datasheet page", zap.String("url", url), zap.Int("bytes", len(html)))
	return html, nil
}

// clickIfPresent clicks the first visible match; a missing element is not an error
func clickIfPresent(ctx context.Context, selector string) {
	_ = chromedp.Click(selector, chromedp.NodeVisible, chromedp.AtLeast(0)).Do(ctx)
}
