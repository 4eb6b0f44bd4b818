package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/specsense/internal/ingestion"
	"github.com/jonathan/specsense/internal/types"
)

// ProcessBatch analyzes documents in parallel, bounded by the worker count.
// Reports keep input order. When ctx is cancelled no further documents are
// started; their slots stay nil and ctx's error is returned.
func (o *Orchestrator) ProcessBatch(ctx context.Context, docs []Document) ([]*types.Report, error) {
	reports := make([]*types.Report, len(docs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for i, doc := range docs {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			// each goroutine owns its own slot
			reports[i] = o.process(doc, i, len(docs))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return reports, err
	}
	if err := ctx.Err(); err != nil {
		return reports, err
	}
	return reports, nil
}

// ProcessFile ingests a datasheet file and analyzes its text
func (o *Orchestrator) ProcessFile(path string) (*types.Report, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	return o.ProcessDocument(doc), nil
}

// ProcessURL fetches a datasheet page and analyzes its text
func (o *Orchestrator) ProcessURL(ctx context.Context, url string, useBrowser bool) (*types.Report, error) {
	text, metadata, err := ingestion.IngestFromURL(ctx, url, useBrowser, o.logger)
	if err != nil {
		return nil, err
	}
	return o.ProcessDocument(Document{
		Source:   url,
		Text:     text,
		Metadata: metadata.Document(),
	}), nil
}

// LoadDocument reads one datasheet file into a Document
func LoadDocument(path string) (Document, error) {
	text, metadata, err := ingestion.IngestFromFile(path)
	if err != nil {
		return Document{}, err
	}
	return Document{
		Source:   path,
		Text:     text,
		Metadata: metadata.Document(),
	}, nil
}

// LoadDirectory reads every supported datasheet file directly inside dir, sorted by name.
// Files that fail to load are logged and skipped.
func LoadDirectory(dir string, logger *zap.Logger) ([]Document, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && ingestion.Supported(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	docs := make([]Document, 0, len(names))
	for _, name := range names {
		doc, err := LoadDocument(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("skipping unreadable datasheet", zap.String("file", name), zap.Error(err))
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
