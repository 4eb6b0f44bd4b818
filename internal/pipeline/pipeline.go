// Package pipeline sequences extraction, correction and compliance validation for datasheet text.
package pipeline

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/specsense/internal/correction"
	"github.com/jonathan/specsense/internal/extraction"
	"github.com/jonathan/specsense/internal/ingestion"
	"github.com/jonathan/specsense/internal/tagging"
	"github.com/jonathan/specsense/internal/types"
	"github.com/jonathan/specsense/internal/validation"
)

// Step names reported in progress events
const (
	StepExtract  = "extract"
	StepCorrect  = "correct"
	StepValidate = "validate"
	StepEnrich   = "enrich"
	StepDone     = "done"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string       `json:"step"`
	Source   string       `json:"source,omitempty"`
	Index    int          `json:"index"`
	Total    int          `json:"total"`
	Message  string       `json:"message"`
	Status   types.Status `json:"status,omitempty"`
	ReportID uuid.UUID    `json:"report_id"`
}

// ProgressCallback is called when pipeline progress occurs.
// During a batch it may be called from several goroutines at once.
type ProgressCallback func(event ProgressEvent)

// Document is one unit of recognized text to analyze
type Document struct {
	Source   string
	Text     string
	Metadata types.DocumentMetadata
}

// Orchestrator runs documents through the three stages.
// Stages and tables are read-only after New, so one Orchestrator serves many goroutines.
type Orchestrator struct {
	extractor  *extraction.Extractor
	corrector  *correction.Corrector
	validator  *validation.Validator
	tagger     *tagging.Tagger
	logger     *zap.Logger
	onProgress ProgressCallback
	workers    int
	now        func() time.Time
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithExtractor replaces the default extractor
func WithExtractor(e *extraction.Extractor) Option {
	return func(o *Orchestrator) { o.extractor = e }
}

// WithCorrector replaces the default corrector
func WithCorrector(c *correction.Corrector) Option {
	return func(o *Orchestrator) { o.corrector = c }
}

// WithValidator replaces the default validator
func WithValidator(v *validation.Validator) Option {
	return func(o *Orchestrator) { o.validator = v }
}

// WithTagger replaces the default enrichment tagger
func WithTagger(t *tagging.Tagger) Option {
	return func(o *Orchestrator) { o.tagger = t }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithProgress sets the progress callback
func WithProgress(cb ProgressCallback) Option {
	return func(o *Orchestrator) { o.onProgress = cb }
}

// WithWorkers bounds batch parallelism. Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// DefaultWorkers is the batch parallelism used when WithWorkers is not given
const DefaultWorkers = 4

// New creates an Orchestrator. Stages not supplied through options use their defaults.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{workers: DefaultWorkers, now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	if o.extractor == nil {
		o.extractor = extraction.New(nil)
	}
	if o.corrector == nil {
		o.corrector = correction.New(nil)
	}
	if o.validator == nil {
		o.validator = validation.Default()
	}
	if o.tagger == nil {
		o.tagger = tagging.NewTagger()
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}

// Process analyzes a single text with no source
func (o *Orchestrator) Process(text string) *types.Report {
	return o.ProcessDocument(Document{Text: text})
}

// ProcessDocument runs extraction, correction and validation on doc.
// Enrichment is attached only when the verdict is not NOT_READY.
func (o *Orchestrator) ProcessDocument(doc Document) *types.Report {
	return o.process(doc, 0, 1)
}

func (o *Orchestrator) process(doc Document, index, total int) *types.Report {
	report := &types.Report{
		ID:        uuid.New(),
		Source:    doc.Source,
		CreatedAt: o.now().UTC(),
		Metadata:  doc.Metadata,
	}
	if report.Metadata.Hash == "" {
		report.Metadata = ingestion.NewMetadata(doc.Text, doc.Source, ingestion.ContentTypeText).Document()
	}

	emit := func(step, message string) {
		if o.onProgress == nil {
			return
		}
		o.onProgress(ProgressEvent{
			Step:     step,
			Source:   doc.Source,
			Index:    index,
			Total:    total,
			Message:  message,
			Status:   report.Verdict.Status,
			ReportID: report.ID,
		})
	}

	report.RawSpecs = o.extractor.Extract(doc.Text)
	emit(StepExtract, "extracted fields")

	report.Specs, report.Corrections = o.corrector.Correct(report.RawSpecs)
	emit(StepCorrect, "applied corrections")

	report.Verdict = o.validator.Validate(report.Specs)
	emit(StepValidate, string(report.Verdict.Status))

	if report.Verdict.Status != types.StatusNotReady {
		report.Enrichment = o.tagger.Enrich(report.Specs, doc.Text)
		emit(StepEnrich, report.Enrichment.Category)
	}

	o.logger.Debug("document processed",
		zap.String("source", doc.Source),
		zap.String("report_id", report.ID.String()),
		zap.Int("fields", report.Specs.PresentCount()),
		zap.Int("corrections", len(report.Corrections)),
		zap.String("status", string(report.Verdict.Status)))
	emit(StepDone, "document processed")

	return report
}
