// Package export writes analyzed reports to spreadsheet workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jonathan/specsense/internal/types"
)

// Sheet names, in workbook order
const (
	SheetSpecifications = "Specifications"
	SheetCorrections    = "Corrections"
	SheetFindings       = "Findings"
)

// Finding kinds on the Findings sheet
const (
	KindViolation = "violation"
	KindMissing   = "missing"
)

// WriteXLSX writes reports as a three-sheet workbook to w
func WriteXLSX(w io.Writer, reports []*types.Report) error {
	f, err := Workbook(reports)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

// Workbook builds the export workbook. Nil reports are skipped.
func Workbook(reports []*types.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSpecifications); err != nil {
		_ = f.Close()
		return nil, err
	}
	for _, sheet := range []string{SheetCorrections, SheetFindings} {
		if _, err := f.NewSheet(sheet); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	specs := newSheetWriter(f, SheetSpecifications)
	corrections := newSheetWriter(f, SheetCorrections)
	findings := newSheetWriter(f, SheetFindings)

	header := []any{"Report ID", "Source", "Status", "Category"}
	for _, key := range types.FieldKeys() {
		header = append(header, key.Label())
	}
	specs.row(header...)
	corrections.row("Report ID", "Field", "Original", "Corrected", "Reason")
	findings.row("Report ID", "Kind", "Message")

	for _, r := range reports {
		if r == nil {
			continue
		}
		id := r.ID.String()

		values := []any{id, r.Source, string(r.Verdict.Status), r.Category()}
		for _, key := range types.FieldKeys() {
			values = append(values, r.Specs.Value(key))
		}
		specs.row(values...)

		for _, c := range r.Corrections {
			corrections.row(id, c.Field.Label(), c.Original, c.Corrected, string(c.Reason))
		}
		for _, v := range r.Verdict.Violations {
			findings.row(id, KindViolation, v)
		}
		for _, m := range r.Verdict.Missing {
			findings.row(id, KindMissing, m)
		}
	}

	for _, w := range []*sheetWriter{specs, corrections, findings} {
		if w.err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("xlsx sheet %s: %w", w.sheet, w.err)
		}
	}

	_ = f.SetColWidth(SheetSpecifications, "A", "A", 38)
	_ = f.SetColWidth(SheetSpecifications, "B", "B", 32)
	_ = f.SetColWidth(SheetSpecifications, "C", "N", 18)
	_ = f.SetColWidth(SheetCorrections, "A", "A", 38)
	_ = f.SetColWidth(SheetCorrections, "B", "E", 24)
	_ = f.SetColWidth(SheetFindings, "A", "A", 38)
	_ = f.SetColWidth(SheetFindings, "C", "C", 80)

	f.SetActiveSheet(0)
	return f, nil
}

// sheetWriter appends rows to one sheet and keeps the first error
type sheetWriter struct {
	f     *excelize.File
	sheet string
	next  int
	err   error
}

func newSheetWriter(f *excelize.File, sheet string) *sheetWriter {
	return &sheetWriter{f: f, sheet: sheet, next: 1}
}

func (w *sheetWriter) row(values ...any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, w.next)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &values); err != nil {
		w.err = err
		return
	}
	w.next++
}
