package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/specsense/internal/db"
	"github.com/jonathan/specsense/internal/export"
	"github.com/jonathan/specsense/internal/pipeline"
	"github.com/jonathan/specsense/internal/types"
)

// Request limits
const (
	maxRequestBytes = 2 << 20
	maxListLimit    = 1000
)

// xlsxContentType is the media type of exported workbooks
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AnalyzeRequest is the body of POST /v1/analyze. Text may be empty but must be present.
type AnalyzeRequest struct {
	Text   *string `json:"text" validate:"required,max=1048576"`
	Source string  `json:"source,omitempty" validate:"max=512"`
}

// SpecsRequest is the body of POST /v1/correct and POST /v1/validate
type SpecsRequest struct {
	Specs types.SpecRecord `json:"specs" validate:"required"`
}

// CorrectResponse is returned by POST /v1/correct
type CorrectResponse struct {
	Specs       types.SpecRecord    `json:"specs"`
	Corrections types.CorrectionLog `json:"corrections"`
}

// ReportListResponse is returned by GET /v1/reports
type ReportListResponse struct {
	Reports []*types.Report `json:"reports"`
	Count   int             `json:"count"`
}

// decodeRequest reads a JSON body into dst and checks its constraints
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &ErrValidation{Message: "invalid request body: " + err.Error()}
	}
	if err := s.requests.Struct(dst); err != nil {
		return requestError(err)
	}
	return nil
}

// handleAnalyze runs the full pipeline on posted text
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	report := s.orchestrator.ProcessDocument(pipeline.Document{Source: req.Source, Text: *req.Text})

	if s.store != nil {
		if err := s.store.SaveReport(r.Context(), report); err != nil {
			s.fail(w, r, fmt.Errorf("failed to save report: %w", err))
			return
		}
	}

	s.logger.Info("analyzed document",
		zap.String("report_id", report.ID.String()),
		zap.String("source", report.Source),
		zap.String("status", string(report.Verdict.Status)))
	s.jsonResponse(w, http.StatusOK, report)
}

// handleCorrect applies the correction stage only
func (s *Server) handleCorrect(w http.ResponseWriter, r *http.Request) {
	var req SpecsRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	specs, log := s.corrector.Correct(req.Specs)
	s.jsonResponse(w, http.StatusOK, CorrectResponse{Specs: specs, Corrections: log})
}

// handleValidate applies the compliance rules only
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req SpecsRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, s.validator.Validate(req.Specs))
}

// handleListReports lists stored reports, newest first
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.listReports(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ReportListResponse{Reports: reports, Count: len(reports)})
}

// handleGetReport returns one stored report
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.fail(w, r, &ErrStoreUnavailable{})
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}

	report, err := s.store.GetReport(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// handleExportReports streams stored reports as an XLSX workbook
func (s *Server) handleExportReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.listReports(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	// Build fully before writing so a failure can still produce a JSON error
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, reports); err != nil {
		s.fail(w, r, fmt.Errorf("failed to build workbook: %w", err))
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="specsense-reports.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Warn("failed to write workbook", zap.Error(err))
	}
}

func (s *Server) listReports(r *http.Request) ([]*types.Report, error) {
	if s.store == nil {
		return nil, &ErrStoreUnavailable{}
	}
	filter, err := parseListFilter(r)
	if err != nil {
		return nil, err
	}
	reports, err := s.store.ListReports(r.Context(), filter)
	if err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []*types.Report{}
	}
	return reports, nil
}

// parseListFilter reads ?status= and ?limit=
func parseListFilter(r *http.Request) (db.ListFilter, error) {
	var filter db.ListFilter
	q := r.URL.Query()

	if v := q.Get("status"); v != "" {
		status, ok := types.ParseStatus(strings.ToUpper(v))
		if !ok {
			return filter, &ErrValidation{Field: "status", Message: "must be one of READY, UNVERIFIABLE, NOT_READY"}
		}
		filter.Status = status
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxListLimit {
			return filter, &ErrValidation{Field: "limit", Message: fmt.Sprintf("must be between 1 and %d", maxListLimit)}
		}
		filter.Limit = n
	}

	return filter, nil
}
