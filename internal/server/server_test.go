package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/goleak"

	"github.com/jonathan/specsense/internal/config"
	"github.com/jonathan/specsense/internal/db"
	"github.com/jonathan/specsense/internal/server/ratelimit"
	"github.com/jonathan/specsense/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	readyText    = "Copper 0.6/1kV XLPE 4 Core 16mm2 SWA 90C"
	notReadyText = "Copper 5000V PVC insulated 4 core 16mm2 90C"
)

var noRateLimit = &ratelimit.Config{Enabled: false}

// newTestServer returns a server backed by an in-memory SQLite store
func newTestServer(t *testing.T) (*Server, db.Store) {
	t.Helper()
	store, err := db.OpenLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(store.Close)

	return New(Options{Store: store, RateLimit: noRateLimit}), store
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[map[string]string](t, w)["error"]
}

func analyze(t *testing.T, h http.Handler, text, source string) *types.Report {
	t.Helper()
	w := doJSON(t, h, http.MethodPost, "/v1/analyze", map[string]string{"text": text, "source": source})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	report := decodeBody[types.Report](t, w)
	return &report
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t)

	w := doJSON(t, s.Handler(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHandleAnalyze_PersistsReport(t *testing.T) {
	s, store := newTestServer(t)

	report := analyze(t, s.Handler(), readyText, "scan-001.txt")
	assert.Equal(t, types.StatusReady, report.Verdict.Status)
	assert.Equal(t, "scan-001.txt", report.Source)
	assert.Equal(t, "Steel Wire Armor", report.Specs.Value(types.FieldArmor))
	require.NotNil(t, report.Enrichment)

	stored, err := store.GetReport(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.Verdict, stored.Verdict)
}

func TestHandleAnalyze_EmptyTextAllowed(t *testing.T) {
	s, _ := newTestServer(t)

	report := analyze(t, s.Handler(), "", "")
	assert.Equal(t, types.StatusUnverifiable, report.Verdict.Status)
}

func TestHandleAnalyze_BadRequests(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "missing text", body: `{"source":"a"}`, message: "text - is required"},
		{name: "unknown field", body: `{"text":"x","lang":"en"}`, message: "invalid request body"},
		{name: "not JSON", body: `text=abc`, message: "invalid request body"},
		{name: "long source", body: fmt.Sprintf(`{"text":"x","source":%q}`, string(bytes.Repeat([]byte("s"), 600))), message: "source - must be at most 512"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, s.Handler(), http.MethodPost, "/v1/analyze", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, errorMessage(t, w), tt.message)
		})
	}
}

func TestHandleCorrect(t *testing.T) {
	s, _ := newTestServer(t)

	w := doJSON(t, s.Handler(), http.MethodPost, "/v1/correct", `{"specs":{"voltage":"0.6/1kV","armor":"SWA"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[CorrectResponse](t, w)
	assert.Equal(t, "600/1000V", resp.Specs.Value(types.FieldVoltage))
	assert.Equal(t, "Steel Wire Armor", resp.Specs.Value(types.FieldArmor))
	assert.NotEmpty(t, resp.Corrections)
	assert.False(t, resp.Specs.Has(types.FieldSheath))
}

func TestHandleCorrect_UnknownField(t *testing.T) {
	s, _ := newTestServer(t)

	w := doJSON(t, s.Handler(), http.MethodPost, "/v1/correct", `{"specs":{"colour":"red"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCorrect_MissingSpecs(t *testing.T) {
	s, _ := newTestServer(t)

	w := doJSON(t, s.Handler(), http.MethodPost, "/v1/correct", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorMessage(t, w), "specs")
}

func TestHandleValidate(t *testing.T) {
	s, _ := newTestServer(t)

	w := doJSON(t, s.Handler(), http.MethodPost, "/v1/validate", `{"specs":{"voltage":"5000V","insulation":"PVC"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	verdict := decodeBody[types.Verdict](t, w)
	assert.Equal(t, types.StatusNotReady, verdict.Status)
	assert.False(t, verdict.Valid)
	assert.Contains(t, verdict.Violations, "10. Material: PVC insulation cannot be used at 5000V. Must be XLPE.")
}

func TestHandleListReports(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	ready := analyze(t, h, readyText, "a")
	notReady := analyze(t, h, notReadyText, "b")
	require.Equal(t, types.StatusNotReady, notReady.Verdict.Status)

	w := doJSON(t, h, http.MethodGet, "/v1/reports", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeBody[ReportListResponse](t, w)
	assert.Equal(t, 2, list.Count)

	w = doJSON(t, h, http.MethodGet, "/v1/reports?status=ready", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list = decodeBody[ReportListResponse](t, w)
	require.Len(t, list.Reports, 1)
	assert.Equal(t, ready.ID, list.Reports[0].ID)

	w = doJSON(t, h, http.MethodGet, "/v1/reports?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decodeBody[ReportListResponse](t, w).Count)
}

func TestHandleListReports_Empty(t *testing.T) {
	s, _ := newTestServer(t)

	w := doJSON(t, s.Handler(), http.MethodGet, "/v1/reports", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"reports":[],"count":0}`, w.Body.String())
}

func TestHandleListReports_BadQuery(t *testing.T) {
	s, _ := newTestServer(t)

	for _, query := range []string{"status=maybe", "limit=0", "limit=abc", "limit=100000"} {
		t.Run(query, func(t *testing.T) {
			w := doJSON(t, s.Handler(), http.MethodGet, "/v1/reports?"+query, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandleGetReport(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()
	report := analyze(t, h, readyText, "a")

	w := doJSON(t, h, http.MethodGet, "/v1/reports/"+report.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, report.ID, decodeBody[types.Report](t, w).ID)

	w = doJSON(t, h, http.MethodGet, "/v1/reports/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, errorMessage(t, w), "report not found")

	w = doJSON(t, h, http.MethodGet, "/v1/reports/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleExportReports(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()
	analyze(t, h, readyText, "a")
	analyze(t, h, notReadyText, "b")

	w := doJSON(t, h, http.MethodGet, "/v1/reports/export.xlsx", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "specsense-reports.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Specifications")
	require.NoError(t, err)
	assert.Len(t, rows, 3, "header plus one row per report")
}

func TestReportRoutes_NoStore(t *testing.T) {
	s := New(Options{RateLimit: noRateLimit})
	h := s.Handler()

	for _, path := range []string{"/v1/reports", "/v1/reports/" + uuid.NewString(), "/v1/reports/export.xlsx"} {
		w := doJSON(t, h, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
	}

	// analysis still works without storage
	analyze(t, h, readyText, "")
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t)

	w := doJSON(t, s.Handler(), http.MethodOptions, "/v1/analyze", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestRateLimit(t *testing.T) {
	s := New(Options{RateLimit: &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/v1/validate", Method: "POST", Limit: 1, Window: time.Hour, Burst: 1},
		},
	}})
	h := s.Handler()

	body := `{"specs":{"voltage":"600/1000V"}}`
	w := doJSON(t, h, http.MethodPost, "/v1/validate", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = doJSON(t, h, http.MethodPost, "/v1/validate", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "rate limit exceeded", errorMessage(t, w))

	// other routes keep their own budget
	w = doJSON(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth(t *testing.T) {
	jwtCfg := &config.JWTConfig{Secret: "a-very-long-test-secret", ExpirationHours: 1, Issuer: config.DefaultIssuer}
	s := New(Options{RateLimit: noRateLimit, JWT: jwtCfg})
	h := s.Handler()

	w := doJSON(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code, "health is public")

	body := `{"specs":{"voltage":"600/1000V"}}`
	w = doJSON(t, h, http.MethodPost, "/v1/validate", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := NewJWTService(jwtCfg).GenerateToken("scanner-7")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/validate", bytes.NewReader([]byte(body)))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestServe_GracefulShutdown(t *testing.T) {
	s := New(Options{RateLimit: &ratelimit.Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute, CleanupInterval: time.Minute}})

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, listener) }()

	url := "http://" + listener.Addr().String() + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	http.DefaultClient.CloseIdleConnections()
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: &ErrValidation{Field: "text", Message: "is required"}, want: http.StatusBadRequest},
		{err: &db.NotFoundError{ID: uuid.New()}, want: http.StatusNotFound},
		{err: fmt.Errorf("lookup: %w", &db.NotFoundError{}), want: http.StatusNotFound},
		{err: &ErrStoreUnavailable{}, want: http.StatusServiceUnavailable},
		{err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}

func TestErrValidation_Error(t *testing.T) {
	assert.Equal(t, "validation error: text - is required", (&ErrValidation{Field: "text", Message: "is required"}).Error())
	assert.Equal(t, "validation error: bad body", (&ErrValidation{Message: "bad body"}).Error())
}
