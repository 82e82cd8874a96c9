package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "attendcli/internal/errors"
	"attendcli/internal/loader"
	"attendcli/internal/operations"
	"attendcli/internal/services"
	"attendcli/pkg/contracts/domain"
)

type stubAttendanceService struct {
	result   *operations.RunResult
	failed   []string
	err      error
	gotFiles []loader.File
	gotOpts  services.ProcessOptions
}

func (s *stubAttendanceService) Process(ctx context.Context, files []loader.File, opts services.ProcessOptions) (*operations.RunResult, []string, error) {
	s.gotFiles = files
	s.gotOpts = opts
	return s.result, s.failed, s.err
}

func testRunResult() *operations.RunResult {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local)
	return &operations.RunResult{
		RunID: "run-123",
		Table: domain.ResultTable{Records: []domain.DailyRecord{{
			Date:        date,
			Name:        "王小明",
			EmployeeID:  "A001",
			CheckIn:     date.Add(9 * time.Hour),
			CheckOut:    date.Add(18 * time.Hour),
			ActualHours: 9.0,
		}}},
		Summary: domain.AttendanceSummary{TotalRecords: 1},
		State:   operations.NewRunState(),
	}
}

func newTestAttendanceHandler(svc AttendanceServiceInterface) *AttendanceHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAttendanceHandler(svc, logger, apierrors.NewErrorHandler(logger, false), 1<<20)
}

// multipartBody builds a form with file parts and an optional config part.
func multipartBody(t *testing.T, configJSON string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for name, content := range files {
		part, err := mw.CreateFormFile(formFieldFiles, name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	if configJSON != "" {
		require.NoError(t, mw.WriteField(formFieldConfig, configJSON))
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestProcessReturnsJSON(t *testing.T) {
	svc := &stubAttendanceService{result: testRunResult(), failed: []string{"bad.csv"}}
	h := newTestAttendanceHandler(svc)

	body, contentType := multipartBody(t, "", map[string]string{"export.csv": "data"})
	req := httptest.NewRequest("POST", "/process", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	require.Len(t, svc.gotFiles, 1)
	assert.Equal(t, "export.csv", svc.gotFiles[0].Name)

	var resp struct {
		Status string `json:"status"`
		Count  int    `json:"count"`
		Data   struct {
			RunID       string   `json:"run_id"`
			FailedFiles []string `json:"failed_files"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "run-123", resp.Data.RunID)
	assert.Equal(t, []string{"bad.csv"}, resp.Data.FailedFiles)
}

func TestProcessPassesConfigOverrides(t *testing.T) {
	svc := &stubAttendanceService{result: testRunResult()}
	h := newTestAttendanceHandler(svc)

	body, contentType := multipartBody(t,
		`{"default_start":{"hour":9,"minute":30},"standard_hours":9}`,
		map[string]string{"export.csv": "data"})
	req := httptest.NewRequest("POST", "/process", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	require.NotNil(t, svc.gotOpts.DefaultStart)
	assert.Equal(t, 9, svc.gotOpts.DefaultStart.Hour)
	assert.Equal(t, 30, svc.gotOpts.DefaultStart.Minute)
	require.NotNil(t, svc.gotOpts.StandardHours)
	assert.Equal(t, 9.0, *svc.gotOpts.StandardHours)
}

func TestProcessRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{"malformed json", `{`},
		{"unknown field", `{"bogus":true}`},
		{"invalid value", `{"standard_hours":-1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubAttendanceService{result: testRunResult()}
			h := newTestAttendanceHandler(svc)

			body, contentType := multipartBody(t, tt.config, map[string]string{"export.csv": "data"})
			req := httptest.NewRequest("POST", "/process", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			h.Routes().ServeHTTP(rec, req)

			assert.Equal(t, 400, rec.Code)
			assert.Contains(t, rec.Body.String(), "config")
		})
	}
}

func TestProcessRequiresFiles(t *testing.T) {
	svc := &stubAttendanceService{result: testRunResult()}
	h := newTestAttendanceHandler(svc)

	body, contentType := multipartBody(t, "", nil)
	req := httptest.NewRequest("POST", "/process", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, 400, rec.Code)
}

func TestProcessMapsFatalErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"missing column", &apierrors.MissingColumnError{Field: "datetime"}, 422},
		{"empty result", &apierrors.EmptyResultError{}, 422},
		{"all files undecodable", &apierrors.DecodeError{Filename: "export.csv"}, 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubAttendanceService{err: tt.err}
			h := newTestAttendanceHandler(svc)

			body, contentType := multipartBody(t, "", map[string]string{"export.csv": "data"})
			req := httptest.NewRequest("POST", "/process", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			h.Routes().ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "json")
		})
	}
}

func TestProcessCSVFormat(t *testing.T) {
	svc := &stubAttendanceService{result: testRunResult()}
	h := newTestAttendanceHandler(svc)

	body, contentType := multipartBody(t, "", map[string]string{"export.csv": "data"})
	req := httptest.NewRequest("POST", "/process?format=csv", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	raw := rec.Body.Bytes()
	require.True(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}), "CSV body should start with a UTF-8 BOM")
	assert.Contains(t, string(raw), "王小明")
	assert.Contains(t, string(raw), "2024/01/15")
}

func TestProcessExcelFormat(t *testing.T) {
	svc := &stubAttendanceService{result: testRunResult()}
	h := newTestAttendanceHandler(svc)

	body, contentType := multipartBody(t, "", map[string]string{"export.csv": "data"})
	req := httptest.NewRequest("POST", "/process?format=xlsx", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	// XLSX files are zip archives.
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func TestProcessRejectsUnknownFormat(t *testing.T) {
	svc := &stubAttendanceService{result: testRunResult()}
	h := newTestAttendanceHandler(svc)

	body, contentType := multipartBody(t, "", map[string]string{"export.csv": "data"})
	req := httptest.NewRequest("POST", "/process?format=pdf", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, 400, rec.Code)
}

func TestProcessRejectsOversizedBody(t *testing.T) {
	svc := &stubAttendanceService{result: testRunResult()}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewAttendanceHandler(svc, logger, apierrors.NewErrorHandler(logger, false), 128)

	big := make([]byte, 4096)
	body, contentType := multipartBody(t, "", map[string]string{"export.csv": string(big)})
	req := httptest.NewRequest("POST", "/process", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, 413, rec.Code)
}
