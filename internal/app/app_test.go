package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendcli/internal/config"
	"attendcli/internal/infrastructure"
	"attendcli/internal/services"
)

// newTestApplication wires an application without the OTel exporters so
// tests can run side by side without fighting over the Prometheus
// registry.
func newTestApplication(t *testing.T) *Application {
	t.Helper()

	cfg := config.Default()
	cfg.Security.RateLimit.Enabled = false

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := &Application{
		Config:        &cfg,
		Logger:        logger,
		OTelProviders: &infrastructure.OTelProviders{Logger: logger},
	}

	require.NoError(t, app.initializeServices(config.PathsRelativeTo(t.TempDir())))
	app.setupRouter()
	app.createServer()
	return app
}

func TestHealthRoute(t *testing.T) {
	app := newTestApplication(t)

	req := httptest.NewRequest("GET", "/api/health", nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)

	var status services.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
}

func TestVersionRoute(t *testing.T) {
	app := newTestApplication(t)

	req := httptest.NewRequest("GET", "/api/health/version", nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), config.AppVersion)
}

func TestUnknownAPIRouteReturnsProblem(t *testing.T) {
	app := newTestApplication(t)

	req := httptest.NewRequest("GET", "/api/nope", nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	assert.Equal(t, 404, rec.Code)
	assert.Contains(t, rec.Body.String(), "not-found")
}

func TestRequestIDHeaderPropagates(t *testing.T) {
	app := newTestApplication(t)

	req := httptest.NewRequest("GET", "/api/health", nil)
	req.Header.Set("X-Request-ID", "test-req-42")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	assert.Equal(t, "test-req-42", rec.Header().Get("X-Request-ID"))
}

func TestProcessEndToEnd(t *testing.T) {
	app := newTestApplication(t)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("files", "export.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(
		"姓名,考勤號碼,日期時間,簽到狀態\n" +
			"王小明,A001,2024/1/15 08:55,上班\n" +
			"王小明,A001,2024/1/15 12:00,下班\n" +
			"王小明,A001,2024/1/15 13:00,上班\n" +
			"王小明,A001,2024/1/15 18:04,下班\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/attendance/process", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code, rec.Body.String())

	var resp struct {
		Status string `json:"status"`
		Count  int    `json:"count"`
		Data   struct {
			RunID   string `json:"run_id"`
			Records []struct {
				Name         string `json:"name"`
				EmployeeID   string `json:"employee_id"`
				BreakMinutes int    `json:"break_minutes"`
			} `json:"records"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 1, resp.Count)
	assert.NotEmpty(t, resp.Data.RunID)
	require.Len(t, resp.Data.Records, 1)
	assert.Equal(t, "A001", resp.Data.Records[0].EmployeeID)
	assert.Equal(t, 60, resp.Data.Records[0].BreakMinutes)
}

func TestServerConfiguration(t *testing.T) {
	app := newTestApplication(t)

	assert.Equal(t, ":8080", app.Server.Addr)
	assert.Equal(t, app.Config.Server.ReadTimeout, app.Server.ReadTimeout)
	assert.Equal(t, app.Config.Server.WriteTimeout, app.Server.WriteTimeout)
	assert.Equal(t, app.Config.Server.IdleTimeout, app.Server.IdleTimeout)
}
