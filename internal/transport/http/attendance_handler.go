package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "attendcli/internal/errors"
	"attendcli/internal/exporter"
	"attendcli/internal/infrastructure"
	"attendcli/internal/loader"
	"attendcli/internal/operations"
	"attendcli/internal/services"
)

// Multipart form field names.
const (
	formFieldFiles  = "files"
	formFieldConfig = "config"
)

// parseMemoryLimit is how much of a multipart body is held in memory
// before the reader spills to temp files.
const parseMemoryLimit = 4 << 20

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AttendanceHandler handles attendance processing requests.
type AttendanceHandler struct {
	service        AttendanceServiceInterface
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
	validate       *validator.Validate
	maxUploadBytes int64
}

// NewAttendanceHandler creates an attendance handler. maxUploadBytes
// bounds the whole multipart body; zero disables the bound.
func NewAttendanceHandler(service AttendanceServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxUploadBytes int64) *AttendanceHandler {
	return &AttendanceHandler{
		service:        service,
		logger:         logger.With(slog.String("component", "attendance_handler")),
		errorHandler:   errorHandler,
		validate:       validator.New(),
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the attendance routes.
func (h *AttendanceHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/process", h.Process)
	return r
}

// Process handles POST /api/attendance/process. The request is a
// multipart form with one or more "files" parts and an optional
// "config" JSON part carrying per-run option overrides. The response
// format is selected by the "format" query parameter: json (default),
// csv, or xlsx.
func (h *AttendanceHandler) Process(w http.ResponseWriter, r *http.Request) {
	reqID := infrastructure.GetTraceID(r.Context())

	format := r.URL.Query().Get("format")
	switch format {
	case "", "json", "csv", "xlsx":
	default:
		render.Render(w, r, h.errorHandler.ValidationProblem(r, "format",
			fmt.Sprintf("unsupported format %q, expected json, csv or xlsx", format)))
		return
	}

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	if err := r.ParseMultipartForm(parseMemoryLimit); err != nil {
		h.logger.WarnContext(r.Context(), "multipart parse failed",
			slog.String("request_id", reqID),
			slog.String("error", err.Error()))

		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			render.Render(w, r, apierrors.NewProblemDetails(
				http.StatusRequestEntityTooLarge,
				apierrors.TypeValidation,
				"Upload Too Large",
				fmt.Sprintf("request body exceeds the %d byte upload limit", maxErr.Limit),
				r.URL.Path,
			))
			return
		}
		render.Render(w, r, h.errorHandler.ValidationProblem(r, "body", "request is not a valid multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	files, err := h.readFiles(r.MultipartForm.File[formFieldFiles])
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if len(files) == 0 {
		render.Render(w, r, h.errorHandler.ValidationProblem(r, formFieldFiles, "at least one file part is required"))
		return
	}

	opts, err := h.parseOptions(r)
	if err != nil {
		render.Render(w, r, h.errorHandler.ValidationProblem(r, formFieldConfig, err.Error()))
		return
	}

	h.logger.InfoContext(r.Context(), "processing attendance upload",
		slog.String("request_id", reqID),
		slog.Int("files", len(files)),
		slog.String("format", format))

	result, failed, err := h.service.Process(r.Context(), files, opts)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoFiles):
			render.Render(w, r, h.errorHandler.ValidationProblem(r, formFieldFiles, "at least one file part is required"))
		case errors.Is(err, services.ErrInvalidOptions):
			render.Render(w, r, h.errorHandler.ValidationProblem(r, formFieldConfig, err.Error()))
		default:
			h.errorHandler.HandleError(w, r, err)
		}
		return
	}

	switch format {
	case "csv":
		h.respondCSV(w, r, result)
	case "xlsx":
		h.respondExcel(w, r, result)
	default:
		dropped := result.State.GetCounters().PunchesDropped
		render.JSON(w, r, map[string]interface{}{
			"status": "success",
			"data": map[string]interface{}{
				"run_id":       result.RunID,
				"records":      result.Table.Records,
				"summary":      result.Summary,
				"failed_files": failed,
				"dropped_rows": dropped,
			},
			"count": len(result.Table.Records),
		})
	}
}

// readFiles drains the uploaded file parts into memory for decoding.
func (h *AttendanceHandler) readFiles(parts []*multipart.FileHeader) ([]loader.File, error) {
	files := make([]loader.File, 0, len(parts))
	for _, part := range parts {
		f, err := part.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %s: %w", part.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload %s: %w", part.Filename, err)
		}
		files = append(files, loader.File{Name: part.Filename, Data: data})
	}
	return files, nil
}

// parseOptions decodes and validates the optional config form part.
func (h *AttendanceHandler) parseOptions(r *http.Request) (services.ProcessOptions, error) {
	var opts services.ProcessOptions

	values := r.MultipartForm.Value[formFieldConfig]
	if len(values) == 0 || values[0] == "" {
		return opts, nil
	}

	decoder := json.NewDecoder(strings.NewReader(values[0]))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&opts); err != nil {
		return opts, fmt.Errorf("invalid config JSON: %v", err)
	}

	if err := h.validate.Struct(opts); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return opts, fmt.Errorf("invalid field %s", verrs[0].Namespace())
		}
		return opts, err
	}

	return opts, nil
}

func (h *AttendanceHandler) respondCSV(w http.ResponseWriter, r *http.Request, result *operations.RunResult) {
	filename := fmt.Sprintf("attendance_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := exporter.RenderCSV(w, exporter.Headers(), exporter.TableRows(&result.Table), true); err != nil {
		h.logger.ErrorContext(r.Context(), "csv stream failed",
			slog.String("error", err.Error()))
	}
}

func (h *AttendanceHandler) respondExcel(w http.ResponseWriter, r *http.Request, result *operations.RunResult) {
	filename := fmt.Sprintf("attendance_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := exporter.RenderExcel(w, &result.Table); err != nil {
		h.logger.ErrorContext(r.Context(), "excel stream failed",
			slog.String("error", err.Error()))
	}
}
