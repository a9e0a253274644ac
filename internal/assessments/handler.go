package assessments

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/refurbly/gradeserver/internal/media"
	"github.com/refurbly/gradeserver/pkg/handlers"
	"github.com/refurbly/gradeserver/pkg/pagination"
	"github.com/refurbly/gradeserver/pkg/routes"
)

// Handler provides HTTP endpoints for laptop condition assessments.
type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxFiles      int
	maxUploadSize int64
}

// NewHandler creates an assessments HTTP handler with the specified upload limits.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config, maxFiles int, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "assessments"),
		pagination:    pagination,
		maxFiles:      maxFiles,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route configuration for assessment endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/api/assessments",
		Tags:        []string{"Assessments"},
		Description: "Laptop condition assessment from uploaded photos and videos",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/search", Handler: h.Search},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
		},
	}
}

// Create handles POST / - grades every uploaded file and returns one outcome
// per file. The response is 200 even when individual files fail; per-item
// status lives in the body.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	// Total form budget covers every file plus multipart overhead.
	formBudget := h.maxUploadSize*int64(h.maxFiles) + 10<<20
	if err := r.ParseMultipartForm(formBudget); err != nil {
		status := http.StatusBadRequest
		mapped := fmt.Errorf("%w: %v", ErrMalformedForm, err)
		if errors.Is(err, http.ErrNotMultipart) {
			mapped = ErrMalformedForm
		}
		handlers.RespondError(w, h.logger, status, mapped)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNoFiles)
		return
	}
	if len(files) > h.maxFiles {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			fmt.Errorf("%w: %d files submitted, maximum is %d", ErrTooManyFiles, len(files), h.maxFiles))
		return
	}

	items := make([]media.UploadItem, 0, len(files))
	for _, header := range files {
		if header.Size > h.maxUploadSize {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge,
				fmt.Errorf("%w: %s", ErrFileTooLarge, header.Filename))
			return
		}

		file, err := header.Open()
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest,
				fmt.Errorf("%w: %s: %v", ErrMalformedForm, header.Filename, err))
			return
		}

		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest,
				fmt.Errorf("%w: %s: %v", ErrMalformedForm, header.Filename, err))
			return
		}

		items = append(items, media.UploadItem{
			Data:                data,
			DeclaredContentType: header.Header.Get("Content-Type"),
			FileName:            header.Filename,
			SizeBytes:           header.Size,
		})
	}

	result := h.sys.AssessBatch(r.Context(), items)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// List handles GET / - returns paginated assessments, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.sys.List(r.Context(), page, Filters{})
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Search handles GET /search - returns paginated assessments matching grade,
// text, and date-range filters.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	filters, err := FiltersFromQuery(r.URL.Query())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find handles GET /{id} - returns one assessment by record ID.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	a, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, a)
}
