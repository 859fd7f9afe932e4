package httphandler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/techxplorers/portfolio/internal/application"
	"github.com/techxplorers/portfolio/internal/domain/model"
)

// Handler is the HTTP driving adapter that serves the read-only JSON API.
type Handler struct {
	reader    *application.CatalogReader
	assets    application.AssetResolver
	storeName string
	logger    *slog.Logger
}

// NewHandler creates a Handler. assets may be nil, in which case image URLs
// are never reported.
func NewHandler(
	reader *application.CatalogReader,
	assets application.AssetResolver,
	storeName string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		reader:    reader,
		assets:    assets,
		storeName: storeName,
		logger:    logger,
	}
}

// RegisterAPIRoutes registers the JSON API on mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/services", h.ListServices)
	mux.HandleFunc("GET /api/v1/services/{id}", h.GetService)
	mux.HandleFunc("GET /api/v1/health", h.Health)
}

// ApplyMiddleware wraps handler with panic recovery, security headers and
// request logging.
func ApplyMiddleware(handler http.Handler, logger *slog.Logger) http.Handler {
	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, handler)
	wrapped = securityHeaders(wrapped)
	wrapped = loggingMiddleware(logger, wrapped)
	return wrapped
}

// ListServices returns every service in id order.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	records, err := h.reader.Records(r.Context())
	if err != nil {
		h.writeReadError(w, "failed to list services", err)
		return
	}

	view := application.Render(records, h.assets, application.FlatTextConfig)
	resp := make([]ServiceResponse, 0, view.Total)
	for _, section := range view.Sections {
		for _, card := range section.Cards {
			resp = append(resp, toServiceResponse(card))
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetService returns a single service by id.
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	record, ok, err := h.reader.Find(r.Context(), id)
	if err != nil {
		h.writeReadError(w, "failed to get service", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "service not found")
		return
	}

	view := application.Render([]model.ServiceRecord{record}, h.assets, application.FlatTextConfig)
	card, _ := view.Find(id)
	writeJSON(w, http.StatusOK, toServiceResponse(card))
}

// Health reports process liveness and the state of the live catalog copy.
// It always answers 200 while the process serves requests.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status: "ok",
		Store:  h.storeName,
		Feed:   "disabled",
		Time:   time.Now().UTC().Format(time.RFC3339),
	}

	if feed := h.reader.Feed(); feed != nil {
		state := feed.State()
		resp.Services = len(state.Records)
		switch {
		case state.Err != nil:
			resp.Feed = "degraded"
			resp.FeedError = state.Err.Error()
		case state.Loaded:
			resp.Feed = "live"
		default:
			resp.Feed = "connecting"
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeReadError(w http.ResponseWriter, msg string, err error) {
	if errors.Is(err, model.ErrStoreUnavailable) {
		h.logger.Warn(msg, "error", err)
		writeError(w, http.StatusServiceUnavailable, "catalog temporarily unavailable")
		return
	}
	h.logger.Error(msg, "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
