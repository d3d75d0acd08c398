// Package api exposes the proxy's HTTP surface.
package api

import (
	"encoding/json"
	"net/http"

	"lifeos-proxy/internal/domain"
	"lifeos-proxy/internal/errors"
	"lifeos-proxy/internal/services"
	"lifeos-proxy/internal/validation"

	"github.com/charmbracelet/log"
)

// Version is set at build time or defaults to dev.
var Version = "dev"

// Handlers holds the HTTP handler methods.
type Handlers struct {
	service   services.TaskService
	validator *validation.Validator
	logger    *log.Logger
}

// NewHandlers creates a new Handlers over service.
func NewHandlers(service services.TaskService, logger *log.Logger) *Handlers {
	if logger == nil {
		logger = log.Default()
	}
	return &Handlers{
		service:   service,
		validator: validation.NewValidator(),
		logger:    logger,
	}
}

// HandleTasks returns today's tasks, or tomorrow's when ?tomorrow=1.
func (h *Handlers) HandleTasks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	listing, err := h.service.ListTasks(r.Context(), services.TaskQuery{
		Tomorrow: h.validator.IsTruthyFlag(query.Get("tomorrow")),
	})
	if err != nil {
		h.logFailure(r, "task listing failed", err)
		writeJSON(w, errors.HTTPStatus(err), StatusErrorResponse{Status: "error", Message: errors.GetUserMessage(err)})
		return
	}

	resp := TasksResponse{Status: "ok", Tasks: listing.Tasks}
	if resp.Tasks == nil {
		resp.Tasks = []domain.TaskRecord{}
	}
	if h.validator.IsTruthyFlag(query.Get("debug")) {
		resp.Debug = &listing.Debug
	}
	h.logger.Debug("tasks served", "target_day", listing.Debug.TargetDay, "matched", listing.Debug.MatchedRows, "parsed", listing.Debug.ParsedRows)
	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdate forwards ?taskKey=&status= to the write-back endpoint and
// relays its answer unchanged.
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	relayed, err := h.service.UpdateStatus(r.Context(), query.Get("taskKey"), query.Get("status"))
	if err != nil {
		h.logFailure(r, "status update failed", err)
		writeError(w, errors.HTTPStatus(err), errors.GetUserMessage(err))
		return
	}

	h.logger.Info("status update relayed", "task_key", query.Get("taskKey"), "upstream_status", relayed.StatusCode)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(relayed.StatusCode)
	w.Write(relayed.Body) //nolint:errcheck
}

// HandleStats returns the dated rows of the statistics sheet.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.ListStats(r.Context())
	if err != nil {
		h.logFailure(r, "stats listing failed", err)
		writeError(w, errors.HTTPStatus(err), errors.GetUserMessage(err))
		return
	}
	if stats == nil {
		stats = []domain.StatsRecord{}
	}
	writeJSON(w, http.StatusOK, StatsResponse{Status: "ok", Stats: stats})
}

// HandleHealth returns a simple health check response.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: Version})
}

// HandlePing answers every unrouted request with usage information.
func (h *Handlers) HandlePing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, PingResponse{Message: PingMessage, Usage: PingUsage})
}

// RegisterRoutes registers all routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, h *Handlers) {
	mux.HandleFunc("GET /tasks", h.HandleTasks)
	mux.HandleFunc("GET /update", h.HandleUpdate)
	mux.HandleFunc("GET /stats", h.HandleStats)
	mux.HandleFunc("GET /healthz", h.HandleHealth)
	mux.HandleFunc("/", h.HandlePing)
}

func (h *Handlers) logFailure(r *http.Request, msg string, err error) {
	if !errors.ShouldLogError(err) {
		return
	}
	h.logger.Error(msg, "path", r.URL.Path, "request_id", RequestIDFromContext(r.Context()), "code", errors.GetErrorCode(err), "err", err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
