package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mtlprog/khomvg/docs" // Import generated docs
	"github.com/mtlprog/khomvg/internal/config"
	"github.com/mtlprog/khomvg/internal/handler/dto"
	"github.com/mtlprog/khomvg/internal/middleware"
	"github.com/mtlprog/khomvg/internal/repository"
	"github.com/mtlprog/khomvg/internal/service"
	"github.com/mtlprog/khomvg/internal/static"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Options tunes the HTTP layer.
type Options struct {
	RateLimit   float64 // requests per second per user; <= 0 disables throttling
	RateBurst   int
	DueSoonDays int
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		RateLimit:   config.DefaultRateLimit,
		RateBurst:   config.DefaultRateBurst,
		DueSoonDays: config.DefaultDueSoonDays,
	}
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pool           *pgxpool.Pool
	taskService    *service.TaskService
	authMiddleware *middleware.AuthMiddleware
	rateLimiter    *middleware.RateLimiter
	dueSoonDays    int
}

// New creates a new Handler instance with all dependencies.
func New(pool *pgxpool.Pool, clock service.Clock, opts Options) *Handler {
	taskRepo := repository.NewTaskRepository(pool)
	eventRepo := repository.NewTaskEventRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	projectRepo := repository.NewProjectRepository(pool)

	taskService := service.NewTaskService(pool, taskRepo, eventRepo, userRepo, projectRepo, clock)

	if opts.DueSoonDays <= 0 {
		opts.DueSoonDays = config.DefaultDueSoonDays
	}

	return &Handler{
		pool:           pool,
		taskService:    taskService,
		authMiddleware: middleware.NewAuthMiddleware(userRepo),
		rateLimiter:    middleware.NewRateLimiter(opts.RateLimit, opts.RateBurst),
		dueSoonDays:    opts.DueSoonDays,
	}
}

// TaskService exposes the service for background jobs sharing this handler's wiring.
func (h *Handler) TaskService() *service.TaskService {
	return h.taskService
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// API guide
	mux.HandleFunc("GET /guide.md", h.handleGuideMd)

	// Swagger UI
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler())

	// API v1 routes with authentication
	mux.Handle("GET /api/v1/tasks", h.protect(h.handleListTasks))
	mux.Handle("POST /api/v1/tasks", h.protect(h.handleCreateTask))
	mux.Handle("GET /api/v1/tasks/{id}", h.protect(h.handleGetTask))
	mux.Handle("PUT /api/v1/tasks/{id}", h.protect(h.handleUpdateTask))
	mux.Handle("PATCH /api/v1/tasks/{id}/status", h.protect(h.handleTransitionStatus))
	mux.Handle("PATCH /api/v1/tasks/{id}/complete", h.protect(h.handleCompleteTask))
	mux.Handle("POST /api/v1/tasks/{id}/comments", h.protect(h.handleCommentTask))
	mux.Handle("GET /api/v1/stats", h.protect(h.handleGetStats))
}

// Routes returns the full handler tree with request logging.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return middleware.RequestLogger(mux)
}

// protect authenticates the caller, then applies the per-user rate limit.
func (h *Handler) protect(fn http.HandlerFunc) http.Handler {
	return h.authMiddleware.Authenticate(h.rateLimiter.Limit(fn))
}

// handleHealthz returns 200 OK if the database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.pool.Ping(ctx); err != nil {
		slog.Error("database health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleGuideMd serves the embedded API guide.
func (h *Handler) handleGuideMd(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(static.GuideMd)); err != nil {
		slog.Error("failed to write guide", "error", err)
	}
}

// Ping checks if the database is reachable (used for testing).
func (h *Handler) Ping(ctx context.Context) error {
	return h.pool.Ping(ctx)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// respondDomainError maps a service error to its HTTP response.
func respondDomainError(w http.ResponseWriter, err error) {
	status, resp := dto.NewDomainErrorResponse(err)
	respondJSON(w, status, resp)
}

// extractTaskID extracts and validates task ID from path parameter.
// Returns (taskID, true) if valid, ("", false) if invalid (error already sent to client).
func extractTaskID(w http.ResponseWriter, r *http.Request) (string, bool) {
	taskID := r.PathValue("id")
	if taskID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "task id is required")
		return "", false
	}

	if _, err := uuid.Parse(taskID); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "task_id must be a valid UUID")
		return "", false
	}

	return taskID, true
}

// decodeJSON reads the request body into v, answering 400 on malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body: "+err.Error())
		return false
	}
	return true
}
