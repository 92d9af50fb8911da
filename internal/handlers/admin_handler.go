package handlers

import (
	"context"
	"net/http"

	"github.com/courseenroll/backend/libs/handlers"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SchemaMaintainer is the interface that wraps schema maintenance operations.
type SchemaMaintainer interface {
	// Method Migrate applies pending migrations, having none pending is not an error.
	Migrate(ctx context.Context) error
	// Method ListTables returns the table names of the database.
	ListTables(ctx context.Context) ([]string, error)
}

// AdminHandler handles schema maintenance HTTP requests guarded by the migrate token
type AdminHandler struct {
	handlers.BaseHandler
	maintainer SchemaMaintainer
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(maintainer SchemaMaintainer, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler: handlers.BaseHandler{Logger: logger},
		maintainer:  maintainer,
	}
}

// RegisterRoutes registers the maintenance routes behind the given token middleware
func (h *AdminHandler) RegisterRoutes(r chi.Router, tokenMiddleware func(http.Handler) http.Handler) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(tokenMiddleware)
		r.Post("/migrate", h.Migrate)
		r.Get("/tables", h.ListTables)
	})
}

// Migrate handles POST /admin/migrate
// @Summary Apply schema migrations
// @Tags admin
// @Produce json
// @Param X-Migrate-Token header string true "Migration secret"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Migration failed"
// @Failure 503 {object} map[string]string "Migration secret not configured"
// @Router /admin/migrate [post]
func (h *AdminHandler) Migrate(w http.ResponseWriter, r *http.Request) {
	if err := h.maintainer.Migrate(r.Context()); err != nil {
		h.Logger.Error("failed to run migrations", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "migration failed; check logs")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "migrations applied successfully",
	})
}

// ListTables handles GET /admin/tables
// @Summary List database tables
// @Tags admin
// @Produce json
// @Param X-Migrate-Token header string true "Migration secret"
// @Success 200 {object} map[string][]string
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 503 {object} map[string]string "Database unavailable"
// @Router /admin/tables [get]
func (h *AdminHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.maintainer.ListTables(r.Context())
	if err != nil {
		h.Logger.Error("failed to list tables", zap.Error(err))
		h.RespondError(w, http.StatusServiceUnavailable, "database error, ensure the database is reachable")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string][]string{"tables": tables})
}

// Health handles GET /
// @Summary Service status
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func (h *AdminHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "course enrollment API is running"})
}
