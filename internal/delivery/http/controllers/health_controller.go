package controllers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"eventticketing/internal/delivery/http/helpers"
)

type HealthController struct {
	Logger *slog.Logger
	DB     *sql.DB
}

func NewHealthController(logger *slog.Logger, db *sql.DB) *HealthController {
	return &HealthController{Logger: logger, DB: db}
}

// Health godoc
// @Summary Service health
// @Description Reports service and database health.
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains status ok"
// @Failure 503 {object} helpers.APIResponse "error.code: internal_error (database unreachable)"
// @Router /health [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if err := c.DB.PingContext(r.Context()); err != nil {
		c.Logger.ErrorContext(r.Context(), "health check failed", "err", err)
		helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeInternalError, "database unreachable")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
