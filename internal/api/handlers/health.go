package handlers

import (
	"net/http"

	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/api/response"
	"github.com/Ver-zz-ato/mtg-ai-assistant-backend-sub004/internal/storage"
)

// HealthHandler reports service liveness and database reachability.
type HealthHandler struct {
	db *storage.DB
}

// NewHealthHandler creates a new HealthHandler. The database may be nil
// when the server runs with the in-memory cache only.
func NewHealthHandler(db *storage.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health returns the service status.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
			response.JSON(w, http.StatusServiceUnavailable, status)
			return
		}
		status["database"] = "ok"
	}

	response.JSON(w, http.StatusOK, status)
}
