package handlers

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// SystemHandler serves liveness, health and the map page
type SystemHandler struct {
	db         Pinger
	staticPath string
	logger     *logrus.Logger
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(db Pinger, staticPath string, logger *logrus.Logger) *SystemHandler {
	return &SystemHandler{db: db, staticPath: staticPath, logger: logger}
}

// Root handles GET /
func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.logger, http.StatusOK, map[string]string{"message": RunningMessage})
}

// Health handles GET /healthz
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		respondWithError(w, h.logger, http.StatusServiceUnavailable, ErrDatabaseUnavailable, "Health check failed", err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]string{"status": StatusOK})
}

// Map handles GET /map
func (h *SystemHandler) Map(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(h.staticPath, "map.html")
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		respondWithError(w, h.logger, http.StatusNotFound, ErrMapNotFound, "", nil)
		return
	}
	http.ServeFile(w, r, path)
}
