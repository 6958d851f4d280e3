package rest

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Abdurahmanit/meraroom-service/internal/platform/logger"
	"go.uber.org/zap"
)

// FileHandler streams stored uploads.
type FileHandler struct {
	responder
	files FileOpener
}

func NewFileHandler(files FileOpener, production bool, log *logger.Logger) *FileHandler {
	return &FileHandler{
		responder: responder{logger: log.Named("FileHandler"), production: production},
		files:     files,
	}
}

func (h *FileHandler) Serve(w http.ResponseWriter, r *http.Request) {
	f, err := h.files.Open(r.Context(), r.URL.Path)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer f.Body.Close()

	if f.ContentType != "" {
		w.Header().Set("Content-Type", f.ContentType)
	}
	if f.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(f.Size, 10))
	}
	if !f.ModTime.IsZero() {
		w.Header().Set("Last-Modified", f.ModTime.UTC().Format(http.TimeFormat))
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, f.Body); err != nil {
		h.logger.Warn("Streaming upload interrupted", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

// HealthHandler reports liveness and database reachability.
type HealthHandler struct {
	responder
	db Pinger
}

func NewHealthHandler(db Pinger, log *logger.Logger) *HealthHandler {
	return &HealthHandler{responder: responder{logger: log.Named("HealthHandler")}, db: db}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok", "mongo": "up"}
	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("Health check: database unreachable", zap.Error(err))
		status["status"], status["mongo"] = "degraded", "down"
		h.writeJSON(w, http.StatusServiceUnavailable, envelope{Success: false, Data: status})
		return
	}
	h.ok(w, http.StatusOK, status, "")
}
