package health

import (
	"context"
	"net/http"
	"time"

	"github.com/m04kA/counseling-booking-service/internal/api/handlers"
)

const readyTimeout = 2 * time.Second

// Pinger зависимость, доступность которой проверяет /readyz
type Pinger interface {
	Ping(ctx context.Context) error
}

type Logger interface {
	Warn(format string, v ...interface{})
}

// StatusResponse ответ проверки готовности
type StatusResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type Handler struct {
	checks map[string]Pinger
	logger Logger
}

// NewHandler checks: имя зависимости -> проверка
func NewHandler(checks map[string]Pinger, logger Logger) *Handler {
	return &Handler{
		checks: checks,
		logger: logger,
	}
}

// HandleLive GET /healthz
func (h *Handler) HandleLive(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// HandleReady GET /readyz
func (h *Handler) HandleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	resp := StatusResponse{Status: "ok", Checks: make(map[string]string, len(h.checks))}
	status := http.StatusOK
	for name, pinger := range h.checks {
		if err := pinger.Ping(ctx); err != nil {
			h.logger.Warn("GET /readyz - %s is unavailable: %v", name, err)
			resp.Checks[name] = "unavailable"
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	handlers.RespondJSON(w, status, resp)
}
