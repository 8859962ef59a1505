package handlers

import (
	"context"
	"net/http"
	"time"

	"alexandread/internal/logger"
	"alexandread/internal/utils/helpers"

	"go.uber.org/zap"
)

// Pinger - зависимость, доступность которой проверяет /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Root godoc
// @Summary Проверка, что API запущен
// @Tags health
// @Produce plain
// @Success 200 {string} string
// @Router / [get]
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Backend API is running"))
}

// Healthz godoc
// @Summary Доступность Postgres и Redis
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /healthz [get]
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	res := make(map[string]string, len(h.checks))
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			logger.WithCtx(ctx).Error("Healthcheck не пройден", zap.String("dependency", name), zap.Error(err))
			res[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		res[name] = "ok"
	}
	helpers.JSON(w, status, res)
}
