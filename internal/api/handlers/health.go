// health.go — health check endpoints Movie Manager.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// serviceName — имя сервиса в ответах health check.
const serviceName = "movie-manager"

// ReadinessChecker проверяет готовность зависимостей сервиса.
type ReadinessChecker interface {
	CheckReady() (status string, message string)
}

// healthLiveResponse — ответ liveness probe.
type healthLiveResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

// healthReadyResponse — ответ readiness probe.
type healthReadyResponse struct {
	Status    string                 `json:"status"`
	Service   string                 `json:"service"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]checkResult `json:"checks"`
}

// checkResult — результат проверки одной зависимости.
type checkResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthHandler обрабатывает health check запросы.
type HealthHandler struct {
	readiness ReadinessChecker
	logger    *slog.Logger
}

// NewHealthHandler создаёт новый HealthHandler.
func NewHealthHandler(readiness ReadinessChecker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		readiness: readiness,
		logger:    logger.With("component", "health"),
	}
}

// Live обрабатывает GET /health/live.
// Всегда возвращает 200, если процесс жив.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	resp := healthLiveResponse{
		Status:    "ok",
		Service:   serviceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("не удалось записать ответ liveness", "error", err)
	}
}

// Ready обрабатывает GET /health/ready.
// Проверяет доступность базы данных. При недоступности возвращает 503.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	dbStatus, dbMessage := h.readiness.CheckReady()

	checks := map[string]checkResult{
		"database": {Status: dbStatus, Message: dbMessage},
	}

	resp := healthReadyResponse{
		Status:    overallStatus(checks),
		Service:   serviceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	statusCode := http.StatusOK
	if resp.Status != "ok" {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("не удалось записать ответ readiness", "error", err)
	}
}

// overallStatus возвращает "ok" только если все проверки прошли успешно.
func overallStatus(checks map[string]checkResult) string {
	for _, c := range checks {
		if c.Status != "ok" {
			return "fail"
		}
	}
	return "ok"
}
