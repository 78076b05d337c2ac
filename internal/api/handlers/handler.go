// handler.go — общая инфраструктура HTTP-обработчиков Movie Manager.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bigkaa/moviemanager/internal/domain/model"
	"github.com/bigkaa/moviemanager/internal/service"
)

// MovieService — операции сервисного слоя, нужные HTTP-обработчикам.
// Реализуется service.MovieService; в тестах подменяется моком.
type MovieService interface {
	Create(ctx context.Context, info service.CreateMovieInfo) (*model.Movie, error)
	FindAll(ctx context.Context) ([]*model.Movie, error)
	FindByID(ctx context.Context, id string) (*model.Movie, error)
	Update(ctx context.Context, id string, info service.UpdateMovieInfo) (*model.Movie, error)
	DeleteByID(ctx context.Context, id string) error
}

// APIHandler обрабатывает запросы REST API фильмов.
type APIHandler struct {
	movies MovieService
	logger *slog.Logger
}

// NewAPIHandler создаёт новый APIHandler.
func NewAPIHandler(movies MovieService, logger *slog.Logger) *APIHandler {
	return &APIHandler{
		movies: movies,
		logger: logger.With("component", "api"),
	}
}

// writeJSON сериализует body в JSON и пишет ответ со статусом statusCode.
func (h *APIHandler) writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("не удалось записать JSON-ответ", "error", err)
	}
}
