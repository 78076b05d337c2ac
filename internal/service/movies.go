// movies.go — сервис управления записями фильмов.
// Координирует repository, TMDB-клиент, LRU cache и Prometheus-метрики.
// Create: поиск в TMDB → ровно одно совпадение → merge → persist.
// Update: поля вызывающего кода принимаются как есть, без повторного
// обращения к TMDB — намеренная асимметрия относительно Create.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/moviemanager/internal/domain/model"
	"github.com/bigkaa/moviemanager/internal/repository"
	"github.com/bigkaa/moviemanager/internal/tmdb"
)

// Prometheus-метрики сервиса.
var (
	createTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mm_movie_create_total",
		Help: "Общее количество операций создания записи фильма.",
	}, []string{"result"})
	lookupDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mm_tmdb_lookup_duration_seconds",
		Help:    "Длительность поисковых запросов к TMDB.",
		Buckets: prometheus.DefBuckets,
	})
)

// LookupClient — клиент поиска метаданных во внешнем источнике.
// Реализуется tmdb.Client; в тестах подменяется моком.
type LookupClient interface {
	Search(ctx context.Context, q tmdb.LookupQuery) ([]tmdb.Candidate, error)
}

// CreateMovieInfo — команда создания записи.
type CreateMovieInfo struct {
	// Title — название, указанное пользователем
	Title string
	// Category — MOVIE или TV_SHOW
	Category tmdb.Category
	// ReleaseYear — год выхода
	ReleaseYear int
}

// UpdateMovieInfo — команда полной замены полей записи.
// Description и Rating принимаются от вызывающего кода напрямую.
type UpdateMovieInfo struct {
	Title       string
	Description string
	ReleaseYear int
	Rating      float64
}

// MovieService — сервис управления записями фильмов.
type MovieService struct {
	movieRepo repository.MovieRepository
	lookup    LookupClient
	cache     *CacheService
	logger    *slog.Logger
}

// NewMovieService создаёт сервис фильмов.
func NewMovieService(
	movieRepo repository.MovieRepository,
	lookup LookupClient,
	cache *CacheService,
	logger *slog.Logger,
) *MovieService {
	return &MovieService{
		movieRepo: movieRepo,
		lookup:    lookup,
		cache:     cache,
		logger:    logger.With(slog.String("component", "movie_service")),
	}
}

// Create создаёт запись фильма, обогащая её метаданными из TMDB.
// Название нормализуется в верхний регистр — и для поискового запроса,
// и для сохраняемой записи. Требуется ровно одно совпадение: ноль или
// несколько кандидатов — ErrUniqueMatchNotFound, запись не сохраняется.
func (s *MovieService) Create(ctx context.Context, info CreateMovieInfo) (*model.Movie, error) {
	title := strings.ToUpper(info.Title)

	start := time.Now()
	candidates, err := s.lookup.Search(ctx, tmdb.LookupQuery{
		Title:    title,
		Category: info.Category,
		Year:     info.ReleaseYear,
	})
	lookupDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		createTotal.WithLabelValues("lookup_error").Inc()
		return nil, fmt.Errorf("поиск метаданных: %w", err)
	}

	if len(candidates) != 1 {
		createTotal.WithLabelValues("no_unique_match").Inc()
		s.logger.Debug("Уникальное совпадение не найдено",
			slog.String("title", title),
			slog.Int("candidates", len(candidates)),
		)
		return nil, ErrUniqueMatchNotFound
	}

	// Merge: title и releaseYear — из команды, description и rating — из кандидата
	movie := &model.Movie{
		ID:          uuid.New().String(),
		Title:       title,
		Description: candidates[0].Description,
		ReleaseYear: info.ReleaseYear,
		Rating:      candidates[0].Rating,
	}

	if err := s.movieRepo.Create(ctx, movie); err != nil {
		createTotal.WithLabelValues("store_error").Inc()
		return nil, fmt.Errorf("сохранение записи фильма: %w", err)
	}

	createTotal.WithLabelValues("ok").Inc()
	s.cache.Set(movie.ID, movie)

	s.logger.Info("Запись фильма создана",
		slog.String("movie_id", movie.ID),
		slog.String("title", movie.Title),
	)

	return movie, nil
}

// FindAll возвращает все записи в порядке вставки, без фильтров и пагинации.
func (s *MovieService) FindAll(ctx context.Context) ([]*model.Movie, error) {
	movies, err := s.movieRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение списка фильмов: %w", err)
	}
	return movies, nil
}

// FindByID возвращает запись по ID.
// Сначала проверяет LRU-кэш, при промахе — запрос к PostgreSQL.
func (s *MovieService) FindByID(ctx context.Context, id string) (*model.Movie, error) {
	if movie, ok := s.cache.Get(id); ok {
		s.logger.Debug("Кэш hit для фильма", slog.String("movie_id", id))
		return movie, nil
	}

	movie, err := s.movieRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение записи фильма: %w", err)
	}

	s.cache.Set(id, movie)
	return movie, nil
}

// Update полностью заменяет поля записи, закрепляя ID из пути запроса.
// Любой ID во входных данных игнорируется. TMDB не опрашивается повторно.
func (s *MovieService) Update(ctx context.Context, id string, info UpdateMovieInfo) (*model.Movie, error) {
	// Сначала проверка существования: update несуществующей записи — not found
	if _, err := s.movieRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("поиск записи перед обновлением: %w", err)
	}

	movie := &model.Movie{
		ID:          id,
		Title:       info.Title,
		Description: info.Description,
		ReleaseYear: info.ReleaseYear,
		Rating:      info.Rating,
	}

	if err := s.movieRepo.Update(ctx, movie); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("обновление записи фильма: %w", err)
	}

	s.cache.Set(id, movie)

	s.logger.Info("Запись фильма обновлена", slog.String("movie_id", id))
	return movie, nil
}

// DeleteByID удаляет запись по ID.
// Сигнал репозитория "ничего не удалено" транслируется в ErrNotFound.
func (s *MovieService) DeleteByID(ctx context.Context, id string) error {
	if err := s.movieRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("удаление записи фильма: %w", err)
	}

	s.cache.Delete(id)

	s.logger.Info("Запись фильма удалена", slog.String("movie_id", id))
	return nil
}
