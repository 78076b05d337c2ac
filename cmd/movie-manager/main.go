// Точка входа Movie Manager — сервис управления записями фильмов и сериалов.
// Загружает конфигурацию, применяет миграции, подключается к PostgreSQL,
// создаёт TMDB-клиент, LRU-кэш, сервисный слой и API handlers,
// запускает HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/bigkaa/moviemanager/internal/api/handlers"
	"github.com/bigkaa/moviemanager/internal/config"
	"github.com/bigkaa/moviemanager/internal/database"
	"github.com/bigkaa/moviemanager/internal/repository"
	"github.com/bigkaa/moviemanager/internal/server"
	"github.com/bigkaa/moviemanager/internal/service"
	"github.com/bigkaa/moviemanager/internal/tmdb"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Movie Manager запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 5. TMDB-клиент
	tmdbClient := tmdb.New(cfg.TMDBBaseURL, cfg.TMDBAPIKey, cfg.TMDBTimeout, logger)
	logger.Info("TMDB-клиент создан",
		slog.String("base_url", cfg.TMDBBaseURL),
		slog.String("timeout", cfg.TMDBTimeout.String()),
	)

	// 6. Repository и сервисный слой
	movieRepo := repository.NewMovieRepository(pool)
	cache := service.NewCacheService(cfg.CacheSize, cfg.CacheTTL)
	movieSvc := service.NewMovieService(movieRepo, tmdbClient, cache, logger)

	// 7. Readiness checker и handlers
	pgChecker := database.NewReadinessChecker(pool)
	healthHandler := handlers.NewHealthHandler(pgChecker, logger)
	apiHandler := handlers.NewAPIHandler(movieSvc, logger)

	// 8. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, apiHandler, healthHandler)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Movie Manager остановлен")
}
