// Пакет config — загрузка и валидация конфигурации Movie Manager
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации Movie Manager.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- HTTP Server Timeouts ---

	// Таймаут чтения HTTP-сервера (по умолчанию 30s)
	HTTPReadTimeout time.Duration
	// Таймаут записи HTTP-сервера (по умолчанию 60s)
	HTTPWriteTimeout time.Duration
	// Таймаут простоя HTTP-сервера (по умолчанию 120s)
	HTTPIdleTimeout time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown (по умолчанию 5s)
	ShutdownTimeout time.Duration

	// --- PostgreSQL ---

	// Хост PostgreSQL
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных
	DBName string
	// Пользователь базы данных
	DBUser string
	// Пароль пользователя базы данных
	DBPassword string
	// Режим SSL (disable, require, verify-full)
	DBSSLMode string

	// --- TMDB (внешний источник метаданных) ---

	// Базовый URL TMDB API (по умолчанию https://api.themoviedb.org)
	TMDBBaseURL string
	// API-ключ TMDB
	TMDBAPIKey string
	// Таймаут запросов к TMDB (по умолчанию 10s)
	TMDBTimeout time.Duration

	// --- Кэш записей ---

	// Максимальное количество записей в LRU-кэше (по умолчанию 1000)
	CacheSize int
	// TTL записи кэша (по умолчанию 5m)
	CacheTTL time.Duration
}

// Load загружает конфигурацию из переменных окружения.
// Возвращает ошибку, если обязательные переменные не заданы
// или значения некорректны.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// MM_PORT — порт HTTP-сервера (по умолчанию 8040)
	cfg.Port, err = getEnvInt("MM_PORT", 8040)
	if err != nil {
		return nil, fmt.Errorf("MM_PORT: %w", err)
	}

	// MM_LOG_LEVEL — уровень логирования (по умолчанию info)
	logLevel := getEnvDefault("MM_LOG_LEVEL", "info")
	cfg.LogLevel, err = parseLogLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("MM_LOG_LEVEL: %w", err)
	}

	// MM_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("MM_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("MM_LOG_FORMAT: недопустимый формат %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- HTTP Server Timeouts ---

	cfg.HTTPReadTimeout, err = getEnvDuration("MM_HTTP_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MM_HTTP_READ_TIMEOUT: %w", err)
	}

	cfg.HTTPWriteTimeout, err = getEnvDuration("MM_HTTP_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MM_HTTP_WRITE_TIMEOUT: %w", err)
	}

	cfg.HTTPIdleTimeout, err = getEnvDuration("MM_HTTP_IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MM_HTTP_IDLE_TIMEOUT: %w", err)
	}

	// --- Graceful shutdown ---

	cfg.ShutdownTimeout, err = getEnvDuration("MM_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MM_SHUTDOWN_TIMEOUT: %w", err)
	}

	// --- PostgreSQL ---

	// MM_DB_HOST — обязательный
	cfg.DBHost, err = getEnvRequired("MM_DB_HOST")
	if err != nil {
		return nil, err
	}

	cfg.DBPort, err = getEnvInt("MM_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("MM_DB_PORT: %w", err)
	}

	// MM_DB_NAME — обязательный
	cfg.DBName, err = getEnvRequired("MM_DB_NAME")
	if err != nil {
		return nil, err
	}

	// MM_DB_USER — обязательный
	cfg.DBUser, err = getEnvRequired("MM_DB_USER")
	if err != nil {
		return nil, err
	}

	// MM_DB_PASSWORD — обязательный
	cfg.DBPassword, err = getEnvRequired("MM_DB_PASSWORD")
	if err != nil {
		return nil, err
	}

	cfg.DBSSLMode = getEnvDefault("MM_DB_SSL_MODE", "disable")

	// --- TMDB ---

	cfg.TMDBBaseURL = getEnvDefault("MM_TMDB_BASE_URL", "https://api.themoviedb.org")

	// MM_TMDB_API_KEY — обязательный, ключ не хардкодится в коде
	cfg.TMDBAPIKey, err = getEnvRequired("MM_TMDB_API_KEY")
	if err != nil {
		return nil, err
	}

	cfg.TMDBTimeout, err = getEnvDuration("MM_TMDB_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MM_TMDB_TIMEOUT: %w", err)
	}
	if cfg.TMDBTimeout <= 0 {
		return nil, fmt.Errorf("MM_TMDB_TIMEOUT: значение должно быть > 0")
	}

	// --- Кэш записей ---

	cfg.CacheSize, err = getEnvInt("MM_CACHE_SIZE", 1000)
	if err != nil {
		return nil, fmt.Errorf("MM_CACHE_SIZE: %w", err)
	}
	if cfg.CacheSize < 1 {
		return nil, fmt.Errorf("MM_CACHE_SIZE: значение должно быть >= 1")
	}

	cfg.CacheTTL, err = getEnvDuration("MM_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("MM_CACHE_TTL: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
