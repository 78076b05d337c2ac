// Пакет service — бизнес-логика Movie Manager.
// CacheService — LRU-кэш записей фильмов с TTL.
// Обёртка над hashicorp/golang-lru/v2/expirable.
package service

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/moviemanager/internal/domain/model"
)

// Prometheus-метрики кэша.
var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mm_cache_hits_total",
		Help: "Общее количество попаданий в LRU-кэш записей фильмов.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mm_cache_misses_total",
		Help: "Общее количество промахов LRU-кэша записей фильмов.",
	})
)

// CacheService — LRU-кэш записей фильмов с автоматическим TTL.
// Каждый экземпляр сервиса имеет собственный in-memory кэш (per-instance).
type CacheService struct {
	cache *expirable.LRU[string, *model.Movie]
}

// NewCacheService создаёт LRU-кэш с указанным максимальным размером и TTL.
// maxSize — максимальное количество записей в кэше.
// ttl — время жизни записи после добавления.
func NewCacheService(maxSize int, ttl time.Duration) *CacheService {
	cache := expirable.NewLRU[string, *model.Movie](maxSize, nil, ttl)
	return &CacheService{cache: cache}
}

// Get возвращает Movie из кэша по id.
// Возвращает (запись, true) при hit или (nil, false) при miss.
// Обновляет Prometheus-метрики hit/miss.
func (c *CacheService) Get(id string) (*model.Movie, bool) {
	val, ok := c.cache.Get(id)
	if ok {
		cacheHitsTotal.Inc()
		return val, true
	}
	cacheMissesTotal.Inc()
	return nil, false
}

// Set добавляет или обновляет запись в кэше.
func (c *CacheService) Set(id string, movie *model.Movie) {
	c.cache.Add(id, movie)
}

// Delete удаляет запись из кэша (инвалидация при update/delete).
func (c *CacheService) Delete(id string) {
	c.cache.Remove(id)
}
