// Пакет service - бизнес-логика PDF Store.
// CacheService - LRU-кэш метаданных файлов с TTL.
// Обёртка над hashicorp/golang-lru/v2/expirable.
package service

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/pdfstore/internal/domain/model"
)

// Prometheus-метрики кэша.
var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ps_cache_hits_total",
		Help: "Общее количество попаданий в LRU-кэш метаданных.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ps_cache_misses_total",
		Help: "Общее количество промахов LRU-кэша метаданных.",
	})
)

// CacheService - LRU-кэш записей uploaded_files по id.
// nil *CacheService допустим и ведёт себя как отключённый кэш.
type CacheService struct {
	cache *expirable.LRU[int64, *model.UploadedFile]
}

// NewCacheService создаёт LRU-кэш с указанным максимальным размером и TTL.
// При maxSize <= 0 возвращает nil (кэш отключён).
func NewCacheService(maxSize int, ttl time.Duration) *CacheService {
	if maxSize <= 0 {
		return nil
	}
	return &CacheService{
		cache: expirable.NewLRU[int64, *model.UploadedFile](maxSize, nil, ttl),
	}
}

// Get возвращает запись из кэша.
// Возвращает (запись, true) при hit или (nil, false) при miss.
func (c *CacheService) Get(id int64) (*model.UploadedFile, bool) {
	if c == nil {
		return nil, false
	}
	val, ok := c.cache.Get(id)
	if ok {
		cacheHitsTotal.Inc()
		return val, true
	}
	cacheMissesTotal.Inc()
	return nil, false
}

// Set добавляет или обновляет запись в кэше.
func (c *CacheService) Set(record *model.UploadedFile) {
	if c == nil {
		return
	}
	c.cache.Add(record.ID, record)
}

// Delete удаляет запись из кэша.
func (c *CacheService) Delete(id int64) {
	if c == nil {
		return
	}
	c.cache.Remove(id)
}

// Len возвращает количество записей в кэше.
func (c *CacheService) Len() int {
	if c == nil {
		return 0
	}
	return c.cache.Len()
}
