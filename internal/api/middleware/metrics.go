// metrics.go - Prometheus HTTP метрики PDF Store.
// Регистрирует метрики: ps_http_requests_total, ps_http_request_duration_seconds.
// Нормализация путей ограничивает кардинальность лейблов.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ps_http_requests_total",
			Help: "Общее количество HTTP-запросов к PDF Store",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ps_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к PDF Store в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			normalizedPath := normalizePath(r.URL.Path)

			wrapped := newResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			status := strconv.Itoa(wrapped.statusCode)
			httpRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, normalizedPath).Observe(time.Since(start).Seconds())
		})
	}
}

// knownPaths - статические маршруты API.
var knownPaths = map[string]bool{
	"/api/v1/files":        true,
	"/api/v1/openapi.json": true,
	"/upload":              true,
	"/list":                true,
	"/api/upload-pdf":      true,
	"/health/live":         true,
	"/health/ready":        true,
	"/metrics":             true,
}

// normalizePath заменяет сегмент id на {id}.
// /api/v1/files/42 → /api/v1/files/{id}
// /api/v1/files/42/view → /api/v1/files/{id}/view
// /view/42 → /view/{id}
// Неизвестные пути сводятся к "other".
func normalizePath(path string) string {
	if p := strings.TrimSuffix(path, "/"); knownPaths[p] {
		return p
	}

	segments := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case len(segments) == 4 && segments[0] == "api" && segments[1] == "v1" && segments[2] == "files":
		return "/api/v1/files/{id}"
	case len(segments) == 5 && segments[0] == "api" && segments[1] == "v1" && segments[2] == "files" && segments[4] == "view":
		return "/api/v1/files/{id}/view"
	case len(segments) == 2 && (segments[0] == "view" || segments[0] == "delete"):
		return "/" + segments[0] + "/{id}"
	case len(segments) == 3 && segments[0] == "api" && segments[1] == "delete-pdf":
		return "/api/delete-pdf/{id}"
	}

	return "other"
}
