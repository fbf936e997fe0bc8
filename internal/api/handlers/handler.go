// handler.go - APIHandler реализует router.ServerInterface,
// делегируя вызовы в сервисный слой и HealthHandler.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bigkaa/pdfstore/internal/api/router"
	"github.com/bigkaa/pdfstore/internal/domain/model"
	"github.com/bigkaa/pdfstore/internal/service"
)

// FileUploader - загрузка и список файлов.
type FileUploader interface {
	Upload(ctx context.Context, params service.UploadParams) (*model.UploadedFile, error)
	List(ctx context.Context) ([]*model.UploadedFile, error)
}

// FileDeleter - удаление файла по id.
type FileDeleter interface {
	Delete(ctx context.Context, id int64) error
}

// FileRetriever - выдача содержимого файла по id.
type FileRetriever interface {
	Retrieve(ctx context.Context, id int64) (*service.RetrievedFile, error)
}

// APIHandler - единая реализация ServerInterface.
type APIHandler struct {
	uploader      FileUploader
	deleter       FileDeleter
	retriever     FileRetriever
	health        *HealthHandler
	openapiJSON   []byte
	publicBaseURL string
	maxFileSize   int64
	logger        *slog.Logger
}

var _ router.ServerInterface = (*APIHandler)(nil)

// NewAPIHandler создаёт основной обработчик API.
// publicBaseURL используется для построения view_url и delete_url.
func NewAPIHandler(
	uploader FileUploader,
	deleter FileDeleter,
	retriever FileRetriever,
	health *HealthHandler,
	openapiJSON []byte,
	publicBaseURL string,
	maxFileSize int64,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		uploader:      uploader,
		deleter:       deleter,
		retriever:     retriever,
		health:        health,
		openapiJSON:   openapiJSON,
		publicBaseURL: publicBaseURL,
		maxFileSize:   maxFileSize,
		logger:        logger.With(slog.String("component", "api_handler")),
	}
}

// --- Health endpoints (делегируются в HealthHandler) ---

// HealthLive - liveness probe.
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady - readiness probe.
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics - Prometheus метрики.
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// GetOpenAPISpec отдаёт встроенный OpenAPI документ.
func (h *APIHandler) GetOpenAPISpec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.openapiJSON)
}

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
