// delete.go - удаление записи и байтов файла.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/pdfstore/internal/repository"
	"github.com/bigkaa/pdfstore/internal/storage/filestore"
)

var deletesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ps_deletes_total",
	Help: "Общее количество удалений (по статусу).",
}, []string{"status"})

// DeleteService - удаление файлов.
type DeleteService struct {
	repo   repository.UploadedFileRepository
	store  *filestore.FileStore
	cache  *CacheService
	logger *slog.Logger
}

// NewDeleteService создаёт сервис удаления.
func NewDeleteService(
	repo repository.UploadedFileRepository,
	store *filestore.FileStore,
	cache *CacheService,
	logger *slog.Logger,
) *DeleteService {
	return &DeleteService{
		repo:   repo,
		store:  store,
		cache:  cache,
		logger: logger.With(slog.String("component", "delete_service")),
	}
}

// Delete удаляет запись, затем файл на диске.
// Ошибка удаления файла только логируется: запись уже удалена.
func (s *DeleteService) Delete(ctx context.Context, id int64) error {
	record, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			deletesTotal.WithLabelValues("not_found").Inc()
			return ErrNotFound
		}
		deletesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("ошибка удаления записи %d: %w", id, err)
	}

	s.cache.Delete(id)

	if err := s.store.DeleteFile(record.StoredPath); err != nil {
		s.logger.Warn("Запись удалена, но файл удалить не удалось",
			slog.Int64("id", id),
			slog.String("stored_path", record.StoredPath),
			slog.String("error", err.Error()),
		)
	}

	deletesTotal.WithLabelValues("success").Inc()
	s.logger.Info("Файл удалён",
		slog.Int64("id", id),
		slog.String("stored_path", record.StoredPath),
	)
	return nil
}
