// upload.go - загрузка и список PDF-файлов.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/pdfstore/internal/domain/model"
	"github.com/bigkaa/pdfstore/internal/repository"
	"github.com/bigkaa/pdfstore/internal/storage/filestore"
)

// Prometheus-метрики загрузки.
var (
	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ps_uploads_total",
		Help: "Общее количество загрузок (по статусу).",
	}, []string{"status"})

	uploadBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ps_upload_bytes_total",
		Help: "Общее количество записанных байт при загрузке.",
	})
)

// UploadParams - параметры загрузки файла.
type UploadParams struct {
	// Reader - поток данных файла
	Reader io.Reader
	// OriginalName - имя файла у клиента
	OriginalName string
	// ContentType - MIME-тип из multipart (только для логов)
	ContentType string
	// Size - заявленный размер, -1 если неизвестен
	Size int64
}

// UploadService - загрузка и список файлов.
type UploadService struct {
	repo        repository.UploadedFileRepository
	store       *filestore.FileStore
	maxFileSize int64
	logger      *slog.Logger
}

// NewUploadService создаёт сервис загрузки файлов.
func NewUploadService(
	repo repository.UploadedFileRepository,
	store *filestore.FileStore,
	maxFileSize int64,
	logger *slog.Logger,
) *UploadService {
	return &UploadService{
		repo:        repo,
		store:       store,
		maxFileSize: maxFileSize,
		logger:      logger.With(slog.String("component", "upload_service")),
	}
}

// Upload сохраняет байты на диск и создаёт запись.
//
// Поток:
//  1. Проверка имени и заявленного размера
//  2. SaveFile (temp → SHA-256 → fsync → rename)
//  3. Create в БД
//
// Если запись не создана, сохранённый файл удаляется.
func (s *UploadService) Upload(ctx context.Context, params UploadParams) (*model.UploadedFile, error) {
	name := strings.TrimSpace(params.OriginalName)
	if name == "" {
		uploadsTotal.WithLabelValues("validation").Inc()
		return nil, fmt.Errorf("%w: не указано имя файла", ErrValidation)
	}
	if params.Size > s.maxFileSize {
		uploadsTotal.WithLabelValues("too_large").Inc()
		return nil, fmt.Errorf("%w: %d байт, максимум %d", ErrFileTooLarge, params.Size, s.maxFileSize)
	}

	// Чтение на байт больше лимита позволяет обнаружить превышение без заявленного размера
	saved, err := s.store.SaveFile(io.LimitReader(params.Reader, s.maxFileSize+1), name)
	if err != nil {
		uploadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("ошибка сохранения файла: %w", err)
	}
	if saved.Size > s.maxFileSize {
		s.removeSaved(saved.StoragePath)
		uploadsTotal.WithLabelValues("too_large").Inc()
		return nil, fmt.Errorf("%w: максимум %d байт", ErrFileTooLarge, s.maxFileSize)
	}

	record := &model.UploadedFile{
		StoredPath:   saved.StoragePath,
		OriginalName: name,
		Size:         saved.Size,
		Checksum:     saved.Checksum,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		s.removeSaved(saved.StoragePath)
		uploadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("ошибка регистрации файла: %w", err)
	}

	uploadsTotal.WithLabelValues("success").Inc()
	uploadBytesTotal.Add(float64(saved.Size))

	s.logger.Info("Файл загружен",
		slog.Int64("id", record.ID),
		slog.String("original_name", record.OriginalName),
		slog.String("stored_path", record.StoredPath),
		slog.String("content_type", params.ContentType),
		slog.Int64("size", record.Size),
	)

	return record, nil
}

// List возвращает все записи, новые первыми.
func (s *UploadService) List(ctx context.Context) ([]*model.UploadedFile, error) {
	files, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка файлов: %w", err)
	}
	return files, nil
}

func (s *UploadService) removeSaved(storagePath string) {
	if err := s.store.DeleteFile(storagePath); err != nil {
		s.logger.Error("Не удалось удалить файл после неудачной загрузки",
			slog.String("stored_path", storagePath),
			slog.String("error", err.Error()),
		)
	}
}
