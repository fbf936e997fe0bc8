// retrieve.go - выдача PDF-файла по id.
// Pipeline: запись (кэш/БД) → путь внутри корня → проверка наличия → чтение целиком.
package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/pdfstore/internal/domain/model"
	"github.com/bigkaa/pdfstore/internal/repository"
	"github.com/bigkaa/pdfstore/internal/storage/filestore"
)

var retrievalsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ps_retrievals_total",
	Help: "Общее количество запросов на просмотр файла (по статусу).",
}, []string{"status"})

// RetrieveErrorKind - причина неудачной выдачи файла.
type RetrieveErrorKind string

const (
	// KindRecordMissing - записи с таким id нет.
	KindRecordMissing RetrieveErrorKind = "record_missing"
	// KindFileMissing - запись есть, файла на диске нет.
	KindFileMissing RetrieveErrorKind = "file_missing"
	// KindIOFailure - файл есть, но прочитать его не удалось.
	KindIOFailure RetrieveErrorKind = "io_failure"
)

// RetrieveError - ошибка выдачи файла.
// Для вызывающего любая такая ошибка означает ErrNotFound.
type RetrieveError struct {
	Kind   RetrieveErrorKind
	ID     int64
	Reason string
	Err    error
}

func (e *RetrieveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

// Unwrap позволяет errors.Is(err, ErrNotFound).
func (e *RetrieveError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrNotFound, e.Err}
	}
	return []error{ErrNotFound}
}

// RetrievedFile - содержимое файла и метаданные для HTTP-ответа.
type RetrievedFile struct {
	Content     []byte
	ContentType string
	DisplayName string
}

// RetrieveService - выдача файлов по id.
type RetrieveService struct {
	repo   repository.UploadedFileRepository
	store  *filestore.FileStore
	cache  *CacheService
	logger *slog.Logger
}

// NewRetrieveService создаёт сервис выдачи файлов.
func NewRetrieveService(
	repo repository.UploadedFileRepository,
	store *filestore.FileStore,
	cache *CacheService,
	logger *slog.Logger,
) *RetrieveService {
	return &RetrieveService{
		repo:   repo,
		store:  store,
		cache:  cache,
		logger: logger.With(slog.String("component", "retrieve_service")),
	}
}

// Retrieve возвращает содержимое файла по id.
// Любая неудача возвращается как *RetrieveError. Повторных попыток нет.
func (s *RetrieveService) Retrieve(ctx context.Context, id int64) (*RetrievedFile, error) {
	// 1. Запись (кэш или БД)
	record, err := s.getRecord(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.fail(&RetrieveError{Kind: KindRecordMissing, ID: id, Reason: "запись не найдена"})
		}
		return nil, s.fail(&RetrieveError{Kind: KindIOFailure, ID: id, Reason: "ошибка получения записи", Err: err})
	}

	// 2. Путь не должен выходить за корень хранилища
	if _, err := s.store.Resolve(record.StoredPath); err != nil {
		return nil, s.fail(&RetrieveError{Kind: KindFileMissing, ID: id, Reason: "недопустимый путь файла", Err: err})
	}

	// 3. Наличие файла на диске
	ok, err := s.store.Exists(record.StoredPath)
	if err != nil {
		return nil, s.fail(&RetrieveError{Kind: KindIOFailure, ID: id, Reason: "ошибка проверки файла", Err: err})
	}
	if !ok {
		s.cache.Delete(id)
		return nil, s.fail(&RetrieveError{Kind: KindFileMissing, ID: id, Reason: "файл отсутствует на диске"})
	}

	// 4. Чтение целиком
	content, err := s.store.ReadFile(record.StoredPath)
	if err != nil {
		// Файл мог быть удалён между Exists и ReadFile
		if errors.Is(err, fs.ErrNotExist) {
			s.cache.Delete(id)
			return nil, s.fail(&RetrieveError{Kind: KindFileMissing, ID: id, Reason: "файл отсутствует на диске"})
		}
		return nil, s.fail(&RetrieveError{Kind: KindIOFailure, ID: id, Reason: "ошибка чтения файла", Err: err})
	}

	retrievalsTotal.WithLabelValues("success").Inc()
	s.logger.Debug("Файл выдан",
		slog.Int64("id", id),
		slog.String("stored_path", record.StoredPath),
		slog.Int("bytes", len(content)),
	)

	return &RetrievedFile{
		Content:     content,
		ContentType: model.ContentTypePDF,
		DisplayName: record.DisplayName(),
	}, nil
}

// getRecord получает запись из кэша или БД.
func (s *RetrieveService) getRecord(ctx context.Context, id int64) (*model.UploadedFile, error) {
	if record, ok := s.cache.Get(id); ok {
		return record, nil
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.Set(record)
	return record, nil
}

// fail логирует причину и обновляет метрику.
func (s *RetrieveService) fail(e *RetrieveError) *RetrieveError {
	retrievalsTotal.WithLabelValues(string(e.Kind)).Inc()

	attrs := []any{
		slog.Int64("id", e.ID),
		slog.String("kind", string(e.Kind)),
		slog.String("reason", e.Reason),
	}
	if e.Err != nil {
		attrs = append(attrs, slog.String("error", e.Err.Error()))
	}

	if e.Kind == KindIOFailure {
		s.logger.Error("Не удалось выдать файл", attrs...)
	} else {
		s.logger.Info("Файл не найден", attrs...)
	}
	return e
}
