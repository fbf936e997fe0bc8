package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/pdfstore/internal/domain/model"
)

// uploadedFileColumns - столбцы uploaded_files для SELECT и RETURNING.
const uploadedFileColumns = `id, stored_path, original_name, size, checksum, uploaded_at`

// UploadedFileRepository - интерфейс доступа к записям о загруженных файлах.
type UploadedFileRepository interface {
	// Create вставляет запись. ID и UploadedAt заполняются базой.
	Create(ctx context.Context, f *model.UploadedFile) error
	// List возвращает все записи, новые первыми.
	List(ctx context.Context) ([]*model.UploadedFile, error)
	// GetByID возвращает запись или ErrNotFound.
	GetByID(ctx context.Context, id int64) (*model.UploadedFile, error)
	// Delete удаляет запись и возвращает её содержимое или ErrNotFound.
	Delete(ctx context.Context, id int64) (*model.UploadedFile, error)
}

type uploadedFileRepo struct {
	db DBTX
}

// NewUploadedFileRepository создаёт репозиторий записей о файлах.
func NewUploadedFileRepository(db DBTX) UploadedFileRepository {
	return &uploadedFileRepo{db: db}
}

// Create вставляет запись. Заполняет f.ID и f.UploadedAt из RETURNING.
func (r *uploadedFileRepo) Create(ctx context.Context, f *model.UploadedFile) error {
	query := `
		INSERT INTO uploaded_files (stored_path, original_name, size, checksum)
		VALUES ($1, $2, $3, $4)
		RETURNING id, uploaded_at`

	err := r.db.QueryRow(ctx, query,
		f.StoredPath, f.OriginalName, f.Size, f.Checksum,
	).Scan(&f.ID, &f.UploadedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания записи о файле: %w", err)
	}
	f.UploadedAt = f.UploadedAt.UTC()
	return nil
}

// List возвращает все записи. Порядок: uploaded_at DESC, id DESC.
func (r *uploadedFileRepo) List(ctx context.Context) ([]*model.UploadedFile, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM uploaded_files ORDER BY uploaded_at DESC, id DESC`,
		uploadedFileColumns,
	)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка файлов: %w", err)
	}
	defer rows.Close()

	result := make([]*model.UploadedFile, 0)
	for rows.Next() {
		f, err := scanUploadedFile(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи: %w", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации результатов: %w", err)
	}
	return result, nil
}

// GetByID возвращает запись по id или ErrNotFound.
func (r *uploadedFileRepo) GetByID(ctx context.Context, id int64) (*model.UploadedFile, error) {
	query := fmt.Sprintf(`SELECT %s FROM uploaded_files WHERE id = $1`, uploadedFileColumns)

	f, err := scanUploadedFile(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения файла: %w", err)
	}
	return f, nil
}

// Delete удаляет запись одним запросом DELETE ... RETURNING,
// чтобы вызывающий получил stored_path удалённой записи.
func (r *uploadedFileRepo) Delete(ctx context.Context, id int64) (*model.UploadedFile, error) {
	query := fmt.Sprintf(
		`DELETE FROM uploaded_files WHERE id = $1 RETURNING %s`,
		uploadedFileColumns,
	)

	f, err := scanUploadedFile(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка удаления записи о файле: %w", err)
	}
	return f, nil
}

// scanUploadedFile сканирует строку в порядке uploadedFileColumns.
func scanUploadedFile(row pgx.Row) (*model.UploadedFile, error) {
	f := &model.UploadedFile{}
	if err := row.Scan(
		&f.ID, &f.StoredPath, &f.OriginalName, &f.Size, &f.Checksum, &f.UploadedAt,
	); err != nil {
		return nil, err
	}
	f.UploadedAt = f.UploadedAt.UTC()
	return f, nil
}
