// Пакет model - доменные модели PDF Store.
// UploadedFile - маппинг таблицы uploaded_files.
package model

import (
	"path/filepath"
	"time"
)

// ContentTypePDF - MIME-тип всех файлов, отдаваемых хранилищем.
const ContentTypePDF = "application/pdf"

// UploadedFile - запись о загруженном PDF-файле.
// Запись ссылается на байты по StoredPath, сам файл о записи ничего не знает.
type UploadedFile struct {
	// ID - идентификатор записи (identity-колонка, не переиспользуется)
	ID int64
	// StoredPath - путь к файлу относительно корня хранилища
	StoredPath string
	// OriginalName - имя файла, переданное при загрузке
	OriginalName string
	// Size - размер файла в байтах
	Size int64
	// Checksum - SHA-256 контрольная сумма
	Checksum string
	// UploadedAt - время загрузки (UTC)
	UploadedAt time.Time
}

// DisplayName возвращает имя для Content-Disposition.
// Для записей без OriginalName используется базовое имя StoredPath.
func (f *UploadedFile) DisplayName() string {
	if f.OriginalName != "" {
		return f.OriginalName
	}
	return filepath.Base(f.StoredPath)
}
