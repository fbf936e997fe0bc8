// Пакет filestore - операции с PDF-файлами на диске.
// Запись через temp файл с подсчётом SHA-256 на лету, чтение целиком,
// удаление и разрешение путей внутри корня хранилища.
// Файловая система абстрагирована через afero.Fs (OsFs в production, MemMapFs в тестах).
package filestore

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// ErrOutsideRoot - путь указывает за пределы корня хранилища.
var ErrOutsideRoot = errors.New("путь выходит за пределы директории хранилища")

// FileStore - управление файлами в корневой директории хранилища.
type FileStore struct {
	fs afero.Fs
	// root - абсолютный путь корневой директории (PS_STORAGE_DIR)
	root string
}

// SaveResult - результат сохранения файла.
type SaveResult struct {
	// StoragePath - относительный путь файла в root
	StoragePath string
	// FullPath - абсолютный путь файла
	FullPath string
	// Size - размер записанных данных в байтах
	Size int64
	// Checksum - SHA-256 хэш содержимого
	Checksum string
}

// New создаёт FileStore поверх fsys. Создаёт корневую директорию, если её нет.
func New(fsys afero.Fs, root string) (*FileStore, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("не удалось определить абсолютный путь %s: %w", root, err)
	}
	if err := fsys.MkdirAll(absRoot, 0o750); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию хранилища %s: %w", absRoot, err)
	}
	return &FileStore{fs: fsys, root: absRoot}, nil
}

// NewOS создаёт FileStore на реальной файловой системе.
func NewOS(root string) (*FileStore, error) {
	return New(afero.NewOsFs(), root)
}

// SaveFile записывает данные из reader с подсчётом SHA-256 на лету.
// Формат имени: {name}_{timestamp}_{uuid}.pdf
//
// Паттерн: temp файл → запись + SHA-256 → fsync → rename.
// При ошибке temp файл удаляется.
func (s *FileStore) SaveFile(reader io.Reader, originalFilename string) (*SaveResult, error) {
	storageName := generateStorageName(originalFilename)
	fullPath := filepath.Join(s.root, storageName)
	tmpPath := fullPath + ".tmp"

	f, err := s.fs.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания временного файла: %w", err)
	}

	hasher := sha256.New()
	size, err := io.Copy(f, io.TeeReader(reader, hasher))
	if err != nil {
		f.Close()
		_ = s.fs.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка записи данных: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		_ = s.fs.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка fsync: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = s.fs.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка закрытия файла: %w", err)
	}

	if err := s.fs.Rename(tmpPath, fullPath); err != nil {
		_ = s.fs.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка атомарного переименования: %w", err)
	}

	return &SaveResult{
		StoragePath: storageName,
		FullPath:    fullPath,
		Size:        size,
		Checksum:    hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

// Resolve преобразует StoredPath записи в абсолютный путь внутри root.
// Абсолютные пути (старые записи) принимаются, если лежат внутри root.
func (s *FileStore) Resolve(storagePath string) (string, error) {
	if storagePath == "" {
		return "", fmt.Errorf("%w: пустой путь", ErrOutsideRoot)
	}

	p := filepath.FromSlash(storagePath)
	var full string
	if filepath.IsAbs(p) {
		full = filepath.Clean(p)
	} else {
		full = filepath.Join(s.root, filepath.Clean(p))
	}

	rel, err := filepath.Rel(s.root, full)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, storagePath)
	}
	return full, nil
}

// Exists проверяет, что по пути лежит обычный файл.
func (s *FileStore) Exists(storagePath string) (bool, error) {
	full, err := s.Resolve(storagePath)
	if err != nil {
		return false, err
	}
	info, err := s.fs.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("ошибка проверки файла %s: %w", storagePath, err)
	}
	return info.Mode().IsRegular(), nil
}

// ReadFile читает файл целиком.
// Отсутствие файла распознаётся через errors.Is(err, fs.ErrNotExist).
func (s *FileStore) ReadFile(storagePath string) ([]byte, error) {
	full, err := s.Resolve(storagePath)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(s.fs, full)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", storagePath, err)
	}
	return data, nil
}

// DeleteFile удаляет файл. Возвращает nil, если файла уже нет.
func (s *FileStore) DeleteFile(storagePath string) error {
	full, err := s.Resolve(storagePath)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("ошибка удаления файла %s: %w", storagePath, err)
	}
	return nil
}

// Root возвращает абсолютный путь корня хранилища.
func (s *FileStore) Root() string {
	return s.root
}

// generateStorageName генерирует имя файла для хранения.
// Пример: report_20260221150405_a1b2c3d4.pdf
func generateStorageName(originalFilename string) string {
	base := filepath.Base(filepath.FromSlash(originalFilename))
	ext := filepath.Ext(base)
	name := sanitize(strings.TrimSuffix(base, ext))

	// Ограничиваем длину имени для предотвращения проблем с FS
	if r := []rune(name); len(r) > 50 {
		name = string(r[:50])
	}

	ts := time.Now().UTC().Format("20060102150405")
	uid := uuid.New().String()[:8]

	return fmt.Sprintf("%s_%s_%s.pdf", name, ts, uid)
}

// sanitize оставляет только буквы, цифры, дефис и подчёркивание.
func sanitize(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			result.WriteRune(r)
		}
	}
	if result.Len() == 0 {
		return "file"
	}
	return result.String()
}
