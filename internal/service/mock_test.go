package service

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/bigkaa/pdfstore/internal/domain/model"
	"github.com/bigkaa/pdfstore/internal/repository"
	"github.com/bigkaa/pdfstore/internal/storage/filestore"
)

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF\n")

// memFileRepo - in-memory реализация UploadedFileRepository для unit-тестов.
// Поля *Err позволяют имитировать ошибки БД.
type memFileRepo struct {
	mu     sync.Mutex
	nextID int64
	files  map[int64]*model.UploadedFile
	now    time.Time

	createErr error
	listErr   error
	getErr    error
	deleteErr error

	getCalls int
}

func newMemFileRepo() *memFileRepo {
	return &memFileRepo{
		files: make(map[int64]*model.UploadedFile),
		now:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memFileRepo) Create(_ context.Context, f *model.UploadedFile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	m.now = m.now.Add(time.Second)
	f.ID = m.nextID
	f.UploadedAt = m.now
	cp := *f
	m.files[f.ID] = &cp
	return nil
}

func (m *memFileRepo) List(_ context.Context) ([]*model.UploadedFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]*model.UploadedFile, 0, len(m.files))
	for _, f := range m.files {
		cp := *f
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].UploadedAt.Equal(result[j].UploadedAt) {
			return result[i].UploadedAt.After(result[j].UploadedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (m *memFileRepo) GetByID(_ context.Context, id int64) (*model.UploadedFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	f, ok := m.files[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *memFileRepo) Delete(_ context.Context, id int64) (*model.UploadedFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return nil, m.deleteErr
	}
	f, ok := m.files[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(m.files, id)
	return f, nil
}

// put добавляет запись напрямую, минуя Upload.
func (m *memFileRepo) put(f *model.UploadedFile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	f.ID = m.nextID
	m.files[f.ID] = f
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// testEnv - набор сервисов поверх in-memory БД и файловой системы.
type testEnv struct {
	fs       afero.Fs
	store    *filestore.FileStore
	repo     *memFileRepo
	cache    *CacheService
	upload   *UploadService
	deleter  *DeleteService
	retrieve *RetrieveService
}

func newTestEnv(t *testing.T, cacheSize int) *testEnv {
	t.Helper()

	fsys := afero.NewMemMapFs()
	store, err := filestore.New(fsys, "/data")
	if err != nil {
		t.Fatalf("ошибка создания FileStore: %v", err)
	}

	repo := newMemFileRepo()
	cache := NewCacheService(cacheSize, time.Minute)
	logger := testLogger()

	return &testEnv{
		fs:       fsys,
		store:    store,
		repo:     repo,
		cache:    cache,
		upload:   NewUploadService(repo, store, 1<<20, logger),
		deleter:  NewDeleteService(repo, store, cache, logger),
		retrieve: NewRetrieveService(repo, store, cache, logger),
	}
}

// countFiles возвращает количество обычных файлов в корне хранилища.
func (e *testEnv) countFiles(t *testing.T) int {
	t.Helper()
	entries, err := afero.ReadDir(e.fs, e.store.Root())
	if err != nil {
		t.Fatalf("ошибка чтения директории: %v", err)
	}
	n := 0
	for _, entry := range entries {
		if entry.Mode().IsRegular() {
			n++
		}
	}
	return n
}
