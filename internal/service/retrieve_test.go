package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"

	"github.com/bigkaa/pdfstore/internal/domain/model"
)

// assertRetrieveError проверяет тип и причину ошибки выдачи.
func assertRetrieveError(t *testing.T, err error, kind RetrieveErrorKind) {
	t.Helper()

	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ожидалась ErrNotFound, получено: %v", err)
	}
	var re *RetrieveError
	if !errors.As(err, &re) {
		t.Fatalf("ожидалась *RetrieveError, получено: %T", err)
	}
	if re.Kind != kind {
		t.Errorf("Kind = %q, ожидался %q", re.Kind, kind)
	}
	if re.Reason == "" {
		t.Error("Reason не заполнен")
	}
}

// TestScenario_UploadListRetrieveDelete - полный цикл: загрузка, список, просмотр, удаление.
func TestScenario_UploadListRetrieveDelete(t *testing.T) {
	env := newTestEnv(t, 10)
	ctx := context.Background()

	record, err := env.upload.Upload(ctx, UploadParams{
		Reader:       bytes.NewReader(samplePDF),
		OriginalName: "a.pdf",
		ContentType:  "application/pdf",
		Size:         int64(len(samplePDF)),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if record.ID != 1 {
		t.Fatalf("ID = %d, ожидался 1", record.ID)
	}

	list, err := env.upload.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != 1 || list[0].OriginalName != "a.pdf" {
		t.Fatalf("List = %+v, ожидалась одна запись {1, a.pdf}", list)
	}

	got, err := env.retrieve.Retrieve(ctx, 1)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if !bytes.Equal(got.Content, samplePDF) {
		t.Error("содержимое не совпадает с загруженным")
	}
	if got.ContentType != "application/pdf" {
		t.Errorf("ContentType = %q, ожидался application/pdf", got.ContentType)
	}
	if got.DisplayName != "a.pdf" {
		t.Errorf("DisplayName = %q, ожидался a.pdf", got.DisplayName)
	}

	if err := env.deleter.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, err = env.retrieve.Retrieve(ctx, 1)
	assertRetrieveError(t, err, KindRecordMissing)
}

func TestRetrieveService_UnknownID(t *testing.T) {
	env := newTestEnv(t, 10)

	_, err := env.retrieve.Retrieve(context.Background(), 404)
	assertRetrieveError(t, err, KindRecordMissing)
}

// TestRetrieveService_FileRemovedExternally проверяет запись без файла на диске.
func TestRetrieveService_FileRemovedExternally(t *testing.T) {
	env := newTestEnv(t, 10)
	ctx := context.Background()

	record, err := env.upload.Upload(ctx, UploadParams{
		Reader:       bytes.NewReader(samplePDF),
		OriginalName: "a.pdf",
		Size:         -1,
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	// Прогреваем кэш
	if _, err := env.retrieve.Retrieve(ctx, record.ID); err != nil {
		t.Fatalf("Retrieve: %v", err)
	}

	full, err := env.store.Resolve(record.StoredPath)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if err := env.fs.Remove(full); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	_, err = env.retrieve.Retrieve(ctx, record.ID)
	assertRetrieveError(t, err, KindFileMissing)

	if _, ok := env.cache.Get(record.ID); ok {
		t.Error("запись должна быть удалена из кэша при отсутствии файла")
	}
}

// TestRetrieveService_PathOutsideRoot проверяет запись с путём за пределами хранилища.
func TestRetrieveService_PathOutsideRoot(t *testing.T) {
	env := newTestEnv(t, 10)

	if err := env.fs.MkdirAll("/etc", 0o750); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := afero.WriteFile(env.fs, "/etc/secret.pdf", samplePDF, 0o640); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	for _, p := range []string{"../etc/secret.pdf", "/etc/secret.pdf"} {
		rec := &model.UploadedFile{StoredPath: p, OriginalName: "secret.pdf"}
		env.repo.put(rec)

		_, err := env.retrieve.Retrieve(context.Background(), rec.ID)
		assertRetrieveError(t, err, KindFileMissing)
	}
}

// TestRetrieveService_DisplayNameFromPath проверяет имя для записей без original_name.
func TestRetrieveService_DisplayNameFromPath(t *testing.T) {
	env := newTestEnv(t, 10)

	if err := env.fs.MkdirAll("/data/legacy", 0o750); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := afero.WriteFile(env.fs, "/data/legacy/report.pdf", samplePDF, 0o640); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	rec := &model.UploadedFile{StoredPath: "legacy/report.pdf"}
	env.repo.put(rec)

	got, err := env.retrieve.Retrieve(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if got.DisplayName != "report.pdf" {
		t.Errorf("DisplayName = %q, ожидался report.pdf", got.DisplayName)
	}
}

// TestRetrieveService_RepoError проверяет, что ошибка БД тоже сводится к ErrNotFound.
func TestRetrieveService_RepoError(t *testing.T) {
	env := newTestEnv(t, 10)
	env.repo.getErr = errors.New("connection reset")

	_, err := env.retrieve.Retrieve(context.Background(), 1)
	assertRetrieveError(t, err, KindIOFailure)
}

// TestRetrieveService_UsesCache проверяет, что повторный запрос не идёт в БД.
func TestRetrieveService_UsesCache(t *testing.T) {
	env := newTestEnv(t, 10)
	ctx := context.Background()

	record, err := env.upload.Upload(ctx, UploadParams{
		Reader:       bytes.NewReader(samplePDF),
		OriginalName: "a.pdf",
		Size:         -1,
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := env.retrieve.Retrieve(ctx, record.ID); err != nil {
			t.Fatalf("Retrieve #%d: %v", i, err)
		}
	}
	if env.repo.getCalls != 1 {
		t.Errorf("GetByID вызван %d раз, ожидался 1", env.repo.getCalls)
	}
}

// TestRetrieveService_CacheDisabled проверяет работу без кэша.
func TestRetrieveService_CacheDisabled(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()

	record, err := env.upload.Upload(ctx, UploadParams{
		Reader:       bytes.NewReader(samplePDF),
		OriginalName: "a.pdf",
		Size:         -1,
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := env.retrieve.Retrieve(ctx, record.ID); err != nil {
			t.Fatalf("Retrieve #%d: %v", i, err)
		}
	}
	if env.repo.getCalls != 2 {
		t.Errorf("GetByID вызван %d раз, ожидалось 2", env.repo.getCalls)
	}
}

func TestRetrieveError_Message(t *testing.T) {
	e := &RetrieveError{Kind: KindIOFailure, Reason: "ошибка чтения файла", Err: errors.New("EIO")}
	if e.Error() != "ошибка чтения файла: EIO" {
		t.Errorf("Error() = %q", e.Error())
	}

	e = &RetrieveError{Kind: KindRecordMissing, Reason: "запись не найдена"}
	if e.Error() != "запись не найдена" {
		t.Errorf("Error() = %q", e.Error())
	}
}
