package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/pdfstore/internal/api/router"
	"github.com/bigkaa/pdfstore/internal/domain/model"
	"github.com/bigkaa/pdfstore/internal/service"
)

// mockUploader - мок FileUploader.
type mockUploader struct {
	uploadFn func(ctx context.Context, params service.UploadParams) (*model.UploadedFile, error)
	listFn   func(ctx context.Context) ([]*model.UploadedFile, error)
}

func (m *mockUploader) Upload(ctx context.Context, params service.UploadParams) (*model.UploadedFile, error) {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, params)
	}
	return nil, service.ErrValidation
}

func (m *mockUploader) List(ctx context.Context) ([]*model.UploadedFile, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

// mockDeleter - мок FileDeleter.
type mockDeleter struct {
	deleteFn func(ctx context.Context, id int64) error
}

func (m *mockDeleter) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return service.ErrNotFound
}

// mockRetriever - мок FileRetriever.
type mockRetriever struct {
	retrieveFn func(ctx context.Context, id int64) (*service.RetrievedFile, error)
}

func (m *mockRetriever) Retrieve(ctx context.Context, id int64) (*service.RetrievedFile, error) {
	if m.retrieveFn != nil {
		return m.retrieveFn(ctx, id)
	}
	return nil, &service.RetrieveError{Kind: service.KindRecordMissing, ID: id, Reason: "запись не найдена"}
}

// mockChecker - мок ReadinessChecker.
type mockChecker struct {
	status, message string
}

func (m *mockChecker) CheckReady() (string, string) {
	return m.status, m.message
}

const testBaseURL = "http://pdf.test"

// newTestRouter собирает APIHandler с моками и регистрирует маршруты.
func newTestRouter(u *mockUploader, d *mockDeleter, r *mockRetriever) http.Handler {
	if u == nil {
		u = &mockUploader{}
	}
	if d == nil {
		d = &mockDeleter{}
	}
	if r == nil {
		r = &mockRetriever{}
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	h := NewAPIHandler(u, d, r, NewHealthHandler(&mockChecker{status: "ok"}),
		[]byte(`{"openapi":"3.0.3"}`), testBaseURL, 1024, logger)
	return router.HandlerFromMux(h, chi.NewRouter())
}
