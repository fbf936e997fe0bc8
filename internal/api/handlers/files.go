// files.go - обработчики загрузки, списка, удаления и просмотра файлов.
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apierrors "github.com/bigkaa/pdfstore/internal/api/errors"
	"github.com/bigkaa/pdfstore/internal/domain/model"
	"github.com/bigkaa/pdfstore/internal/service"
)

// multipartMemory - часть multipart формы, хранимая в памяти; остальное уходит во временные файлы.
const multipartMemory = 32 << 20

// multipartOverhead - запас на заголовки multipart сверх PS_MAX_FILE_SIZE.
const multipartOverhead = 1 << 20

// fileResponse - описание файла в ответах API.
type fileResponse struct {
	ID           int64     `json:"id"`
	OriginalName string    `json:"original_name"`
	UploadedAt   time.Time `json:"uploaded_at"`
	Size         int64     `json:"size"`
	Checksum     string    `json:"checksum"`
	ViewURL      string    `json:"view_url"`
	DeleteURL    string    `json:"delete_url"`
}

type fileListResponse struct {
	Items []fileResponse `json:"items"`
	Total int            `json:"total"`
}

// compatFileResponse - формат записи первой версии API: file содержит ссылку на просмотр.
type compatFileResponse struct {
	ID         int64     `json:"id"`
	File       string    `json:"file"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// UploadFile обрабатывает POST /api/v1/files.
// Multipart form: file (обязательно).
func (h *APIHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if record, ok := h.upload(w, r); ok {
		writeJSON(w, http.StatusCreated, h.toFileResponse(record))
	}
}

// UploadFileCompat обрабатывает POST /api/upload-pdf/.
func (h *APIHandler) UploadFileCompat(w http.ResponseWriter, r *http.Request) {
	if record, ok := h.upload(w, r); ok {
		writeJSON(w, http.StatusCreated, h.toCompatResponse(record))
	}
}

// upload разбирает multipart форму и сохраняет файл.
// При ошибке ответ уже записан и возвращается false.
func (h *APIHandler) upload(w http.ResponseWriter, r *http.Request) (*model.UploadedFile, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			apierrors.FileTooLarge(w, fmt.Sprintf("Размер запроса превышает максимум %d байт", h.maxFileSize))
			return nil, false
		}
		apierrors.ValidationError(w, fmt.Sprintf("Ошибка парсинга multipart: %s", err.Error()))
		return nil, false
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		apierrors.ValidationError(w, "Поле 'file' обязательно")
		return nil, false
	}
	defer file.Close()

	record, err := h.uploader.Upload(r.Context(), service.UploadParams{
		Reader:       file,
		OriginalName: header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Size:         header.Size,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			apierrors.ValidationError(w, err.Error())
		case errors.Is(err, service.ErrFileTooLarge):
			apierrors.FileTooLarge(w, err.Error())
		default:
			h.logger.Error("Ошибка загрузки файла",
				slog.String("original_name", header.Filename),
				slog.String("error", err.Error()),
			)
			apierrors.InternalError(w, "Внутренняя ошибка при загрузке файла")
		}
		return nil, false
	}
	return record, true
}

// ListFiles обрабатывает GET /api/v1/files.
func (h *APIHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	files, ok := h.list(w, r)
	if !ok {
		return
	}

	items := make([]fileResponse, 0, len(files))
	for _, f := range files {
		items = append(items, h.toFileResponse(f))
	}

	writeJSON(w, http.StatusOK, fileListResponse{Items: items, Total: len(items)})
}

// ListFilesCompat обрабатывает GET /api/upload-pdf/.
// Ответ - JSON-массив без обёртки, новые файлы первыми.
func (h *APIHandler) ListFilesCompat(w http.ResponseWriter, r *http.Request) {
	files, ok := h.list(w, r)
	if !ok {
		return
	}

	items := make([]compatFileResponse, 0, len(files))
	for _, f := range files {
		items = append(items, h.toCompatResponse(f))
	}

	writeJSON(w, http.StatusOK, items)
}

func (h *APIHandler) list(w http.ResponseWriter, r *http.Request) ([]*model.UploadedFile, bool) {
	files, err := h.uploader.List(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения списка файлов", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Внутренняя ошибка при получении списка файлов")
		return nil, false
	}
	return files, true
}

// DeleteFile обрабатывает DELETE /api/v1/files/{id}.
func (h *APIHandler) DeleteFile(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.deleter.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, fmt.Sprintf("Файл %d не найден", id))
			return
		}
		h.logger.Error("Ошибка удаления файла",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, "Внутренняя ошибка при удалении файла")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ViewFile обрабатывает GET /api/v1/files/{id}/view.
// Отдаёт PDF целиком с inline Content-Disposition для просмотра в браузере.
func (h *APIHandler) ViewFile(w http.ResponseWriter, r *http.Request, id int64) {
	file, err := h.retriever.Retrieve(r.Context(), id)
	if err != nil {
		var re *service.RetrieveError
		if errors.As(err, &re) {
			apierrors.NotFound(w, re.Reason)
			return
		}
		apierrors.NotFound(w, fmt.Sprintf("Файл %d не найден", id))
		return
	}

	hdr := w.Header()
	hdr.Set("Content-Type", file.ContentType)
	hdr.Set("Content-Disposition", inlineDisposition(file.DisplayName))
	hdr.Set("Content-Length", strconv.Itoa(len(file.Content)))
	hdr.Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(file.Content); err != nil {
		h.logger.Warn("Ошибка отправки файла клиенту",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
	}
}

func (h *APIHandler) toFileResponse(f *model.UploadedFile) fileResponse {
	fileURL := fmt.Sprintf("%s/api/v1/files/%d", h.publicBaseURL, f.ID)
	return fileResponse{
		ID:           f.ID,
		OriginalName: f.DisplayName(),
		UploadedAt:   f.UploadedAt.UTC(),
		Size:         f.Size,
		Checksum:     f.Checksum,
		ViewURL:      fileURL + "/view",
		DeleteURL:    fileURL,
	}
}

func (h *APIHandler) toCompatResponse(f *model.UploadedFile) compatFileResponse {
	return compatFileResponse{
		ID:         f.ID,
		File:       fmt.Sprintf("%s/view/%d", h.publicBaseURL, f.ID),
		UploadedAt: f.UploadedAt.UTC(),
	}
}

// inlineDisposition формирует Content-Disposition: inline с именем файла.
// Для не-ASCII имён добавляется filename* (RFC 6266).
func inlineDisposition(name string) string {
	ascii := make([]rune, 0, len(name))
	plain := true
	for _, r := range name {
		switch {
		case r == '"' || r == '\\':
			ascii = append(ascii, '_')
		case r < 0x20 || r == 0x7f:
			plain = false
		case r > 0x7e:
			plain = false
			ascii = append(ascii, '_')
		default:
			ascii = append(ascii, r)
		}
	}

	v := fmt.Sprintf(`inline; filename="%s"`, string(ascii))
	if !plain || strings.ContainsAny(name, `"\`) {
		v += "; filename*=UTF-8''" + url.PathEscape(name)
	}
	return v
}
