// Пакет router - маршруты HTTP API поверх chi.
// Повторяет структуру chi-server из oapi-codegen: ServerInterface,
// обёртка с привязкой path-параметров через oapi-codegen/runtime и HandlerFromMux.
package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	apierrors "github.com/bigkaa/pdfstore/internal/api/errors"
)

// FileID - идентификатор записи о файле (path-параметр {id}).
type FileID = int64

// ServerInterface - обработчики всех endpoints PDF Store.
type ServerInterface interface {
	// POST /api/v1/files, POST /upload
	UploadFile(w http.ResponseWriter, r *http.Request)
	// GET /api/v1/files, GET /list
	ListFiles(w http.ResponseWriter, r *http.Request)
	// DELETE /api/v1/files/{id}, DELETE /delete/{id}
	DeleteFile(w http.ResponseWriter, r *http.Request, id FileID)
	// GET /api/v1/files/{id}/view, GET /view/{id}
	ViewFile(w http.ResponseWriter, r *http.Request, id FileID)
	// POST /api/upload-pdf/ (формат ответа первой версии API)
	UploadFileCompat(w http.ResponseWriter, r *http.Request)
	// GET /api/upload-pdf/ (формат ответа первой версии API)
	ListFilesCompat(w http.ResponseWriter, r *http.Request)
	// GET /api/v1/openapi.json
	GetOpenAPISpec(w http.ResponseWriter, r *http.Request)
	// GET /health/live
	HealthLive(w http.ResponseWriter, r *http.Request)
	// GET /health/ready
	HealthReady(w http.ResponseWriter, r *http.Request)
	// GET /metrics
	GetMetrics(w http.ResponseWriter, r *http.Request)
}

// InvalidParamFormatError - path-параметр не удалось разобрать.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("некорректный формат параметра %s: %v", e.ParamName, e.Err)
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

// ServerInterfaceWrapper привязывает параметры запроса и вызывает ServerInterface.
type ServerInterfaceWrapper struct {
	Handler          ServerInterface
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// bindFileID разбирает {id} в стиле simple. Допустимы только положительные значения.
func (siw *ServerInterfaceWrapper) bindFileID(w http.ResponseWriter, r *http.Request) (FileID, bool) {
	var id FileID

	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "id", Err: err})
		return 0, false
	}
	if id < 1 {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{
			ParamName: "id",
			Err:       fmt.Errorf("значение %d должно быть положительным", id),
		})
		return 0, false
	}
	return id, true
}

func (siw *ServerInterfaceWrapper) UploadFile(w http.ResponseWriter, r *http.Request) {
	siw.Handler.UploadFile(w, r)
}

func (siw *ServerInterfaceWrapper) ListFiles(w http.ResponseWriter, r *http.Request) {
	siw.Handler.ListFiles(w, r)
}

func (siw *ServerInterfaceWrapper) UploadFileCompat(w http.ResponseWriter, r *http.Request) {
	siw.Handler.UploadFileCompat(w, r)
}

func (siw *ServerInterfaceWrapper) ListFilesCompat(w http.ResponseWriter, r *http.Request) {
	siw.Handler.ListFilesCompat(w, r)
}

func (siw *ServerInterfaceWrapper) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.bindFileID(w, r)
	if !ok {
		return
	}
	siw.Handler.DeleteFile(w, r, id)
}

func (siw *ServerInterfaceWrapper) ViewFile(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.bindFileID(w, r)
	if !ok {
		return
	}
	siw.Handler.ViewFile(w, r, id)
}

// ChiServerOptions - параметры регистрации маршрутов.
type ChiServerOptions struct {
	BaseRouter       chi.Router
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerFromMux регистрирует маршруты на переданном chi.Router.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{BaseRouter: r})
}

// HandlerWithOptions регистрирует маршруты с указанными параметрами.
// Без ErrorHandlerFunc ошибки параметров возвращаются как 400 VALIDATION_ERROR.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			apierrors.ValidationError(w, err.Error())
		}
	}

	wrapper := ServerInterfaceWrapper{
		Handler:          si,
		ErrorHandlerFunc: options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Post("/api/v1/files", wrapper.UploadFile)
		r.Get("/api/v1/files", wrapper.ListFiles)
		r.Delete("/api/v1/files/{id}", wrapper.DeleteFile)
		r.Get("/api/v1/files/{id}/view", wrapper.ViewFile)
		r.Get("/api/v1/openapi.json", si.GetOpenAPISpec)

		// Короткие маршруты для простых клиентов
		r.Post("/upload", wrapper.UploadFile)
		r.Get("/list", wrapper.ListFiles)
		r.Delete("/delete/{id}", wrapper.DeleteFile)
		r.Get("/view/{id}", wrapper.ViewFile)

		// Маршруты первой версии API (со слэшем и без)
		for _, p := range []string{"/api/upload-pdf", "/api/upload-pdf/"} {
			r.Post(p, wrapper.UploadFileCompat)
			r.Get(p, wrapper.ListFilesCompat)
		}
		r.Delete("/api/delete-pdf/{id}", wrapper.DeleteFile)
		r.Delete("/api/delete-pdf/{id}/", wrapper.DeleteFile)

		r.Get("/health/live", si.HealthLive)
		r.Get("/health/ready", si.HealthReady)
		r.Get("/metrics", si.GetMetrics)
	})

	return r
}
