package errors //nolint:revive // имя пакета совпадает со stdlib

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter, string)
		status int
		code   string
	}{
		{"ValidationError", ValidationError, http.StatusBadRequest, CodeValidationError},
		{"NotFound", NotFound, http.StatusNotFound, CodeNotFound},
		{"MethodNotAllowed", MethodNotAllowed, http.StatusMethodNotAllowed, CodeMethodNotAllowed},
		{"FileTooLarge", FileTooLarge, http.StatusRequestEntityTooLarge, CodeFileTooLarge},
		{"InternalError", InternalError, http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec, "сообщение")

			if rec.Code != tt.status {
				t.Errorf("status = %d, ожидался %d", rec.Code, tt.status)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, ожидался application/json", ct)
			}

			var body errorBody
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("ошибка декодирования: %v", err)
			}
			if body.Error.Code != tt.code {
				t.Errorf("code = %q, ожидался %q", body.Error.Code, tt.code)
			}
			if body.Error.Message != "сообщение" {
				t.Errorf("message = %q", body.Error.Message)
			}
		})
	}
}
