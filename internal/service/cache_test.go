package service

import (
	"testing"
	"time"

	"github.com/bigkaa/pdfstore/internal/domain/model"
)

// TestCacheService_GetSet проверяет базовые операции Get/Set.
func TestCacheService_GetSet(t *testing.T) {
	cache := NewCacheService(100, 5*time.Minute)

	if _, ok := cache.Get(1); ok {
		t.Fatal("ожидался cache miss для нового ключа")
	}

	cache.Set(&model.UploadedFile{ID: 1, OriginalName: "a.pdf"})
	got, ok := cache.Get(1)
	if !ok {
		t.Fatal("ожидался cache hit после Set")
	}
	if got.OriginalName != "a.pdf" {
		t.Errorf("OriginalName = %q, ожидался %q", got.OriginalName, "a.pdf")
	}
}

// TestCacheService_Delete проверяет инвалидацию.
func TestCacheService_Delete(t *testing.T) {
	cache := NewCacheService(100, 5*time.Minute)

	cache.Set(&model.UploadedFile{ID: 7})
	cache.Delete(7)

	if _, ok := cache.Get(7); ok {
		t.Fatal("ожидался cache miss после Delete")
	}
}

// TestCacheService_TTLExpiration проверяет автоматическое истечение TTL.
func TestCacheService_TTLExpiration(t *testing.T) {
	cache := NewCacheService(100, 50*time.Millisecond)

	cache.Set(&model.UploadedFile{ID: 1})
	if _, ok := cache.Get(1); !ok {
		t.Fatal("ожидался cache hit сразу после Set")
	}

	time.Sleep(100 * time.Millisecond)

	if _, ok := cache.Get(1); ok {
		t.Fatal("ожидался cache miss после истечения TTL")
	}
}

// TestCacheService_Eviction проверяет вытеснение при переполнении.
func TestCacheService_Eviction(t *testing.T) {
	cache := NewCacheService(2, 5*time.Minute)

	cache.Set(&model.UploadedFile{ID: 1})
	cache.Set(&model.UploadedFile{ID: 2})
	cache.Set(&model.UploadedFile{ID: 3})

	if cache.Len() != 2 {
		t.Errorf("Len = %d, ожидалось 2", cache.Len())
	}
	if _, ok := cache.Get(1); ok {
		t.Error("самая старая запись должна быть вытеснена")
	}
}

// TestCacheService_Disabled проверяет, что размер 0 отключает кэш.
func TestCacheService_Disabled(t *testing.T) {
	cache := NewCacheService(0, 5*time.Minute)
	if cache != nil {
		t.Fatal("при размере 0 ожидался nil")
	}

	// Методы nil-кэша безопасны
	cache.Set(&model.UploadedFile{ID: 1})
	if _, ok := cache.Get(1); ok {
		t.Error("отключённый кэш не должен возвращать записи")
	}
	cache.Delete(1)
	if cache.Len() != 0 {
		t.Errorf("Len = %d, ожидалось 0", cache.Len())
	}
}
