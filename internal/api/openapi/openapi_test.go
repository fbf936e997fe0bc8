package openapi

import (
	"context"
	"encoding/json"
	"testing"
)

func TestLoad(t *testing.T) {
	doc, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	paths := []string{
		"/api/v1/files",
		"/api/v1/files/{id}",
		"/api/v1/files/{id}/view",
		"/api/upload-pdf/",
		"/api/delete-pdf/{id}/",
		"/health/live",
		"/health/ready",
		"/metrics",
	}
	for _, p := range paths {
		if doc.Paths.Find(p) == nil {
			t.Errorf("путь %s отсутствует в документе", p)
		}
	}

	view := doc.Paths.Find("/api/v1/files/{id}/view")
	if view == nil || view.Get == nil || view.Get.OperationID != "viewFile" {
		t.Fatal("операция viewFile не найдена")
	}
}

func TestMarshalJSON(t *testing.T) {
	doc, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	data, err := MarshalJSON(doc)
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("результат не является JSON: %v", err)
	}
	if raw["openapi"] != "3.0.3" {
		t.Errorf("openapi = %v, ожидалось 3.0.3", raw["openapi"])
	}
}
