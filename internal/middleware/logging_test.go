package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoggerCapturesStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipe/recipes", nil)
	rec := httptest.NewRecorder()

	Logger(logger)(next).ServeHTTP(rec, req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log entry: %v", err)
	}

	if entry["status_code"] != float64(http.StatusCreated) {
		t.Errorf("expected status_code 201, got %v", entry["status_code"])
	}
	if entry["method"] != http.MethodPost {
		t.Errorf("expected method POST, got %v", entry["method"])
	}
	if entry["path"] != "/api/v1/recipe/recipes" {
		t.Errorf("expected path to be recorded, got %v", entry["path"])
	}
}

func TestLoggerDefaultsTo200(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	Logger(logger)(next).ServeHTTP(rec, req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log entry: %v", err)
	}

	if entry["status_code"] != float64(http.StatusOK) {
		t.Errorf("expected status_code 200, got %v", entry["status_code"])
	}
}
