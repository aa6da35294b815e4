package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestIDGenerated(t *testing.T) {
	var captured string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	RequestID(next).ServeHTTP(rec, req)

	if captured == "" {
		t.Error("expected a generated request ID")
	}
	if rec.Header().Get(RequestIDHeader) != captured {
		t.Error("expected request ID to be echoed in the response header")
	}
}

func TestRequestIDPropagated(t *testing.T) {
	var captured string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-supplied-id")
	rec := httptest.NewRecorder()

	RequestID(next).ServeHTTP(rec, req)

	if captured != "client-supplied-id" {
		t.Errorf("expected client-supplied-id, got %s", captured)
	}
}
