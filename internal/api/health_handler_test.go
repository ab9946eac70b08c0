package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHealthHandler_EmailConfigured(t *testing.T) {
	handler := HealthHandler("notification-service", func() bool { return true })

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body healthResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	if body.Status != "UP" {
		t.Errorf("expected status UP, got %q", body.Status)
	}
	if body.Service != "notification-service" {
		t.Errorf("expected service name, got %q", body.Service)
	}
	if !body.EmailConfigured {
		t.Error("expected emailConfigured true")
	}
	if _, err := time.Parse(time.RFC3339, body.Timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC3339: %v", body.Timestamp, err)
	}
}

func TestHealthHandler_EmailNotConfigured(t *testing.T) {
	handler := HealthHandler("notification-service", func() bool { return false })

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 even without credentials, got %d", rec.Code)
	}

	var body healthResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.EmailConfigured {
		t.Error("expected emailConfigured false")
	}
}
