package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"sentencescramble/internal/service"
	"sentencescramble/internal/validation"
)

func TestRespondWithErrorWritesStatusAndBody(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondWithError(recorder, 418, "Teapot", "", nil)

	if recorder.Code != 418 {
		t.Fatalf("expected status 418, got %d", recorder.Code)
	}
	if ct := recorder.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}

	body := strings.TrimSpace(recorder.Body.String())
	if body != `{"error":"Teapot"}` {
		t.Fatalf("expected JSON error body, got %q", body)
	}
}

func TestRespondWithErrorLogsMessage(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	recorder := httptest.NewRecorder()
	err := errors.New("boom")

	respondWithError(recorder, 500, "Internal server error", "", err)

	entries := logs.FilterMessage("Internal server error").All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	if entries[0].Level != zap.ErrorLevel {
		t.Errorf("expected error level, got %v", entries[0].Level)
	}
	if got := entries[0].ContextMap()["error"]; got != "boom" {
		t.Fatalf("expected log to include error, got %v", got)
	}
}

func TestRespondWithServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "validation",
			err:    fmt.Errorf("%w: %w", service.ErrAssignmentInvalid, validation.ValidationError{Field: "title", Message: "please enter a title"}),
			status: http.StatusBadRequest,
			body:   `{"error":"please enter a title","field":"title"}`,
		},
		{"out of range", fmt.Errorf("%w: 9 of 2", service.ErrSentenceOutOfRange), http.StatusBadRequest, ""},
		{"not found", service.ErrProgressNotFound, http.StatusNotFound, `{"error":"Progress not found"}`},
		{"finished", service.ErrAlreadyFinished, http.StatusConflict, ""},
		{"not current", service.ErrNotCurrentItem, http.StatusConflict, ""},
		{"receipts off", service.ErrReceiptNotEnabled, http.StatusServiceUnavailable, ""},
		{"unknown", errors.New("disk full"), http.StatusInternalServerError, `{"error":"Internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respondWithServiceError(recorder, tt.err)

			if recorder.Code != tt.status {
				t.Errorf("status = %d, want %d", recorder.Code, tt.status)
			}
			if tt.body != "" {
				if got := strings.TrimSpace(recorder.Body.String()); got != tt.body {
					t.Errorf("body = %s, want %s", got, tt.body)
				}
			}
		})
	}
}

func TestRecoverReturns500(t *testing.T) {
	handler := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	if recorder.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", recorder.Code)
	}
}

func TestLoggingRecordsStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/x", nil))

	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one request log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusTeapot) {
		t.Errorf("status field = %v", fields["status"])
	}
	if fields["method"] != "POST" || fields["path"] != "/api/x" {
		t.Errorf("unexpected fields %v", fields)
	}
}
