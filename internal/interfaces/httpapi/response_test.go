package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/laliga-scout/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteSuccess_SortedKeys(t *testing.T) {
	first := httptest.NewRecorder()
	second := httptest.NewRecorder()
	payload := map[string]any{"zeta": 1, "alpha": 2, "mid": map[string]any{"b": 1, "a": 2}}

	writeSuccess(context.Background(), first, http.StatusOK, payload)
	writeSuccess(context.Background(), second, http.StatusOK, payload)

	want := `{"apiVersion":"2.0","data":{"alpha":2,"mid":{"a":2,"b":1},"zeta":1}}` + "\n"
	if first.Body.String() != want {
		t.Fatalf("unexpected body:\n got %s\nwant %s", first.Body.String(), want)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("expected byte-identical bodies")
	}
}

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStatus string
	}{
		{name: "missing parameter", err: usecase.MissingParameters("team_name"), wantCode: http.StatusBadRequest, wantStatus: "INVALID_ARGUMENT"},
		{name: "not found", err: fmt.Errorf("%w: no club", usecase.ErrNotFound), wantCode: http.StatusNotFound, wantStatus: "NOT_FOUND"},
		{name: "upstream", err: &usecase.UpstreamError{Endpoint: "search", StatusCode: 503}, wantCode: http.StatusBadGateway, wantStatus: "BAD_GATEWAY"},
		{name: "internal", err: errors.New("disk unavailable at /var/data"), wantCode: http.StatusInternalServerError, wantStatus: "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(context.Background(), rec, tt.err)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, rec.Code)
			}

			var body map[string]any
			if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal response body: %v", err)
			}
			errorObj, ok := body["error"].(map[string]any)
			if !ok {
				t.Fatalf("expected error object in response")
			}
			if got, _ := errorObj["status"].(string); got != tt.wantStatus {
				t.Fatalf("expected error status %s, got %v", tt.wantStatus, errorObj["status"])
			}
			if tt.wantCode == http.StatusInternalServerError && errorObj["message"] != internalErrorMessage {
				t.Fatalf("internal error details leaked: %v", errorObj["message"])
			}
		})
	}
}
