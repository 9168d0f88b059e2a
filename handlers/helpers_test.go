package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mabood2003/FairPlay/services"
)

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"game not found", services.ErrGameNotFound, http.StatusNotFound},
		{"player not found", services.ErrPlayerNotFound, http.StatusNotFound},
		{"validation failure", services.ErrStartTimeNotFuture, http.StatusBadRequest},
		{"missing position", services.ErrPositionUnavailable, http.StatusBadRequest},
		{"game not open", services.ErrGameNotOpen, http.StatusConflict},
		{"already confirmed", services.ErrAlreadyConfirmed, http.StatusConflict},
		{"racing confirmation", services.ErrTransactionConflict, http.StatusConflict},
		{"game full", services.ErrGameFull, http.StatusConflict},
		{"host only", services.ErrHostOnly, http.StatusForbidden},
		{"rating gate", services.ErrRatingTooLow, http.StatusForbidden},
		{"outside window", services.ErrOutsideCheckInWindow, http.StatusUnprocessableEntity},
		{"bad credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"email taken", services.ErrEmailTaken, http.StatusConflict},
		{"wrapped sentinel", errors.Join(errors.New("context"), services.ErrGameNotFound), http.StatusNotFound},
		{"unknown error", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)

			mapServiceErrorToHTTP(rec, req, tt.err)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body map[string]interface{}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if _, ok := body["error"]; !ok {
				t.Fatalf("response %v missing error envelope", body)
			}
		})
	}
}

func TestMapGeofenceError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/games/1/checkin", nil)

	mapServiceErrorToHTTP(rec, req, &services.GeofenceError{
		DistanceMeters: 1234,
		RadiusMeters:   500,
	})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var body struct {
		Error struct {
			DistanceMeters float64 `json:"distance_meters"`
			RadiusMeters   float64 `json:"radius_meters"`
			Message        string  `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body.Error.DistanceMeters != 1234 || body.Error.RadiusMeters != 500 {
		t.Fatalf("geofence payload = %+v", body.Error)
	}
	if !strings.Contains(body.Error.Message, "1.2km") {
		t.Fatalf("message %q should carry the formatted distance", body.Error.Message)
	}
}

func TestReadJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"name":"ok"}`, ""},
		{"empty body", ``, "body must not be empty"},
		{"malformed", `{"name":`, "badly-formed JSON"},
		{"unknown field", `{"nope":1}`, "unknown key"},
		{"wrong type", `{"name":7}`, "incorrect JSON type"},
		{"trailing value", `{"name":"a"}{"name":"b"}`, "single JSON value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(tt.body))

			var dst payload
			err := readJSON(rec, req, &dst)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("readJSON() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("readJSON() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestWriteJSONEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()

	if err := writeJSON(rec, http.StatusCreated, jsonResponse{"game": "x"}, http.Header{"X-Custom": []string{"y"}}); err != nil {
		t.Fatalf("writeJSON() error = %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("content type = %q", got)
	}
	if got := rec.Header().Get("X-Custom"); got != "y" {
		t.Fatalf("custom header = %q, want y", got)
	}
}
