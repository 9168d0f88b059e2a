package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mabood2003/FairPlay/utils"
)

func TestAuthenticate(t *testing.T) {
	secret := []byte("middleware-test-secret")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetPlayerIDFromContext(r.Context())
		if err != nil {
			t.Errorf("GetPlayerIDFromContext() error = %v", err)
		}
		if id != 7 {
			t.Errorf("player id = %d, want 7", id)
		}
		w.WriteHeader(http.StatusOK)
	})
	handler := Authenticate(secret)(next)

	t.Run("valid token", func(t *testing.T) {
		token, err := utils.GenerateJWT(7, secret)
		if err != nil {
			t.Fatalf("GenerateJWT() error = %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	rejected := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer token", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not.a.jwt"},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}

	t.Run("token signed with another secret", func(t *testing.T) {
		token, err := utils.GenerateJWT(7, []byte("some-other-secret"))
		if err != nil {
			t.Fatalf("GenerateJWT() error = %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})
}

func TestRequestID(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(RequestIDHeader) == "" {
			t.Error("request ID not propagated to the handler")
		}
	})
	handler := RequestID(next)

	t.Run("generates an id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		if rec.Header().Get(RequestIDHeader) == "" {
			t.Fatal("response missing generated request ID")
		}
	})

	t.Run("keeps the caller's id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "caller-supplied")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		if got := rec.Header().Get(RequestIDHeader); got != "caller-supplied" {
			t.Fatalf("request ID = %q, want caller-supplied", got)
		}
	})
}
