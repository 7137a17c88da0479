package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPValidator_ValidToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req validateRequest
		json.NewDecoder(r.Body).Decode(&req)

		if req.Token == "valid-token" {
			json.NewEncoder(w).Encode(validateResponse{
				Valid:   true,
				UserID:  "user-123",
				Name:    "alice",
				IsAdmin: true,
			})
		} else {
			json.NewEncoder(w).Encode(validateResponse{Valid: false})
		}
	}))
	defer server.Close()

	validator := NewHTTPValidator(server.URL)

	identity, err := validator.Validate(context.Background(), "valid-token")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if identity.ID != "user-123" {
		t.Errorf("expected user-123, got %s", identity.ID)
	}
	if identity.Name != "alice" {
		t.Errorf("expected alice, got %s", identity.Name)
	}
	if !identity.IsAdmin {
		t.Errorf("expected admin identity")
	}
}

func TestHTTPValidator_InvalidToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(validateResponse{Valid: false})
	}))
	defer server.Close()

	validator := NewHTTPValidator(server.URL)
	_, err := validator.Validate(context.Background(), "invalid-token")

	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestHTTPValidator_EmptyToken(t *testing.T) {
	validator := NewHTTPValidator("http://unused.invalid")
	_, err := validator.Validate(context.Background(), "")

	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestHTTPValidator_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	validator := NewHTTPValidator(server.URL)
	_, err := validator.Validate(context.Background(), "some-token")

	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestHTTPValidator_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	validator := NewHTTPValidator(server.URL)
	_, err := validator.Validate(context.Background(), "some-token")

	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestNoopValidator(t *testing.T) {
	validator := NewNoopValidator()
	identity, err := validator.Validate(context.Background(), "anything")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if identity != nil {
		t.Errorf("expected nil identity when auth is disabled")
	}
}
