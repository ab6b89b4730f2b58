package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/payform/payform/internal/auth"
	"github.com/payform/payform/internal/model"
	"github.com/payform/payform/internal/repository"
)

type stubAccountStore struct {
	users map[string]*model.User
}

func (s *stubAccountStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func newTestAuth(t *testing.T) (*auth.TokenManager, func(http.Handler) http.Handler) {
	t.Helper()

	tokens := auth.NewTokenManager([]byte("test-signing-secret"), 30*time.Minute)
	store := &stubAccountStore{users: map[string]*model.User{
		"a@example.com": {ID: 7, Name: "Alice", Email: "a@example.com"},
	}}
	resolver := auth.NewResolver(tokens, store)

	mw := Auth(AuthConfig{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Resolver: resolver,
	})
	return tokens, mw
}

func TestAuth_ValidToken(t *testing.T) {
	t.Parallel()

	tokens, mw := newTestAuth(t)

	token, err := tokens.Issue("a@example.com", 30*time.Minute)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	var gotUserID int64
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = auth.UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payment-forms", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if gotUserID != 7 {
		t.Errorf("expected user ID 7 in context, got %d", gotUserID)
	}
}

func TestAuth_MissingToken(t *testing.T) {
	t.Parallel()

	_, mw := newTestAuth(t)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached without a token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payment-forms", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	t.Parallel()

	_, mw := newTestAuth(t)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached with a bad token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payment-forms", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestAuth_DeletedAccount(t *testing.T) {
	t.Parallel()

	tokens, mw := newTestAuth(t)

	// Valid token for an account the store no longer has
	token, err := tokens.Issue("gone@example.com", 30*time.Minute)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached for a deleted account")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payment-forms", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestExtractBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer", "Bearer abc123", "abc123"},
		{"empty", "", ""},
		{"no scheme", "abc123", ""},
		{"basic scheme", "Basic dXNlcjpwYXNz", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			if got := extractBearerToken(req); got != tt.want {
				t.Errorf("extractBearerToken() = %q, want %q", got, tt.want)
			}
		})
	}
}
