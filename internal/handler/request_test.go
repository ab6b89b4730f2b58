package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/payform/payform/internal/auth"
	"github.com/payform/payform/internal/handler/dto"
	"github.com/payform/payform/internal/model"
)

// Malformed requests are rejected before any service call, so a nil
// service is safe here.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// withTestAuth injects an authenticated caller the way the auth
// middleware would.
func withTestAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := auth.ContextWithAuth(r.Context(), &model.AuthContext{
			UserID: 1,
			Email:  "a@example.com",
			Name:   "Alice",
		})
		next(w, r.WithContext(ctx))
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp
}

func TestAccountHandler_Signup_InvalidJSON(t *testing.T) {
	h := NewAccountHandler(nil, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.Signup(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Code != "INVALID_JSON" {
		t.Errorf("expected code INVALID_JSON, got %s", resp.Code)
	}
}

func TestAccountHandler_SignIn_InvalidJSON(t *testing.T) {
	h := NewAccountHandler(nil, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/sign_in", strings.NewReader(""))
	rec := httptest.NewRecorder()

	h.SignIn(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestPaymentHandler_Create_InvalidFormID(t *testing.T) {
	h := NewPaymentHandler(nil, testLogger())

	r := chi.NewRouter()
	r.Post("/payments/{formID}", h.Create)

	req := httptest.NewRequest(http.MethodPost, "/payments/abc", strings.NewReader(`{"applicant_name":"Bob","amount":10}`))
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Code != "INVALID_ID" {
		t.Errorf("expected code INVALID_ID, got %s", resp.Code)
	}
}

func TestPaymentFormHandler_Get_InvalidID(t *testing.T) {
	h := NewPaymentFormHandler(nil, testLogger())

	r := chi.NewRouter()
	r.Get("/payment-forms/{id}", withTestAuth(h.Get))

	req := httptest.NewRequest(http.MethodGet, "/payment-forms/notanumber", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}
