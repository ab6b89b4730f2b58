package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/payform/payform/internal/auth"
	"github.com/payform/payform/internal/handler/dto"
	"github.com/payform/payform/internal/service"
)

// PaymentFormHandler handles HTTP requests for payment form operations.
type PaymentFormHandler struct {
	svc    *service.PaymentFormService
	logger *slog.Logger
}

// NewPaymentFormHandler creates a new PaymentFormHandler.
func NewPaymentFormHandler(svc *service.PaymentFormService, logger *slog.Logger) *PaymentFormHandler {
	return &PaymentFormHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/payment-forms.
func (h *PaymentFormHandler) Create(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())

	var req dto.CreatePaymentFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.CreatePaymentFormInput{
		Name:        req.Name,
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    req.Currency,
		UserID:      authCtx.UserID,
	}

	form, err := h.svc.CreateForm(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("payment_form_created",
		"form_id", form.ID,
		"user_id", authCtx.UserID,
	)

	writeJSON(w, http.StatusCreated, dto.ToPaymentFormResponse(form))
}

// Get handles GET /api/v1/payment-forms/{id}.
func (h *PaymentFormHandler) Get(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_ID", "Form ID must be a number")
		return
	}

	form, err := h.svc.GetForm(r.Context(), id, authCtx.UserID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToPaymentFormResponse(form))
}

// List handles GET /api/v1/payment-forms.
func (h *PaymentFormHandler) List(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())

	forms, err := h.svc.ListForms(r.Context(), authCtx.UserID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToPaymentFormListResponse(forms))
}

// handleServiceError maps payment form service errors to HTTP responses.
func (h *PaymentFormHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrFormNotFound):
		h.writeError(w, http.StatusNotFound, "FORM_NOT_FOUND", "Payment form not found")
	case errors.Is(err, service.ErrInvalidFormName):
		h.writeError(w, http.StatusBadRequest, "INVALID_FORM_NAME", "Invalid form name or description")
	case errors.Is(err, service.ErrInvalidAmount):
		h.writeError(w, http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be positive")
	case errors.Is(err, service.ErrInvalidCurrency):
		h.writeError(w, http.StatusBadRequest, "INVALID_CURRENCY", "Currency must be a three-letter ISO code")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *PaymentFormHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
