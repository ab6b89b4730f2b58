// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/payform/payform/internal/model"
)

// SignupRequest represents the request body for registering an account.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse represents an account in API responses.
// The password hash is never exposed.
type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SignInRequest represents the request body for signing in.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse represents an issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// CreatePaymentFormRequest represents the request body for creating a payment form.
type CreatePaymentFormRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
}

// PaymentFormResponse represents a payment form in API responses.
type PaymentFormResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
}

// PaymentFormListResponse represents a list of payment forms.
type PaymentFormListResponse struct {
	Data []PaymentFormResponse `json:"data"`
}

// CreatePaymentRequest represents the request body for recording a payment.
type CreatePaymentRequest struct {
	ApplicantName string  `json:"applicant_name"`
	Amount        float64 `json:"amount"`
}

// PaymentResponse represents a payment in API responses.
type PaymentResponse struct {
	ID            int64     `json:"payment_id"`
	PaymentFormID int64     `json:"payment_form_id"`
	ApplicantName string    `json:"applicant_name"`
	Amount        float64   `json:"amount"`
	CreatedAt     time.Time `json:"created_at"`
}

// PaymentHistoryResponse represents the caller's payment history.
type PaymentHistoryResponse struct {
	Data []PaymentResponse `json:"data"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

// ToPaymentFormResponse converts a PaymentForm model to PaymentFormResponse DTO.
func ToPaymentFormResponse(form *model.PaymentForm) *PaymentFormResponse {
	return &PaymentFormResponse{
		ID:          form.ID,
		Name:        form.Name,
		Description: form.Description,
		Amount:      form.Amount,
		Currency:    form.Currency,
		CreatedAt:   form.CreatedAt,
	}
}

// ToPaymentFormListResponse converts a slice of PaymentForm models.
func ToPaymentFormListResponse(forms []*model.PaymentForm) *PaymentFormListResponse {
	responses := make([]PaymentFormResponse, len(forms))
	for i, form := range forms {
		responses[i] = *ToPaymentFormResponse(form)
	}
	return &PaymentFormListResponse{Data: responses}
}

// ToPaymentResponse converts a Payment model to PaymentResponse DTO.
func ToPaymentResponse(payment *model.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:            payment.ID,
		PaymentFormID: payment.FormID,
		ApplicantName: payment.ApplicantName,
		Amount:        payment.Amount,
		CreatedAt:     payment.CreatedAt,
	}
}

// ToPaymentHistoryResponse converts a slice of Payment models.
func ToPaymentHistoryResponse(payments []*model.Payment) *PaymentHistoryResponse {
	responses := make([]PaymentResponse, len(payments))
	for i, payment := range payments {
		responses[i] = *ToPaymentResponse(payment)
	}
	return &PaymentHistoryResponse{Data: responses}
}
