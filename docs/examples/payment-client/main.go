// Payform Payment Client Example
//
// This is a minimal example of driving the Payform API end to end:
// register an account, sign in, create a payment form, and submit a
// payment against it as an anonymous payer.
//
// Usage:
//   export PAYFORM_BASE_URL="http://localhost:8080"
//   go run main.go

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

type user struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type paymentForm struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type payment struct {
	ID            int64   `json:"payment_id"`
	PaymentFormID int64   `json:"payment_form_id"`
	ApplicantName string  `json:"applicant_name"`
	Amount        float64 `json:"amount"`
}

func main() {
	baseURL := os.Getenv("PAYFORM_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	client := &apiClient{baseURL: baseURL, http: &http.Client{Timeout: 10 * time.Second}}

	email := fmt.Sprintf("demo-%d@example.com", time.Now().Unix())

	// Register an account
	var account user
	if err := client.post("/signup", "", map[string]any{
		"name":     "Demo Merchant",
		"email":    email,
		"password": "demo-password-123",
	}, &account); err != nil {
		log.Fatalf("signup: %v", err)
	}
	log.Printf("✓ Registered account %d (%s)", account.ID, account.Email)

	// Sign in to get an access token
	var tok token
	if err := client.post("/sign_in", "", map[string]any{
		"email":    email,
		"password": "demo-password-123",
	}, &tok); err != nil {
		log.Fatalf("sign_in: %v", err)
	}
	log.Printf("✓ Signed in, token type %q", tok.TokenType)

	// Create a payment form
	var form paymentForm
	if err := client.post("/api/v1/payment-forms", tok.AccessToken, map[string]any{
		"name":     "Coffee Fund",
		"amount":   4.50,
		"currency": "USD",
	}, &form); err != nil {
		log.Fatalf("create form: %v", err)
	}
	log.Printf("✓ Created form %d: %s (%.2f %s)", form.ID, form.Name, form.Amount, form.Currency)
	log.Printf("  Share this link with payers: %s/payments/%d", baseURL, form.ID)

	// Submit a payment as an anonymous payer (no token)
	var paid payment
	if err := client.post(fmt.Sprintf("/payments/%d", form.ID), "", map[string]any{
		"applicant_name": "Grateful Payer",
		"amount":         4.50,
	}, &paid); err != nil {
		log.Fatalf("submit payment: %v", err)
	}
	log.Printf("✓ Payment %d recorded against form %d", paid.ID, paid.PaymentFormID)
}

type apiClient struct {
	baseURL string
	http    *http.Client
}

func (c *apiClient) post(path, accessToken string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
