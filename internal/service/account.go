// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/payform/payform/internal/auth"
	"github.com/payform/payform/internal/metrics"
	"github.com/payform/payform/internal/model"
	"github.com/payform/payform/internal/repository"
)

// Account service errors.
var (
	ErrEmailExists  = errors.New("email already registered")
	ErrInvalidEmail = errors.New("invalid email address")
	ErrEmptyName    = errors.New("name must not be empty")
	ErrWeakPassword = errors.New("password too short")
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("incorrect email or password")
)

const (
	maxNameLength     = 50
	maxEmailLength    = 100
	minPasswordLength = 8
)

// AccountService handles signup and sign-in.
type AccountService struct {
	repo    *repository.Repository
	tokens  *auth.TokenManager
	metrics metrics.Recorder
}

// NewAccountService creates a new AccountService.
func NewAccountService(repo *repository.Repository, tokens *auth.TokenManager, recorder metrics.Recorder) *AccountService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AccountService{
		repo:    repo,
		tokens:  tokens,
		metrics: recorder,
	}
}

// SignupInput defines input for registering an account.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// Signup registers a new account. The password is stored only as a
// bcrypt hash.
func (s *AccountService) Signup(ctx context.Context, input SignupInput) (*model.User, error) {
	name := strings.TrimSpace(input.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}

	if len(input.Password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := auth.HashSecret(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.IncSignup()

	return user, nil
}

// SignIn authenticates an account and issues a bearer token.
// The same error is returned for an unknown email and a wrong password.
func (s *AccountService) SignIn(ctx context.Context, email, password string) (string, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		s.metrics.IncSignIn("failure")
		return "", ErrInvalidCredentials
	}

	user, err := s.repo.GetUserByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncSignIn("failure")
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("load user: %w", err)
	}

	if !auth.VerifySecret(password, user.PasswordHash) {
		s.metrics.IncSignIn("failure")
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email, s.tokens.TTL())
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	s.metrics.IncSignIn("success")

	return token, nil
}

// validateName checks account display names.
func validateName(name string) error {
	if name == "" || len(name) > maxNameLength {
		return ErrEmptyName
	}
	return nil
}

// normalizeEmail validates and canonicalizes an email address.
func normalizeEmail(email string) (string, error) {
	trimmed := strings.TrimSpace(strings.ToLower(email))
	if trimmed == "" || len(trimmed) > maxEmailLength {
		return "", ErrInvalidEmail
	}

	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", ErrInvalidEmail
	}

	return trimmed, nil
}
