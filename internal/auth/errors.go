package auth

import "errors"

// Sentinel errors for the authentication flow.
// All three are terminal for the current request; handlers translate them
// into the same 401 response so callers cannot distinguish a bad token
// from a deleted account.
var (
	// ErrInvalidToken indicates a malformed, expired, or badly signed token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUnauthenticated indicates no usable identity could be established.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrAccountNotFound indicates a valid token whose backing account is gone.
	ErrAccountNotFound = errors.New("account not found")
)
