package model

// AuthContext is the resolved caller bound to a single request.
// Created by the auth middleware after token verification and account
// lookup; discarded when the request completes.
type AuthContext struct {
	UserID int64
	Email  string
	Name   string
}
