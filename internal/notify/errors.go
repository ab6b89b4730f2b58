package notify

import "errors"

// Sentinel errors for notification operations.
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrMailerNotConfigured  = errors.New("mailer not configured")
)
