package constants

import "time"

// Context keys for the authenticated identity, set by middleware.RequireAuth.
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyUserName  = "user_name"
)

const (
	// MinPasswordLength is the minimum accepted password length on registration.
	MinPasswordLength = 6

	// DefaultCategoryColor is applied when a category is created without a color.
	DefaultCategoryColor = "#3b82f6"

	// TokenLifetime is the validity window of issued bearer tokens.
	TokenLifetime = 7 * 24 * time.Hour
)
