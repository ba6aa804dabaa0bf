package util

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrModuleNotFound       = errors.New("module not found")
	ErrSlugTaken            = errors.New("module with this slug already exists")
	ErrSessionNotFound      = errors.New("learning session not found or expired")
	ErrAlertNotFound        = errors.New("alert not found")
	ErrSOSNotFound          = errors.New("sos request not found")
	ErrWeatherNotConfigured = errors.New("weather monitoring not configured: set API key and location first")
)
