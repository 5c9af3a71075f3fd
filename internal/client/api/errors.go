package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Structured server error codes. Navigation and session decisions branch on
// these, never on message text.
const (
	CodeNotRegistered     = "NOT_REGISTERED"
	CodeProfileIncomplete = "PROFILE_INCOMPLETE"
	CodeInvalidOtp        = "INVALID_OTP"
	CodeOtpExpired        = "OTP_EXPIRED"
	CodeDuplicateAccount  = "DUPLICATE_ACCOUNT"
	CodeUnauthorized      = "UNAUTHORIZED"
)

// Error is a server-rejected request (non-2xx with a decoded envelope).
// Message is surfaced verbatim to the user when present.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server error (%d)", e.StatusCode)
}

// IsAuthError reports whether err means the token itself was rejected.
// This is the only error class that should force a logout.
func IsAuthError(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.Code == CodeUnauthorized
}

// ErrorCode extracts the structured code from err, empty when absent
func ErrorCode(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

// UserMessage returns the server-provided message from err, or fallback when
// the error carries none (e.g. transport failures)
func UserMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
