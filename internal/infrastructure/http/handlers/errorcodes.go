package handlers

// API error codes returned in JSON { "error": "...", "code": "..." } for stable client handling.
const (
	ErrCodeUnauthorized      = "unauthorized"
	ErrCodeInvalidRequest    = "invalid_request"
	ErrCodeNotFound          = "not_found"
	ErrCodeConflict          = "conflict"
	ErrCodeForbidden         = "forbidden"
	ErrCodeNotImplemented    = "not_implemented"
	ErrCodeRateLimited       = "rate_limited"
	ErrCodeProviderError     = "provider_error"
	ErrCodeProviderUnreached = "provider_unreachable"
	ErrCodeInternal          = "internal_error"
)
