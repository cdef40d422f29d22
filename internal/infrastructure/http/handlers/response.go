package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/natjungquist/c1-wxautomator-backend/internal/application/ports"
)

// writeErr sends JSON { "error": message, "code": errCode }. If errCode is empty, a default is used from code.
func writeErr(w http.ResponseWriter, code int, errCode string, message string) {
	if errCode == "" {
		errCode = defaultErrCode(code)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": errCode})
}

func defaultErrCode(httpCode int) string {
	switch httpCode {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusForbidden:
		return ErrCodeForbidden
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	case http.StatusTooManyRequests:
		return ErrCodeRateLimited
	case http.StatusNotImplemented:
		return ErrCodeNotImplemented
	case http.StatusBadGateway, http.StatusInternalServerError:
		return ErrCodeInternal
	case http.StatusServiceUnavailable:
		return ErrCodeProviderUnreached
	default:
		return ErrCodeInternal
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeCallErr maps a classified provider call failure onto the response.
func writeCallErr(w http.ResponseWriter, err error) {
	var apiErr *ports.APIError
	if !errors.As(err, &apiErr) {
		writeErr(w, http.StatusInternalServerError, "", err.Error())
		return
	}
	code := ErrCodeProviderError
	switch apiErr.Kind {
	case ports.KindClientRejected:
		code = ErrCodeInvalidRequest
	case ports.KindConnectivity:
		code = ErrCodeProviderUnreached
	}
	msg := apiErr.Detail
	if msg == "" {
		msg = apiErr.Error()
	}
	writeErr(w, apiErr.Status, code, msg)
}
