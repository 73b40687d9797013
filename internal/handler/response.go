package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-product-api/internal/model"
	"go-product-api/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
	})
}

func writeMessage(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// writeError maps the error taxonomy onto the wire envelope. Unclassified
// errors collapse to a generic 500 so no infrastructure detail leaks to
// clients; the cause is logged server-side.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"
	message := "Unexpected server error"

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		code = apiErr.Code
		message = apiErr.Message
	case errors.Is(err, model.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		code = "INVALID_CREDENTIALS"
		message = "Invalid username or password"
	case errors.Is(err, model.ErrDuplicateUsername):
		status = http.StatusConflict
		code = "DUPLICATE_CREDENTIAL"
		message = "Username already exists"
	case errors.Is(err, model.ErrDuplicateEmail):
		status = http.StatusConflict
		code = "DUPLICATE_CREDENTIAL"
		message = "Email already exists"
	case errors.Is(err, model.ErrUserNotFound):
		status = http.StatusNotFound
		code = "NOT_FOUND"
		message = "User not found"
	case errors.Is(err, model.ErrProductNotFound):
		status = http.StatusNotFound
		code = "NOT_FOUND"
		message = "Product not found"
	case errors.Is(err, model.ErrTokenExpired):
		status = http.StatusUnauthorized
		code = "TOKEN_EXPIRED"
		message = "Token has expired"
	case errors.Is(err, model.ErrTokenInvalid):
		status = http.StatusUnauthorized
		code = "INVALID_TOKEN"
		message = "Invalid token"
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
		code = "VALIDATION_ERROR"
		message = "Invalid input"
	default:
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Message: message,
		Error:   code,
	})
}
