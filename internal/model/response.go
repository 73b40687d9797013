package model

// APIResponse is the uniform wire envelope. Error carries the taxonomy code
// (VALIDATION_ERROR, INVALID_CREDENTIALS, ...) when Success is false.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}
