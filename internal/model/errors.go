package model

import "errors"

var (
	// Account / credential errors
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")

	// Token errors
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token has expired")

	// Catalog errors
	ErrProductNotFound = errors.New("product not found")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
