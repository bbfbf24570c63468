package auth

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidPhone    = errors.New("invalid phone number")
)
