package profile

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrPhoneTaken      = errors.New("phone number already registered")
)
