package request

import "errors"

var (
	ErrRequestNotFound = errors.New("request not found")
	ErrAlreadyResolved = errors.New("request already resolved")
	ErrInvalidStatus   = errors.New("invalid resolution status")
)
