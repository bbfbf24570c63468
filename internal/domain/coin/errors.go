package coin

import "errors"

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInsufficientCoins = errors.New("insufficient coin balance")
	ErrProfileNotFound   = errors.New("profile not found")
)
