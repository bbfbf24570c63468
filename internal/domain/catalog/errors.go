package catalog

import "errors"

var (
	ErrPackageNotFound = errors.New("package not found")
	ErrDuplicateID     = errors.New("package id already exists")
)
