package services

import (
	"errors"
	"fmt"
)

// Error taxonomy surfaced to the controllers. Storage failures wrap
// ErrStorage so handlers can map them with errors.Is without caring which
// collection call failed.
var (
	ErrValidation    = errors.New("validation failed")
	ErrAuthorization = errors.New("not allowed")
	ErrNotFound      = errors.New("not found")
	ErrStorage       = errors.New("storage failure")
)

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrStorage, err)
}
