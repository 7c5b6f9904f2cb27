package models

import "errors"

// Error classes shared by the domain packages. Concrete errors wrap one of
// these so the HTTP layer can pick a status code with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)
