package apperr

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrCatalogUnavailable = errors.New("knowledge catalog not found")
	ErrSessionNotFound    = errors.New("session state not found")
)
