package services

import "errors"

// Service-level sentinel errors. Handlers map these onto RFC 7807
// problems; everything else flows through the error taxonomy in
// internal/errors.
var (
	// ErrNoFiles means the request carried no uploadable file parts.
	ErrNoFiles = errors.New("no files provided")

	// ErrInvalidOptions means the per-request option overrides were
	// internally inconsistent (e.g. break max below break min).
	ErrInvalidOptions = errors.New("invalid processing options")
)
