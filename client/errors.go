package client

import "errors"

// Sentinel errors for the failure classes a caller can act on. Server-side
// messages are wrapped around these, so errors.Is works while the detail text
// stays available.
var (
	// ErrTransport wraps network-level failures: the request never produced
	// an HTTP response.
	ErrTransport = errors.New("transport error")
	// ErrAuthorization covers 401 and 403 responses.
	ErrAuthorization = errors.New("authorization failed")
	// ErrValidation covers 400 and 422 responses.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound covers 404 responses.
	ErrNotFound = errors.New("not found")
	// ErrConflict covers 409 responses, such as saving a completed contract.
	ErrConflict = errors.New("conflict")
)
