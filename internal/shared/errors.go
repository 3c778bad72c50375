package shared

import (
	"errors"

	"github.com/cadence-hr/cadence/internal/platform/httpx"
)

var (
	// ErrNotFound indicates resource not found. It aliases the transport
	// sentinel so repositories can return it directly and handlers get a
	// 404 from httpx.RespondError without re-wrapping.
	ErrNotFound = httpx.ErrNotFound
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
