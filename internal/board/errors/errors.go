// Package errors defines the domain error taxonomy. Repositories and
// services wrap these sentinels with fmt.Errorf("%w: ...") so the HTTP
// boundary can map them to status codes with errors.Is, without ever
// inspecting message text.
package errors

import (
	"fmt"
)

var (
	// ErrNotFound means a referenced company or job does not exist.
	ErrNotFound = fmt.Errorf("not found")
	// ErrDuplicateHandle means a company handle is already taken.
	ErrDuplicateHandle = fmt.Errorf("duplicate handle")
	// ErrInvalidInput covers malformed, missing, or out-of-range input.
	ErrInvalidInput = fmt.Errorf("invalid input")
)
