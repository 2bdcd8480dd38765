package message

import "github.com/pkg/errors"

var (
	// ErrNotFound - unknown message id, or the user holds no recipient state
	// entry for it. A mutation never creates a missing entry.
	ErrNotFound = errors.New("message not found")

	// ErrForbidden - the caller's authorization level does not permit
	// broadcast creation.
	ErrForbidden = errors.New("insufficient authorization level")
)

// ValidationError - error when creation or mutation inputs are invalid.
type ValidationError struct {
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}
