// File: internal/item/errors.go
package item

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidationError reports a single field failing item validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistenceError reports a reorder that failed partway through its
// sequential position writes. Succeeded counts writes already applied when
// the failure hit; callers use it to decide how much of the new order is
// durable.
type PersistenceError struct {
	Op        string
	Succeeded int
	Attempted int
	FailedID  uuid.UUID
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %d of %d position updates applied, failed at item %s: %v",
		e.Op, e.Succeeded, e.Attempted, e.FailedID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
