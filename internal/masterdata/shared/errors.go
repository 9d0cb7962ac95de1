package shared

import (
	"fmt"

	root "github.com/odyssey-erp/shiptrack/internal/shared"
)

var (
	// ErrInUse is returned when deleting a record that shipments still reference.
	ErrInUse = fmt.Errorf("%w: record is referenced by shipment data", root.ErrConflict)
	// ErrInvalidID flags a non-positive identifier.
	ErrInvalidID = root.FieldError("id", "must be a positive integer")
)

// NotFound builds a not-found error for entity.
func NotFound(entity string) error {
	return fmt.Errorf("%s %w", entity, root.ErrNotFound)
}
