// Package workflow implements the shipment status lifecycle:
// CREATED → IMPORTING_DETAILS_DONE → CUSTOMS_IN_PROGRESS → CUSTOMS_RECEIVED.
package workflow

import (
	"errors"
	"fmt"

	"github.com/odyssey-erp/shiptrack/internal/rbac"
	"github.com/odyssey-erp/shiptrack/internal/shared"
)

// Status is a shipment lifecycle stage.
type Status string

const (
	StatusCreated              Status = "CREATED"
	StatusImportingDetailsDone Status = "IMPORTING_DETAILS_DONE"
	StatusCustomsInProgress    Status = "CUSTOMS_IN_PROGRESS"
	StatusCustomsReceived      Status = "CUSTOMS_RECEIVED"
)

// Visibility describes whether customs data may be shown for a shipment.
type Visibility string

const (
	VisibilityNotStarted Visibility = "not_started"
	VisibilityInProgress Visibility = "in_progress"
	VisibilityAvailable  Visibility = "available"
)

var (
	// ErrTerminal is returned when advancing a shipment that has no successor.
	ErrTerminal = fmt.Errorf("%w: shipment already reached its final status", shared.ErrConflict)
	// ErrInvalidTransition is returned for backward or unknown target statuses.
	ErrInvalidTransition = fmt.Errorf("%w: invalid status transition", shared.ErrConflict)
	// ErrLocked is returned when the shipment status does not permit editing a stage.
	ErrLocked = fmt.Errorf("%w: stage is locked for the current status", shared.ErrConflict)
	// ErrUnknownStatus flags a status string outside the lifecycle.
	ErrUnknownStatus = errors.New("unknown shipment status")
)

var order = []Status{
	StatusCreated,
	StatusImportingDetailsDone,
	StatusCustomsInProgress,
	StatusCustomsReceived,
}

var successor = map[Status]Status{
	StatusCreated:              StatusImportingDetailsDone,
	StatusImportingDetailsDone: StatusCustomsInProgress,
	StatusCustomsInProgress:    StatusCustomsReceived,
}

// Statuses lists every status in lifecycle order.
func Statuses() []Status {
	out := make([]Status, len(order))
	copy(out, order)
	return out
}

// Parse validates a raw status string.
func Parse(raw string) (Status, error) {
	s := Status(raw)
	if rank(s) < 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return s, nil
}

// Valid reports whether s is a lifecycle status.
func (s Status) Valid() bool { return rank(s) >= 0 }

func (s Status) String() string { return string(s) }

func rank(s Status) int {
	for i, candidate := range order {
		if candidate == s {
			return i
		}
	}
	return -1
}

// Next returns the successor of s. The boolean is false for the terminal
// status and for unknown values.
func Next(s Status) (Status, bool) {
	next, ok := successor[s]
	return next, ok
}

// Advance returns the status that follows current when role may perform the
// move. Entering CUSTOMS_RECEIVED needs the receive-customs capability; every
// other move needs the advance capability.
func Advance(current Status, role shared.Role) (Status, error) {
	if !current.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, current)
	}
	next, ok := Next(current)
	if !ok {
		return "", ErrTerminal
	}
	if !rbac.Allowed(role, rbac.ResourceShipments, rbac.ActionAdvance) {
		return "", shared.ErrForbidden
	}
	if next == StatusCustomsReceived && !rbac.Allowed(role, rbac.ResourceShipments, rbac.ActionReceiveCustoms) {
		return "", fmt.Errorf("%w: only an admin can mark customs as received", shared.ErrForbidden)
	}
	return next, nil
}

// Overwrite validates an explicit status change. The role needs the
// overwrite capability and the target must not precede current; skipping
// forward is allowed and the same status is a no-op.
func Overwrite(current, target Status, role shared.Role) (Status, error) {
	if !rbac.Allowed(role, rbac.ResourceShipments, rbac.ActionOverwriteStatus) {
		return "", shared.ErrForbidden
	}
	if !target.Valid() {
		return "", shared.FieldError("status", fmt.Sprintf("unknown status %q", target))
	}
	if rank(target) < rank(current) {
		return "", fmt.Errorf("%w: %s cannot move back to %s", ErrInvalidTransition, current, target)
	}
	return target, nil
}

// ReachesCustomsReceived reports whether moving from → to enters the terminal
// status, which triggers customs seeding.
func ReachesCustomsReceived(from, to Status) bool {
	return from != StatusCustomsReceived && to == StatusCustomsReceived
}

// CustomsVisibility maps a status to the customs visibility state.
func CustomsVisibility(s Status) Visibility {
	switch s {
	case StatusCustomsReceived:
		return VisibilityAvailable
	case StatusCustomsInProgress:
		return VisibilityInProgress
	default:
		return VisibilityNotStarted
	}
}

// ItemsEditable reports whether shipment items may change in status s.
func ItemsEditable(s Status) bool {
	return s == StatusCreated || s == StatusImportingDetailsDone
}

// ImportingEditable reports whether importing details may change in status s.
func ImportingEditable(s Status) bool {
	return s.Valid() && s != StatusCustomsReceived
}

// CustomsEditable reports whether customs data may change in status s.
func CustomsEditable(s Status) bool {
	return s == StatusCustomsReceived
}

// RequireItemsEditable returns ErrLocked when items are frozen.
func RequireItemsEditable(s Status) error {
	if !ItemsEditable(s) {
		return fmt.Errorf("%w: items cannot change once the shipment is %s", ErrLocked, s)
	}
	return nil
}

// RequireImportingEditable returns ErrLocked when importing details are frozen.
func RequireImportingEditable(s Status) error {
	if !ImportingEditable(s) {
		return fmt.Errorf("%w: importing details cannot change once the shipment is %s", ErrLocked, s)
	}
	return nil
}

// RequireCustomsEditable returns ErrLocked until customs have been received.
func RequireCustomsEditable(s Status) error {
	if !CustomsEditable(s) {
		return fmt.Errorf("%w: customs data is editable only after %s", ErrLocked, StatusCustomsReceived)
	}
	return nil
}
