package services

import "fmt"

// InvalidStateError reports an illegal lifecycle transition attempt.
type InvalidStateError struct {
	Entity string
	ID     uint
	From   string
	Action string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %d: cannot %s while %q", e.Entity, e.ID, e.Action, e.From)
}

// NotFoundError reports a reference to a missing table, order or item.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// DispatchFailed reports a storage failure while sending an order to the
// kitchen. Items that were not yet promoted stay draft so the whole dispatch
// can be retried; items already past draft are skipped on resend.
type DispatchFailed struct {
	OrderID uint
	Err     error
}

func (e *DispatchFailed) Error() string {
	return fmt.Sprintf("dispatch of order %d failed: %v", e.OrderID, e.Err)
}

func (e *DispatchFailed) Unwrap() error { return e.Err }
