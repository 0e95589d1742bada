package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrSeatTaken  = errors.New("seat is already taken")
	ErrEmailTaken = errors.New("email is already registered")
	ErrForbidden  = errors.New("forbidden")
)

// ValidationError is a field-scoped rejection of client-supplied data.
// Handlers render it as a 400 with a {field: message} body.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// SeatConflictError reports a double-booking attempt detected by the
// tickets unique constraint. Index is the position of the offending
// ticket in the submitted order.
type SeatConflictError struct {
	Index    int
	FlightID int64
	Row      int
	Seat     int
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("tickets[%d]: seat is already taken (flight %d, row %d, seat %d)", e.Index, e.FlightID, e.Row, e.Seat)
}

func (e *SeatConflictError) Unwrap() error { return ErrSeatTaken }
