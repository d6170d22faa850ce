package model

import (
	"errors"
	"fmt"
)

// ErrEmptyReservationRequest is returned when a reservation is requested
// without any tickets.
var ErrEmptyReservationRequest = errors.New("reservation must contain at least one ticket")

// SeatOutOfRangeError reports a row or seat outside the hall bounds.  It is
// always a client input error and is never retried.
type SeatOutOfRangeError struct {
	Field string // "row" or "seat"
	Value int
	Min   int
	Max   int
}

func (e *SeatOutOfRangeError) Error() string {
	return fmt.Sprintf("%s must be in range [%d, %d], not %d", e.Field, e.Min, e.Max, e.Value)
}

// SeatTakenError reports that a ticket already exists for the seat.  The
// client may retry with a different seat, not with the same request.
type SeatTakenError struct {
	PerformanceID uint64
	Row           int
	Seat          int
}

func (e *SeatTakenError) Error() string {
	return fmt.Sprintf("seat (row=%d, seat=%d) is already taken for performance %d", e.Row, e.Seat, e.PerformanceID)
}

// PerformanceNotFoundError is returned when a ticket request references a
// performance that does not exist.
type PerformanceNotFoundError struct {
	PerformanceID uint64
}

func (e *PerformanceNotFoundError) Error() string {
	return fmt.Sprintf("performance %d not found", e.PerformanceID)
}

// InvariantViolationError signals internally inconsistent data, e.g. more
// reserved tickets than seats.  It is never expected in correct operation.
type InvariantViolationError struct {
	Msg string
}

func (e *InvariantViolationError) Error() string {
	return "invariant violation: " + e.Msg
}

// StorageError wraps an infrastructure failure that prevented a transaction
// from committing.  No partial state is left behind, so the whole request
// may be retried.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Retryable reports whether the caller may resubmit the request.
func (e *StorageError) Retryable() bool { return true }
