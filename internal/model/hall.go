package model

import (
	"errors"
	"fmt"
)

// TheatreHall is a room in which performances are staged.  Its seating
// layout is a rectangular grid of Rows rows with SeatsInRow seats each.
// This struct corresponds to a row in the `theatre_halls` table.
//
// Fields:
//  ID         – primary key identifier.
//  Name       – display name of the hall.
//  Rows       – number of seating rows (must be > 0).
//  SeatsInRow – number of seats in every row (must be > 0).
type TheatreHall struct {
	ID         uint64 `db:"id"`           // theatre_halls.id
	Name       string `db:"name"`         // theatre_halls.name
	Rows       int    `db:"seat_rows"`    // theatre_halls.seat_rows
	SeatsInRow int    `db:"seats_in_row"` // theatre_halls.seats_in_row
}

// ErrInvalidHallLayout is returned when a hall is created or updated with
// a non-positive number of rows or seats per row.
var ErrInvalidHallLayout = errors.New("rows and seats_in_row must be greater than zero")

// Capacity returns the total number of addressable seats in the hall.
func (h TheatreHall) Capacity() int {
	return h.Rows * h.SeatsInRow
}

// Validate checks the hall layout.  A zero or negative dimension would make
// every seat invalid, so such halls are never persisted.
func (h TheatreHall) Validate() error {
	if h.Rows <= 0 || h.SeatsInRow <= 0 {
		return fmt.Errorf("%w (rows=%d, seats_in_row=%d)", ErrInvalidHallLayout, h.Rows, h.SeatsInRow)
	}
	return nil
}

// ValidatePosition runs the row and seat validators against the hall bounds.
// The row is checked first so that the reported error names the outermost
// coordinate that is wrong.
func (h TheatreHall) ValidatePosition(row, seat int) error {
	if err := ValidateRow(row, h.Rows); err != nil {
		return err
	}
	return ValidateSeat(seat, h.SeatsInRow)
}
