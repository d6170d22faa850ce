package model

// Seat is a (row, seat) coordinate inside a hall.  Both values are 1-based.
type Seat struct {
	Row  int `json:"row"`
	Seat int `json:"seat"`
}

// ValidateSeat reports whether seat lies within [1, maxSeats].  It returns a
// *SeatOutOfRangeError carrying the attempted value and the valid range.
func ValidateSeat(seat, maxSeats int) error {
	return validateRange("seat", seat, maxSeats)
}

// ValidateRow is the row counterpart of ValidateSeat; maxRows is the hall's
// number of rows.
func ValidateRow(row, maxRows int) error {
	return validateRange("row", row, maxRows)
}

func validateRange(field string, value, max int) error {
	if value < 1 || value > max {
		return &SeatOutOfRangeError{Field: field, Value: value, Min: 1, Max: max}
	}
	return nil
}
