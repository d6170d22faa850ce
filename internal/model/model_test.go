package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHallCapacity(t *testing.T) {
	for _, tc := range []struct{ rows, seats, want int }{
		{5, 10, 50},
		{1, 1, 1},
		{20, 35, 700},
	} {
		h := TheatreHall{Rows: tc.rows, SeatsInRow: tc.seats}
		assert.Equal(t, tc.want, h.Capacity())
	}
}

func TestHallValidate(t *testing.T) {
	assert.NoError(t, TheatreHall{Rows: 1, SeatsInRow: 1}.Validate())
	for _, h := range []TheatreHall{{Rows: 0, SeatsInRow: 5}, {Rows: 5, SeatsInRow: 0}, {Rows: -1, SeatsInRow: 3}} {
		err := h.Validate()
		assert.ErrorIs(t, err, ErrInvalidHallLayout)
	}
}

func TestValidateSeatAcceptsExactlyOneToMax(t *testing.T) {
	const max = 10
	for seat := -1; seat <= max+2; seat++ {
		err := ValidateSeat(seat, max)
		if seat >= 1 && seat <= max {
			assert.NoError(t, err, "seat %d", seat)
			continue
		}
		var oor *SeatOutOfRangeError
		require.ErrorAs(t, err, &oor, "seat %d", seat)
		assert.Equal(t, SeatOutOfRangeError{Field: "seat", Value: seat, Min: 1, Max: max}, *oor)
	}
}

func TestScenarioSeatOutsideHall(t *testing.T) {
	h := TheatreHall{Rows: 5, SeatsInRow: 10}
	assert.Equal(t, 50, h.Capacity())

	err := h.ValidatePosition(1, 11)
	var oor *SeatOutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, 1, oor.Min)
	assert.Equal(t, 10, oor.Max)
	assert.Equal(t, "seat must be in range [1, 10], not 11", err.Error())
}

func TestValidatePositionChecksRowFirst(t *testing.T) {
	h := TheatreHall{Rows: 5, SeatsInRow: 10}
	assert.NoError(t, h.ValidatePosition(5, 10))

	var oor *SeatOutOfRangeError
	require.ErrorAs(t, h.ValidatePosition(6, 11), &oor)
	assert.Equal(t, "row", oor.Field)
	assert.Equal(t, 5, oor.Max)
}

func TestStorageErrorUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := error(&StorageError{Op: "insert ticket", Err: cause})
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "storage failure during insert ticket: connection reset", err.Error())

	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.True(t, se.Retryable())
}

func TestReservationPerformanceIDs(t *testing.T) {
	r := Reservation{Tickets: []Ticket{
		{PerformanceID: 3}, {PerformanceID: 1}, {PerformanceID: 3}, {PerformanceID: 2},
	}}
	assert.Equal(t, []uint64{3, 1, 2}, r.PerformanceIDs())
	assert.Empty(t, Reservation{}.PerformanceIDs())
}

func TestTicketDetailReservedBy(t *testing.T) {
	name, email, blank := "ann", "ann@example.com", ""
	assert.Equal(t, "ann", TicketDetail{Username: &name, Email: &email}.ReservedBy())
	assert.Equal(t, "ann@example.com", TicketDetail{Username: &blank, Email: &email}.ReservedBy())
	assert.Equal(t, "", TicketDetail{}.ReservedBy())
}

func TestActorFullName(t *testing.T) {
	assert.Equal(t, "Ian McKellen", Actor{FirstName: "Ian", LastName: "McKellen"}.FullName())
}
