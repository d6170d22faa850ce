package model

import "time"

// Performance is a scheduled showing of a play in a theatre hall.  Many
// tickets reference one performance.
//
// Fields:
//  ID            – primary key identifier.
//  PlayID        – play being staged.
//  TheatreHallID – hall where the performance takes place.
//  ShowTime      – when the performance starts (UTC).
type Performance struct {
	ID            uint64    `db:"id"`              // performances.id
	PlayID        uint64    `db:"play_id"`         // performances.play_id
	TheatreHallID uint64    `db:"theatre_hall_id"` // performances.theatre_hall_id
	ShowTime      time.Time `db:"show_time"`       // performances.show_time
}

// PerformanceSummary is a performance joined with its play, hall and ticket
// counters.  It backs the performance list.
type PerformanceSummary struct {
	Performance
	PlayTitle   string `db:"play_title"`
	HallName    string `db:"hall_name"`
	HallRows    int    `db:"seat_rows"`
	SeatsInRow  int    `db:"seats_in_row"`
	SoldTickets int    `db:"sold_tickets"`
	AllTickets  int    `db:"all_tickets"`
}

// Hall rebuilds the hall layout carried by the summary.
func (s PerformanceSummary) Hall() TheatreHall {
	return TheatreHall{ID: s.TheatreHallID, Name: s.HallName, Rows: s.HallRows, SeatsInRow: s.SeatsInRow}
}
