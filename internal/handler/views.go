package handler

import (
	"time"

	"github.com/samber/lo"

	"github.com/iliyamo/theatre-booking/internal/model"
	"github.com/iliyamo/theatre-booking/internal/service"
)

// The view types below are the JSON shapes returned by the API.  Each
// endpoint family has a list and a detail projection.

type PlayListView struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type PlayDetailView struct {
	ID          uint64      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Actors      []ActorView `json:"actors"`
	Genres      []string    `json:"genres"`
}

type ActorView struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

type ActorDetailView struct {
	ActorView
	Plays []PlayListView `json:"plays"`
}

type GenreView struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type HallView struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	Rows       int    `json:"rows"`
	SeatsInRow int    `json:"seats_in_row"`
	Capacity   int    `json:"capacity"`
}

type PerformanceView struct {
	ID            uint64    `json:"id"`
	PlayID        uint64    `json:"play_id"`
	TheatreHallID uint64    `json:"theatre_hall_id"`
	ShowTime      time.Time `json:"show_time"`
}

type PerformanceListView struct {
	ID            uint64    `json:"id"`
	ShowTime      time.Time `json:"show_time"`
	PlayID        uint64    `json:"play_id"`
	PlayTitle     string    `json:"play_title"`
	TheatreHallID uint64    `json:"theatre_hall_id"`
	HallName      string    `json:"theatre_hall_name"`
	HallCapacity  int       `json:"theatre_hall_capacity"`
	FreeSeats     int       `json:"free_seats"`
}

type PerformanceDetailView struct {
	ID          uint64       `json:"id"`
	ShowTime    time.Time    `json:"show_time"`
	PlayID      uint64       `json:"play_id"`
	PlayTitle   string       `json:"play_title"`
	TheatreHall HallView     `json:"theatre_hall"`
	TotalSeats  int          `json:"total_seats"`
	SoldTickets int          `json:"sold_tickets"`
	FreeSeats   int          `json:"free_seats"`
	TakenSeats  []model.Seat `json:"taken_seats"`
}

type ticketPerformanceView struct {
	ID        uint64    `json:"id"`
	PlayTitle string    `json:"play_title"`
	HallName  string    `json:"theatre_hall_name"`
	ShowTime  time.Time `json:"show_time"`
}

type TicketListView struct {
	ID          uint64                `json:"id"`
	Row         int                   `json:"row"`
	Seat        int                   `json:"seat"`
	Performance ticketPerformanceView `json:"performance"`
	ReservedBy  *string               `json:"reserved_by"`
}

type ticketReservationView struct {
	ID        uint64    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	User      string    `json:"user"`
}

type TicketDetailView struct {
	ID          uint64                 `json:"id"`
	Row         int                    `json:"row"`
	Seat        int                    `json:"seat"`
	Performance ticketPerformanceView  `json:"performance"`
	Reservation *ticketReservationView `json:"reservation"`
}

type ReservationListView struct {
	ID        uint64    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type reservationTicketView struct {
	ID            uint64 `json:"id"`
	Row           int    `json:"row"`
	Seat          int    `json:"seat"`
	PerformanceID uint64 `json:"performance"`
}

type ReservationDetailView struct {
	ID           uint64                  `json:"id"`
	CreatedAt    time.Time               `json:"created_at"`
	Performances []uint64                `json:"performances"`
	Tickets      []reservationTicketView `json:"tickets"`
}

func playListView(p model.Play, _ int) PlayListView {
	return PlayListView{ID: p.ID, Title: p.Title, Description: p.Description}
}

func playDetailView(p model.Play) PlayDetailView {
	return PlayDetailView{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Actors:      lo.Map(p.Actors, actorView),
		Genres:      lo.Map(p.Genres, func(g model.Genre, _ int) string { return g.Name }),
	}
}

func actorView(a model.Actor, _ int) ActorView {
	return ActorView{ID: a.ID, FirstName: a.FirstName, LastName: a.LastName, FullName: a.FullName()}
}

func actorDetailView(a model.Actor, plays []model.Play) ActorDetailView {
	return ActorDetailView{ActorView: actorView(a, 0), Plays: lo.Map(plays, playListView)}
}

func genreView(g model.Genre, _ int) GenreView {
	return GenreView{ID: g.ID, Name: g.Name}
}

func hallView(h model.TheatreHall, _ int) HallView {
	return HallView{ID: h.ID, Name: h.Name, Rows: h.Rows, SeatsInRow: h.SeatsInRow, Capacity: h.Capacity()}
}

func performanceView(p model.Performance) PerformanceView {
	return PerformanceView{ID: p.ID, PlayID: p.PlayID, TheatreHallID: p.TheatreHallID, ShowTime: p.ShowTime.UTC()}
}

func performanceListView(l service.PerformanceListing, _ int) PerformanceListView {
	return PerformanceListView{
		ID:            l.ID,
		ShowTime:      l.ShowTime.UTC(),
		PlayID:        l.PlayID,
		PlayTitle:     l.PlayTitle,
		TheatreHallID: l.TheatreHallID,
		HallName:      l.HallName,
		HallCapacity:  l.TotalSeats,
		FreeSeats:     l.FreeSeats,
	}
}

func performanceDetailView(d service.PerformanceDetail) PerformanceDetailView {
	return PerformanceDetailView{
		ID:          d.Summary.ID,
		ShowTime:    d.Summary.ShowTime.UTC(),
		PlayID:      d.Summary.PlayID,
		PlayTitle:   d.Summary.PlayTitle,
		TheatreHall: hallView(d.Summary.Hall(), 0),
		TotalSeats:  d.Availability.TotalSeats,
		SoldTickets: d.Availability.SoldTickets,
		FreeSeats:   d.Availability.FreeSeats,
		TakenSeats:  d.Availability.TakenSeats,
	}
}

func ticketPerformance(d model.TicketDetail) ticketPerformanceView {
	return ticketPerformanceView{ID: d.PerformanceID, PlayTitle: d.PlayTitle, HallName: d.HallName, ShowTime: d.ShowTime.UTC()}
}

func ticketListView(d model.TicketDetail, _ int) TicketListView {
	v := TicketListView{ID: d.ID, Row: d.Row, Seat: d.Seat, Performance: ticketPerformance(d)}
	if d.Reserved() {
		v.ReservedBy = lo.ToPtr(d.ReservedBy())
	}
	return v
}

func ticketDetailView(d model.TicketDetail) TicketDetailView {
	v := TicketDetailView{ID: d.ID, Row: d.Row, Seat: d.Seat, Performance: ticketPerformance(d)}
	if d.ReservationID != nil && d.ReservationCreatedAt != nil {
		v.Reservation = &ticketReservationView{
			ID:        *d.ReservationID,
			CreatedAt: d.ReservationCreatedAt.UTC(),
			User:      d.ReservedBy(),
		}
	}
	return v
}

func reservationListView(r model.Reservation, _ int) ReservationListView {
	return ReservationListView{ID: r.ID, CreatedAt: r.CreatedAt.UTC()}
}

func reservationDetailView(r model.Reservation) ReservationDetailView {
	return ReservationDetailView{
		ID:           r.ID,
		CreatedAt:    r.CreatedAt.UTC(),
		Performances: r.PerformanceIDs(),
		Tickets: lo.Map(r.Tickets, func(t model.Ticket, _ int) reservationTicketView {
			return reservationTicketView{ID: t.ID, Row: t.Row, Seat: t.Seat, PerformanceID: t.PerformanceID}
		}),
	}
}
