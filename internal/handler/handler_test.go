package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/theatre-booking/internal/config"
	"github.com/iliyamo/theatre-booking/internal/handler"
	"github.com/iliyamo/theatre-booking/internal/model"
	"github.com/iliyamo/theatre-booking/internal/repository"
	"github.com/iliyamo/theatre-booking/internal/router"
	"github.com/iliyamo/theatre-booking/internal/service"
	"github.com/iliyamo/theatre-booking/internal/testutil"
	"github.com/iliyamo/theatre-booking/internal/utils"
)

const secret = "test-secret"

type testApp struct {
	e  *echo.Echo
	db *sqlx.DB
	fx *testutil.Fixtures

	staff, alice, bob model.User
	staffTok          string
	aliceTok          string
	bobTok            string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := testutil.NewDB(t)
	log, _ := logtest.NewNullLogger()

	plays := repository.NewPlayRepo(db)
	performances := repository.NewPerformanceRepo(db)
	tickets := repository.NewTicketRepo(db)
	catalog := handler.NewCatalogHandler(
		plays,
		repository.NewActorRepo(db),
		repository.NewGenreRepo(db),
		repository.NewHallRepo(db),
		performances,
		tickets,
		service.NewAvailabilityService(performances, log),
	)
	booking := service.NewReservationService(repository.NewReservationRepo(db), tickets, performances, nil, log)

	a := &testApp{
		db: db,
		fx: testutil.NewFixtures(t, db),
		e: router.New(router.Deps{
			JWTSecret:    secret,
			Log:          log,
			RateLimit:    config.RateLimitConfig{},
			Cache:        config.CacheConfig{},
			DB:           db,
			Catalog:      catalog,
			Reservations: handler.NewReservationHandler(booking),
		}),
	}
	a.staff = a.fx.User("staff@example.com", true)
	a.alice = a.fx.User("alice@example.com", false)
	a.bob = a.fx.User("bob@example.com", false)
	a.staffTok = token(t, a.staff.ID, utils.RoleStaff)
	a.aliceTok = token(t, a.alice.ID, utils.RoleCustomer)
	a.bobTok = token(t, a.bob.ID, utils.RoleCustomer)
	return a
}

func token(t *testing.T, userID uint64, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, userID, role, time.Hour)
	require.NoError(t, err)
	return tok
}

func (a *testApp) do(t *testing.T, method, path, tok string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if tok != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func ticketCount(t *testing.T, db *sqlx.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM tickets`))
	return n
}

func reservationPath(id float64) string {
	return "/v1/reservations/" + strconv.FormatUint(uint64(id), 10)
}

func seatReq(perf model.Performance, row, seat int) map[string]interface{} {
	return map[string]interface{}{"row": row, "seat": seat, "performance": perf.ID}
}

func TestHealth(t *testing.T) {
	a := newTestApp(t)
	rec := a.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestCatalogReadsRequireAuthentication(t *testing.T) {
	a := newTestApp(t)
	a.fx.Play("Hamlet")
	for _, tok := range []string{a.aliceTok, a.staffTok} {
		rec := a.do(t, http.MethodGet, "/v1/plays", tok, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	for _, path := range []string{"/v1/plays", "/v1/performances", "/v1/theatre-halls", "/v1/tickets"} {
		assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodGet, path, "", nil).Code, path)
	}
}

func TestAnonymousCannotSeeWhoReserved(t *testing.T) {
	a := newTestApp(t)
	perf := a.fx.Performance(a.fx.Hall("Main", 5, 10), time.Now())
	require.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/v1/reservations", a.aliceTok,
		map[string]interface{}{"tickets": []interface{}{seatReq(perf, 2, 2)}}).Code)

	rec := a.do(t, http.MethodGet, "/v1/tickets", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotContains(t, rec.Body.String(), "alice@example.com")

	rec = a.do(t, http.MethodGet, "/v1/tickets/1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotContains(t, rec.Body.String(), "alice@example.com")
}

func TestUnknownPathsAreNotFound(t *testing.T) {
	a := newTestApp(t)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodPost, "/v1/anything", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, "/v1/plays/1/extra", a.aliceTok, nil).Code)
}

func TestCatalogWritesRequireStaff(t *testing.T) {
	a := newTestApp(t)
	body := map[string]string{"name": "Drama"}

	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodPost, "/v1/genres", "", body).Code)
	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodPost, "/v1/genres", a.aliceTok, body).Code)

	rec := a.do(t, http.MethodPost, "/v1/genres", a.staffTok, body)
	require.Equal(t, http.StatusCreated, rec.Code)
	var g handler.GenreView
	decode(t, rec, &g)
	assert.Equal(t, "Drama", g.Name)

	assert.Equal(t, http.StatusConflict, a.do(t, http.MethodPost, "/v1/genres", a.staffTok, body).Code)
}

func TestMalformedTokenIsRejected(t *testing.T) {
	a := newTestApp(t)
	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodGet, "/v1/plays", "not-a-jwt", nil).Code)

	wrong, err := utils.NewAccessToken("other-secret", a.alice.ID, utils.RoleCustomer, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodGet, "/v1/reservations", wrong, nil).Code)
}

func TestAnonymousCannotReserve(t *testing.T) {
	a := newTestApp(t)
	perf := a.fx.Performance(a.fx.Hall("Main", 5, 10), time.Now())

	rec := a.do(t, http.MethodPost, "/v1/reservations", "", map[string]interface{}{
		"tickets": []interface{}{seatReq(perf, 1, 1)},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, ticketCount(t, a.db))

	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodGet, "/v1/reservations", "", nil).Code)
}

func TestCreateReservationAndAvailability(t *testing.T) {
	a := newTestApp(t)
	perf := a.fx.Performance(a.fx.Hall("Main", 5, 10), time.Now())

	rec := a.do(t, http.MethodPost, "/v1/reservations", a.aliceTok, map[string]interface{}{
		"tickets": []interface{}{seatReq(perf, 2, 5), seatReq(perf, 2, 6)},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res handler.ReservationDetailView
	decode(t, rec, &res)
	require.Len(t, res.Tickets, 2)
	assert.Equal(t, 5, res.Tickets[0].Seat)
	assert.Equal(t, 6, res.Tickets[1].Seat)
	assert.Equal(t, []uint64{perf.ID}, res.Performances)

	rec = a.do(t, http.MethodGet, "/v1/performances/"+strconv.FormatUint(perf.ID, 10)+"/availability", a.bobTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var av service.Availability
	decode(t, rec, &av)
	assert.Equal(t, 50, av.TotalSeats)
	assert.Equal(t, 2, av.SoldTickets)
	assert.Equal(t, 48, av.FreeSeats)
	assert.Equal(t, []model.Seat{{Row: 2, Seat: 5}, {Row: 2, Seat: 6}}, av.TakenSeats)
}

func TestReservationErrorMapping(t *testing.T) {
	a := newTestApp(t)
	perf := a.fx.Performance(a.fx.Hall("Main", 5, 10), time.Now())
	require.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/v1/reservations", a.aliceTok,
		map[string]interface{}{"tickets": []interface{}{seatReq(perf, 1, 1)}}).Code)

	tests := []struct {
		name    string
		tickets []interface{}
		status  int
		check   func(t *testing.T, body map[string]interface{})
	}{
		{
			name:    "seat outside hall",
			tickets: []interface{}{seatReq(perf, 1, 11)},
			status:  http.StatusBadRequest,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "seat", body["field"])
				assert.EqualValues(t, 10, body["max"])
				assert.Equal(t, "seat must be in range [1, 10], not 11", body["error"])
			},
		},
		{
			name:    "row outside hall",
			tickets: []interface{}{seatReq(perf, 6, 1)},
			status:  http.StatusBadRequest,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "row", body["field"])
			},
		},
		{
			name:    "seat taken",
			tickets: []interface{}{seatReq(perf, 1, 2), seatReq(perf, 1, 1)},
			status:  http.StatusConflict,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.EqualValues(t, 1, body["row"])
				assert.EqualValues(t, 1, body["seat"])
				assert.EqualValues(t, perf.ID, body["performance"])
			},
		},
		{
			name:    "unknown performance",
			tickets: []interface{}{map[string]interface{}{"row": 1, "seat": 1, "performance": 9999}},
			status:  http.StatusBadRequest,
		},
		{
			name:    "missing performance",
			tickets: []interface{}{map[string]interface{}{"row": 1, "seat": 1}},
			status:  http.StatusBadRequest,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Contains(t, body, "fields")
			},
		},
		{
			name:    "empty",
			tickets: []interface{}{},
			status:  http.StatusBadRequest,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := a.do(t, http.MethodPost, "/v1/reservations", a.bobTok, map[string]interface{}{"tickets": tc.tickets})
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			if tc.check != nil {
				var body map[string]interface{}
				decode(t, rec, &body)
				tc.check(t, body)
			}
		})
	}
	// only alice's seat survives the rejected requests
	assert.Equal(t, 1, ticketCount(t, a.db))
}

func TestReservationsAreScopedToOwner(t *testing.T) {
	a := newTestApp(t)
	perf := a.fx.Performance(a.fx.Hall("Main", 5, 10), time.Now())

	rec := a.do(t, http.MethodPost, "/v1/reservations", a.aliceTok,
		map[string]interface{}{"tickets": []interface{}{seatReq(perf, 3, 3)}})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created map[string]interface{}
	decode(t, rec, &created)
	path := reservationPath(created["id"].(float64))

	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, path, a.aliceTok, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, path, a.bobTok, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodDelete, path, a.bobTok, nil).Code)
	// staff get no wider view of reservations
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, path, a.staffTok, nil).Code)

	var list []handler.ReservationListView
	decode(t, a.do(t, http.MethodGet, "/v1/reservations", a.bobTok, nil), &list)
	assert.Empty(t, list)
	decode(t, a.do(t, http.MethodGet, "/v1/reservations", a.aliceTok, nil), &list)
	assert.Len(t, list, 1)

	assert.Equal(t, http.StatusNoContent, a.do(t, http.MethodDelete, path, a.aliceTok, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, path, a.aliceTok, nil).Code)
	assert.Equal(t, 0, ticketCount(t, a.db))
}

func TestUpdateReservationReplacesTickets(t *testing.T) {
	a := newTestApp(t)
	perf := a.fx.Performance(a.fx.Hall("Main", 5, 10), time.Now())

	rec := a.do(t, http.MethodPost, "/v1/reservations", a.aliceTok,
		map[string]interface{}{"tickets": []interface{}{seatReq(perf, 1, 1)}})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created map[string]interface{}
	decode(t, rec, &created)
	path := reservationPath(created["id"].(float64))

	rec = a.do(t, http.MethodPut, path, a.aliceTok,
		map[string]interface{}{"tickets": []interface{}{seatReq(perf, 4, 4), seatReq(perf, 4, 5)}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res handler.ReservationDetailView
	decode(t, rec, &res)
	require.Len(t, res.Tickets, 2)
	assert.Equal(t, 4, res.Tickets[0].Row)
	assert.Equal(t, 2, ticketCount(t, a.db))

	// seat 1/1 is free again
	rec = a.do(t, http.MethodPost, "/v1/reservations", a.bobTok,
		map[string]interface{}{"tickets": []interface{}{seatReq(perf, 1, 1)}})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestHallValidation(t *testing.T) {
	a := newTestApp(t)

	rec := a.do(t, http.MethodPost, "/v1/theatre-halls", a.staffTok, map[string]interface{}{"name": "Tiny", "rows": 0, "seats_in_row": 5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodPost, "/v1/theatre-halls", a.staffTok, map[string]interface{}{"rows": 3, "seats_in_row": 5})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Fields map[string]string `json:"fields"`
	}
	decode(t, rec, &body)
	assert.Equal(t, "is required", body.Fields["name"])

	rec = a.do(t, http.MethodPost, "/v1/theatre-halls", a.staffTok, map[string]interface{}{"name": "Main", "rows": 5, "seats_in_row": 10})
	require.Equal(t, http.StatusCreated, rec.Code)
	var hall handler.HallView
	decode(t, rec, &hall)
	assert.Equal(t, 50, hall.Capacity)
}

func TestHallShrinkBelowTicketsConflicts(t *testing.T) {
	a := newTestApp(t)
	hall := a.fx.Hall("Main", 5, 10)
	perf := a.fx.Performance(hall, time.Now())
	require.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/v1/reservations", a.aliceTok,
		map[string]interface{}{"tickets": []interface{}{seatReq(perf, 5, 10)}}).Code)

	path := "/v1/theatre-halls/" + strconv.FormatUint(hall.ID, 10)
	rec := a.do(t, http.MethodPut, path, a.staffTok, map[string]interface{}{"name": "Main", "rows": 4, "seats_in_row": 10})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPlayCastFilterAndActorDetail(t *testing.T) {
	a := newTestApp(t)

	var actor handler.ActorView
	rec := a.do(t, http.MethodPost, "/v1/actors", a.staffTok, map[string]string{"first_name": "Ian", "last_name": "McKellen"})
	require.Equal(t, http.StatusCreated, rec.Code)
	decode(t, rec, &actor)
	assert.Equal(t, "Ian McKellen", actor.FullName)

	var genre handler.GenreView
	decode(t, a.do(t, http.MethodPost, "/v1/genres", a.staffTok, map[string]string{"name": "Tragedy"}), &genre)

	rec = a.do(t, http.MethodPost, "/v1/plays", a.staffTok, map[string]interface{}{
		"title": "King Lear", "description": "A king divides his realm.",
		"actor_ids": []uint64{actor.ID}, "genre_ids": []uint64{genre.ID},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var play handler.PlayDetailView
	decode(t, rec, &play)
	require.Len(t, play.Actors, 1)
	assert.Equal(t, "Ian McKellen", play.Actors[0].FullName)
	assert.Equal(t, []string{"Tragedy"}, play.Genres)

	rec = a.do(t, http.MethodPost, "/v1/plays", a.staffTok, map[string]interface{}{"title": "Ghost", "actor_ids": []uint64{9999}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	a.fx.Play("Hamlet")
	var plays []handler.PlayListView
	decode(t, a.do(t, http.MethodGet, "/v1/plays?title=LEAR", a.bobTok, nil), &plays)
	require.Len(t, plays, 1)
	assert.Equal(t, "King Lear", plays[0].Title)

	var detail handler.ActorDetailView
	decode(t, a.do(t, http.MethodGet, "/v1/actors/"+strconv.FormatUint(actor.ID, 10), a.bobTok, nil), &detail)
	require.Len(t, detail.Plays, 1)
	assert.Equal(t, play.ID, detail.Plays[0].ID)
}

func TestPerformanceListAndDetail(t *testing.T) {
	a := newTestApp(t)
	hall := a.fx.Hall("Main", 5, 10)
	perf := a.fx.Performance(hall, time.Date(2030, 1, 2, 19, 0, 0, 0, time.UTC))
	require.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/v1/reservations", a.aliceTok,
		map[string]interface{}{"tickets": []interface{}{seatReq(perf, 1, 2), seatReq(perf, 1, 1)}}).Code)

	var list []handler.PerformanceListView
	decode(t, a.do(t, http.MethodGet, "/v1/performances", a.bobTok, nil), &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Hamlet", list[0].PlayTitle)
	assert.Equal(t, "Main", list[0].HallName)
	assert.Equal(t, 48, list[0].FreeSeats)

	var detail handler.PerformanceDetailView
	decode(t, a.do(t, http.MethodGet, "/v1/performances/"+strconv.FormatUint(perf.ID, 10), a.bobTok, nil), &detail)
	assert.Equal(t, 50, detail.TotalSeats)
	assert.Equal(t, 2, detail.SoldTickets)
	assert.Equal(t, []model.Seat{{Row: 1, Seat: 1}, {Row: 1, Seat: 2}}, detail.TakenSeats)
	assert.Equal(t, hall.ID, detail.TheatreHall.ID)

	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, "/v1/performances/9999", a.bobTok, nil).Code)
	assert.Equal(t, http.StatusBadRequest, a.do(t, http.MethodGet, "/v1/performances/abc", a.bobTok, nil).Code)

	rec := a.do(t, http.MethodPost, "/v1/performances", a.staffTok, map[string]interface{}{
		"play_id": perf.PlayID, "theatre_hall_id": 9999, "show_time": time.Now().UTC(),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTicketsShowWhoReserved(t *testing.T) {
	a := newTestApp(t)
	perf := a.fx.Performance(a.fx.Hall("Main", 5, 10), time.Now())
	require.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/v1/reservations", a.aliceTok,
		map[string]interface{}{"tickets": []interface{}{seatReq(perf, 2, 2)}}).Code)

	var list []handler.TicketListView
	decode(t, a.do(t, http.MethodGet, "/v1/tickets?performance="+strconv.FormatUint(perf.ID, 10), a.bobTok, nil), &list)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].ReservedBy)
	assert.Equal(t, "alice@example.com", *list[0].ReservedBy)

	var detail handler.TicketDetailView
	decode(t, a.do(t, http.MethodGet, "/v1/tickets/"+strconv.FormatUint(list[0].ID, 10), a.bobTok, nil), &detail)
	require.NotNil(t, detail.Reservation)
	assert.Equal(t, "alice@example.com", detail.Reservation.User)
	assert.Equal(t, "Hamlet", detail.Performance.PlayTitle)

	assert.Equal(t, http.StatusBadRequest, a.do(t, http.MethodGet, "/v1/tickets?performance=x", a.bobTok, nil).Code)
	// tickets are created through reservations only
	rec := a.do(t, http.MethodPost, "/v1/tickets", a.staffTok, map[string]int{"row": 1})
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
