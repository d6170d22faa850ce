package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/theatre-booking/internal/model"
)

func sampleReservation() model.Reservation {
	rid := uint64(7)
	return model.Reservation{
		ID:        rid,
		UserID:    3,
		CreatedAt: time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC),
		Tickets: []model.Ticket{
			{Row: 2, Seat: 5, PerformanceID: 11, ReservationID: &rid},
			{Row: 2, Seat: 6, PerformanceID: 11, ReservationID: &rid},
		},
	}
}

func TestNewReservationEvent(t *testing.T) {
	at := time.Date(2026, 3, 1, 18, 0, 1, 0, time.UTC)
	ev := NewReservationEvent(ReservationCreated, sampleReservation(), at)

	assert.Equal(t, ReservationCreated, ev.Type)
	assert.Equal(t, uint64(7), ev.ReservationID)
	assert.Equal(t, []uint64{11}, ev.PerformanceIDs)
	assert.Equal(t, []TicketRef{{11, 2, 5}, {11, 2, 6}}, ev.Tickets)
	assert.Equal(t, "2026-03-01T18:00:00Z", ev.CreatedAt)
	assert.Equal(t, "2026-03-01T18:00:01Z", ev.OccurredAt)
}

func TestHandleMessageAppendsLine(t *testing.T) {
	logger, _ := test.NewNullLogger()
	c := &Consumer{LogPath: filepath.Join(t.TempDir(), "logs", "reservations.log"), Log: logger}

	created := NewReservationEvent(ReservationCreated, sampleReservation(), time.Date(2026, 3, 1, 18, 0, 1, 0, time.UTC))
	updated := created
	updated.Type = ReservationUpdated
	cancelled := created
	cancelled.Type = ReservationCancelled

	for _, ev := range []ReservationEvent{created, updated, cancelled} {
		body, err := json.Marshal(ev)
		require.NoError(t, err)
		require.NoError(t, c.handleMessage(body))
	}

	data, err := os.ReadFile(c.LogPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t,
		"[2026-03-01T18:00:01Z] Reservation created | reservation_id=7 | user_id=3 | created_at=2026-03-01T18:00:00Z | seats=[p11:r2:s5,p11:r2:s6]",
		lines[0])
	assert.Contains(t, lines[1], "Reservation updated")
	assert.Contains(t, lines[2], "Reservation cancelled")
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	c := &Consumer{LogPath: filepath.Join(t.TempDir(), "r.log"), Log: logrus.New()}
	assert.Error(t, c.handleMessage([]byte("{not json")))
	_, err := os.Stat(c.LogPath)
	assert.True(t, os.IsNotExist(err))
}
