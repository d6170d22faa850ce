package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	staff    = Actor{UserID: 1, Staff: true, Authenticated: true}
	customer = Actor{UserID: 2, Authenticated: true}
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		op       Operation
		resource Resource
		actor    Actor
		want     bool
	}{
		{"anonymous cannot read catalog", Read, Catalog, Anonymous, false},
		{"anonymous cannot write catalog", Write, Catalog, Anonymous, false},
		{"customer reads catalog", Read, Catalog, customer, true},
		{"customer cannot write catalog", Write, Catalog, customer, false},
		{"staff writes catalog", Write, Catalog, staff, true},
		{"anonymous cannot read reservations", Read, Reservation, Anonymous, false},
		{"anonymous cannot create reservations", Write, Reservation, Anonymous, false},
		{"customer reads reservations", Read, Reservation, customer, true},
		{"customer creates reservations", Write, Reservation, customer, true},
		{"staff creates reservations", Write, Reservation, staff, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Authorize(tt.op, tt.resource, tt.actor))
		})
	}
}

func TestCheckDistinguishesDenials(t *testing.T) {
	assert.ErrorIs(t, Check(Read, Catalog, Anonymous), ErrUnauthenticated)
	assert.NoError(t, Check(Read, Catalog, customer))
	assert.ErrorIs(t, Check(Write, Catalog, Anonymous), ErrUnauthenticated)
	assert.ErrorIs(t, Check(Write, Catalog, customer), ErrForbidden)
	assert.ErrorIs(t, Check(Read, Reservation, Anonymous), ErrUnauthenticated)
}

func TestReservationScope(t *testing.T) {
	_, err := ReservationScope(Anonymous)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	scope, err := ReservationScope(customer)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), scope.UserID)

	scope, err = ReservationScope(staff)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), scope.UserID, "staff are scoped to their own reservations")
}

func TestOperationForMethod(t *testing.T) {
	for _, m := range []string{"GET", "HEAD", "OPTIONS"} {
		assert.Equal(t, Read, OperationForMethod(m), m)
	}
	for _, m := range []string{"POST", "PUT", "PATCH", "DELETE"} {
		assert.Equal(t, Write, OperationForMethod(m), m)
	}
}

func TestActorContext(t *testing.T) {
	assert.Equal(t, Anonymous, FromContext(context.Background()))
	ctx := WithActor(context.Background(), customer)
	assert.Equal(t, customer, FromContext(ctx))
}
