// Package access decides which actors may perform which operations.  The
// catalog is readable by any authenticated user and writable by staff;
// reservations are private to the authenticated user who owns them.
package access

import (
	"context"
	"errors"
)

// ErrUnauthenticated is returned when an anonymous actor attempts an
// operation that needs an identity.  HTTP handlers map it to 401.
var ErrUnauthenticated = errors.New("authentication required")

// ErrForbidden is returned when an authenticated actor lacks the rights
// for an operation.  HTTP handlers map it to 403.
var ErrForbidden = errors.New("forbidden")

// Actor is whoever issued the request.  The zero value is anonymous.
type Actor struct {
	UserID        uint64
	Staff         bool
	Authenticated bool
}

// Anonymous is the actor of requests without credentials.
var Anonymous = Actor{}

// Resource groups endpoints that share one policy.
type Resource int

const (
	// Catalog covers plays, actors, genres, halls, performances and tickets.
	Catalog Resource = iota
	Reservation
)

func (r Resource) String() string {
	switch r {
	case Catalog:
		return "catalog"
	case Reservation:
		return "reservation"
	}
	return "unknown"
}

// Operation is either a safe read or a state-changing write.
type Operation int

const (
	Read Operation = iota
	Write
)

// OperationForMethod maps GET, HEAD and OPTIONS to Read and every other
// HTTP method to Write.
func OperationForMethod(method string) Operation {
	switch method {
	case "GET", "HEAD", "OPTIONS":
		return Read
	}
	return Write
}

// Authorize reports whether actor may perform op on resource.
func Authorize(op Operation, resource Resource, actor Actor) bool {
	switch resource {
	case Catalog:
		if op == Read {
			return actor.Authenticated
		}
		return actor.Authenticated && actor.Staff
	case Reservation:
		return actor.Authenticated
	}
	return false
}

// Check is Authorize with the denial reason: ErrUnauthenticated for
// anonymous actors and ErrForbidden for everyone else.
func Check(op Operation, resource Resource, actor Actor) error {
	if Authorize(op, resource, actor) {
		return nil
	}
	if !actor.Authenticated {
		return ErrUnauthenticated
	}
	return ErrForbidden
}

// Scope is the mandatory owner filter for reservation queries.
type Scope struct {
	UserID uint64
}

// ReservationScope returns the filter every reservation read and write must
// apply.  Staff get no wider scope than anyone else.
func ReservationScope(actor Actor) (Scope, error) {
	if !actor.Authenticated || actor.UserID == 0 {
		return Scope{}, ErrUnauthenticated
	}
	return Scope{UserID: actor.UserID}, nil
}

type ctxKey struct{}

// WithActor stores actor in ctx.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, actor)
}

// FromContext returns the actor stored by WithActor, or Anonymous.
func FromContext(ctx context.Context) Actor {
	if a, ok := ctx.Value(ctxKey{}).(Actor); ok {
		return a
	}
	return Anonymous
}
