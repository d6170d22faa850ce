package model

// Play is a stage work with a cast of actors and a set of genres.
type Play struct {
	ID          uint64  `db:"id"`          // plays.id
	Title       string  `db:"title"`       // plays.title
	Description string  `db:"description"` // plays.description
	Actors      []Actor `db:"-"`
	Genres      []Genre `db:"-"`
}

// Actor appears in many plays.
type Actor struct {
	ID        uint64 `db:"id"`         // actors.id
	FirstName string `db:"first_name"` // actors.first_name
	LastName  string `db:"last_name"`  // actors.last_name
}

// FullName joins first and last name.
func (a Actor) FullName() string {
	return a.FirstName + " " + a.LastName
}

// Genre classifies plays.
type Genre struct {
	ID   uint64 `db:"id"`   // genres.id
	Name string `db:"name"` // genres.name
}
