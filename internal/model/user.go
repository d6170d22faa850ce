package model

// User mirrors the `users` table.  Only the columns needed to own
// reservations and to display who reserved a ticket are kept; credentials
// live with the identity provider that issues access tokens.
//
// Fields:
//  ID       – primary key identifier, equal to the token subject.
//  Email    – unique email address.
//  Username – optional display name.
//  IsStaff  – whether the user may modify the catalog.
type User struct {
	ID       uint64 `db:"id"`       // users.id
	Email    string `db:"email"`    // users.email
	Username string `db:"username"` // users.username
	IsStaff  bool   `db:"is_staff"` // users.is_staff
}
