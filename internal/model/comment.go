package model

// Comment belongs to exactly one Ad and one User.
//
// CreatedAt is stored as unix milliseconds in SQLite (INTEGER column) and
// exposed the same way on the wire, so no time.Time conversion is needed
// in between.
type Comment struct {
	ID        int64
	Text      string
	CreatedAt int64 // unix milliseconds
	UserID    int64 // author
	AdID      int64 // parent ad
}
