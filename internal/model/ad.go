package model

// Ad is a classified listing. Owner and image are immutable after creation
// except via the dedicated image-update path; title, price and description
// are the only fields touched by a regular update.
type Ad struct {
	ID          int64
	Title       string
	Price       int
	Description string
	UserID      int64 // owner
}
