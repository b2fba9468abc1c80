// Package dto defines the request and response contracts of the HTTP API.
//
// The JSON field names are part of the public contract (they match the
// Swagger schema the frontend was built against), so they are kept even
// where Go naming would differ: the ad/comment id field is "pk", the
// owner's id is "author", list envelopes are {count, results}.
package dto

// Login is the POST /login request body.
type Login struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register is the POST /register request body. Role is optional and
// defaults to USER; it is fixed at registration and never changes after.
type Register struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
}

// NewPassword is the POST /users/set_password request body.
type NewPassword struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UpdateUser carries the three mutable profile fields.
type UpdateUser struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// User is the caller's profile as returned by GET /users/me.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	Image     string `json:"image,omitempty"` // avatar endpoint path
}

// CreateOrUpdateAd is the writable subset of an ad.
//
// Price is a pointer so a missing JSON field is distinguishable from an
// explicit zero — validation.IsValidPrice rejects nil.
type CreateOrUpdateAd struct {
	Title       string `json:"title"`
	Price       *int   `json:"price"`
	Description string `json:"description"`
}

// Ad is the summary representation used in listings.
type Ad struct {
	Author int64  `json:"author"` // owner user id
	Image  string `json:"image"`  // image endpoint path or the default placeholder
	Pk     int64  `json:"pk"`
	Price  int    `json:"price"`
	Title  string `json:"title"`
}

// Ads is the {count, results} envelope for ad listings.
type Ads struct {
	Count   int  `json:"count"`
	Results []Ad `json:"results"`
}

// ExtendedAd is the detail representation returned by GET /ads/{id}.
type ExtendedAd struct {
	Pk              int64  `json:"pk"`
	AuthorFirstName string `json:"authorFirstName"`
	AuthorLastName  string `json:"authorLastName"`
	Description     string `json:"description"`
	Email           string `json:"email"`
	Image           string `json:"image"`
	Phone           string `json:"phone"`
	Price           int    `json:"price"`
	Title           string `json:"title"`
}

// CreateOrUpdateComment is the writable subset of a comment.
type CreateOrUpdateComment struct {
	Text string `json:"text"`
}

// Comment is a single comment with its author's display data attached.
// CreatedAt is unix milliseconds. AuthorImage is omitted when the author
// has no avatar row — that is not an error.
type Comment struct {
	Author          int64  `json:"author"`
	AuthorImage     string `json:"authorImage,omitempty"`
	AuthorFirstName string `json:"authorFirstName"`
	CreatedAt       int64  `json:"createdAt"`
	Pk              int64  `json:"pk"`
	Text            string `json:"text"`
}

// Comments is the {count, results} envelope for comment listings.
type Comments struct {
	Count   int       `json:"count"`
	Results []Comment `json:"results"`
}

// DefaultImagePath is returned as an ad's image when no image row exists.
// The frontend treats it as "render the placeholder".
const DefaultImagePath = "default/image/path"
