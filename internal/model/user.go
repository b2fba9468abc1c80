// Package model defines the data structures used throughout the application.
// Entities are plain structs with explicit foreign-key fields — there are no
// live object back-references (an Ad stores its owner's id, not a *User).
// This keeps the structs cheap to copy, trivial to scan from SQL rows, and
// free of accidental object graphs.
package model

// Role is the user's authorization role, fixed at registration.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a registered account. Email doubles as the login name and
// is unique. PasswordHash holds the bcrypt hash, never the plaintext — it is
// deliberately excluded from every response DTO.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	Role         Role
}
