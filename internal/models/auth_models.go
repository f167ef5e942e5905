package models

import "time"

// User roles carried in the JWT.
const (
	RoleAdmin  = "admin"
	RolePlayer = "player"
)

// User represents an account.
type User struct {
	ID            string    `json:"id" db:"id"`
	Email         string    `json:"email" db:"email"`
	PasswordHash  string    `json:"-" db:"password_hash"` // '-' means don't send in JSON response
	FullName      string    `json:"fullName" db:"full_name"`
	Phone         *string   `json:"phone,omitempty" db:"phone"`
	StreetAddress *string   `json:"streetAddress,omitempty" db:"street_address"`
	Role          string    `json:"role" db:"role"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// IsAdmin reports whether the user holds the global admin role.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }
