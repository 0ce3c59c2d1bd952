package models

import (
	"strings"
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Username  string    `json:"username" db:"username" example:"jdoe"`
	Email     string    `json:"email" db:"email" example:"jdoe@example.com"`
	Password  string    `json:"-" db:"password"` // bcrypt hash
	FirstName string    `json:"firstName" db:"first_name" example:"John"`
	LastName  string    `json:"lastName" db:"last_name" example:"Doe"`
	RoleType  RoleType  `json:"roleType" db:"role_type" example:"STUDENT"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// FullName returns "First Last", falling back to the username
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}
