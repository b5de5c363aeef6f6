// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

// Role represents a user's permission level in the system.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager:
		return true
	}
	return false
}

// User is an account that can sign in and receive a token.
//
// Password only carries the plaintext on the way in (registration, update,
// login). It is never persisted; the store writes PasswordHash instead.
type User struct {
	ID           int    `json:"Id" gorm:"primaryKey"`
	Username     string `json:"Username" gorm:"size:20;not null;uniqueIndex"`
	Password     string `json:"Password" gorm:"-"`
	PasswordHash string `json:"-" gorm:"column:password_hash;not null"`
	Role         Role   `json:"Role" gorm:"size:20;not null"`
}

func (User) TableName() string {
	return "users"
}

// Masked returns a copy of the user that is safe to serialize: the plaintext
// password is cleared.
func (u User) Masked() User {
	u.Password = ""
	return u
}
