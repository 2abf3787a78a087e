package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the stored role string of an account. It is not used for authorization.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// DefaultProfilePicture is assigned to every new account.
const DefaultProfilePicture = "user.jpg"

// Account is a registered user.
type Account struct {
	ID             uuid.UUID `db:"id" json:"id"`
	FullName       string    `db:"full_name" json:"fullName"`
	UserName       string    `db:"user_name" json:"userName"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	Role           Role      `db:"role" json:"role"`
	ProfilePicture string    `db:"profile_picture" json:"profilePicture"`
	IsActive       bool      `db:"is_active" json:"isActive"`
	ActivationCode string    `db:"activation_code" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// Identity is what the bearer gate extracts from a verified token.
type Identity struct {
	ID   uuid.UUID
	Role Role
}

// Identity returns the token subject for the account.
func (a *Account) Identity() Identity {
	return Identity{ID: a.ID, Role: a.Role}
}

// RegisterPayload is the raw registration input.
type RegisterPayload struct {
	FullName        string `json:"fullName"`
	UserName        string `json:"userName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginPayload is the raw login input. Identifier is an email or a user name.
type LoginPayload struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}
