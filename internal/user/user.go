package user

import (
	"time"

	types "campusmarket/internal/types/user"
)

const DefaultRole = "student"

// User is a marketplace account. Listings reference users as sellers and
// owners; the password hash never leaves this package.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Location     string    `json:"location,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	PasswordHash string    `json:"-"`
}

//go:generate mockgen -source=user.go -destination=../mocks/mock_user_repo.go -package=mocks
type UserRepo interface {
	// CheckUser verifies email and password against the stored hash.
	CheckUser(email, password string) (*User, error)
	// CreateUser registers a new account with a bcrypt-hashed password.
	CreateUser(u types.CreateUser) (*User, error)
	// Info returns the public profile of a user.
	Info(userID int64) (*User, error)
	// ChangeProfile updates the non-empty fields of updateUser.
	ChangeProfile(userID int64, updateUser types.ChangeUser) (*User, error)
}
