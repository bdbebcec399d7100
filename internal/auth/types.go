package auth

import "time"

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type User struct {
	ID           string // uuid
	Email        string
	Username     string
	PasswordHash string
	TokenVersion int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserStore keeps the SQL details swappable (and mockable in tests).
type UserStore interface {
	CreateUser(email, username, passwordHash string) (User, error)
	FindUserByEmail(email string) (User, error)
	TokenVersion(userID string) (int, error)
	UpdateUserPasswordHash(userID, newHash string) error
}
