package auth

import (
	"context"
	"database/sql"
)

type SQLStore struct {
	DB *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{DB: db} }

func (s *SQLStore) CreateUser(email, username, passwordHash string) (User, error) {
	const q = `
		INSERT INTO users (email, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, email, username, password_hash,
		          COALESCE(token_version,1), created_at, updated_at`
	var u User
	err := s.DB.QueryRowContext(context.Background(), q, email, username, passwordHash).Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.TokenVersion, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func (s *SQLStore) FindUserByEmail(email string) (User, error) {
	const q = `
		SELECT id, email, username, password_hash,
		       COALESCE(token_version,1), created_at, updated_at
		FROM users
		WHERE email = $1
		LIMIT 1`
	var u User
	err := s.DB.QueryRowContext(context.Background(), q, email).Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.TokenVersion, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func (s *SQLStore) TokenVersion(userID string) (int, error) {
	var v int
	err := s.DB.QueryRowContext(context.Background(),
		`SELECT COALESCE(token_version,1) FROM users WHERE id = $1`, userID).Scan(&v)
	return v, err
}

func (s *SQLStore) UpdateUserPasswordHash(userID, newHash string) error {
	_, err := s.DB.ExecContext(context.Background(),
		`UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`, newHash, userID)
	return err
}
