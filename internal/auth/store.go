package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

var ErrUserNotFound = errors.New("user not found")

func (s *Store) GetByEmail(ctx context.Context, email string) (*User, error) {
	const q = `SELECT id, name, email, password_hash, created_at FROM users WHERE email = lower($1)`
	row := s.db.QueryRowContext(ctx, q, email)
	u := &User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *Store) Create(ctx context.Context, name, email, passwordHash string) (*User, error) {
	u := &User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	const q = `
		INSERT INTO users (id, name, email, password_hash, created_at)
		VALUES ($1, $2, lower($3), $4, $5)
	`
	if _, err := s.db.ExecContext(ctx, q, u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt); err != nil {
		// Unique index on lower(email) backstops the pre-insert check under
		// concurrent signups.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}
