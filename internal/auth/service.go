package auth

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrInvalidCredentials is returned for both unknown email and wrong
	// password, so login failures cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)

// UserStore persists identity records. Emails passed in are already normalized.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, name, email, passwordHash string) (*User, error)
}

type Service struct {
	store  UserStore
	tokens *TokenIssuer
}

func NewService(store UserStore, tokens *TokenIssuer) *Service {
	return &Service{
		store:  store,
		tokens: tokens,
	}
}

// NormalizeEmail lowercases and trims an email address. Uniqueness is
// case-insensitive, so every store access goes through this first.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Signup(ctx context.Context, name, email, password string) (*User, string, error) {
	email = NormalizeEmail(email)

	if _, err := s.store.GetByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, "", err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, "", err
	}
	user, err := s.store.Create(ctx, name, email, hash)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	user, err := s.store.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
