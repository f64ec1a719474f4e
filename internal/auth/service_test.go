package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	users map[string]*User
	next  int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*User{}}
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := f.users[NormalizeEmail(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) Create(ctx context.Context, name, email, passwordHash string) (*User, error) {
	if _, ok := f.users[email]; ok {
		return nil, ErrEmailTaken
	}
	f.next++
	u := &User{
		ID:           fmt.Sprintf("user-%d", f.next),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	f.users[email] = u
	return u, nil
}

func newTestService() (*Service, *fakeUserStore, *TokenIssuer) {
	store := newFakeUserStore()
	issuer := NewTokenIssuer("test-secret", time.Hour)
	return NewService(store, issuer), store, issuer
}

func TestSignupIssuesVerifiableToken(t *testing.T) {
	svc, _, issuer := newTestService()
	ctx := context.Background()

	user, token, err := svc.Signup(ctx, "Asha", "a@x.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)
	assert.NotEmpty(t, user.ID)
	assert.True(t, VerifyPassword("s3cret", user.PasswordHash))

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, "Asha", "a@x.com", "s3cret")
	require.NoError(t, err)

	_, _, err = svc.Signup(ctx, "Another", "a@x.com", "other")
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Len(t, store.users, 1)
}

func TestSignupEmailCaseInsensitive(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, "Asha", "A@X.com", "s3cret")
	require.NoError(t, err)

	_, _, err = svc.Signup(ctx, "Another", "a@x.com", "other")
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Len(t, store.users, 1)

	// Login works regardless of the casing used at signup.
	user, _, err := svc.Login(ctx, "a@X.COM", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)
}

func TestLoginSuccess(t *testing.T) {
	svc, _, issuer := newTestService()
	ctx := context.Background()

	created, _, err := svc.Signup(ctx, "Asha", "a@x.com", "s3cret")
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, "a@x.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, "Asha", "a@x.com", "s3cret")
	require.NoError(t, err)

	_, _, wrongPassword := svc.Login(ctx, "a@x.com", "nope")
	_, _, noSuchUser := svc.Login(ctx, "ghost@x.com", "s3cret")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, noSuchUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword, noSuchUser)
}
