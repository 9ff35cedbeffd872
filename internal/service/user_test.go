package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"crowdfund/internal/repository"
)

func TestRegisterHashesPassword(t *testing.T) {
	f := newFixture(t)

	user, err := f.svc.User.Register(f.ctx, RegisterInput{Username: "alice", Password: "secret123", Email: "a@test.com"})
	require.NoError(t, err)

	stored, err := f.repos.User.FindByID(f.ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")

	_, err := f.svc.User.Register(f.ctx, RegisterInput{Username: "alice", Password: "x"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"A user with that username already exists."}, verr.Fields["username"])

	_, err = f.svc.User.Register(f.ctx, RegisterInput{Email: "not-an-email"})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "username")
	assert.Contains(t, verr.Fields, "password")
	assert.Contains(t, verr.Fields, "email")

	users, err := f.svc.User.ListUsers(f.ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestGetUserNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.User.GetUser(f.ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterRejectsPasswordBcryptCannotHash(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.User.Register(f.ctx, RegisterInput{Username: "alice", Password: strings.Repeat("p", 100)})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Ensure this field has no more than 72 bytes."}, verr.Fields["password"])

	// multi-byte runes count by byte, not by character
	_, err = f.svc.User.Register(f.ctx, RegisterInput{Username: "alice", Password: strings.Repeat("é", 40)})
	require.ErrorAs(t, err, &verr)

	_, err = f.svc.User.Register(f.ctx, RegisterInput{Username: "alice", Password: strings.Repeat("p", 72)})
	assert.NoError(t, err)
}

// staleUserRepo answers the first uniqueness check as if the name were
// free, as happens when another registration commits in between.
type staleUserRepo struct {
	repository.UserRepository
	checks int
}

func (r *staleUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	r.checks++
	if r.checks == 1 {
		return false, nil
	}
	return r.UserRepository.ExistsByUsername(ctx, username)
}

func TestRegisterConcurrentDuplicateIsValidationError(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")

	svc := NewUserService(&staleUserRepo{UserRepository: f.repos.User})
	svc.hashCost = bcrypt.MinCost

	_, err := svc.Register(f.ctx, RegisterInput{Username: "alice", Password: "secret123"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"A user with that username already exists."}, verr.Fields["username"])
}
