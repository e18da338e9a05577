package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spinroom/tournament-manager/models"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	authService := NewAuthService(env.users, testLogger())

	user, err := authService.Register(ctx, RegisterInput{
		Email:    "Anna@Club.Local",
		Username: "anna",
		Password: "topspin-serve",
	})
	require.NoError(t, err)
	assert.Equal(t, "anna@club.local", user.Email, "email is normalized to lower case")
	assert.Equal(t, models.DefaultEloRating, user.EloRating)
	assert.NotEqual(t, "topspin-serve", user.PasswordHash)

	logged, err := authService.Login(ctx, models.Credentials{Email: "anna@club.local", Password: "topspin-serve"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	_, err = authService.Login(ctx, models.Credentials{Email: "anna@club.local", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = authService.Login(ctx, models.Credentials{Email: "nobody@club.local", Password: "topspin-serve"})
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unknown email must look like a bad password")
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	authService := NewAuthService(env.users, testLogger())

	_, err := authService.Register(ctx, RegisterInput{Email: "not-an-email", Username: "anna", Password: "topspin-serve"})
	assert.ErrorIs(t, err, ErrEmailInvalid)

	_, err = authService.Register(ctx, RegisterInput{Email: "anna@club.local", Username: "ab", Password: "topspin-serve"})
	assert.ErrorIs(t, err, ErrUsernameInvalid)

	_, err = authService.Register(ctx, RegisterInput{Email: "anna@club.local", Username: "anna", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegisterConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	authService := NewAuthService(env.users, testLogger())

	_, err := authService.Register(ctx, RegisterInput{Email: "anna@club.local", Username: "anna", Password: "topspin-serve"})
	require.NoError(t, err)

	_, err = authService.Register(ctx, RegisterInput{Email: "anna@club.local", Username: "other", Password: "topspin-serve"})
	assert.ErrorIs(t, err, ErrUserEmailConflict)

	_, err = authService.Register(ctx, RegisterInput{Email: "other@club.local", Username: "anna", Password: "topspin-serve"})
	assert.ErrorIs(t, err, ErrUserUsernameConflict)
}
