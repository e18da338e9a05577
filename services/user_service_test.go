package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spinroom/tournament-manager/models"
	"github.com/spinroom/tournament-manager/repositories"
)

func newUserService(env *testEnv) UserService {
	return NewUserService(env.db, env.users, env.regs, testLogger())
}

func TestUpdateProfilePartial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := newUserService(env)

	user := env.users.addUser("anna", models.DefaultEloRating)

	tagline := "Spin doctor"
	updated, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{Tagline: &tagline})
	require.NoError(t, err)
	require.NotNil(t, updated.Tagline)
	assert.Equal(t, "Spin doctor", *updated.Tagline)
	assert.Equal(t, "anna", updated.Username, "untouched fields keep their values")

	bad := "ab"
	_, err = svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{Username: &bad})
	assert.ErrorIs(t, err, ErrUsernameInvalid)
}

func TestSetAdminGuards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := newUserService(env)

	admin := env.users.addUser("admin", models.DefaultEloRating)
	player := env.users.addUser("anna", models.DefaultEloRating)

	_, err := svc.SetAdmin(ctx, admin.ID, admin.ID, false)
	assert.ErrorIs(t, err, ErrSelfAdminToggle)

	updated, err := svc.SetAdmin(ctx, admin.ID, player.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsAdmin)
}

func TestResetPasswordIssuesTemporaryOne(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := newUserService(env)
	authService := NewAuthService(env.users, testLogger())

	user, err := authService.Register(ctx, RegisterInput{Email: "anna@club.local", Username: "anna", Password: "topspin-serve"})
	require.NoError(t, err)

	tempPassword, err := svc.ResetPassword(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, tempPassword, 16)

	_, err = authService.Login(ctx, models.Credentials{Email: "anna@club.local", Password: "topspin-serve"})
	assert.ErrorIs(t, err, ErrInvalidCredentials, "old password must stop working")

	logged, err := authService.Login(ctx, models.Credentials{Email: "anna@club.local", Password: tempPassword})
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
}

func TestDeleteUserRemovesRegistrations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := newUserService(env)

	admin := env.users.addUser("admin", models.DefaultEloRating)
	player := env.users.addUser("anna", models.DefaultEloRating)

	tournament, err := env.tournamentService.Create(ctx, CreateTournamentInput{Name: "Club Open", SetsToWin: 2})
	require.NoError(t, err)
	_, err = env.tournamentService.Register(ctx, tournament.ID, player.ID)
	require.NoError(t, err)

	err = svc.DeleteUser(ctx, admin.ID, admin.ID)
	assert.ErrorIs(t, err, ErrSelfDeletion)

	require.NoError(t, svc.DeleteUser(ctx, admin.ID, player.ID))

	_, err = env.users.GetByID(ctx, player.ID)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
	_, err = env.regs.GetByUserAndTournament(ctx, player.ID, tournament.ID)
	assert.ErrorIs(t, err, repositories.ErrRegistrationNotFound)
}

func TestDeleteUserWithMatchHistoryRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := newUserService(env)

	admin := env.users.addUser("admin", models.DefaultEloRating)
	anna := env.users.addUser("anna", models.DefaultEloRating)
	boris := env.users.addUser("boris", models.DefaultEloRating)

	match, err := env.matchService.CreateFreeMatch(ctx, anna.ID, boris.ID)
	require.NoError(t, err)
	playMatch(t, env, match, anna.ID)

	err = svc.DeleteUser(ctx, admin.ID, anna.ID)
	assert.ErrorIs(t, err, ErrUserHasMatches, "played matches are immutable history")

	// Ни аккаунт, ни что-либо ещё не пострадало.
	_, err = env.users.GetByID(ctx, anna.ID)
	require.NoError(t, err)
}
