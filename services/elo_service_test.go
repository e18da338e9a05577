package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spinroom/tournament-manager/models"
)

// createConfirmedMatch seeds the fake repo with an already confirmed match,
// set scores included, as if it went through the full submit/confirm cycle.
func createConfirmedMatch(t *testing.T, env *testEnv, player1ID, player2ID, winnerID int, playedAt time.Time, sets ...[2]int) *models.Match {
	t.Helper()
	ctx := context.Background()

	match := &models.Match{
		Player1ID: player1ID,
		Player2ID: player2ID,
		Phase:     models.PhaseFree,
		Status:    models.MatchScheduled,
	}
	require.NoError(t, env.matches.Create(ctx, env.db, match))

	for i, set := range sets {
		score := &models.SetScore{
			MatchID:      match.ID,
			SetNumber:    i + 1,
			Player1Score: set[0],
			Player2Score: set[1],
		}
		require.NoError(t, env.matches.CreateSetScore(ctx, env.db, score))
	}

	match.Status = models.MatchConfirmed
	match.WinnerID = &winnerID
	match.PlayedAt = &playedAt
	require.NoError(t, env.matches.Update(ctx, env.db, match))

	loaded, err := env.matches.GetByID(ctx, match.ID)
	require.NoError(t, err)
	return loaded
}

func TestApplyMatchResultWalkoverEqualRatings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u1 := env.users.addUser("anna", 1200)
	u2 := env.users.addUser("boris", 1200)

	match := &models.Match{Player1ID: u1.ID, Player2ID: u2.ID, Phase: models.PhaseFree, Status: models.MatchScheduled}
	require.NoError(t, env.matches.Create(ctx, env.db, match))
	match.Status = models.MatchWalkover
	match.WinnerID = &u1.ID
	require.NoError(t, env.matches.Update(ctx, env.db, match))

	applied, err := env.eloService.ApplyMatchResult(ctx, env.db, match)
	require.NoError(t, err)
	assert.True(t, applied)

	winner, _ := env.users.GetByID(ctx, u1.ID)
	loser, _ := env.users.GetByID(ctx, u2.ID)
	assert.Equal(t, 1208, winner.EloRating, "walkover win uses the reduced K-factor")
	assert.Equal(t, 1192, loser.EloRating)
}

func TestApplyMatchResultIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u1 := env.users.addUser("anna", 1200)
	u2 := env.users.addUser("boris", 1200)
	match := createConfirmedMatch(t, env, u1.ID, u2.ID, u1.ID, time.Now(), [2]int{11, 9}, [2]int{11, 9})

	applied, err := env.eloService.ApplyMatchResult(ctx, env.db, match)
	require.NoError(t, err)
	require.True(t, applied)

	after, _ := env.users.GetByID(ctx, u1.ID)
	firstRating := after.EloRating

	applied, err = env.eloService.ApplyMatchResult(ctx, env.db, match)
	require.NoError(t, err)
	assert.False(t, applied, "second call must be a no-op")

	again, _ := env.users.GetByID(ctx, u1.ID)
	assert.Equal(t, firstRating, again.EloRating)
}

func TestApplyMatchResultMarginMultiplier(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u1 := env.users.addUser("anna", 1200)
	u2 := env.users.addUser("boris", 1200)

	// 2-0 with +4 points: margin = 1.2 + ln(5)*0.08, so 32*0.5*margin rounds to 21.
	match := createConfirmedMatch(t, env, u1.ID, u2.ID, u1.ID, time.Now(), [2]int{11, 9}, [2]int{11, 9})

	applied, err := env.eloService.ApplyMatchResult(ctx, env.db, match)
	require.NoError(t, err)
	require.True(t, applied)

	winner, _ := env.users.GetByID(ctx, u1.ID)
	loser, _ := env.users.GetByID(ctx, u2.ID)
	assert.Equal(t, 1221, winner.EloRating)
	assert.Equal(t, 1179, loser.EloRating)
}

func TestApplyMatchResultRatingFloor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u1 := env.users.addUser("anna", 110)
	u2 := env.users.addUser("boris", 105)

	match := &models.Match{Player1ID: u1.ID, Player2ID: u2.ID, Phase: models.PhaseFree, Status: models.MatchScheduled}
	require.NoError(t, env.matches.Create(ctx, env.db, match))
	match.Status = models.MatchWalkover
	match.WinnerID = &u1.ID
	require.NoError(t, env.matches.Update(ctx, env.db, match))

	applied, err := env.eloService.ApplyMatchResult(ctx, env.db, match)
	require.NoError(t, err)
	require.True(t, applied)

	loser, _ := env.users.GetByID(ctx, u2.ID)
	assert.Equal(t, 100, loser.EloRating, "rating never drops below the floor")

	history, err := env.elo.ListByUser(ctx, u2.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 100, history[0].EloAfter)
	assert.Negative(t, history[0].EloChange)
}

func TestRecalculateAllIsDeterministic(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u1 := env.users.addUser("anna", 1200)
	u2 := env.users.addUser("boris", 1200)
	u3 := env.users.addUser("vera", 1200)

	base := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	m1 := createConfirmedMatch(t, env, u1.ID, u2.ID, u1.ID, base, [2]int{11, 7}, [2]int{11, 9})
	m2 := createConfirmedMatch(t, env, u2.ID, u3.ID, u3.ID, base.Add(time.Hour), [2]int{9, 11}, [2]int{11, 6}, [2]int{8, 11})
	m3 := createConfirmedMatch(t, env, u1.ID, u3.ID, u1.ID, base.Add(2*time.Hour), [2]int{11, 4}, [2]int{11, 8})

	// Live application, in order.
	for _, match := range []*models.Match{m1, m2, m3} {
		applied, err := env.eloService.ApplyMatchResult(ctx, env.db, match)
		require.NoError(t, err)
		require.True(t, applied)
	}

	liveRatings := map[string]int{}
	for _, u := range []*models.User{u1, u2, u3} {
		current, _ := env.users.GetByID(ctx, u.ID)
		liveRatings[current.Username] = current.EloRating
	}

	report, err := env.eloService.RecalculateAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.UsersReset)
	assert.Equal(t, 3, report.MatchesProcessed)
	assert.Equal(t, liveRatings, report.FinalRatings, "replay must reproduce incremental ratings")

	for _, rating := range liveRatings {
		assert.GreaterOrEqual(t, rating, 100)
	}
}

func TestLeaderboardOrdersByRating(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.users.addUser("anna", 1250)
	env.users.addUser("boris", 1400)
	env.users.addUser("vera", 1100)

	users, err := env.eloService.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "boris", users[0].Username)
	assert.Equal(t, "anna", users[1].Username)
	assert.Equal(t, "vera", users[2].Username)
}
