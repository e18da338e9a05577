package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spinroom/tournament-manager/models"
	"github.com/spinroom/tournament-manager/repositories"
)

// Репозитории подменяются in-memory фейками, а *sql.DB — драйвером-заглушкой,
// чтобы транзакционные пути сервисов работали без Postgres.

type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) { return stubConn{}, nil }

type stubConn struct{}

func (stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (stubConn) Close() error                        { return nil }
func (stubConn) Begin() (driver.Tx, error)           { return stubTx{}, nil }

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

func init() {
	sql.Register("stub", stubDriver{})
}

func newStubDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("stub", "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- fake user repository ---

type fakeUserRepo struct {
	nextID int
	users  map[int]*models.User
	// matches эмулирует FK matches.player1_id/player2_id: пользователь,
	// сыгравший хоть один матч, не удаляется.
	matches *fakeMatchRepo
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int]*models.User)}
}

func (r *fakeUserRepo) addUser(username string, rating int) *models.User {
	user := &models.User{
		ID:        r.nextID,
		Email:     username + "@club.local",
		Username:  username,
		EloRating: rating,
		CreatedAt: time.Now(),
	}
	r.users[user.ID] = user
	r.nextID++
	return user
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
		if existing.Username == user.Username {
			return repositories.ErrUserUsernameConflict
		}
	}
	user.ID = r.nextID
	r.nextID++
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) UpdateEloRating(_ context.Context, _ repositories.SQLExecutor, userID, rating int) error {
	user, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.EloRating = rating
	return nil
}

func (r *fakeUserRepo) ResetAllEloRatings(_ context.Context, _ repositories.SQLExecutor, rating int) (int, error) {
	for _, user := range r.users {
		user.EloRating = rating
	}
	return len(r.users), nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]*models.User, error) {
	ids := make([]int, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		clone := *r.users[id]
		users = append(users, &clone)
	}
	return users, nil
}

func (r *fakeUserRepo) ListByEloDesc(_ context.Context, limit int) ([]*models.User, error) {
	users, _ := r.List(context.Background())
	sort.SliceStable(users, func(i, j int) bool { return users[i].EloRating > users[j].EloRating })
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if _, ok := r.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	if r.matches != nil {
		for _, match := range r.matches.matches {
			if match.IsParticipant(id) {
				return repositories.ErrUserHasMatches
			}
		}
	}
	delete(r.users, id)
	return nil
}

// --- fake tournament repository ---

type fakeTournamentRepo struct {
	nextID      int
	tournaments map[int]*models.Tournament
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{nextID: 1, tournaments: make(map[int]*models.Tournament)}
}

func (r *fakeTournamentRepo) Create(_ context.Context, tournament *models.Tournament) error {
	tournament.ID = r.nextID
	tournament.CreatedAt = time.Now()
	r.nextID++
	clone := *tournament
	r.tournaments[tournament.ID] = &clone
	return nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	tournament, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	clone := *tournament
	return &clone, nil
}

func (r *fakeTournamentRepo) List(_ context.Context, status *models.TournamentStatus) ([]*models.Tournament, error) {
	ids := make([]int, 0, len(r.tournaments))
	for id := range r.tournaments {
		ids = append(ids, id)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ids)))
	out := make([]*models.Tournament, 0, len(ids))
	for _, id := range ids {
		t := r.tournaments[id]
		if status != nil && t.Status != *status {
			continue
		}
		clone := *t
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeTournamentRepo) UpdateDetails(_ context.Context, id int, name string, description *string) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Name = name
	t.Description = description
	return nil
}

func (r *fakeTournamentRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTournamentRepo) SetStartedAt(_ context.Context, _ repositories.SQLExecutor, id int, at time.Time) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.StartedAt = &at
	return nil
}

func (r *fakeTournamentRepo) SetCompletedAt(_ context.Context, _ repositories.SQLExecutor, id int, at time.Time) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.CompletedAt = &at
	return nil
}

func (r *fakeTournamentRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if _, ok := r.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(r.tournaments, id)
	return nil
}

// --- fake registration repository ---

type regKey struct{ userID, tournamentID int }

type fakeRegistrationRepo struct {
	nextID        int
	registrations map[regKey]*models.Registration
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{nextID: 1, registrations: make(map[regKey]*models.Registration)}
}

func (r *fakeRegistrationRepo) Create(_ context.Context, registration *models.Registration) error {
	key := regKey{registration.UserID, registration.TournamentID}
	if _, ok := r.registrations[key]; ok {
		return repositories.ErrRegistrationConflict
	}
	registration.ID = r.nextID
	registration.RegisteredAt = time.Now()
	r.nextID++
	clone := *registration
	r.registrations[key] = &clone
	return nil
}

func (r *fakeRegistrationRepo) GetByUserAndTournament(_ context.Context, userID, tournamentID int) (*models.Registration, error) {
	reg, ok := r.registrations[regKey{userID, tournamentID}]
	if !ok {
		return nil, repositories.ErrRegistrationNotFound
	}
	clone := *reg
	return &clone, nil
}

func (r *fakeRegistrationRepo) ListByTournament(_ context.Context, tournamentID int) ([]*models.Registration, error) {
	out := make([]*models.Registration, 0)
	for _, reg := range r.registrations {
		if reg.TournamentID == tournamentID {
			clone := *reg
			out = append(out, &clone)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRegistrationRepo) ListByTournamentOrderBySeed(ctx context.Context, tournamentID int) ([]*models.Registration, error) {
	out, _ := r.ListByTournament(ctx, tournamentID)
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := out[i].Seed, out[j].Seed
		switch {
		case si == nil:
			return false
		case sj == nil:
			return true
		default:
			return *si < *sj
		}
	})
	return out, nil
}

func (r *fakeRegistrationRepo) ListByUser(_ context.Context, userID int) ([]*models.Registration, error) {
	out := make([]*models.Registration, 0)
	for _, reg := range r.registrations {
		if reg.UserID == userID {
			clone := *reg
			out = append(out, &clone)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TournamentID > out[j].TournamentID })
	return out, nil
}

func (r *fakeRegistrationRepo) ApplyGroupStats(_ context.Context, _ repositories.SQLExecutor, userID, tournamentID int, delta repositories.GroupStatsDelta) error {
	reg, ok := r.registrations[regKey{userID, tournamentID}]
	if !ok {
		return repositories.ErrRegistrationNotFound
	}
	reg.GroupPoints += delta.GroupPoints
	reg.SetsWon += delta.SetsWon
	reg.SetsLost += delta.SetsLost
	reg.PointsWon += delta.PointsWon
	reg.PointsLost += delta.PointsLost
	return nil
}

func (r *fakeRegistrationRepo) SetSeedAndGroupPosition(_ context.Context, _ repositories.SQLExecutor, userID, tournamentID, seed, groupPosition int) error {
	reg, ok := r.registrations[regKey{userID, tournamentID}]
	if !ok {
		return repositories.ErrRegistrationNotFound
	}
	s, g := seed, groupPosition
	reg.Seed = &s
	reg.GroupPosition = &g
	return nil
}

func (r *fakeRegistrationRepo) SetFinalPosition(_ context.Context, _ repositories.SQLExecutor, userID, tournamentID, finalPosition int) error {
	reg, ok := r.registrations[regKey{userID, tournamentID}]
	if !ok {
		return repositories.ErrRegistrationNotFound
	}
	p := finalPosition
	reg.FinalPosition = &p
	return nil
}

func (r *fakeRegistrationRepo) MarkEliminated(_ context.Context, _ repositories.SQLExecutor, userID, tournamentID int) error {
	reg, ok := r.registrations[regKey{userID, tournamentID}]
	if !ok {
		return repositories.ErrRegistrationNotFound
	}
	reg.Eliminated = true
	return nil
}

func (r *fakeRegistrationRepo) Delete(_ context.Context, userID, tournamentID int) error {
	key := regKey{userID, tournamentID}
	if _, ok := r.registrations[key]; !ok {
		return repositories.ErrRegistrationNotFound
	}
	delete(r.registrations, key)
	return nil
}

func (r *fakeRegistrationRepo) DeleteByUser(_ context.Context, _ repositories.SQLExecutor, userID int) error {
	for key := range r.registrations {
		if key.userID == userID {
			delete(r.registrations, key)
		}
	}
	return nil
}

// --- fake match repository ---

type fakeMatchRepo struct {
	nextID     int
	nextSetID  int
	matches    map[int]*models.Match
	setsByGame map[int][]models.SetScore
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{
		nextID:     1,
		nextSetID:  1,
		matches:    make(map[int]*models.Match),
		setsByGame: make(map[int][]models.SetScore),
	}
}

func (r *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	match.ID = r.nextID
	match.CreatedAt = time.Now()
	r.nextID++
	clone := *match
	clone.SetScores = nil
	r.matches[match.ID] = &clone
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	match, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	clone := *match
	clone.SetScores = append([]models.SetScore(nil), r.setsByGame[id]...)
	return &clone, nil
}

func (r *fakeMatchRepo) matchesSorted() []*models.Match {
	ids := make([]int, 0, len(r.matches))
	for id := range r.matches {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]*models.Match, 0, len(ids))
	for _, id := range ids {
		clone := *r.matches[id]
		out = append(out, &clone)
	}
	return out
}

func matchesFilter(match *models.Match, filter repositories.MatchFilter) bool {
	if filter.Phase != nil && match.Phase != *filter.Phase {
		return false
	}
	if len(filter.Statuses) > 0 {
		found := false
		for _, status := range filter.Statuses {
			if match.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (r *fakeMatchRepo) ListByTournament(_ context.Context, tournamentID int, filter repositories.MatchFilter) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for _, match := range r.matchesSorted() {
		if match.TournamentID == nil || *match.TournamentID != tournamentID {
			continue
		}
		if matchesFilter(match, filter) {
			out = append(out, match)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) CountByTournament(ctx context.Context, tournamentID int, filter repositories.MatchFilter) (int, error) {
	matches, err := r.ListByTournament(ctx, tournamentID, filter)
	if err != nil {
		return 0, err
	}
	return len(matches), nil
}

func (r *fakeMatchRepo) Update(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	stored, ok := r.matches[match.ID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	clone := *match
	clone.SetScores = nil
	clone.CreatedAt = stored.CreatedAt
	r.matches[match.ID] = &clone
	return nil
}

func (r *fakeMatchRepo) CreateSetScore(_ context.Context, _ repositories.SQLExecutor, score *models.SetScore) error {
	for _, existing := range r.setsByGame[score.MatchID] {
		if existing.SetNumber == score.SetNumber {
			return repositories.ErrSetScoreConflict
		}
	}
	score.ID = r.nextSetID
	r.nextSetID++
	r.setsByGame[score.MatchID] = append(r.setsByGame[score.MatchID], *score)
	return nil
}

func (r *fakeMatchRepo) ListSetScores(_ context.Context, matchID int) ([]models.SetScore, error) {
	return append([]models.SetScore(nil), r.setsByGame[matchID]...), nil
}

func (r *fakeMatchRepo) DeleteSetScores(_ context.Context, _ repositories.SQLExecutor, matchID int) error {
	delete(r.setsByGame, matchID)
	return nil
}

func (r *fakeMatchRepo) ListCompletedChronological(_ context.Context) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for _, match := range r.matchesSorted() {
		if (match.Status == models.MatchConfirmed || match.Status == models.MatchWalkover) && match.WinnerID != nil {
			out = append(out, match)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].PlayedAt, out[j].PlayedAt
		switch {
		case pi == nil && pj == nil:
			return out[i].ID < out[j].ID
		case pi == nil:
			return false
		case pj == nil:
			return true
		case pi.Equal(*pj):
			return out[i].ID < out[j].ID
		default:
			return pi.Before(*pj)
		}
	})
	return out, nil
}

func (r *fakeMatchRepo) ListConfirmedByUser(_ context.Context, userID, limit int) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for _, match := range r.matchesSorted() {
		if match.Status == models.MatchConfirmed && match.WinnerID != nil && match.IsParticipant(userID) {
			out = append(out, match)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeMatchRepo) ListPendingConfirmationFor(_ context.Context, userID int) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for _, match := range r.matchesSorted() {
		if match.Status == models.MatchPendingConfirmation && match.IsParticipant(userID) &&
			match.SubmittedByID != nil && *match.SubmittedByID != userID {
			out = append(out, match)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) NextScheduledFor(_ context.Context, userID int) (*models.Match, error) {
	for _, match := range r.matchesSorted() {
		if match.Status == models.MatchScheduled && match.IsParticipant(userID) {
			return match, nil
		}
	}
	return nil, nil
}

func (r *fakeMatchRepo) ListFreeByUser(_ context.Context, userID int) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for _, match := range r.matchesSorted() {
		if match.Phase == models.PhaseFree && match.IsParticipant(userID) {
			out = append(out, match)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeMatchRepo) ListConfirmedBetween(_ context.Context, user1ID, user2ID int) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for _, match := range r.matchesSorted() {
		if match.Status == models.MatchConfirmed && match.IsParticipant(user1ID) && match.IsParticipant(user2ID) {
			out = append(out, match)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeMatchRepo) ListConfirmedPage(_ context.Context, tournamentID, userID *int, limit, offset int) ([]*models.Match, int, error) {
	out := make([]*models.Match, 0)
	for _, match := range r.matchesSorted() {
		if match.Status != models.MatchConfirmed {
			continue
		}
		if tournamentID != nil && (match.TournamentID == nil || *match.TournamentID != *tournamentID) {
			continue
		}
		if userID != nil && !match.IsParticipant(*userID) {
			continue
		}
		out = append(out, match)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	total := len(out)
	if offset >= len(out) {
		return []*models.Match{}, total, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *fakeMatchRepo) CountConfirmedWins(_ context.Context, userID int, tournamentID *int) (int, error) {
	count := 0
	for _, match := range r.matches {
		if match.Status != models.MatchConfirmed || match.WinnerID == nil || *match.WinnerID != userID {
			continue
		}
		if tournamentID != nil && (match.TournamentID == nil || *match.TournamentID != *tournamentID) {
			continue
		}
		count++
	}
	return count, nil
}

func (r *fakeMatchRepo) CountConfirmedLosses(_ context.Context, userID int, tournamentID *int) (int, error) {
	count := 0
	for _, match := range r.matches {
		if match.Status != models.MatchConfirmed || match.WinnerID == nil || match.LoserID() != userID {
			continue
		}
		if tournamentID != nil && (match.TournamentID == nil || *match.TournamentID != *tournamentID) {
			continue
		}
		count++
	}
	return count, nil
}

// --- fake elo history repository ---

type fakeEloHistoryRepo struct {
	nextID  int
	entries []*models.EloHistory
}

func newFakeEloHistoryRepo() *fakeEloHistoryRepo {
	return &fakeEloHistoryRepo{nextID: 1}
}

func (r *fakeEloHistoryRepo) Create(_ context.Context, _ repositories.SQLExecutor, history *models.EloHistory) error {
	for _, existing := range r.entries {
		if existing.UserID == history.UserID && existing.MatchID == history.MatchID {
			return repositories.ErrEloHistoryConflict
		}
	}
	history.ID = r.nextID
	history.CreatedAt = time.Now()
	r.nextID++
	clone := *history
	r.entries = append(r.entries, &clone)
	return nil
}

func (r *fakeEloHistoryRepo) ExistsForMatch(_ context.Context, _ repositories.SQLExecutor, matchID int) (bool, error) {
	for _, entry := range r.entries {
		if entry.MatchID == matchID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEloHistoryRepo) ListByUser(_ context.Context, userID, limit int) ([]*models.EloHistory, error) {
	out := make([]*models.EloHistory, 0)
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].UserID == userID {
			clone := *r.entries[i]
			out = append(out, &clone)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeEloHistoryRepo) DeleteAll(_ context.Context, _ repositories.SQLExecutor) error {
	r.entries = nil
	return nil
}

// --- fake winner repository ---

type fakeWinnerRepo struct {
	nextID  int
	winners []*models.TournamentWinner
}

func newFakeWinnerRepo() *fakeWinnerRepo {
	return &fakeWinnerRepo{nextID: 1}
}

func (r *fakeWinnerRepo) Create(_ context.Context, _ repositories.SQLExecutor, winner *models.TournamentWinner) error {
	for _, existing := range r.winners {
		if existing.TournamentID == winner.TournamentID &&
			(existing.UserID == winner.UserID || existing.Position == winner.Position) {
			return repositories.ErrWinnerConflict
		}
	}
	winner.ID = r.nextID
	winner.AwardedAt = time.Now()
	r.nextID++
	clone := *winner
	r.winners = append(r.winners, &clone)
	return nil
}

func (r *fakeWinnerRepo) ListByTournament(_ context.Context, tournamentID int) ([]*models.TournamentWinner, error) {
	out := make([]*models.TournamentWinner, 0)
	for _, winner := range r.winners {
		if winner.TournamentID == tournamentID {
			clone := *winner
			out = append(out, &clone)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *fakeWinnerRepo) ListPodiums(_ context.Context) ([]*models.TournamentWinner, error) {
	out := make([]*models.TournamentWinner, 0)
	for _, winner := range r.winners {
		if winner.Position <= 3 {
			clone := *winner
			out = append(out, &clone)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TournamentID != out[j].TournamentID {
			return out[i].TournamentID > out[j].TournamentID
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

// --- shared environment for service tests ---

type testEnv struct {
	db       *sql.DB
	users    *fakeUserRepo
	tourneys *fakeTournamentRepo
	regs     *fakeRegistrationRepo
	matches  *fakeMatchRepo
	elo      *fakeEloHistoryRepo
	winners  *fakeWinnerRepo

	eloService        EloService
	tournamentService TournamentService
	matchService      MatchService
	statsService      StatsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		db:       newStubDB(t),
		users:    newFakeUserRepo(),
		tourneys: newFakeTournamentRepo(),
		regs:     newFakeRegistrationRepo(),
		matches:  newFakeMatchRepo(),
		elo:      newFakeEloHistoryRepo(),
		winners:  newFakeWinnerRepo(),
	}
	env.users.matches = env.matches
	logger := testLogger()
	env.eloService = NewEloService(env.db, env.users, env.matches, env.elo, logger)
	env.tournamentService = NewTournamentService(env.db, env.tourneys, env.regs, env.matches, env.users, env.winners, nil, logger)
	env.matchService = NewMatchService(env.db, env.matches, env.tourneys, env.regs, env.users, env.tournamentService, env.eloService, nil, logger)
	env.statsService = NewStatsService(env.users, env.matches, env.regs, env.tourneys, env.winners)
	return env
}
