package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/spinroom/tournament-manager/models"
)

var (
	ErrMatchNotFound      = errors.New("match not found")
	ErrSetScoreConflict   = errors.New("set score already recorded for this set")
	ErrMatchPlayerInvalid = errors.New("match references an unknown player")
)

// MatchFilter задаёт необязательные условия выборки матчей турнира.
type MatchFilter struct {
	Phase    *models.MatchPhase
	Statuses []models.MatchStatus
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, filter MatchFilter) ([]*models.Match, error)
	CountByTournament(ctx context.Context, tournamentID int, filter MatchFilter) (int, error)
	Update(ctx context.Context, exec SQLExecutor, match *models.Match) error

	CreateSetScore(ctx context.Context, exec SQLExecutor, score *models.SetScore) error
	ListSetScores(ctx context.Context, matchID int) ([]models.SetScore, error)
	DeleteSetScores(ctx context.Context, exec SQLExecutor, matchID int) error

	ListCompletedChronological(ctx context.Context) ([]*models.Match, error)
	ListConfirmedByUser(ctx context.Context, userID, limit int) ([]*models.Match, error)
	ListPendingConfirmationFor(ctx context.Context, userID int) ([]*models.Match, error)
	NextScheduledFor(ctx context.Context, userID int) (*models.Match, error)
	ListFreeByUser(ctx context.Context, userID int) ([]*models.Match, error)
	ListConfirmedBetween(ctx context.Context, user1ID, user2ID int) ([]*models.Match, error)
	ListConfirmedPage(ctx context.Context, tournamentID, userID *int, limit, offset int) ([]*models.Match, int, error)
	CountConfirmedWins(ctx context.Context, userID int, tournamentID *int) (int, error)
	CountConfirmedLosses(ctx context.Context, userID int, tournamentID *int) (int, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, tournament_id, player1_id, player2_id, phase, fixture_number,
	bracket_round, bracket_position, status, winner_id,
	submitted_by_id, confirmed_by_id, submitted_at, confirmed_at, played_at, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches
			(tournament_id, player1_id, player2_id, phase, fixture_number,
			 bracket_round, bracket_position, status, winner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		match.TournamentID,
		match.Player1ID,
		match.Player2ID,
		match.Phase,
		match.FixtureNumber,
		match.BracketRound,
		match.BracketPosition,
		match.Status,
		match.WinnerID,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match, err := r.scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	scores, err := r.ListSetScores(ctx, id)
	if err != nil {
		return nil, err
	}
	match.SetScores = scores
	return match, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int, filter MatchFilter) ([]*models.Match, error) {
	query, args := buildTournamentMatchQuery(`SELECT `+matchColumns+` FROM matches`, tournamentID, filter)
	query += ` ORDER BY id ASC`
	return r.queryMatches(ctx, query, args...)
}

func (r *postgresMatchRepository) CountByTournament(ctx context.Context, tournamentID int, filter MatchFilter) (int, error) {
	query, args := buildTournamentMatchQuery(`SELECT COUNT(*) FROM matches`, tournamentID, filter)

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count matches for tournament %d: %w", tournamentID, err)
	}
	return count, nil
}

func buildTournamentMatchQuery(base string, tournamentID int, filter MatchFilter) (string, []interface{}) {
	var b strings.Builder
	b.WriteString(base)
	b.WriteString(` WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	placeholder := 2

	if filter.Phase != nil {
		b.WriteString(` AND phase = $`)
		b.WriteString(strconv.Itoa(placeholder))
		args = append(args, *filter.Phase)
		placeholder++
	}
	if len(filter.Statuses) > 0 {
		b.WriteString(` AND status = ANY($`)
		b.WriteString(strconv.Itoa(placeholder))
		b.WriteString(`)`)
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, pq.Array(statuses))
	}
	return b.String(), args
}

// Update перезаписывает изменяемые поля матча: статус, победителя и поля
// аудита подтверждения.
func (r *postgresMatchRepository) Update(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		UPDATE matches
		SET status = $1, winner_id = $2, submitted_by_id = $3, confirmed_by_id = $4,
		    submitted_at = $5, confirmed_at = $6, played_at = $7
		WHERE id = $8`

	result, err := exec.ExecContext(ctx, query,
		match.Status,
		match.WinnerID,
		match.SubmittedByID,
		match.ConfirmedByID,
		match.SubmittedAt,
		match.ConfirmedAt,
		match.PlayedAt,
		match.ID,
	)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) CreateSetScore(ctx context.Context, exec SQLExecutor, score *models.SetScore) error {
	query := `
		INSERT INTO set_scores (match_id, set_number, player1_score, player2_score)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := exec.QueryRowContext(ctx, query,
		score.MatchID,
		score.SetNumber,
		score.Player1Score,
		score.Player2Score,
	).Scan(&score.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			// unique_match_set
			return ErrSetScoreConflict
		}
		return fmt.Errorf("failed to create set score: %w", err)
	}
	return nil
}

func (r *postgresMatchRepository) ListSetScores(ctx context.Context, matchID int) ([]models.SetScore, error) {
	query := `
		SELECT id, match_id, set_number, player1_score, player2_score
		FROM set_scores
		WHERE match_id = $1
		ORDER BY set_number ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query set scores for match %d: %w", matchID, err)
	}
	defer rows.Close()

	scores := make([]models.SetScore, 0, 3)
	for rows.Next() {
		var s models.SetScore
		if err := rows.Scan(&s.ID, &s.MatchID, &s.SetNumber, &s.Player1Score, &s.Player2Score); err != nil {
			return nil, fmt.Errorf("failed to scan set score row: %w", err)
		}
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during set score rows iteration: %w", err)
	}
	return scores, nil
}

func (r *postgresMatchRepository) DeleteSetScores(ctx context.Context, exec SQLExecutor, matchID int) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM set_scores WHERE match_id = $1`, matchID); err != nil {
		return fmt.Errorf("failed to delete set scores for match %d: %w", matchID, err)
	}
	return nil
}

// ListCompletedChronological возвращает все сыгранные матчи (confirmed или
// walkover, с победителем) в хронологическом порядке. Используется для
// полного пересчёта ELO.
func (r *postgresMatchRepository) ListCompletedChronological(ctx context.Context) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE status IN ('confirmed', 'walkover') AND winner_id IS NOT NULL
		ORDER BY played_at ASC NULLS LAST, id ASC`
	return r.queryMatches(ctx, query)
}

func (r *postgresMatchRepository) ListConfirmedByUser(ctx context.Context, userID, limit int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE status = 'confirmed' AND winner_id IS NOT NULL
		  AND (player1_id = $1 OR player2_id = $1)
		ORDER BY played_at DESC NULLS LAST, id DESC
		LIMIT $2`
	return r.queryMatches(ctx, query, userID, limit)
}

// ListPendingConfirmationFor возвращает матчи, где счёт внёс соперник и
// очередь подтверждать за данным пользователем.
func (r *postgresMatchRepository) ListPendingConfirmationFor(ctx context.Context, userID int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE status = 'pending_confirmation'
		  AND (player1_id = $1 OR player2_id = $1)
		  AND submitted_by_id IS NOT NULL AND submitted_by_id <> $1
		ORDER BY submitted_at ASC`
	return r.queryMatches(ctx, query, userID)
}

func (r *postgresMatchRepository) NextScheduledFor(ctx context.Context, userID int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE status = 'scheduled' AND (player1_id = $1 OR player2_id = $1)
		ORDER BY created_at ASC, id ASC
		LIMIT 1`

	match, err := r.scanMatch(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return match, nil
}

func (r *postgresMatchRepository) ListFreeByUser(ctx context.Context, userID int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE phase = 'free' AND (player1_id = $1 OR player2_id = $1)
		ORDER BY created_at DESC, id DESC`
	return r.queryMatches(ctx, query, userID)
}

func (r *postgresMatchRepository) ListConfirmedBetween(ctx context.Context, user1ID, user2ID int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE status = 'confirmed'
		  AND ((player1_id = $1 AND player2_id = $2) OR (player1_id = $2 AND player2_id = $1))
		ORDER BY played_at DESC NULLS LAST, id DESC`
	return r.queryMatches(ctx, query, user1ID, user2ID)
}

// ListConfirmedPage — постраничная история подтверждённых матчей с
// необязательными фильтрами по турниру и участнику.
func (r *postgresMatchRepository) ListConfirmedPage(ctx context.Context, tournamentID, userID *int, limit, offset int) ([]*models.Match, int, error) {
	where, args := confirmedHistoryWhere(tournamentID, userID)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count match history: %w", err)
	}

	query := `SELECT ` + matchColumns + ` FROM matches` + where +
		` ORDER BY played_at DESC NULLS LAST, id DESC` +
		` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	matches, err := r.queryMatches(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return matches, total, nil
}

func confirmedHistoryWhere(tournamentID, userID *int) (string, []interface{}) {
	var b strings.Builder
	b.WriteString(` WHERE status = 'confirmed'`)
	args := []interface{}{}
	if tournamentID != nil {
		args = append(args, *tournamentID)
		b.WriteString(` AND tournament_id = $` + strconv.Itoa(len(args)))
	}
	if userID != nil {
		args = append(args, *userID)
		p := strconv.Itoa(len(args))
		b.WriteString(` AND (player1_id = $` + p + ` OR player2_id = $` + p + `)`)
	}
	return b.String(), args
}

func (r *postgresMatchRepository) CountConfirmedWins(ctx context.Context, userID int, tournamentID *int) (int, error) {
	query := `SELECT COUNT(*) FROM matches WHERE status = 'confirmed' AND winner_id = $1`
	args := []interface{}{userID}
	if tournamentID != nil {
		query += ` AND tournament_id = $2`
		args = append(args, *tournamentID)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count wins for user %d: %w", userID, err)
	}
	return count, nil
}

func (r *postgresMatchRepository) CountConfirmedLosses(ctx context.Context, userID int, tournamentID *int) (int, error) {
	query := `SELECT COUNT(*) FROM matches
		WHERE status = 'confirmed' AND winner_id IS NOT NULL AND winner_id <> $1
		  AND (player1_id = $1 OR player2_id = $1)`
	args := []interface{}{userID}
	if tournamentID != nil {
		query += ` AND tournament_id = $2`
		args = append(args, *tournamentID)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count losses for user %d: %w", userID, err)
	}
	return count, nil
}

func (r *postgresMatchRepository) queryMatches(ctx context.Context, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(
			&m.ID,
			&m.TournamentID,
			&m.Player1ID,
			&m.Player2ID,
			&m.Phase,
			&m.FixtureNumber,
			&m.BracketRound,
			&m.BracketPosition,
			&m.Status,
			&m.WinnerID,
			&m.SubmittedByID,
			&m.ConfirmedByID,
			&m.SubmittedAt,
			&m.ConfirmedAt,
			&m.PlayedAt,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) scanMatch(row *sql.Row) (*models.Match, error) {
	var m models.Match
	err := row.Scan(
		&m.ID,
		&m.TournamentID,
		&m.Player1ID,
		&m.Player2ID,
		&m.Phase,
		&m.FixtureNumber,
		&m.BracketRound,
		&m.BracketPosition,
		&m.Status,
		&m.WinnerID,
		&m.SubmittedByID,
		&m.ConfirmedByID,
		&m.SubmittedAt,
		&m.ConfirmedAt,
		&m.PlayedAt,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match: %w", err)
	}
	return &m, nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		switch pqErr.Constraint {
		case "matches_player1_id_fkey", "matches_player2_id_fkey", "matches_winner_id_fkey":
			return ErrMatchPlayerInvalid
		}
	}
	return err
}
