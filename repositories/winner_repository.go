package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/spinroom/tournament-manager/models"
)

var ErrWinnerConflict = errors.New("tournament winner position already recorded")

type WinnerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, winner *models.TournamentWinner) error
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.TournamentWinner, error)
	ListPodiums(ctx context.Context) ([]*models.TournamentWinner, error)
}

type postgresWinnerRepository struct {
	db *sql.DB
}

func NewPostgresWinnerRepository(db *sql.DB) WinnerRepository {
	return &postgresWinnerRepository{db: db}
}

func (r *postgresWinnerRepository) Create(ctx context.Context, exec SQLExecutor, winner *models.TournamentWinner) error {
	query := `
		INSERT INTO tournament_winners (tournament_id, user_id, position)
		VALUES ($1, $2, $3)
		RETURNING id, awarded_at`

	err := exec.QueryRowContext(ctx, query,
		winner.TournamentID,
		winner.UserID,
		winner.Position,
	).Scan(&winner.ID, &winner.AwardedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			// unique_tournament_user_winner / unique_tournament_position
			return ErrWinnerConflict
		}
		return fmt.Errorf("failed to create tournament winner: %w", err)
	}
	return nil
}

func (r *postgresWinnerRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.TournamentWinner, error) {
	query := `
		SELECT id, tournament_id, user_id, position, awarded_at
		FROM tournament_winners
		WHERE tournament_id = $1
		ORDER BY position ASC`
	return r.queryWinners(ctx, query, tournamentID)
}

// ListPodiums возвращает призовые места (топ-3) всех турниров, новые первыми.
func (r *postgresWinnerRepository) ListPodiums(ctx context.Context) ([]*models.TournamentWinner, error) {
	query := `
		SELECT id, tournament_id, user_id, position, awarded_at
		FROM tournament_winners
		WHERE position <= 3
		ORDER BY tournament_id DESC, position ASC`
	return r.queryWinners(ctx, query)
}

func (r *postgresWinnerRepository) queryWinners(ctx context.Context, query string, args ...interface{}) ([]*models.TournamentWinner, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournament winners: %w", err)
	}
	defer rows.Close()

	winners := make([]*models.TournamentWinner, 0)
	for rows.Next() {
		var w models.TournamentWinner
		if err := rows.Scan(&w.ID, &w.TournamentID, &w.UserID, &w.Position, &w.AwardedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tournament winner row: %w", err)
		}
		winners = append(winners, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament winner rows iteration: %w", err)
	}
	return winners, nil
}
