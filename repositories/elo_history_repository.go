package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/spinroom/tournament-manager/models"
)

var ErrEloHistoryConflict = errors.New("elo history already recorded for this user and match")

type EloHistoryRepository interface {
	Create(ctx context.Context, exec SQLExecutor, history *models.EloHistory) error
	ExistsForMatch(ctx context.Context, exec SQLExecutor, matchID int) (bool, error)
	ListByUser(ctx context.Context, userID, limit int) ([]*models.EloHistory, error)
	DeleteAll(ctx context.Context, exec SQLExecutor) error
}

type postgresEloHistoryRepository struct {
	db *sql.DB
}

func NewPostgresEloHistoryRepository(db *sql.DB) EloHistoryRepository {
	return &postgresEloHistoryRepository{db: db}
}

func (r *postgresEloHistoryRepository) Create(ctx context.Context, exec SQLExecutor, history *models.EloHistory) error {
	query := `
		INSERT INTO elo_history (user_id, match_id, elo_before, elo_after, elo_change)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		history.UserID,
		history.MatchID,
		history.EloBefore,
		history.EloAfter,
		history.EloChange,
	).Scan(&history.ID, &history.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			// unique_user_match_elo — страховка от двойного применения
			return ErrEloHistoryConflict
		}
		return fmt.Errorf("failed to create elo history: %w", err)
	}
	return nil
}

// ExistsForMatch — защита от повторной обработки: ELO по матчу применяется
// только если записей по нему ещё нет.
func (r *postgresEloHistoryRepository) ExistsForMatch(ctx context.Context, exec SQLExecutor, matchID int) (bool, error) {
	var exists bool
	err := exec.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM elo_history WHERE match_id = $1)`, matchID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check elo history for match %d: %w", matchID, err)
	}
	return exists, nil
}

func (r *postgresEloHistoryRepository) ListByUser(ctx context.Context, userID, limit int) ([]*models.EloHistory, error) {
	query := `
		SELECT id, user_id, match_id, elo_before, elo_after, elo_change, created_at
		FROM elo_history
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query elo history for user %d: %w", userID, err)
	}
	defer rows.Close()

	entries := make([]*models.EloHistory, 0)
	for rows.Next() {
		var h models.EloHistory
		if err := rows.Scan(&h.ID, &h.UserID, &h.MatchID, &h.EloBefore, &h.EloAfter, &h.EloChange, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan elo history row: %w", err)
		}
		entries = append(entries, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during elo history rows iteration: %w", err)
	}
	return entries, nil
}

func (r *postgresEloHistoryRepository) DeleteAll(ctx context.Context, exec SQLExecutor) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM elo_history`); err != nil {
		return fmt.Errorf("failed to clear elo history: %w", err)
	}
	return nil
}
