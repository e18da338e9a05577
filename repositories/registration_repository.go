package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/spinroom/tournament-manager/models"
)

var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrRegistrationConflict = errors.New("user is already registered for this tournament")
)

// GroupStatsDelta — приращение групповой статистики по итогам одного
// подтверждённого матча.
type GroupStatsDelta struct {
	GroupPoints int
	SetsWon     int
	SetsLost    int
	PointsWon   int
	PointsLost  int
}

type RegistrationRepository interface {
	Create(ctx context.Context, registration *models.Registration) error
	GetByUserAndTournament(ctx context.Context, userID, tournamentID int) (*models.Registration, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Registration, error)
	ListByTournamentOrderBySeed(ctx context.Context, tournamentID int) ([]*models.Registration, error)
	ListByUser(ctx context.Context, userID int) ([]*models.Registration, error)
	ApplyGroupStats(ctx context.Context, exec SQLExecutor, userID, tournamentID int, delta GroupStatsDelta) error
	SetSeedAndGroupPosition(ctx context.Context, exec SQLExecutor, userID, tournamentID, seed, groupPosition int) error
	SetFinalPosition(ctx context.Context, exec SQLExecutor, userID, tournamentID, finalPosition int) error
	MarkEliminated(ctx context.Context, exec SQLExecutor, userID, tournamentID int) error
	Delete(ctx context.Context, userID, tournamentID int) error
	DeleteByUser(ctx context.Context, exec SQLExecutor, userID int) error
}

type postgresRegistrationRepository struct {
	db *sql.DB
}

func NewPostgresRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

const registrationColumns = `id, user_id, tournament_id, seed, group_position, final_position,
	group_points, sets_won, sets_lost, points_won, points_lost, eliminated, registered_at`

func (r *postgresRegistrationRepository) Create(ctx context.Context, registration *models.Registration) error {
	query := `
		INSERT INTO registrations (user_id, tournament_id)
		VALUES ($1, $2)
		RETURNING id, registered_at`

	err := r.db.QueryRowContext(ctx, query,
		registration.UserID,
		registration.TournamentID,
	).Scan(&registration.ID, &registration.RegisteredAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			// unique_user_tournament
			return ErrRegistrationConflict
		}
		return fmt.Errorf("failed to create registration: %w", err)
	}
	return nil
}

func (r *postgresRegistrationRepository) GetByUserAndTournament(ctx context.Context, userID, tournamentID int) (*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE user_id = $1 AND tournament_id = $2`

	var reg models.Registration
	err := r.db.QueryRowContext(ctx, query, userID, tournamentID).Scan(
		&reg.ID,
		&reg.UserID,
		&reg.TournamentID,
		&reg.Seed,
		&reg.GroupPosition,
		&reg.FinalPosition,
		&reg.GroupPoints,
		&reg.SetsWon,
		&reg.SetsLost,
		&reg.PointsWon,
		&reg.PointsLost,
		&reg.Eliminated,
		&reg.RegisteredAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to scan registration: %w", err)
	}
	return &reg, nil
}

func (r *postgresRegistrationRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE tournament_id = $1 ORDER BY registered_at ASC, id ASC`
	return r.queryRegistrations(ctx, query, tournamentID)
}

func (r *postgresRegistrationRepository) ListByTournamentOrderBySeed(ctx context.Context, tournamentID int) ([]*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE tournament_id = $1 ORDER BY seed ASC NULLS LAST, id ASC`
	return r.queryRegistrations(ctx, query, tournamentID)
}

func (r *postgresRegistrationRepository) ListByUser(ctx context.Context, userID int) ([]*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE user_id = $1 ORDER BY tournament_id DESC`
	return r.queryRegistrations(ctx, query, userID)
}

// ApplyGroupStats инкрементально добавляет статистику матча к регистрации.
func (r *postgresRegistrationRepository) ApplyGroupStats(ctx context.Context, exec SQLExecutor, userID, tournamentID int, delta GroupStatsDelta) error {
	query := `
		UPDATE registrations
		SET group_points = group_points + $1,
		    sets_won = sets_won + $2,
		    sets_lost = sets_lost + $3,
		    points_won = points_won + $4,
		    points_lost = points_lost + $5
		WHERE user_id = $6 AND tournament_id = $7`

	result, err := exec.ExecContext(ctx, query,
		delta.GroupPoints,
		delta.SetsWon,
		delta.SetsLost,
		delta.PointsWon,
		delta.PointsLost,
		userID,
		tournamentID,
	)
	if err != nil {
		return fmt.Errorf("failed to apply group stats for user %d: %w", userID, err)
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

func (r *postgresRegistrationRepository) SetSeedAndGroupPosition(ctx context.Context, exec SQLExecutor, userID, tournamentID, seed, groupPosition int) error {
	result, err := exec.ExecContext(ctx,
		`UPDATE registrations SET seed = $1, group_position = $2 WHERE user_id = $3 AND tournament_id = $4`,
		seed, groupPosition, userID, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to set seed for user %d: %w", userID, err)
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

func (r *postgresRegistrationRepository) SetFinalPosition(ctx context.Context, exec SQLExecutor, userID, tournamentID, finalPosition int) error {
	result, err := exec.ExecContext(ctx,
		`UPDATE registrations SET final_position = $1 WHERE user_id = $2 AND tournament_id = $3`,
		finalPosition, userID, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to set final position for user %d: %w", userID, err)
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

func (r *postgresRegistrationRepository) MarkEliminated(ctx context.Context, exec SQLExecutor, userID, tournamentID int) error {
	result, err := exec.ExecContext(ctx,
		`UPDATE registrations SET eliminated = TRUE WHERE user_id = $1 AND tournament_id = $2`,
		userID, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to mark user %d eliminated: %w", userID, err)
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

func (r *postgresRegistrationRepository) Delete(ctx context.Context, userID, tournamentID int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM registrations WHERE user_id = $1 AND tournament_id = $2`,
		userID, tournamentID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

// DeleteByUser удаляет все регистрации пользователя. Используется при
// удалении аккаунта; ноль строк не считается ошибкой.
func (r *postgresRegistrationRepository) DeleteByUser(ctx context.Context, exec SQLExecutor, userID int) error {
	_, err := exec.ExecContext(ctx, `DELETE FROM registrations WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete registrations for user %d: %w", userID, err)
	}
	return nil
}

func (r *postgresRegistrationRepository) queryRegistrations(ctx context.Context, query string, args ...interface{}) ([]*models.Registration, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query registrations: %w", err)
	}
	defer rows.Close()

	registrations := make([]*models.Registration, 0)
	for rows.Next() {
		var reg models.Registration
		if err := rows.Scan(
			&reg.ID,
			&reg.UserID,
			&reg.TournamentID,
			&reg.Seed,
			&reg.GroupPosition,
			&reg.FinalPosition,
			&reg.GroupPoints,
			&reg.SetsWon,
			&reg.SetsLost,
			&reg.PointsWon,
			&reg.PointsLost,
			&reg.Eliminated,
			&reg.RegisteredAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan registration row: %w", err)
		}
		registrations = append(registrations, &reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during registration rows iteration: %w", err)
	}
	return registrations, nil
}
