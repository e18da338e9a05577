package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spinroom/tournament-manager/models"
	"github.com/spinroom/tournament-manager/repositories"
	"github.com/spinroom/tournament-manager/scoring"
)

// RecalculationReport — итог полного пересчёта рейтингов.
type RecalculationReport struct {
	UsersReset       int            `json:"users_reset"`
	MatchesProcessed int            `json:"matches_processed"`
	FinalRatings     map[string]int `json:"final_ratings"`
}

type EloService interface {
	// ApplyMatchResult применяет изменение рейтинга по завершённому матчу
	// внутри переданной транзакции. Возвращает false, если по матчу уже
	// есть записи в истории (повторный вызов ничего не меняет).
	ApplyMatchResult(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) (bool, error)
	Leaderboard(ctx context.Context, limit int) ([]*models.User, error)
	UserHistory(ctx context.Context, userID, limit int) ([]*models.EloHistory, error)
	RecalculateAll(ctx context.Context) (*RecalculationReport, error)
}

type eloService struct {
	db        *sql.DB
	userRepo  repositories.UserRepository
	matchRepo repositories.MatchRepository
	eloRepo   repositories.EloHistoryRepository
	logger    *slog.Logger
}

func NewEloService(
	db *sql.DB,
	userRepo repositories.UserRepository,
	matchRepo repositories.MatchRepository,
	eloRepo repositories.EloHistoryRepository,
	logger *slog.Logger,
) EloService {
	return &eloService{
		db:        db,
		userRepo:  userRepo,
		matchRepo: matchRepo,
		eloRepo:   eloRepo,
		logger:    logger,
	}
}

func (s *eloService) ApplyMatchResult(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) (bool, error) {
	if match.WinnerID == nil {
		return false, ErrMatchMissingWinner
	}

	exists, err := s.eloRepo.ExistsForMatch(ctx, exec, match.ID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	winnerID := *match.WinnerID
	loserID := match.LoserID()

	winner, err := s.userRepo.GetByID(ctx, winnerID)
	if err != nil {
		return false, s.mapUserError(err)
	}
	loser, err := s.userRepo.GetByID(ctx, loserID)
	if err != nil {
		return false, s.mapUserError(err)
	}

	winnerAfter, loserAfter, winnerDelta, loserDelta := ratingChanges(match, winner.EloRating, loser.EloRating)

	if err := s.writeRatingUpdate(ctx, exec, match.ID, winnerID, winner.EloRating, winnerAfter, winnerDelta); err != nil {
		return false, err
	}
	if err := s.writeRatingUpdate(ctx, exec, match.ID, loserID, loser.EloRating, loserAfter, loserDelta); err != nil {
		return false, err
	}

	s.logger.InfoContext(ctx, "elo ratings updated",
		slog.Int("match_id", match.ID),
		slog.Int("winner_id", winnerID),
		slog.Int("winner_delta", winnerDelta),
		slog.Int("loser_id", loserID),
		slog.Int("loser_delta", loserDelta),
	)
	return true, nil
}

// ratingChanges считает новые рейтинги обоих игроков по одному матчу.
// Рейтинг проигравшего не опускается ниже пола, но записанная дельта
// остаётся фактической.
func ratingChanges(match *models.Match, winnerRating, loserRating int) (winnerAfter, loserAfter, winnerDelta, loserDelta int) {
	isWalkover := match.Status == models.MatchWalkover

	margin := 1.0
	if !isWalkover && len(match.SetScores) > 0 {
		winnerIsPlayer1 := *match.WinnerID == match.Player1ID
		margin = scoring.MarginMultiplier(match.SetScores, winnerIsPlayer1)
	}

	winnerDelta, loserDelta = scoring.EloChange(winnerRating, loserRating, margin, isWalkover)
	winnerAfter = winnerRating + winnerDelta
	loserAfter = scoring.ClampRating(loserRating + loserDelta)
	return winnerAfter, loserAfter, winnerDelta, loserDelta
}

func (s *eloService) writeRatingUpdate(ctx context.Context, exec repositories.SQLExecutor, matchID, userID, before, after, change int) error {
	history := &models.EloHistory{
		UserID:    userID,
		MatchID:   matchID,
		EloBefore: before,
		EloAfter:  after,
		EloChange: change,
	}
	if err := s.eloRepo.Create(ctx, exec, history); err != nil {
		return fmt.Errorf("failed to record elo history for user %d: %w", userID, err)
	}
	if err := s.userRepo.UpdateEloRating(ctx, exec, userID, after); err != nil {
		return fmt.Errorf("failed to update elo rating for user %d: %w", userID, err)
	}
	return nil
}

func (s *eloService) Leaderboard(ctx context.Context, limit int) ([]*models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.userRepo.ListByEloDesc(ctx, limit)
}

func (s *eloService) UserHistory(ctx context.Context, userID, limit int) ([]*models.EloHistory, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, s.mapUserError(err)
	}
	return s.eloRepo.ListByUser(ctx, userID, limit)
}

// RecalculateAll сбрасывает всех игроков на стартовый рейтинг и заново
// проигрывает все завершённые матчи в хронологическом порядке. Результат
// детерминирован: повторный запуск даёт те же итоговые рейтинги.
func (s *eloService) RecalculateAll(ctx context.Context) (*RecalculationReport, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users for recalculation: %w", err)
	}
	matches, err := s.matchRepo.ListCompletedChronological(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed matches: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin recalculation transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.eloRepo.DeleteAll(ctx, tx); err != nil {
		return nil, err
	}
	usersReset, err := s.userRepo.ResetAllEloRatings(ctx, tx, models.DefaultEloRating)
	if err != nil {
		return nil, err
	}

	// Текущие рейтинги во время переигровки держим в памяти, чтобы не
	// читать строки, изменённые в этой же транзакции.
	ratings := make(map[int]int, len(users))
	names := make(map[int]string, len(users))
	for _, u := range users {
		ratings[u.ID] = models.DefaultEloRating
		names[u.ID] = u.Username
	}

	processed := 0
	for _, match := range matches {
		if match.WinnerID == nil {
			continue
		}
		winnerID := *match.WinnerID
		loserID := match.LoserID()

		winnerBefore, ok := ratings[winnerID]
		if !ok {
			continue
		}
		loserBefore, ok := ratings[loserID]
		if !ok {
			continue
		}

		if match.Status != models.MatchWalkover {
			sets, err := s.matchRepo.ListSetScores(ctx, match.ID)
			if err != nil {
				return nil, err
			}
			match.SetScores = sets
		}

		winnerAfter, loserAfter, winnerDelta, loserDelta := ratingChanges(match, winnerBefore, loserBefore)

		if err := s.writeRatingUpdate(ctx, tx, match.ID, winnerID, winnerBefore, winnerAfter, winnerDelta); err != nil {
			return nil, err
		}
		if err := s.writeRatingUpdate(ctx, tx, match.ID, loserID, loserBefore, loserAfter, loserDelta); err != nil {
			return nil, err
		}

		ratings[winnerID] = winnerAfter
		ratings[loserID] = loserAfter
		processed++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit recalculation: %w", err)
	}

	final := make(map[string]int, len(ratings))
	for id, rating := range ratings {
		final[names[id]] = rating
	}

	s.logger.InfoContext(ctx, "elo recalculation finished",
		slog.Int("users_reset", usersReset),
		slog.Int("matches_processed", processed),
	)

	return &RecalculationReport{
		UsersReset:       usersReset,
		MatchesProcessed: processed,
		FinalRatings:     final,
	}, nil
}

func (s *eloService) mapUserError(err error) error {
	if errors.Is(err, repositories.ErrUserNotFound) {
		return ErrUserNotFound
	}
	return err
}
