package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spinroom/tournament-manager/brackets"
	"github.com/spinroom/tournament-manager/models"
	"github.com/spinroom/tournament-manager/repositories"
	"github.com/spinroom/tournament-manager/scoring"
)

// freeMatchSetsToWin — свободные матчи играются до двух выигранных сетов.
const freeMatchSetsToWin = 2

// SubmittedSet — счёт одного сета, как его вносит игрок. Всегда с точки
// зрения первого игрока матча.
type SubmittedSet struct {
	Player1Score int `json:"player1_score"`
	Player2Score int `json:"player2_score"`
}

type MatchService interface {
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, filter repositories.MatchFilter) ([]*models.Match, error)

	SubmitScore(ctx context.Context, matchID, submitterID int, sets []SubmittedSet) (*models.Match, error)
	ConfirmScore(ctx context.Context, matchID, confirmerID int) (*models.Match, error)
	DisputeScore(ctx context.Context, matchID, disputerID int) (*models.Match, error)
	ResetDisputed(ctx context.Context, matchID int) (*models.Match, error)
	Forfeit(ctx context.Context, matchID, forfeiterID int) (*models.Match, error)

	CreateFreeMatch(ctx context.Context, challengerID, opponentID int) (*models.Match, error)
	PendingConfirmationFor(ctx context.Context, userID int) ([]*models.Match, error)
	NextScheduledFor(ctx context.Context, userID int) (*models.Match, error)
	FreeMatchesFor(ctx context.Context, userID int) ([]*models.Match, error)
}

type matchService struct {
	db                *sql.DB
	matchRepo         repositories.MatchRepository
	tournamentRepo    repositories.TournamentRepository
	registrationRepo  repositories.RegistrationRepository
	userRepo          repositories.UserRepository
	tournamentService TournamentService
	eloService        EloService
	hub               *brackets.Hub
	logger            *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
	registrationRepo repositories.RegistrationRepository,
	userRepo repositories.UserRepository,
	tournamentService TournamentService,
	eloService EloService,
	hub *brackets.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:                db,
		matchRepo:         matchRepo,
		tournamentRepo:    tournamentRepo,
		registrationRepo:  registrationRepo,
		userRepo:          userRepo,
		tournamentService: tournamentService,
		eloService:        eloService,
		hub:               hub,
		logger:            logger,
	}
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	return s.getMatch(ctx, id)
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int, filter repositories.MatchFilter) ([]*models.Match, error) {
	return s.matchRepo.ListByTournament(ctx, tournamentID, filter)
}

// SubmitScore вносит счёт сыгранного матча. Вносить может любой из двух
// участников; матч переходит в ожидание подтверждения соперником.
func (s *matchService) SubmitScore(ctx context.Context, matchID, submitterID int, sets []SubmittedSet) (*models.Match, error) {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.IsParticipant(submitterID) {
		return nil, ErrNotParticipant
	}
	if match.Status != models.MatchScheduled {
		return nil, ErrMatchNotScheduled
	}
	if len(sets) == 0 {
		return nil, ErrNoSetsSubmitted
	}

	setsToWin := freeMatchSetsToWin
	if match.TournamentID != nil {
		tournament, err := s.tournamentRepo.GetByID(ctx, *match.TournamentID)
		if err != nil {
			return nil, err
		}
		setsToWin = tournament.SetsToWin
	}

	setScores := make([]models.SetScore, len(sets))
	for i, set := range sets {
		setScores[i] = models.SetScore{
			MatchID:      matchID,
			SetNumber:    i + 1,
			Player1Score: set.Player1Score,
			Player2Score: set.Player2Score,
		}
	}

	slot, err := scoring.MatchWinner(setScores, setsToWin)
	if err != nil {
		return nil, err
	}
	winnerID := match.Player1ID
	if slot == scoring.SlotPlayer2 {
		winnerID = match.Player2ID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin submit transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range setScores {
		if err := s.matchRepo.CreateSetScore(ctx, tx, &setScores[i]); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	match.Status = models.MatchPendingConfirmation
	match.WinnerID = &winnerID
	match.SubmittedByID = &submitterID
	match.SubmittedAt = &now
	match.PlayedAt = &now
	if err := s.matchRepo.Update(ctx, tx, match); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit submit transaction: %w", err)
	}

	match.SetScores = setScores

	s.logger.InfoContext(ctx, "match score submitted",
		slog.Int("match_id", matchID),
		slog.Int("submitted_by", submitterID),
		slog.Int("winner_id", winnerID),
	)
	s.broadcastMatch(match, brackets.EventMatchSubmitted)
	return match, nil
}

// ConfirmScore — подтверждение счёта соперником. Именно здесь матч становится
// окончательным: начисляются групповые очки или двигается сетка плей-офф,
// затем обновляются рейтинги ELO. Всё в одной транзакции.
func (s *matchService) ConfirmScore(ctx context.Context, matchID, confirmerID int) (*models.Match, error) {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.IsParticipant(confirmerID) {
		return nil, ErrNotParticipant
	}
	if match.Status != models.MatchPendingConfirmation {
		return nil, ErrMatchNotPending
	}
	if match.SubmittedByID != nil && *match.SubmittedByID == confirmerID {
		return nil, ErrSelfConfirmation
	}
	if match.WinnerID == nil {
		return nil, ErrMatchMissingWinner
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin confirm transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	match.Status = models.MatchConfirmed
	match.ConfirmedByID = &confirmerID
	match.ConfirmedAt = &now
	if err := s.matchRepo.Update(ctx, tx, match); err != nil {
		return nil, err
	}

	tournamentCompleted := false
	switch {
	case match.IsGroupMatch():
		if err := s.applyGroupStats(ctx, tx, match); err != nil {
			return nil, err
		}
	case match.IsPlayoffMatch():
		tournamentCompleted, err = s.tournamentService.AdvancePlayoffWinner(ctx, tx, match)
		if err != nil {
			return nil, err
		}
	}

	if _, err := s.eloService.ApplyMatchResult(ctx, tx, match); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit confirm transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "match confirmed",
		slog.Int("match_id", matchID),
		slog.Int("confirmed_by", confirmerID),
	)
	s.broadcastMatch(match, brackets.EventMatchConfirmed)
	if tournamentCompleted && match.TournamentID != nil {
		s.broadcastTournamentCompleted(*match.TournamentID, *match.WinnerID)
	}
	return match, nil
}

// DisputeScore — соперник не согласен с внесённым счётом. Матч замораживается
// до вмешательства администратора.
func (s *matchService) DisputeScore(ctx context.Context, matchID, disputerID int) (*models.Match, error) {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.IsParticipant(disputerID) {
		return nil, ErrNotParticipant
	}
	if match.Status != models.MatchPendingConfirmation {
		return nil, ErrMatchNotPending
	}
	if match.SubmittedByID != nil && *match.SubmittedByID == disputerID {
		return nil, ErrSelfConfirmation
	}

	match.Status = models.MatchDisputed
	if err := s.matchRepo.Update(ctx, s.db, match); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "match disputed",
		slog.Int("match_id", matchID),
		slog.Int("disputed_by", disputerID),
	)
	s.broadcastMatch(match, brackets.EventMatchDisputed)
	return match, nil
}

// ResetDisputed возвращает спорный матч в исходное состояние: счёт и аудит
// стираются, игроки вносят результат заново. Только для администратора.
func (s *matchService) ResetDisputed(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != models.MatchDisputed {
		return nil, ErrMatchNotDisputed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin reset transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.matchRepo.DeleteSetScores(ctx, tx, matchID); err != nil {
		return nil, err
	}

	match.Status = models.MatchScheduled
	match.WinnerID = nil
	match.SubmittedByID = nil
	match.ConfirmedByID = nil
	match.SubmittedAt = nil
	match.ConfirmedAt = nil
	match.PlayedAt = nil
	if err := s.matchRepo.Update(ctx, tx, match); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reset transaction: %w", err)
	}

	match.SetScores = nil

	s.logger.InfoContext(ctx, "disputed match reset", slog.Int("match_id", matchID))
	return match, nil
}

// Forfeit — техническое поражение. Соперник получает победу без счёта по
// сетам; в группе это +2 победителю и 0 сдавшемуся, рейтинг меняется с
// пониженным коэффициентом.
func (s *matchService) Forfeit(ctx context.Context, matchID, forfeiterID int) (*models.Match, error) {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.IsParticipant(forfeiterID) {
		return nil, ErrNotParticipant
	}
	if match.Status != models.MatchScheduled && match.Status != models.MatchPendingConfirmation {
		return nil, ErrMatchNotForfeitable
	}

	winnerID := match.OpponentOf(forfeiterID)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin forfeit transaction: %w", err)
	}
	defer tx.Rollback()

	// Внесённый, но не подтверждённый счёт аннулируется.
	if err := s.matchRepo.DeleteSetScores(ctx, tx, matchID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	match.Status = models.MatchWalkover
	match.WinnerID = &winnerID
	match.SubmittedByID = nil
	match.SubmittedAt = nil
	match.PlayedAt = &now
	match.SetScores = nil
	if err := s.matchRepo.Update(ctx, tx, match); err != nil {
		return nil, err
	}

	tournamentCompleted := false
	switch {
	case match.IsGroupMatch():
		if err := s.applyWalkoverGroupStats(ctx, tx, match); err != nil {
			return nil, err
		}
	case match.IsPlayoffMatch():
		tournamentCompleted, err = s.tournamentService.AdvancePlayoffWinner(ctx, tx, match)
		if err != nil {
			return nil, err
		}
	}

	if _, err := s.eloService.ApplyMatchResult(ctx, tx, match); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit forfeit transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "match forfeited",
		slog.Int("match_id", matchID),
		slog.Int("forfeited_by", forfeiterID),
		slog.Int("winner_id", winnerID),
	)
	s.broadcastMatch(match, brackets.EventMatchConfirmed)
	if tournamentCompleted && match.TournamentID != nil {
		s.broadcastTournamentCompleted(*match.TournamentID, winnerID)
	}
	return match, nil
}

// CreateFreeMatch создаёт товарищеский матч-вызов вне турнира.
func (s *matchService) CreateFreeMatch(ctx context.Context, challengerID, opponentID int) (*models.Match, error) {
	if challengerID == opponentID {
		return nil, ErrSelfChallenge
	}
	for _, userID := range []int{challengerID, opponentID} {
		if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
	}

	match := &models.Match{
		Player1ID: challengerID,
		Player2ID: opponentID,
		Phase:     models.PhaseFree,
		Status:    models.MatchScheduled,
	}
	if err := s.matchRepo.Create(ctx, s.db, match); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "free match created",
		slog.Int("match_id", match.ID),
		slog.Int("challenger_id", challengerID),
		slog.Int("opponent_id", opponentID),
	)
	return match, nil
}

func (s *matchService) PendingConfirmationFor(ctx context.Context, userID int) ([]*models.Match, error) {
	return s.matchRepo.ListPendingConfirmationFor(ctx, userID)
}

func (s *matchService) NextScheduledFor(ctx context.Context, userID int) (*models.Match, error) {
	return s.matchRepo.NextScheduledFor(ctx, userID)
}

func (s *matchService) FreeMatchesFor(ctx context.Context, userID int) ([]*models.Match, error) {
	return s.matchRepo.ListFreeByUser(ctx, userID)
}

// applyGroupStats разносит статистику подтверждённого группового матча по
// регистрациям обоих игроков: 2 очка за победу, 1 за поражение по сетам.
func (s *matchService) applyGroupStats(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	var p1Sets, p2Sets, p1Points, p2Points int
	for _, set := range match.SetScores {
		if set.WinnerIsPlayer1() {
			p1Sets++
		} else {
			p2Sets++
		}
		p1Points += set.Player1Score
		p2Points += set.Player2Score
	}

	p1Delta := repositories.GroupStatsDelta{
		GroupPoints: 1,
		SetsWon:     p1Sets,
		SetsLost:    p2Sets,
		PointsWon:   p1Points,
		PointsLost:  p2Points,
	}
	p2Delta := repositories.GroupStatsDelta{
		GroupPoints: 1,
		SetsWon:     p2Sets,
		SetsLost:    p1Sets,
		PointsWon:   p2Points,
		PointsLost:  p1Points,
	}
	if *match.WinnerID == match.Player1ID {
		p1Delta.GroupPoints = 2
	} else {
		p2Delta.GroupPoints = 2
	}

	if err := s.registrationRepo.ApplyGroupStats(ctx, exec, match.Player1ID, *match.TournamentID, p1Delta); err != nil {
		return err
	}
	return s.registrationRepo.ApplyGroupStats(ctx, exec, match.Player2ID, *match.TournamentID, p2Delta)
}

// applyWalkoverGroupStats — техническое поражение в группе: победитель
// получает 2 очка, сдавшийся ничего. Сеты и очки не начисляются.
func (s *matchService) applyWalkoverGroupStats(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	winnerDelta := repositories.GroupStatsDelta{GroupPoints: 2}
	return s.registrationRepo.ApplyGroupStats(ctx, exec, *match.WinnerID, *match.TournamentID, winnerDelta)
}

func (s *matchService) getMatch(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) broadcastMatch(match *models.Match, eventType string) {
	if s.hub == nil || match.TournamentID == nil {
		return
	}
	room := brackets.TournamentRoom(*match.TournamentID)
	s.hub.BroadcastToRoom(room, brackets.TournamentEvent{
		Type:    eventType,
		Payload: match,
		RoomID:  room,
	})
}

func (s *matchService) broadcastTournamentCompleted(tournamentID, championID int) {
	if s.hub == nil {
		return
	}
	room := brackets.TournamentRoom(tournamentID)
	s.hub.BroadcastToRoom(room, brackets.TournamentEvent{
		Type: brackets.EventTournamentCompleted,
		Payload: map[string]interface{}{
			"tournament_id": tournamentID,
			"champion_id":   championID,
		},
		RoomID: room,
	})
}
