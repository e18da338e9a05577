package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spinroom/tournament-manager/brackets"
	"github.com/spinroom/tournament-manager/models"
	"github.com/spinroom/tournament-manager/repositories"
)

const (
	tournamentNameMinLen = 3
	tournamentNameMaxLen = 128
	descriptionMaxLen    = 500
)

type CreateTournamentInput struct {
	Name          string               `json:"name"`
	Description   *string              `json:"description"`
	SetsToWin     int                  `json:"sets_to_win"`
	PlayoffFormat models.PlayoffFormat `json:"playoff_format"`
}

// TournamentDetails — турнир со всеми связанными сущностями для страницы
// турнира.
type TournamentDetails struct {
	Tournament    *models.Tournament         `json:"tournament"`
	Registrations []*models.Registration     `json:"registrations"`
	Matches       []*models.Match            `json:"matches"`
	Winners       []*models.TournamentWinner `json:"winners"`
}

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	GetDetails(ctx context.Context, id int) (*TournamentDetails, error)
	List(ctx context.Context, status *models.TournamentStatus) ([]*models.Tournament, error)
	UpdateDetails(ctx context.Context, id int, name string, description *string) (*models.Tournament, error)

	Register(ctx context.Context, tournamentID, userID int) (*models.Registration, error)
	Unregister(ctx context.Context, tournamentID, userID int) error

	StartGroupStage(ctx context.Context, tournamentID int) (*models.Tournament, int, error)
	Standings(ctx context.Context, tournamentID int) ([]models.StandingRow, error)
	StartPlayoffs(ctx context.Context, tournamentID int) (*models.Tournament, error)

	// AdvancePlayoffWinner двигает сетку гонтлета после подтверждённого
	// (или форфейтного) матча плей-офф. Вызывается внутри транзакции
	// подтверждения; возвращает true, если турнир завершён этим матчем.
	AdvancePlayoffWinner(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) (bool, error)

	// CompleteTournament — ручное закрытие турнира администратором по уже
	// сыгранному финалу. Обычно турнир закрывается автоматически при
	// подтверждении финала; ручной путь нужен, если автоматика не прошла.
	CompleteTournament(ctx context.Context, tournamentID int) (*models.Tournament, error)

	Cancel(ctx context.Context, tournamentID int) (*models.Tournament, error)
	Delete(ctx context.Context, tournamentID int) error
	Winners(ctx context.Context, tournamentID int) ([]*models.TournamentWinner, error)
}

type tournamentService struct {
	db               *sql.DB
	tournamentRepo   repositories.TournamentRepository
	registrationRepo repositories.RegistrationRepository
	matchRepo        repositories.MatchRepository
	userRepo         repositories.UserRepository
	winnerRepo       repositories.WinnerRepository
	hub              *brackets.Hub
	logger           *slog.Logger
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	registrationRepo repositories.RegistrationRepository,
	matchRepo repositories.MatchRepository,
	userRepo repositories.UserRepository,
	winnerRepo repositories.WinnerRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		db:               db,
		tournamentRepo:   tournamentRepo,
		registrationRepo: registrationRepo,
		matchRepo:        matchRepo,
		userRepo:         userRepo,
		winnerRepo:       winnerRepo,
		hub:              hub,
		logger:           logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if len(name) < tournamentNameMinLen || len(name) > tournamentNameMaxLen {
		return nil, ErrTournamentNameInvalid
	}
	if input.Description != nil && len(*input.Description) > descriptionMaxLen {
		return nil, ErrDescriptionTooLong
	}
	if input.SetsToWin != 1 && input.SetsToWin != 2 {
		return nil, ErrSetsToWinInvalid
	}
	format := input.PlayoffFormat
	if format == "" {
		format = models.FormatGauntlet
	}
	if format != models.FormatGauntlet {
		return nil, ErrPlayoffFormatInvalid
	}

	tournament := &models.Tournament{
		Name:          name,
		Description:   input.Description,
		Status:        models.StatusRegistration,
		PlayoffFormat: format,
		SetsToWin:     input.SetsToWin,
	}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "tournament created",
		slog.Int("tournament_id", tournament.ID),
		slog.String("name", tournament.Name),
	)
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	return s.getTournament(ctx, id)
}

// GetDetails загружает турнир и связанные сущности параллельно.
func (s *tournamentService) GetDetails(ctx context.Context, id int) (*TournamentDetails, error) {
	tournament, err := s.getTournament(ctx, id)
	if err != nil {
		return nil, err
	}

	details := &TournamentDetails{Tournament: tournament}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		regs, err := s.registrationRepo.ListByTournament(gctx, id)
		if err != nil {
			return err
		}
		details.Registrations = regs
		return nil
	})
	g.Go(func() error {
		matches, err := s.matchRepo.ListByTournament(gctx, id, repositories.MatchFilter{})
		if err != nil {
			return err
		}
		details.Matches = matches
		return nil
	})
	g.Go(func() error {
		winners, err := s.winnerRepo.ListByTournament(gctx, id)
		if err != nil {
			return err
		}
		details.Winners = winners
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return details, nil
}

func (s *tournamentService) List(ctx context.Context, status *models.TournamentStatus) ([]*models.Tournament, error) {
	return s.tournamentRepo.List(ctx, status)
}

func (s *tournamentService) UpdateDetails(ctx context.Context, id int, name string, description *string) (*models.Tournament, error) {
	name = strings.TrimSpace(name)
	if len(name) < tournamentNameMinLen || len(name) > tournamentNameMaxLen {
		return nil, ErrTournamentNameInvalid
	}
	if description != nil && len(*description) > descriptionMaxLen {
		return nil, ErrDescriptionTooLong
	}
	if err := s.tournamentRepo.UpdateDetails(ctx, id, name, description); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return s.getTournament(ctx, id)
}

func (s *tournamentService) Register(ctx context.Context, tournamentID, userID int) (*models.Registration, error) {
	tournament, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if !tournament.IsRegistrationOpen() {
		return nil, ErrRegistrationNotOpen
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	registration := &models.Registration{
		UserID:       userID,
		TournamentID: tournamentID,
	}
	if err := s.registrationRepo.Create(ctx, registration); err != nil {
		if errors.Is(err, repositories.ErrRegistrationConflict) {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}
	return registration, nil
}

// Unregister снимает игрока с турнира. После старта группового этапа состав
// зафиксирован, сняться уже нельзя.
func (s *tournamentService) Unregister(ctx context.Context, tournamentID, userID int) error {
	tournament, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return err
	}
	if !tournament.IsRegistrationOpen() {
		return ErrRegistrationNotOpen
	}
	if err := s.registrationRepo.Delete(ctx, userID, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return ErrNotRegistered
		}
		return err
	}
	return nil
}

// StartGroupStage генерирует двухкруговую сетку каждый-с-каждым и переводит
// турнир в статус группового этапа. Возвращает количество созданных матчей.
func (s *tournamentService) StartGroupStage(ctx context.Context, tournamentID int) (*models.Tournament, int, error) {
	tournament, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, 0, err
	}
	if tournament.Status != models.StatusRegistration {
		return nil, 0, ErrInvalidStatusTransition
	}

	registrations, err := s.registrationRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, 0, err
	}
	if len(registrations) < 2 {
		return nil, 0, ErrNotEnoughPlayers
	}

	groupPhase := models.PhaseGroup
	existing, err := s.matchRepo.CountByTournament(ctx, tournamentID, repositories.MatchFilter{Phase: &groupPhase})
	if err != nil {
		return nil, 0, err
	}
	if existing > 0 {
		return nil, 0, ErrFixturesAlreadyExist
	}

	playerIDs := make([]int, len(registrations))
	for i, reg := range registrations {
		playerIDs[i] = reg.UserID
	}

	fixtures, err := brackets.GenerateDoubleRoundRobin(playerIDs)
	if err != nil {
		if errors.Is(err, brackets.ErrNotEnoughPlayers) {
			return nil, 0, ErrNotEnoughPlayers
		}
		return nil, 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin group stage transaction: %w", err)
	}
	defer tx.Rollback()

	for _, fixture := range fixtures {
		fixtureNumber := fixture.FixtureNumber
		match := &models.Match{
			TournamentID:  &tournamentID,
			Player1ID:     fixture.Player1ID,
			Player2ID:     fixture.Player2ID,
			Phase:         models.PhaseGroup,
			FixtureNumber: &fixtureNumber,
			Status:        models.MatchScheduled,
		}
		if err := s.matchRepo.Create(ctx, tx, match); err != nil {
			return nil, 0, err
		}
	}

	now := time.Now().UTC()
	if err := s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, models.StatusGroupStage); err != nil {
		return nil, 0, err
	}
	if err := s.tournamentRepo.SetStartedAt(ctx, tx, tournamentID, now); err != nil {
		return nil, 0, err
	}
	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("failed to commit group stage transaction: %w", err)
	}

	tournament.Status = models.StatusGroupStage
	tournament.StartedAt = &now

	s.logger.InfoContext(ctx, "group stage started",
		slog.Int("tournament_id", tournamentID),
		slog.Int("players", len(registrations)),
		slog.Int("fixtures", len(fixtures)),
	)
	s.broadcast(tournamentID, brackets.EventGroupStageStarted, map[string]interface{}{
		"tournament_id": tournamentID,
		"fixtures":      len(fixtures),
	})
	return tournament, len(fixtures), nil
}

func (s *tournamentService) Standings(ctx context.Context, tournamentID int) ([]models.StandingRow, error) {
	if _, err := s.getTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	registrations, err := s.registrationRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	matches, err := s.listConfirmedGroupMatches(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return ComputeStandings(registrations, matches), nil
}

// ComputeStandings сортирует участников группового этапа: очки, затем
// разница сетов, разница очков и общее число выигранных очков, всё по
// убыванию. Сортировка стабильная, полные совпадения сохраняют порядок
// регистрации. В колонки В/П/И идут только подтверждённые матчи; форфейт
// приносит победителю очки, но сыгранным матчем не считается.
func ComputeStandings(registrations []*models.Registration, groupMatches []*models.Match) []models.StandingRow {
	rows := make([]models.StandingRow, len(registrations))
	byUser := make(map[int]*models.StandingRow, len(registrations))
	for i, reg := range registrations {
		rows[i] = models.StandingRow{
			Registration: reg,
			GroupPoints:  reg.GroupPoints,
			SetDiff:      reg.SetDifference(),
			PointDiff:    reg.PointDifference(),
		}
		byUser[reg.UserID] = &rows[i]
	}

	for _, match := range groupMatches {
		if match.WinnerID == nil || match.Status != models.MatchConfirmed {
			continue
		}
		winner, loser := byUser[*match.WinnerID], byUser[match.LoserID()]
		if winner != nil {
			winner.Played++
			winner.Won++
		}
		if loser != nil {
			loser.Played++
			loser.Lost++
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.GroupPoints != b.GroupPoints {
			return a.GroupPoints > b.GroupPoints
		}
		if a.SetDiff != b.SetDiff {
			return a.SetDiff > b.SetDiff
		}
		if a.PointDiff != b.PointDiff {
			return a.PointDiff > b.PointDiff
		}
		return a.Registration.PointsWon > b.Registration.PointsWon
	})

	for i := range rows {
		rows[i].Position = i + 1
	}
	return rows
}

// StartPlayoffs фиксирует посев по итоговой таблице группы и создаёт первый
// матч гонтлета: два худших по посеву начинают, победитель идёт дальше.
func (s *tournamentService) StartPlayoffs(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	tournament, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Status != models.StatusGroupStage {
		return nil, ErrInvalidStatusTransition
	}

	// Спорный матч блокирует посев наравне с несыгранным: пока админ его не
	// разрешит, итог группы не зафиксирован.
	groupPhase := models.PhaseGroup
	unfinished, err := s.matchRepo.CountByTournament(ctx, tournamentID, repositories.MatchFilter{
		Phase:    &groupPhase,
		Statuses: []models.MatchStatus{models.MatchScheduled, models.MatchPendingConfirmation, models.MatchDisputed},
	})
	if err != nil {
		return nil, err
	}
	if unfinished > 0 {
		return nil, ErrGroupMatchesPending
	}

	registrations, err := s.registrationRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	matches, err := s.listConfirmedGroupMatches(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	standings := ComputeStandings(registrations, matches)

	seededIDs := make([]int, len(standings))
	for i, row := range standings {
		seededIDs[i] = row.Registration.UserID
	}

	first, err := brackets.FirstPairing(seededIDs)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin playoffs transaction: %w", err)
	}
	defer tx.Rollback()

	for _, row := range standings {
		err := s.registrationRepo.SetSeedAndGroupPosition(ctx, tx, row.Registration.UserID, tournamentID, row.Position, row.Position)
		if err != nil {
			return nil, err
		}
	}

	round, position := first.BracketRound, first.BracketPosition
	match := &models.Match{
		TournamentID:    &tournamentID,
		Player1ID:       first.Player1ID,
		Player2ID:       first.Player2ID,
		Phase:           models.PhasePlayoff,
		BracketRound:    &round,
		BracketPosition: &position,
		Status:          models.MatchScheduled,
	}
	if err := s.matchRepo.Create(ctx, tx, match); err != nil {
		return nil, err
	}
	if err := s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, models.StatusPlayoffs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit playoffs transaction: %w", err)
	}

	tournament.Status = models.StatusPlayoffs

	s.logger.InfoContext(ctx, "playoffs started",
		slog.Int("tournament_id", tournamentID),
		slog.Int("players", len(seededIDs)),
	)
	s.broadcast(tournamentID, brackets.EventPlayoffsStarted, map[string]interface{}{
		"tournament_id": tournamentID,
		"first_match":   match,
	})
	return tournament, nil
}

func (s *tournamentService) AdvancePlayoffWinner(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) (bool, error) {
	if match.TournamentID == nil || match.BracketRound == nil || match.WinnerID == nil {
		return false, ErrMatchMissingWinner
	}
	tournamentID := *match.TournamentID

	seeded, err := s.registrationRepo.ListByTournamentOrderBySeed(ctx, tournamentID)
	if err != nil {
		return false, err
	}
	seededIDs := make([]int, 0, len(seeded))
	for _, reg := range seeded {
		if reg.Seed != nil {
			seededIDs = append(seededIDs, reg.UserID)
		}
	}

	loserID := match.LoserID()
	if err := s.registrationRepo.MarkEliminated(ctx, exec, loserID, tournamentID); err != nil {
		return false, err
	}

	advancement, err := brackets.AdvanceWinner(seededIDs, *match.BracketRound, *match.WinnerID)
	if err != nil {
		return false, err
	}

	if advancement.Championship {
		if err := s.completeTournament(ctx, exec, tournamentID, match); err != nil {
			return false, err
		}
		return true, nil
	}

	round, position := advancement.Next.BracketRound, advancement.Next.BracketPosition
	next := &models.Match{
		TournamentID:    &tournamentID,
		Player1ID:       advancement.Next.Player1ID,
		Player2ID:       advancement.Next.Player2ID,
		Phase:           models.PhasePlayoff,
		BracketRound:    &round,
		BracketPosition: &position,
		Status:          models.MatchScheduled,
	}
	if err := s.matchRepo.Create(ctx, exec, next); err != nil {
		return false, err
	}
	return false, nil
}

// CompleteTournament закрывает турнир по сыгранному финалу. Требует статус
// плей-офф и подтверждённый (или форфейтный) чемпионский матч — последний
// раунд гонтлета; иначе закрывать нечего.
func (s *tournamentService) CompleteTournament(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	tournament, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Status != models.StatusPlayoffs {
		return nil, ErrInvalidStatusTransition
	}

	seeded, err := s.registrationRepo.ListByTournamentOrderBySeed(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	seededCount := 0
	for _, reg := range seeded {
		if reg.Seed != nil {
			seededCount++
		}
	}
	championshipRound := seededCount - 1

	playoffPhase := models.PhasePlayoff
	finished, err := s.matchRepo.ListByTournament(ctx, tournamentID, repositories.MatchFilter{
		Phase:    &playoffPhase,
		Statuses: []models.MatchStatus{models.MatchConfirmed, models.MatchWalkover},
	})
	if err != nil {
		return nil, err
	}

	var finalMatch *models.Match
	for _, m := range finished {
		if m.WinnerID != nil && m.BracketRound != nil && *m.BracketRound == championshipRound {
			finalMatch = m
			break
		}
	}
	if championshipRound < 1 || finalMatch == nil {
		return nil, ErrChampionshipUnresolved
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin completion transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.completeTournament(ctx, tx, tournamentID, finalMatch); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit completion transaction: %w", err)
	}

	s.broadcast(tournamentID, brackets.EventTournamentCompleted, map[string]interface{}{
		"tournament_id": tournamentID,
		"champion_id":   *finalMatch.WinnerID,
	})
	return s.getTournament(ctx, tournamentID)
}

// completeTournament раздаёт итоговые места и закрывает турнир. Выполняется
// в той же транзакции, что и подтверждение финального матча.
func (s *tournamentService) completeTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, finalMatch *models.Match) error {
	championID := *finalMatch.WinnerID
	runnerUpID := finalMatch.LoserID()

	playoffPhase := models.PhasePlayoff
	finished, err := s.matchRepo.ListByTournament(ctx, tournamentID, repositories.MatchFilter{
		Phase:    &playoffPhase,
		Statuses: []models.MatchStatus{models.MatchConfirmed, models.MatchWalkover},
	})
	if err != nil {
		return err
	}

	eliminations := make([]brackets.Elimination, 0, len(finished))
	for _, m := range finished {
		if m.WinnerID == nil || m.BracketRound == nil || m.ID == finalMatch.ID {
			continue
		}
		eliminations = append(eliminations, brackets.Elimination{
			PlayerID: m.LoserID(),
			Round:    *m.BracketRound,
		})
	}

	positions := brackets.FinalPositions(championID, runnerUpID, eliminations)
	for userID, position := range positions {
		if err := s.registrationRepo.SetFinalPosition(ctx, exec, userID, tournamentID, position); err != nil {
			return err
		}
		winner := &models.TournamentWinner{
			TournamentID: tournamentID,
			UserID:       userID,
			Position:     position,
		}
		if err := s.winnerRepo.Create(ctx, exec, winner); err != nil {
			return err
		}
	}

	if err := s.tournamentRepo.UpdateStatus(ctx, exec, tournamentID, models.StatusCompleted); err != nil {
		return err
	}
	if err := s.tournamentRepo.SetCompletedAt(ctx, exec, tournamentID, time.Now().UTC()); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "tournament completed",
		slog.Int("tournament_id", tournamentID),
		slog.Int("champion_id", championID),
	)
	return nil
}

func (s *tournamentService) Cancel(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	tournament, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	switch tournament.Status {
	case models.StatusCompleted:
		return nil, ErrTournamentAlreadyDone
	case models.StatusCancelled:
		return nil, ErrTournamentAlreadyCancelled
	}
	if err := s.tournamentRepo.UpdateStatus(ctx, s.db, tournamentID, models.StatusCancelled); err != nil {
		return nil, err
	}
	tournament.Status = models.StatusCancelled

	s.logger.InfoContext(ctx, "tournament cancelled", slog.Int("tournament_id", tournamentID))
	return tournament, nil
}

func (s *tournamentService) Delete(ctx context.Context, tournamentID int) error {
	if err := s.tournamentRepo.Delete(ctx, s.db, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	}
	s.logger.InfoContext(ctx, "tournament deleted", slog.Int("tournament_id", tournamentID))
	return nil
}

func (s *tournamentService) Winners(ctx context.Context, tournamentID int) ([]*models.TournamentWinner, error) {
	if _, err := s.getTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	return s.winnerRepo.ListByTournament(ctx, tournamentID)
}

func (s *tournamentService) getTournament(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) listConfirmedGroupMatches(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	groupPhase := models.PhaseGroup
	return s.matchRepo.ListByTournament(ctx, tournamentID, repositories.MatchFilter{
		Phase:    &groupPhase,
		Statuses: []models.MatchStatus{models.MatchConfirmed},
	})
}

func (s *tournamentService) broadcast(tournamentID int, eventType string, payload interface{}) {
	if s.hub == nil {
		return
	}
	room := brackets.TournamentRoom(tournamentID)
	s.hub.BroadcastToRoom(room, brackets.TournamentEvent{
		Type:    eventType,
		Payload: payload,
		RoomID:  room,
	})
}
