package services

import (
	"context"
	"errors"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/spinroom/tournament-manager/models"
	"github.com/spinroom/tournament-manager/repositories"
)

const streakSampleSize = 50

// UserStats — сводка по игроку для профиля и дашборда.
type UserStats struct {
	User          *models.User `json:"user"`
	Wins          int          `json:"wins"`
	Losses        int          `json:"losses"`
	Played        int          `json:"played"`
	WinRate       float64      `json:"win_rate"`
	CurrentStreak int          `json:"current_streak"` // >0 серия побед, <0 серия поражений
}

type LeaderboardEntry struct {
	User    *models.User `json:"user"`
	Wins    int          `json:"wins"`
	Losses  int          `json:"losses"`
	WinRate float64      `json:"win_rate"`
}

type HeadToHeadReport struct {
	User1     *models.User    `json:"user1"`
	User2     *models.User    `json:"user2"`
	User1Wins int             `json:"user1_wins"`
	User2Wins int             `json:"user2_wins"`
	Matches   []*models.Match `json:"matches"`
}

// HallOfFameEntry — медальный зачёт игрока по всем завершённым турнирам.
type HallOfFameEntry struct {
	User   *models.User `json:"user"`
	Gold   int          `json:"gold"`
	Silver int          `json:"silver"`
	Bronze int          `json:"bronze"`
}

// TournamentRecord — участие игрока в одном турнире.
type TournamentRecord struct {
	Tournament   *models.Tournament   `json:"tournament"`
	Registration *models.Registration `json:"registration"`
}

type MatchHistoryPage struct {
	Matches []*models.Match `json:"matches"`
	Total   int             `json:"total"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
}

type StatsService interface {
	UserStats(ctx context.Context, userID int) (*UserStats, error)
	GlobalLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	HeadToHead(ctx context.Context, user1ID, user2ID int) (*HeadToHeadReport, error)
	HallOfFame(ctx context.Context) ([]HallOfFameEntry, error)
	UserTournamentHistory(ctx context.Context, userID int) ([]TournamentRecord, error)
	MatchHistory(ctx context.Context, tournamentID, userID *int, page, perPage int) (*MatchHistoryPage, error)
}

type statsService struct {
	userRepo         repositories.UserRepository
	matchRepo        repositories.MatchRepository
	registrationRepo repositories.RegistrationRepository
	tournamentRepo   repositories.TournamentRepository
	winnerRepo       repositories.WinnerRepository
}

func NewStatsService(
	userRepo repositories.UserRepository,
	matchRepo repositories.MatchRepository,
	registrationRepo repositories.RegistrationRepository,
	tournamentRepo repositories.TournamentRepository,
	winnerRepo repositories.WinnerRepository,
) StatsService {
	return &statsService{
		userRepo:         userRepo,
		matchRepo:        matchRepo,
		registrationRepo: registrationRepo,
		tournamentRepo:   tournamentRepo,
		winnerRepo:       winnerRepo,
	}
}

// UserStats собирает счётчики и серию параллельно.
func (s *statsService) UserStats(ctx context.Context, userID int) (*UserStats, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &UserStats{User: user}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		wins, err := s.matchRepo.CountConfirmedWins(gctx, userID, nil)
		if err != nil {
			return err
		}
		stats.Wins = wins
		return nil
	})
	g.Go(func() error {
		losses, err := s.matchRepo.CountConfirmedLosses(gctx, userID, nil)
		if err != nil {
			return err
		}
		stats.Losses = losses
		return nil
	})
	g.Go(func() error {
		recent, err := s.matchRepo.ListConfirmedByUser(gctx, userID, streakSampleSize)
		if err != nil {
			return err
		}
		stats.CurrentStreak = currentStreak(userID, recent)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.Played = stats.Wins + stats.Losses
	stats.WinRate = winRate(stats.Wins, stats.Played)
	return stats, nil
}

// currentStreak считает серию по матчам, отсортированным от новых к старым.
func currentStreak(userID int, recent []*models.Match) int {
	streak := 0
	for i, match := range recent {
		if match.WinnerID == nil {
			break
		}
		won := *match.WinnerID == userID
		if i == 0 {
			if won {
				streak = 1
			} else {
				streak = -1
			}
			continue
		}
		if won && streak > 0 {
			streak++
		} else if !won && streak < 0 {
			streak--
		} else {
			break
		}
	}
	return streak
}

// GlobalLeaderboard ранжирует игроков по числу побед, при равенстве — по
// проценту побед.
func (s *statsService) GlobalLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, user := range users {
		i, user := i, user
		g.Go(func() error {
			wins, err := s.matchRepo.CountConfirmedWins(gctx, user.ID, nil)
			if err != nil {
				return err
			}
			losses, err := s.matchRepo.CountConfirmedLosses(gctx, user.ID, nil)
			if err != nil {
				return err
			}
			entries[i] = LeaderboardEntry{
				User:    user,
				Wins:    wins,
				Losses:  losses,
				WinRate: winRate(wins, wins+losses),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Wins != entries[j].Wins {
			return entries[i].Wins > entries[j].Wins
		}
		return entries[i].WinRate > entries[j].WinRate
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *statsService) HeadToHead(ctx context.Context, user1ID, user2ID int) (*HeadToHeadReport, error) {
	report := &HeadToHeadReport{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		user, err := s.getUser(gctx, user1ID)
		if err != nil {
			return err
		}
		report.User1 = user
		return nil
	})
	g.Go(func() error {
		user, err := s.getUser(gctx, user2ID)
		if err != nil {
			return err
		}
		report.User2 = user
		return nil
	})
	g.Go(func() error {
		matches, err := s.matchRepo.ListConfirmedBetween(gctx, user1ID, user2ID)
		if err != nil {
			return err
		}
		report.Matches = matches
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, match := range report.Matches {
		if match.WinnerID == nil {
			continue
		}
		if *match.WinnerID == user1ID {
			report.User1Wins++
		} else if *match.WinnerID == user2ID {
			report.User2Wins++
		}
	}
	return report, nil
}

// HallOfFame — медальный зачёт: золото, при равенстве серебро, затем бронза.
func (s *statsService) HallOfFame(ctx context.Context) ([]HallOfFameEntry, error) {
	podiums, err := s.winnerRepo.ListPodiums(ctx)
	if err != nil {
		return nil, err
	}

	byUser := make(map[int]*HallOfFameEntry)
	order := make([]int, 0)
	for _, podium := range podiums {
		entry, ok := byUser[podium.UserID]
		if !ok {
			user, err := s.getUser(ctx, podium.UserID)
			if err != nil {
				if errors.Is(err, ErrUserNotFound) {
					continue
				}
				return nil, err
			}
			entry = &HallOfFameEntry{User: user}
			byUser[podium.UserID] = entry
			order = append(order, podium.UserID)
		}
		switch podium.Position {
		case 1:
			entry.Gold++
		case 2:
			entry.Silver++
		case 3:
			entry.Bronze++
		}
	}

	entries := make([]HallOfFameEntry, 0, len(order))
	for _, userID := range order {
		entries = append(entries, *byUser[userID])
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Gold != entries[j].Gold {
			return entries[i].Gold > entries[j].Gold
		}
		if entries[i].Silver != entries[j].Silver {
			return entries[i].Silver > entries[j].Silver
		}
		return entries[i].Bronze > entries[j].Bronze
	})
	return entries, nil
}

func (s *statsService) UserTournamentHistory(ctx context.Context, userID int) ([]TournamentRecord, error) {
	if _, err := s.getUser(ctx, userID); err != nil {
		return nil, err
	}
	registrations, err := s.registrationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	records := make([]TournamentRecord, 0, len(registrations))
	for _, reg := range registrations {
		tournament, err := s.tournamentRepo.GetByID(ctx, reg.TournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				continue
			}
			return nil, err
		}
		records = append(records, TournamentRecord{
			Tournament:   tournament,
			Registration: reg,
		})
	}
	return records, nil
}

func (s *statsService) MatchHistory(ctx context.Context, tournamentID, userID *int, page, perPage int) (*MatchHistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	offset := (page - 1) * perPage

	matches, total, err := s.matchRepo.ListConfirmedPage(ctx, tournamentID, userID, perPage, offset)
	if err != nil {
		return nil, err
	}
	return &MatchHistoryPage{
		Matches: matches,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}, nil
}

func (s *statsService) getUser(ctx context.Context, userID int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func winRate(wins, played int) float64 {
	if played == 0 {
		return 0
	}
	return float64(wins) / float64(played)
}
