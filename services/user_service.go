package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/spinroom/tournament-manager/models"
	"github.com/spinroom/tournament-manager/repositories"
)

const maxTaglineLength = 120

var ErrTaglineTooLong = errors.New("tagline must be at most 120 characters")

// UpdateProfileInput — частичное обновление профиля: nil-поля не трогаются.
type UpdateProfileInput struct {
	Username  *string `json:"username"`
	Tagline   *string `json:"tagline"`
	AvatarURL *string `json:"avatar_url"`
}

type UserService interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	UpdateProfile(ctx context.Context, userID int, input UpdateProfileInput) (*models.User, error)

	// Административные операции.
	SetAdmin(ctx context.Context, actorID, userID int, isAdmin bool) (*models.User, error)
	ResetPassword(ctx context.Context, userID int) (string, error)
	DeleteUser(ctx context.Context, actorID, userID int) error
}

type userService struct {
	db               *sql.DB
	userRepo         repositories.UserRepository
	registrationRepo repositories.RegistrationRepository
	logger           *slog.Logger
}

func NewUserService(
	db *sql.DB,
	userRepo repositories.UserRepository,
	registrationRepo repositories.RegistrationRepository,
	logger *slog.Logger,
) UserService {
	return &userService{
		db:               db,
		userRepo:         userRepo,
		registrationRepo: registrationRepo,
		logger:           logger,
	}
}

func (s *userService) GetByID(ctx context.Context, id int) (*models.User, error) {
	return s.getUser(ctx, id)
}

func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.List(ctx)
}

func (s *userService) UpdateProfile(ctx context.Context, userID int, input UpdateProfileInput) (*models.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if len(username) < minUsernameLength || len(username) > maxUsernameLength {
			return nil, ErrUsernameInvalid
		}
		user.Username = username
	}
	if input.Tagline != nil {
		if len(*input.Tagline) > maxTaglineLength {
			return nil, ErrTaglineTooLong
		}
		user.Tagline = input.Tagline
	}
	if input.AvatarURL != nil {
		user.AvatarURL = input.AvatarURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserUsernameConflict) {
			return nil, ErrUserUsernameConflict
		}
		return nil, err
	}
	return user, nil
}

// SetAdmin выдаёт или снимает права администратора. Себе менять права нельзя.
func (s *userService) SetAdmin(ctx context.Context, actorID, userID int, isAdmin bool) (*models.User, error) {
	if actorID == userID {
		return nil, ErrSelfAdminToggle
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.IsAdmin = isAdmin
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "admin flag changed",
		slog.Int("actor_id", actorID),
		slog.Int("user_id", userID),
		slog.Bool("is_admin", isAdmin),
	)
	return user, nil
}

// ResetPassword генерирует временный пароль и возвращает его открытым текстом
// один раз; дальше хранится только hash.
func (s *userService) ResetPassword(ctx context.Context, userID int) (string, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return "", err
	}

	raw := make([]byte, 8)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate temporary password: %w", err)
	}
	tempPassword := hex.EncodeToString(raw)

	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	user.PasswordHash = string(hash)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "password reset", slog.Int("user_id", userID))
	return tempPassword, nil
}

// DeleteUser удаляет аккаунт вместе с регистрациями. Сыгранные матчи — это
// неизменяемая история клуба: пользователя, на которого ссылается хоть один
// матч, удалить нельзя.
func (s *userService) DeleteUser(ctx context.Context, actorID, userID int) error {
	if actorID == userID {
		return ErrSelfDeletion
	}
	if _, err := s.getUser(ctx, userID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.registrationRepo.DeleteByUser(ctx, tx, userID); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, tx, userID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrUserNotFound):
			return ErrUserNotFound
		case errors.Is(err, repositories.ErrUserHasMatches):
			return ErrUserHasMatches
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "user deleted",
		slog.Int("actor_id", actorID),
		slog.Int("user_id", userID),
	)
	return nil
}

func (s *userService) getUser(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
