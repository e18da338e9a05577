package models

import "time"

// TournamentStatus представляет статусы жизненного цикла турнира, соответствующие ENUM в БД.
type TournamentStatus string

const (
	StatusRegistration TournamentStatus = "registration"
	StatusGroupStage   TournamentStatus = "group_stage"
	StatusPlayoffs     TournamentStatus = "playoffs"
	StatusCompleted    TournamentStatus = "completed"
	StatusCancelled    TournamentStatus = "cancelled"
)

// PlayoffFormat представляет формат плей-офф. Пока поддерживается только gauntlet.
type PlayoffFormat string

const (
	FormatGauntlet PlayoffFormat = "gauntlet"
)

// Tournament представляет клубный турнир.
type Tournament struct {
	ID            int              `json:"id" db:"id"`
	Name          string           `json:"name" db:"name"`
	Description   *string          `json:"description,omitempty" db:"description"`
	Status        TournamentStatus `json:"status" db:"status"`
	PlayoffFormat PlayoffFormat    `json:"playoff_format" db:"playoff_format"`
	SetsToWin     int              `json:"sets_to_win" db:"sets_to_win"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	StartedAt     *time.Time       `json:"started_at,omitempty" db:"started_at"`
	CompletedAt   *time.Time       `json:"completed_at,omitempty" db:"completed_at"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Registrations []Registration     `json:"registrations,omitempty" db:"-"`
	Matches       []Match            `json:"matches,omitempty" db:"-"`
	Winners       []TournamentWinner `json:"winners,omitempty" db:"-"`
}

// IsActive сообщает, идёт ли турнир (групповой этап или плей-офф).
func (t *Tournament) IsActive() bool {
	return t.Status == StatusGroupStage || t.Status == StatusPlayoffs
}

func (t *Tournament) IsRegistrationOpen() bool {
	return t.Status == StatusRegistration
}
