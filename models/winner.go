package models

import "time"

// TournamentWinner — итоговое место игрока в завершённом турнире.
// Уникален по (tournament_id, user_id) и по (tournament_id, position).
type TournamentWinner struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	UserID       int       `json:"user_id" db:"user_id"`
	Position     int       `json:"position" db:"position"` // 1 = чемпион, 2 = финалист, ...
	AwardedAt    time.Time `json:"awarded_at" db:"awarded_at"`

	User       *User       `json:"user,omitempty" db:"-"`
	Tournament *Tournament `json:"tournament,omitempty" db:"-"`
}
