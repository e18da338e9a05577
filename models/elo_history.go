package models

import "time"

// EloHistory — неизменяемая запись об изменении рейтинга по итогам матча.
// Уникальна по паре (user_id, match_id); существование записи для матча
// служит защитой от повторного применения ELO.
type EloHistory struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	MatchID   int       `json:"match_id" db:"match_id"`
	EloBefore int       `json:"elo_before" db:"elo_before"`
	EloAfter  int       `json:"elo_after" db:"elo_after"`
	EloChange int       `json:"elo_change" db:"elo_change"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
