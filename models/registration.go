package models

import "time"

// Registration связывает игрока с турниром и накапливает его статистику
// группового этапа. Уникальна по паре (user_id, tournament_id).
type Registration struct {
	ID           int `json:"id" db:"id"`
	UserID       int `json:"user_id" db:"user_id"`
	TournamentID int `json:"tournament_id" db:"tournament_id"`

	// Посев и позиции заполняются один раз при старте плей-офф / завершении.
	Seed          *int `json:"seed,omitempty" db:"seed"`
	GroupPosition *int `json:"group_position,omitempty" db:"group_position"`
	FinalPosition *int `json:"final_position,omitempty" db:"final_position"`

	// Статистика группового этапа: 2 очка за победу, 1 за обычное поражение,
	// 0 за поражение неявкой.
	GroupPoints int `json:"group_points" db:"group_points"`
	SetsWon     int `json:"sets_won" db:"sets_won"`
	SetsLost    int `json:"sets_lost" db:"sets_lost"`
	PointsWon   int `json:"points_won" db:"points_won"`
	PointsLost  int `json:"points_lost" db:"points_lost"`

	Eliminated   bool      `json:"eliminated" db:"eliminated"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`

	User *User `json:"user,omitempty" db:"-"`
}

func (r *Registration) SetDifference() int {
	return r.SetsWon - r.SetsLost
}

func (r *Registration) PointDifference() int {
	return r.PointsWon - r.PointsLost
}
