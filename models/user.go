package models

import (
	"hash/fnv"
	"time"
)

// DefaultEloRating — стартовый рейтинг каждого игрока.
const DefaultEloRating = 1200

type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	EloRating    int       `json:"elo_rating" db:"elo_rating"`
	Tagline      *string   `json:"tagline,omitempty" db:"tagline"`
	AvatarURL    *string   `json:"avatar_url,omitempty" db:"avatar_url"`
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var defaultTaglines = []string{
	"Spin to win",
	"Serve and destroy",
	"Edge ball specialist",
	"Backhand bandit",
	"The wall",
	"Chop chop",
	"Net cord lottery winner",
	"Forehand first, questions later",
}

// DisplayTagline возвращает tagline пользователя либо детерминированный
// дефолт, выбранный по id (один и тот же пользователь всегда получает одну
// и ту же подпись).
func (u *User) DisplayTagline() string {
	if u.Tagline != nil && *u.Tagline != "" {
		return *u.Tagline
	}
	h := fnv.New32a()
	h.Write([]byte{byte(u.ID), byte(u.ID >> 8), byte(u.ID >> 16), byte(u.ID >> 24)})
	return defaultTaglines[h.Sum32()%uint32(len(defaultTaglines))]
}
