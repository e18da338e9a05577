package models

import "time"

// MatchPhase — фаза матча.
type MatchPhase string

const (
	PhaseGroup   MatchPhase = "group"
	PhasePlayoff MatchPhase = "playoff"
	PhaseFree    MatchPhase = "free"
)

// MatchStatus — статусы матча, соответствующие ENUM в БД.
type MatchStatus string

const (
	MatchScheduled           MatchStatus = "scheduled"
	MatchPendingConfirmation MatchStatus = "pending_confirmation"
	MatchConfirmed           MatchStatus = "confirmed"
	MatchDisputed            MatchStatus = "disputed"
	MatchCancelled           MatchStatus = "cancelled"
	MatchWalkover            MatchStatus = "walkover"
)

// Match — одна встреча двух игроков. TournamentID равен nil для свободных
// (challenge) матчей вне турниров.
type Match struct {
	ID           int  `json:"id" db:"id"`
	TournamentID *int `json:"tournament_id,omitempty" db:"tournament_id"`
	Player1ID    int  `json:"player1_id" db:"player1_id"`
	Player2ID    int  `json:"player2_id" db:"player2_id"`

	Phase           MatchPhase `json:"phase" db:"phase"`
	FixtureNumber   *int       `json:"fixture_number,omitempty" db:"fixture_number"`    // групповой этап: 1 = первый круг, 2 = ответный
	BracketRound    *int       `json:"bracket_round,omitempty" db:"bracket_round"`      // только плей-офф
	BracketPosition *int       `json:"bracket_position,omitempty" db:"bracket_position"`

	Status   MatchStatus `json:"status" db:"status"`
	WinnerID *int        `json:"winner_id,omitempty" db:"winner_id"`

	// Аудит цикла подтверждения результата.
	SubmittedByID *int       `json:"submitted_by_id,omitempty" db:"submitted_by_id"`
	ConfirmedByID *int       `json:"confirmed_by_id,omitempty" db:"confirmed_by_id"`
	SubmittedAt   *time.Time `json:"submitted_at,omitempty" db:"submitted_at"`
	ConfirmedAt   *time.Time `json:"confirmed_at,omitempty" db:"confirmed_at"`
	PlayedAt      *time.Time `json:"played_at,omitempty" db:"played_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	SetScores []SetScore `json:"set_scores,omitempty" db:"-"`
	Player1   *User      `json:"player1,omitempty" db:"-"`
	Player2   *User      `json:"player2,omitempty" db:"-"`
}

func (m *Match) IsGroupMatch() bool {
	return m.Phase == PhaseGroup
}

func (m *Match) IsPlayoffMatch() bool {
	return m.Phase == PhasePlayoff
}

// IsParticipant сообщает, играет ли пользователь в этом матче.
func (m *Match) IsParticipant(userID int) bool {
	return m.Player1ID == userID || m.Player2ID == userID
}

// OpponentOf возвращает id соперника для данного участника, либо 0.
func (m *Match) OpponentOf(userID int) int {
	switch userID {
	case m.Player1ID:
		return m.Player2ID
	case m.Player2ID:
		return m.Player1ID
	}
	return 0
}

// LoserID возвращает id проигравшего, либо 0, если победитель не назначен.
func (m *Match) LoserID() int {
	if m.WinnerID == nil {
		return 0
	}
	return m.OpponentOf(*m.WinnerID)
}

// SetScore — счёт одного сета. Уникален по паре (match_id, set_number).
type SetScore struct {
	ID           int `json:"id" db:"id"`
	MatchID      int `json:"match_id" db:"match_id"`
	SetNumber    int `json:"set_number" db:"set_number"`
	Player1Score int `json:"player1_score" db:"player1_score"`
	Player2Score int `json:"player2_score" db:"player2_score"`
}

func (s SetScore) WinnerIsPlayer1() bool {
	return s.Player1Score > s.Player2Score
}
