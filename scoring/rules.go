package scoring

import (
	"errors"

	"github.com/spinroom/tournament-manager/models"
)

var (
	ErrInvalidSetCount = errors.New("invalid number of sets for this match format")
	ErrInvalidSet      = errors.New("set score violates table tennis rules")
	ErrIncompleteMatch = errors.New("neither player has won enough sets")
)

// PlayerSlot identifies which side of a match won.
type PlayerSlot int

const (
	SlotPlayer1 PlayerSlot = 1
	SlotPlayer2 PlayerSlot = 2
)

// IsValidSet reports whether a single set score is legal: the higher score
// must reach at least 11 and lead by at least 2. There is no upper cap, a
// 25-23 deuce set is fine.
func IsValidSet(a, b int) bool {
	high, low := a, b
	if b > a {
		high, low = b, a
	}
	return high >= 11 && high-low >= 2
}

// MatchWinner determines the winning side of a best-of-N match.
// setsToWin is 1 for best-of-1 (exactly 1 set) or 2 for best-of-3 (2 or 3
// sets). Every set must be individually valid, and one side must reach
// setsToWin set wins.
func MatchWinner(sets []models.SetScore, setsToWin int) (PlayerSlot, error) {
	switch setsToWin {
	case 1:
		if len(sets) != 1 {
			return 0, ErrInvalidSetCount
		}
	case 2:
		if len(sets) < 2 || len(sets) > 3 {
			return 0, ErrInvalidSetCount
		}
	default:
		return 0, ErrInvalidSetCount
	}

	p1Sets, p2Sets := 0, 0
	for _, s := range sets {
		if !IsValidSet(s.Player1Score, s.Player2Score) {
			return 0, ErrInvalidSet
		}
		if s.WinnerIsPlayer1() {
			p1Sets++
		} else {
			p2Sets++
		}
	}

	if p1Sets >= setsToWin {
		return SlotPlayer1, nil
	}
	if p2Sets >= setsToWin {
		return SlotPlayer2, nil
	}
	return 0, ErrIncompleteMatch
}
