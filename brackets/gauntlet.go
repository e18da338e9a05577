package brackets

import (
	"fmt"
	"sort"
)

// The gauntlet is a seeded single-elimination ladder: the two lowest seeds
// meet in round 1 and each winner challenges the next-better seed, until the
// survivor faces seed #1 in the championship. For n players there are
// exactly n-1 matches.

// Pairing is a playoff match to be created.
type Pairing struct {
	Player1ID       int // the challenger (round winner)
	Player2ID       int // the next seed in line
	BracketRound    int
	BracketPosition int
}

// Advancement describes what follows a confirmed playoff match: either the
// next pairing, or the fact that the confirmed match was the championship.
type Advancement struct {
	Championship bool
	Next         Pairing
}

// GauntletOrder reverses the seed list. seededPlayerIDs must be ordered by
// seed ascending (#1 first); the result starts with the lowest seed, which
// is who round 1 begins with.
func GauntletOrder(seededPlayerIDs []int) []int {
	order := make([]int, len(seededPlayerIDs))
	for i, id := range seededPlayerIDs {
		order[len(seededPlayerIDs)-1-i] = id
	}
	return order
}

// FirstPairing returns the opening match of the gauntlet: lowest seed
// against second-lowest.
func FirstPairing(seededPlayerIDs []int) (Pairing, error) {
	if len(seededPlayerIDs) < 2 {
		return Pairing{}, fmt.Errorf("%w: found %d", ErrNotEnoughPlayers, len(seededPlayerIDs))
	}
	order := GauntletOrder(seededPlayerIDs)
	return Pairing{
		Player1ID:       order[0],
		Player2ID:       order[1],
		BracketRound:    1,
		BracketPosition: 1,
	}, nil
}

// AdvanceWinner computes the follow-up to a confirmed match of the given
// round. When the next round number exceeds n-1 the confirmed match was the
// championship and no pairing is returned; otherwise the winner challenges
// the seed at the next gauntlet position.
func AdvanceWinner(seededPlayerIDs []int, confirmedRound, winnerID int) (Advancement, error) {
	n := len(seededPlayerIDs)
	if n < 2 {
		return Advancement{}, fmt.Errorf("%w: found %d", ErrNotEnoughPlayers, n)
	}
	if confirmedRound < 1 || confirmedRound > n-1 {
		return Advancement{}, fmt.Errorf("bracket round %d out of range for %d players", confirmedRound, n)
	}

	nextRound := confirmedRound + 1
	if nextRound > n-1 {
		return Advancement{Championship: true}, nil
	}

	order := GauntletOrder(seededPlayerIDs)
	return Advancement{
		Next: Pairing{
			Player1ID:       winnerID,
			Player2ID:       order[nextRound], // nextRound is the 0-indexed gauntlet position
			BracketRound:    nextRound,
			BracketPosition: 1,
		},
	}, nil
}

// Elimination records the round in which a player lost a playoff match.
type Elimination struct {
	PlayerID int
	Round    int
}

// FinalPositions assigns final standings once the championship is decided:
// champion 1, runner-up 2, then everyone else ordered by elimination round
// descending (a later exit ranks higher). Ties within the same round keep
// their input order.
func FinalPositions(championID, runnerUpID int, eliminated []Elimination) map[int]int {
	positions := map[int]int{
		championID: 1,
		runnerUpID: 2,
	}

	rest := make([]Elimination, 0, len(eliminated))
	for _, e := range eliminated {
		if _, taken := positions[e.PlayerID]; !taken {
			rest = append(rest, e)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].Round > rest[j].Round
	})

	position := 3
	for _, e := range rest {
		positions[e.PlayerID] = position
		position++
	}
	return positions
}
