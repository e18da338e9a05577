package brackets

import (
	"errors"
	"fmt"
)

// Fixture is one scheduled group-stage pairing. FixtureNumber is 1 for the
// first leg and 2 for the return leg of a double round-robin.
type Fixture struct {
	Player1ID     int
	Player2ID     int
	Round         int
	FixtureNumber int
}

var ErrNotEnoughPlayers = errors.New("not enough players to generate a schedule (minimum 2 required)")

// GenerateRoundRobin builds a single round-robin schedule for the given
// players using the circle method: the first player stays fixed while the
// rest rotate. With an odd player count a bye slot is added; bye pairings are
// never emitted. The result is ordered round by round, so every player
// appears at most once per round before anyone plays a second match.
//
// For n players this yields n-1 rounds of floor(n/2) matches, n*(n-1)/2 in
// total.
func GenerateRoundRobin(playerIDs []int) ([]Fixture, error) {
	if len(playerIDs) < 2 {
		return nil, fmt.Errorf("%w: found %d", ErrNotEnoughPlayers, len(playerIDs))
	}

	// Work on a copy; 0 marks the bye slot.
	ids := make([]int, len(playerIDs))
	copy(ids, playerIDs)
	if len(ids)%2 == 1 {
		ids = append(ids, 0)
	}
	n := len(ids)

	fixtures := make([]Fixture, 0, n*(n-1)/2)
	for round := 1; round <= n-1; round++ {
		for i := 0; i < n/2; i++ {
			p1 := ids[i]
			p2 := ids[n-1-i]
			if p1 != 0 && p2 != 0 {
				fixtures = append(fixtures, Fixture{
					Player1ID:     p1,
					Player2ID:     p2,
					Round:         round,
					FixtureNumber: 1,
				})
			}
		}

		// Rotate clockwise keeping ids[0] fixed.
		rotated := make([]int, 0, n)
		rotated = append(rotated, ids[0], ids[n-1])
		rotated = append(rotated, ids[1:n-1]...)
		ids = rotated
	}

	return fixtures, nil
}

// GenerateDoubleRoundRobin duplicates the single round-robin schedule with
// sides swapped as the return leg, preserving round order for both legs.
// Total output for n players is n*(n-1) fixtures.
func GenerateDoubleRoundRobin(playerIDs []int) ([]Fixture, error) {
	first, err := GenerateRoundRobin(playerIDs)
	if err != nil {
		return nil, err
	}

	fixtures := make([]Fixture, 0, len(first)*2)
	fixtures = append(fixtures, first...)
	for _, f := range first {
		fixtures = append(fixtures, Fixture{
			Player1ID:     f.Player2ID,
			Player2ID:     f.Player1ID,
			Round:         f.Round,
			FixtureNumber: 2,
		})
	}
	return fixtures, nil
}
