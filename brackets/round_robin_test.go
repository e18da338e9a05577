package brackets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRoundRobinPairCount(t *testing.T) {
	for n := 2; n <= 9; n++ {
		t.Run(fmt.Sprintf("%d_players", n), func(t *testing.T) {
			ids := make([]int, n)
			for i := range ids {
				ids[i] = i + 1
			}

			fixtures, err := GenerateRoundRobin(ids)
			require.NoError(t, err)
			assert.Len(t, fixtures, n*(n-1)/2)

			// Every unordered pair appears exactly once.
			seen := make(map[[2]int]int)
			for _, f := range fixtures {
				a, b := f.Player1ID, f.Player2ID
				if a > b {
					a, b = b, a
				}
				seen[[2]int{a, b}]++
			}
			for pair, count := range seen {
				assert.Equal(t, 1, count, "pair %v scheduled %d times", pair, count)
			}
			assert.Len(t, seen, n*(n-1)/2)
		})
	}
}

func TestGenerateRoundRobinOnePerRound(t *testing.T) {
	for _, n := range []int{2, 3, 4, 5, 6, 7, 8} {
		ids := make([]int, n)
		for i := range ids {
			ids[i] = 100 + i
		}

		fixtures, err := GenerateRoundRobin(ids)
		require.NoError(t, err)

		perRound := make(map[int]map[int]bool)
		for _, f := range fixtures {
			if perRound[f.Round] == nil {
				perRound[f.Round] = make(map[int]bool)
			}
			assert.False(t, perRound[f.Round][f.Player1ID],
				"player %d plays twice in round %d (n=%d)", f.Player1ID, f.Round, n)
			assert.False(t, perRound[f.Round][f.Player2ID],
				"player %d plays twice in round %d (n=%d)", f.Player2ID, f.Round, n)
			perRound[f.Round][f.Player1ID] = true
			perRound[f.Round][f.Player2ID] = true
		}
	}
}

func TestGenerateRoundRobinOrderedByRound(t *testing.T) {
	fixtures, err := GenerateRoundRobin([]int{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	lastRound := 1
	for _, f := range fixtures {
		assert.GreaterOrEqual(t, f.Round, lastRound)
		lastRound = f.Round
	}
	assert.Equal(t, 5, lastRound)
}

func TestGenerateRoundRobinTooFewPlayers(t *testing.T) {
	_, err := GenerateRoundRobin([]int{7})
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)

	_, err = GenerateRoundRobin(nil)
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)
}

func TestGenerateDoubleRoundRobin(t *testing.T) {
	for _, n := range []int{2, 3, 4, 5} {
		ids := make([]int, n)
		for i := range ids {
			ids[i] = i + 1
		}

		fixtures, err := GenerateDoubleRoundRobin(ids)
		require.NoError(t, err)
		assert.Len(t, fixtures, n*(n-1))

		firstLeg := fixtures[:len(fixtures)/2]
		returnLeg := fixtures[len(fixtures)/2:]
		for i, f := range firstLeg {
			assert.Equal(t, 1, f.FixtureNumber)
			r := returnLeg[i]
			assert.Equal(t, 2, r.FixtureNumber)
			assert.Equal(t, f.Player1ID, r.Player2ID, "return leg swaps sides")
			assert.Equal(t, f.Player2ID, r.Player1ID, "return leg swaps sides")
			assert.Equal(t, f.Round, r.Round, "return leg keeps round order")
		}
	}
}
