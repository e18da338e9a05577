package scoring

import (
	"math"

	"github.com/spinroom/tournament-manager/models"
)

// K-factor: higher = more rating volatility.
const (
	KFactorNormal   = 32
	KFactorWalkover = 16

	// EloFloor — rating never drops below this after a loss.
	EloFloor = 100
)

// ExpectedScore returns the probability (0..1) that a player with playerElo
// beats an opponent with opponentElo, per the standard logistic curve.
func ExpectedScore(playerElo, opponentElo int) float64 {
	return 1 / (1 + math.Pow(10, float64(opponentElo-playerElo)/400))
}

// MarginMultiplier scales the rating change by how dominant the win was,
// based on the recorded set scores viewed from the winner's side.
//
//   - 2-1 close match: ~1.0x
//   - 2-0 close match: ~1.2x
//   - 2-0 dominant match: ~1.4x
func MarginMultiplier(sets []models.SetScore, winnerIsPlayer1 bool) float64 {
	if len(sets) == 0 {
		return 1.0
	}

	winnerSets, loserSets := 0, 0
	winnerPoints, loserPoints := 0, 0
	for _, s := range sets {
		if winnerIsPlayer1 {
			winnerPoints += s.Player1Score
			loserPoints += s.Player2Score
			if s.WinnerIsPlayer1() {
				winnerSets++
			} else {
				loserSets++
			}
		} else {
			winnerPoints += s.Player2Score
			loserPoints += s.Player1Score
			if s.WinnerIsPlayer1() {
				loserSets++
			} else {
				winnerSets++
			}
		}
	}

	// Set difference component: 2-0 = +0.2, 2-1 = +0.0.
	setBonus := float64(winnerSets-loserSets-1) * 0.2

	// Point difference component: logarithmic, capped at +0.3.
	pointDiff := winnerPoints - loserPoints
	if pointDiff < 0 {
		pointDiff = 0
	}
	pointBonus := math.Min(0.3, math.Log(float64(pointDiff)+1)*0.08)

	return 1.0 + setBonus + pointBonus
}

// EloChange computes the rating deltas for the winner and the loser. The
// margin multiplier scales the K-factor; walkovers use the reduced K.
// The loser's delta is negative; clamping to the floor happens at the point
// where the rating is applied, not here.
func EloChange(winnerElo, loserElo int, marginMultiplier float64, isWalkover bool) (winnerChange, loserChange int) {
	k := float64(KFactorNormal)
	if isWalkover {
		k = KFactorWalkover
	}
	k *= marginMultiplier

	expectedWinner := ExpectedScore(winnerElo, loserElo)
	expectedLoser := 1 - expectedWinner

	winnerChange = int(math.Round(k * (1 - expectedWinner)))
	loserChange = int(math.Round(k * (0 - expectedLoser)))
	return winnerChange, loserChange
}

// ClampRating enforces the rating floor.
func ClampRating(rating int) int {
	if rating < EloFloor {
		return EloFloor
	}
	return rating
}
