package odds

import (
	"fmt"
	"math"
)

// DefaultSpread is the bookmaker vig (in odds units) assumed when none is known.
const DefaultSpread = 20.0

func checkOdds(odds int) error {
	if abs(odds) < 100 {
		return fmt.Errorf("%w: you provided %d", ErrInvalidOdds, odds)
	}
	return nil
}

// OddsToProbability converts moneyline odds to an implied probability for a given spread.
// The spread lowers the payout below fair odds, so half of it is added back before
// converting. Adjusted odds landing inside (-100, 100) are shifted by 200.
// Example (spread 0): -150 → 0.6, +150 → 0.4
func OddsToProbability(odds int, spread float64) (float64, error) {
	if err := checkOdds(odds); err != nil {
		return 0, err
	}

	adjusted := float64(odds) + spread/2
	if math.Abs(adjusted) < 100 {
		adjusted += 200
	}

	if adjusted >= 100 {
		// Underdog: probability = 100 / (odds + 100)
		return 100 / (adjusted + 100), nil
	}
	// Favorite: probability = |odds| / (|odds| + 100)
	adjusted = math.Abs(adjusted)
	return adjusted / (100 + adjusted), nil
}

// ProbabilityToOdds converts a probability to moneyline odds, rounded to the nearest integer.
// Example: 0.5 → +100, 0.4 → +150, 0.6 → -150
func ProbabilityToOdds(p float64) (int, error) {
	if !(p > 0 && p < 1) {
		return 0, fmt.Errorf("%w: you provided p = %v", ErrInvalidProbability, p)
	}

	if p == 0.5 {
		return 100, nil
	}
	if p < 0.5 {
		return int(math.RoundToEven(100/p - 100)), nil
	}
	return -int(math.RoundToEven(100 * p / (1 - p))), nil
}

// ComplementaryOdds returns the moneyline odds of the opposite outcome for a given spread.
// A result that would fall into the invalid (-100, 100) gap is pushed through to the
// favorite side by the same distance.
func ComplementaryOdds(odds int, spread float64) (int, error) {
	p, err := OddsToProbability(odds, spread)
	if err != nil {
		return 0, err
	}

	fair, err := ProbabilityToOdds(1 - p)
	if err != nil {
		return 0, fmt.Errorf("complement of %d: %w", odds, err)
	}

	half := spread / 2
	if fair >= 100 && float64(fair)-half < 100 {
		diff := float64(fair - 100)
		return int(math.RoundToEven(-100 - half - diff)), nil
	}
	return int(math.RoundToEven(float64(fair) - half)), nil
}

// Payout returns what a $1 bet at the given odds pays on a win.
// With includeStake the stake is returned on top of the profit.
// Example: Payout(150, false) → 1.5, Payout(-200, true) → 1.5
func Payout(odds int, includeStake bool) (float64, error) {
	if err := checkOdds(odds); err != nil {
		return 0, err
	}

	var profit float64
	if odds >= 100 {
		profit = float64(odds) / 100
	} else {
		profit = 100 / float64(abs(odds))
	}

	if includeStake {
		return 1 + profit, nil
	}
	return profit, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
