package odds

// Overround returns the bookmaker margin of a two-way market: the amount by which
// the implied probabilities of both sides exceed 1.
// Example: +150 / -170 → 0.4 + 0.6296 - 1 ≈ 0.0296
func Overround(oddsA, oddsB int) (float64, error) {
	impliedA, impliedB, err := impliedPair(oddsA, oddsB)
	if err != nil {
		return 0, err
	}
	return impliedA + impliedB - 1, nil
}

// RemoveVig removes the vig/juice from a two-way market
// Returns the true probabilities that sum to 1.0
//
// Method: Multiplicative vig removal (proportional)
// trueProbA = impliedA / (impliedA + impliedB)
// trueProbB = impliedB / (impliedA + impliedB)
func RemoveVig(impliedA, impliedB float64) (float64, float64) {
	if impliedA <= 0 || impliedB <= 0 {
		return 0, 0
	}
	total := impliedA + impliedB
	return impliedA / total, impliedB / total
}

// FairProbabilities converts both sides of a market to vig-free probabilities.
func FairProbabilities(oddsA, oddsB int) (float64, float64, error) {
	impliedA, impliedB, err := impliedPair(oddsA, oddsB)
	if err != nil {
		return 0, 0, err
	}
	a, b := RemoveVig(impliedA, impliedB)
	return a, b, nil
}

// impliedPair reads both quotes at face value, with no spread added back.
func impliedPair(oddsA, oddsB int) (float64, float64, error) {
	impliedA, err := OddsToProbability(oddsA, 0)
	if err != nil {
		return 0, 0, err
	}
	impliedB, err := OddsToProbability(oddsB, 0)
	if err != nil {
		return 0, 0, err
	}
	return impliedA, impliedB, nil
}
