package odds

import "errors"

var (
	// ErrInvalidOdds is returned for moneyline odds with |odds| < 100.
	ErrInvalidOdds = errors.New("moneyline odds are always at least +-100")

	// ErrInvalidProbability is returned for probabilities outside (0, 1).
	ErrInvalidProbability = errors.New("probabilities must be in (0,1)")
)
