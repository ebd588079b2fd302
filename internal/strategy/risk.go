package strategy

// DefaultRiskCoefficient is the loss multiplier most people land on.
const DefaultRiskCoefficient = 2.0

// RiskFunc maps a profit (or loss) to its risk-adjusted value.
type RiskFunc func(profit float64) float64

// LinearRisk returns a RiskFunc that keeps gains as-is and scales losses by lambda.
// lambda > 1 makes losses hurt more than equal gains help.
// Example: LinearRisk(2)(5) → 5, LinearRisk(2)(-5) → -10
func LinearRisk(lambda float64) RiskFunc {
	return func(x float64) float64 {
		if x > 0 {
			return x
		}
		return lambda * x
	}
}
