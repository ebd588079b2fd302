package report

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"freebet-arb/internal/strategy"
	"freebet-arb/internal/sweep"
)

// Reporter prints the intermediate distributions of an evaluation and the
// results of a sweep. It satisfies strategy.Reporter.
type Reporter struct {
	log *zap.SugaredLogger
}

// NewReporter creates a reporter writing to log
func NewReporter(log *zap.SugaredLogger) *Reporter {
	return &Reporter{log: log}
}

// FormatPercent renders a fraction as a percentage with one decimal place.
// Example: 0.082 → "8.2%"
func FormatPercent(x float64) string {
	return fmt.Sprintf("%.1f%%", x*100)
}

// Stages logs each round-1 result and the credit outcomes that follow it
func (r *Reporter) Stages(stages []strategy.Stage) {
	r.log.Info("Profits broken down by stage")
	for _, st := range stages {
		r.log.Infow("stage",
			"round1Wins", st.Round1Wins,
			"credits", st.Credits,
			"profit", st.Profit,
			"prob", st.Prob,
			"creditProfits", formatCredits(st.Credit),
		)
	}
}

func formatCredits(credits []strategy.CreditOutcome) string {
	if len(credits) == 0 {
		return "[]"
	}
	parts := make([]string, 0, len(credits))
	for _, c := range credits {
		parts = append(parts, fmt.Sprintf("{wins=%d prob=%g profit=%g}", c.Wins, c.Prob, c.Profit))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Outcomes logs the joint distribution, keyed by (round 1 wins, round 2 wins, probability)
func (r *Reporter) Outcomes(outcomes []strategy.Outcome) {
	r.log.Info("Total profits, keyed by (Round 1 Wins, Round 2 Wins, Cumulative Probability)")
	for _, o := range outcomes {
		r.log.Infow("outcome",
			"key", fmt.Sprintf("(%d, %d, %g)", o.Round1Wins, o.Round2Wins, o.Prob),
			"profit", o.Profit,
		)
	}
}

// Summary logs both legs and the per-promotion expected values
func (r *Reporter) Summary(res strategy.Result) {
	r.leg("Round 1", res.Round1)
	r.leg("Round 2", res.Round2)
	r.log.Infof("Expected Profit (Per Promotion): %s", FormatPercent(res.EVPerPromotion))
	r.log.Infof("Risk-Adjusted Expected Profit (Per Promotion): %s", FormatPercent(res.RiskAdjustedEVPerPromotion))
}

func (r *Reporter) leg(round string, l strategy.Leg) {
	r.log.Infow(round,
		"underdog", l.Odds,
		"favourite", l.Favourite,
		"spread", l.Spread,
		"winProb", l.WinProb,
		"overround", FormatPercent(l.Overround),
		"fairWinProb", l.FairWinProb,
	)
}

// SweepResult logs the optimum cell and the value spread of a grid
func (r *Reporter) SweepResult(best sweep.Cell, s sweep.Summary) {
	r.log.Infow("Optimum odds",
		"odds1", best.Odds1,
		"odds2", best.Odds2,
		"value", FormatPercent(best.Value),
	)
	r.log.Infow("Grid summary",
		"cells", s.Cells,
		"min", FormatPercent(s.Min),
		"max", FormatPercent(s.Max),
		"mean", FormatPercent(s.Mean),
		"median", FormatPercent(s.Median),
	)
}

// LogStartup logs the tool name and its configuration
func (r *Reporter) LogStartup(tool, config string) {
	r.log.Infof("%s started |%s", tool, config)
}
