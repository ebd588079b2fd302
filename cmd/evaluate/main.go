package main

import (
	"flag"

	"freebet-arb/internal/config"
	"freebet-arb/internal/logger"
	"freebet-arb/internal/report"
	"freebet-arb/internal/strategy"
)

func main() {
	cfg := config.Load()

	// Flags override the environment
	flag.IntVar(&cfg.NumBets, "bets", cfg.NumBets, "number of promotions")
	flag.IntVar(&cfg.Odds1, "odds1", cfg.Odds1, "American odds of the round 1 underdog")
	flag.IntVar(&cfg.Odds2, "odds2", cfg.Odds2, "American odds of the round 2 underdog")
	flag.Float64Var(&cfg.RiskCoefficient, "risk", cfg.RiskCoefficient, "loss multiplier for the risk adjustment")
	flag.BoolVar(&cfg.PromoIncludesStake, "stake", cfg.PromoIncludesStake, "a winning credit returns its stake")
	flag.BoolVar(&cfg.SelfHedging, "hedge", cfg.SelfHedging, "stake the favourite side in round 1")
	flag.Float64Var(&cfg.StressTax, "tax", cfg.StressTax, "stress tax subtracted from every outcome")
	flag.StringVar(&cfg.SpreadTablePath, "spreads", cfg.SpreadTablePath, "YAML spread table (default built-in)")
	flag.Parse()

	log := logger.New()
	defer log.Sync()

	if err := config.Validate(cfg); err != nil {
		log.Fatalw("Invalid configuration", "error", err)
	}

	spread, err := cfg.SpreadFunc()
	if err != nil {
		log.Fatalw("Loading spread table", "path", cfg.SpreadTablePath, "error", err)
	}

	reporter := report.NewReporter(log)
	reporter.LogStartup("evaluate", cfg.Summary())

	res, err := strategy.Evaluate(cfg.Params(spread), reporter)
	if err != nil {
		log.Fatalw("Evaluation failed", "error", err)
	}

	log.Infow("Evaluation complete",
		"outcomes", len(res.Outcomes),
		"ev", res.EV,
		"riskAdjustedEV", res.RiskAdjustedEV,
		"value", report.FormatPercent(res.Value()),
	)
}
