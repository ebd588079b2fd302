package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"freebet-arb/internal/odds"
	"freebet-arb/internal/strategy"
	"freebet-arb/internal/sweep"
)

// Defaults for configuration values.
const (
	DefaultNumBets            = 1
	DefaultOdds1              = -100
	DefaultOdds2              = 1400
	DefaultRiskCoefficient    = strategy.DefaultRiskCoefficient
	DefaultPromoIncludesStake = false
	DefaultSelfHedging        = true
	DefaultStressTax          = 0.0
	DefaultOddsLower          = 100
	DefaultOddsUpper          = 400
	DefaultOddsStep           = 10
	DefaultSweepWorkers       = 8
	DefaultOutputDir          = "."
	DefaultRawPlotDir         = "raw_plots"
	DefaultCombinedPlotPath   = "combined_plots.js"
)

// Config holds all application configuration.
type Config struct {
	// Strategy settings
	NumBets            int
	Odds1              int
	Odds2              int
	RiskCoefficient    float64
	PromoIncludesStake bool
	SelfHedging        bool
	StressTax          float64

	// YAML breakpoint table; empty uses the built-in spread estimate
	SpreadTablePath string

	// Sweep settings
	OddsLower    int
	OddsUpper    int
	OddsStep     int
	SweepWorkers int

	// Output
	OutputDir        string
	RawPlotDir       string
	CombinedPlotPath string
}

// Load reads configuration from environment variables (and .env file if present).
func Load() Config {
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	cfg := Config{
		NumBets:            DefaultNumBets,
		Odds1:              DefaultOdds1,
		Odds2:              DefaultOdds2,
		RiskCoefficient:    DefaultRiskCoefficient,
		PromoIncludesStake: DefaultPromoIncludesStake,
		SelfHedging:        DefaultSelfHedging,
		StressTax:          DefaultStressTax,
		SpreadTablePath:    os.Getenv("SPREAD_TABLE_PATH"),
		OddsLower:          DefaultOddsLower,
		OddsUpper:          DefaultOddsUpper,
		OddsStep:           DefaultOddsStep,
		SweepWorkers:       DefaultSweepWorkers,
		OutputDir:          DefaultOutputDir,
		RawPlotDir:         DefaultRawPlotDir,
		CombinedPlotPath:   DefaultCombinedPlotPath,
	}

	setInt(&cfg.NumBets, "NUM_BETS")
	setInt(&cfg.Odds1, "ODDS1")
	setInt(&cfg.Odds2, "ODDS2")
	setFloat(&cfg.RiskCoefficient, "RISK_COEFF")
	setBool(&cfg.PromoIncludesStake, "PROMO_INCLUDES_STAKE")
	setBool(&cfg.SelfHedging, "SELF_HEDGING")
	setFloat(&cfg.StressTax, "STRESS_TAX")

	setInt(&cfg.OddsLower, "ODDS_LOWER")
	setInt(&cfg.OddsUpper, "ODDS_UPPER")
	setInt(&cfg.OddsStep, "ODDS_STEP")
	setInt(&cfg.SweepWorkers, "SWEEP_WORKERS")

	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("RAW_PLOT_DIR"); v != "" {
		cfg.RawPlotDir = v
	}
	if v := os.Getenv("COMBINED_PLOT_PATH"); v != "" {
		cfg.CombinedPlotPath = v
	}

	return cfg
}

// Unparseable values keep the default.
func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// Validate checks that configuration values are within acceptable ranges.
func Validate(cfg Config) error {
	if cfg.NumBets <= 0 {
		return fmt.Errorf("NUM_BETS must be positive, got %d", cfg.NumBets)
	}
	if cfg.Odds1 > -100 && cfg.Odds1 < 100 {
		return fmt.Errorf("ODDS1 must be <= -100 or >= 100, got %d", cfg.Odds1)
	}
	if cfg.Odds2 > -100 && cfg.Odds2 < 100 {
		return fmt.Errorf("ODDS2 must be <= -100 or >= 100, got %d", cfg.Odds2)
	}
	if cfg.StressTax < 0 {
		return fmt.Errorf("STRESS_TAX must be non-negative, got %f", cfg.StressTax)
	}
	if cfg.OddsLower < 100 {
		return fmt.Errorf("ODDS_LOWER must be at least 100, got %d", cfg.OddsLower)
	}
	if cfg.OddsUpper < cfg.OddsLower {
		return fmt.Errorf("ODDS_UPPER must be at least ODDS_LOWER (%d), got %d", cfg.OddsLower, cfg.OddsUpper)
	}
	if cfg.OddsStep <= 0 {
		return fmt.Errorf("ODDS_STEP must be positive, got %d", cfg.OddsStep)
	}
	if cfg.SweepWorkers <= 0 {
		return fmt.Errorf("SWEEP_WORKERS must be positive, got %d", cfg.SweepWorkers)
	}
	if cfg.RawPlotDir == "" {
		return fmt.Errorf("RAW_PLOT_DIR must not be empty")
	}
	if cfg.CombinedPlotPath == "" {
		return fmt.Errorf("COMBINED_PLOT_PATH must not be empty")
	}
	return nil
}

// SpreadFunc returns the spread estimate to evaluate with: the table at
// SpreadTablePath when set, otherwise the built-in one.
func (cfg Config) SpreadFunc() (odds.SpreadFunc, error) {
	if cfg.SpreadTablePath == "" {
		return odds.DefaultSpreadTable.Spread, nil
	}
	table, err := odds.LoadSpreadTable(cfg.SpreadTablePath)
	if err != nil {
		return nil, err
	}
	return table.Spread, nil
}

// Params builds the single-evaluation strategy.
func (cfg Config) Params(spread odds.SpreadFunc) strategy.Params {
	return strategy.Params{
		NumBets:            cfg.NumBets,
		Odds1:              cfg.Odds1,
		Odds2:              cfg.Odds2,
		Spread:             spread,
		PromoIncludesStake: cfg.PromoIncludesStake,
		Risk:               strategy.LinearRisk(cfg.RiskCoefficient),
		SelfHedging:        cfg.SelfHedging,
		StressTax:          cfg.StressTax,
	}
}

// Sweep builds the grid sweep settings.
func (cfg Config) Sweep(spread odds.SpreadFunc) sweep.Config {
	return sweep.Config{
		NumBets:            cfg.NumBets,
		RiskCoefficient:    cfg.RiskCoefficient,
		PromoIncludesStake: cfg.PromoIncludesStake,
		SelfHedging:        cfg.SelfHedging,
		StressTax:          cfg.StressTax,
		Spread:             spread,
		Lower:              cfg.OddsLower,
		Upper:              cfg.OddsUpper,
		Step:               cfg.OddsStep,
		Workers:            cfg.SweepWorkers,
	}
}

// Summary renders the settings for the startup log line.
func (cfg Config) Summary() string {
	return fmt.Sprintf(" bets=%d odds=(%d, %d) risk=%g stake=%t hedged=%t tax=%g",
		cfg.NumBets, cfg.Odds1, cfg.Odds2, cfg.RiskCoefficient,
		cfg.PromoIncludesStake, cfg.SelfHedging, cfg.StressTax)
}
