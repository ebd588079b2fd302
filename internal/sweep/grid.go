package sweep

import (
	"context"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"freebet-arb/internal/odds"
	"freebet-arb/internal/strategy"
)

// Config describes a sweep of the strategy over every (odds1, odds2) pair on a grid.
type Config struct {
	NumBets            int
	RiskCoefficient    float64
	PromoIncludesStake bool
	SelfHedging        bool
	StressTax          float64

	// Spread is passed through to the evaluator. nil uses the default table.
	Spread odds.SpreadFunc

	// Grid covers [-Upper, -Lower] and [Lower, Upper] in Step increments.
	Lower int
	Upper int
	Step  int

	Workers int
}

// DefaultConfig returns the grid used for the published charts.
func DefaultConfig() Config {
	return Config{
		NumBets:            1,
		RiskCoefficient:    strategy.DefaultRiskCoefficient,
		PromoIncludesStake: true,
		SelfHedging:        true,
		StressTax:          0,
		Lower:              100,
		Upper:              400,
		Step:               10,
		Workers:            8,
	}
}

// Validate checks that the grid is well formed.
func (c Config) Validate() error {
	if c.NumBets <= 0 {
		return fmt.Errorf("sweep NumBets must be positive, got %d", c.NumBets)
	}
	if c.Lower < 100 {
		return fmt.Errorf("sweep Lower must be at least 100, got %d", c.Lower)
	}
	if c.Upper < c.Lower {
		return fmt.Errorf("sweep Upper must be at least Lower (%d), got %d", c.Lower, c.Upper)
	}
	if c.Step <= 0 {
		return fmt.Errorf("sweep Step must be positive, got %d", c.Step)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("sweep Workers must be positive, got %d", c.Workers)
	}
	return nil
}

// OddsAxis lists the favourite lines from -upper to -lower, then the underdog
// lines from lower to upper.
// Example: OddsAxis(100, 120, 10) → [-120 -110 -100 100 110 120]
func OddsAxis(lower, upper, step int) []int {
	if step <= 0 || upper < lower {
		return nil
	}
	var axis []int
	for o := -upper; o <= -lower; o += step {
		axis = append(axis, o)
	}
	for o := lower; o <= upper; o += step {
		axis = append(axis, o)
	}
	return axis
}

// Cell is one evaluated grid point.
type Cell struct {
	Odds1 int     `csv:"odds1"`
	Odds2 int     `csv:"odds2"`
	Value float64 `csv:"value"`
}

// Grid holds the risk-adjusted value per promotion for every odds pair.
// Z[i][j] is the value for Odds1 = Axis[j], Odds2 = Axis[i].
type Grid struct {
	Config Config
	Axis   []int
	Z      [][]float64
}

func (c Config) params(odds1, odds2 int) strategy.Params {
	return strategy.Params{
		NumBets:            c.NumBets,
		Odds1:              odds1,
		Odds2:              odds2,
		Spread:             c.Spread,
		PromoIncludesStake: c.PromoIncludesStake,
		Risk:               strategy.LinearRisk(c.RiskCoefficient),
		SelfHedging:        c.SelfHedging,
		StressTax:          c.StressTax,
	}
}

// Run evaluates every cell of the grid. Rows are evaluated concurrently, at most
// cfg.Workers at a time; the first error cancels the rest.
func Run(ctx context.Context, cfg Config) (*Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	axis := OddsAxis(cfg.Lower, cfg.Upper, cfg.Step)
	z := make([][]float64, len(axis))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for i := range axis {
		i := i
		g.Go(func() error {
			row := make([]float64, len(axis))
			for j := range axis {
				if err := ctx.Err(); err != nil {
					return err
				}
				res, err := strategy.Evaluate(cfg.params(axis[j], axis[i]), nil)
				if err != nil {
					return fmt.Errorf("evaluating odds (%d, %d): %w", axis[j], axis[i], err)
				}
				row[j] = res.Value()
			}
			z[i] = row
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Grid{Config: cfg, Axis: axis, Z: z}, nil
}

// Cells flattens the grid in row-major order.
func (g *Grid) Cells() []Cell {
	cells := make([]Cell, 0, len(g.Axis)*len(g.Axis))
	for i, row := range g.Z {
		for j, v := range row {
			cells = append(cells, Cell{Odds1: g.Axis[j], Odds2: g.Axis[i], Value: v})
		}
	}
	return cells
}

// Max returns the first cell holding the maximum value, scanning row by row.
func (g *Grid) Max() Cell {
	var best Cell
	found := false
	for _, c := range g.Cells() {
		if !found || c.Value > best.Value {
			best = c
			found = true
		}
	}
	return best
}

// Summary describes the spread of values across the grid.
type Summary struct {
	Cells  int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
}

// Summary computes min, max, mean and median over all cells.
func (g *Grid) Summary() (Summary, error) {
	cells := g.Cells()
	data := make([]float64, len(cells))
	for i, c := range cells {
		data[i] = c.Value
	}

	var s Summary
	var err error
	s.Cells = len(data)
	if s.Min, err = stats.Min(data); err != nil {
		return Summary{}, fmt.Errorf("grid min: %w", err)
	}
	if s.Max, err = stats.Max(data); err != nil {
		return Summary{}, fmt.Errorf("grid max: %w", err)
	}
	if s.Mean, err = stats.Mean(data); err != nil {
		return Summary{}, fmt.Errorf("grid mean: %w", err)
	}
	if s.Median, err = stats.Median(data); err != nil {
		return Summary{}, fmt.Errorf("grid median: %w", err)
	}
	return s, nil
}

// WriteCSV writes one odds1,odds2,value row per cell.
func (g *Grid) WriteCSV(w io.Writer) error {
	if err := gocsv.Marshal(g.Cells(), w); err != nil {
		return fmt.Errorf("writing grid csv: %w", err)
	}
	return nil
}
