package odds

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// SpreadFunc estimates the bookmaker spread for a given line.
type SpreadFunc func(odds int) float64

// SpreadBreakpoint applies Multiplier to |odds| for every line below Below.
type SpreadBreakpoint struct {
	Below      float64 `yaml:"below"`
	Multiplier float64 `yaml:"multiplier"`
}

// SpreadTable is a piecewise spread estimate, evaluated in order.
// The estimate jumps at each breakpoint; it is an approximation, not a law.
type SpreadTable []SpreadBreakpoint

// DefaultSpreadTable was eyeballed from a bunch of lines across several sites,
// erring on the high side. Real spreads are usually lower.
var DefaultSpreadTable = SpreadTable{
	{Below: 200, Multiplier: 0.3},
	{Below: 300, Multiplier: 0.5},
	{Below: 400, Multiplier: 0.8},
	{Below: 600, Multiplier: 1.5},
	{Below: math.Inf(1), Multiplier: 3},
}

// Spread returns the estimated spread for the given odds.
// Odds beyond the last breakpoint use the last multiplier.
func (t SpreadTable) Spread(odds int) float64 {
	if len(t) == 0 {
		return 0
	}

	a := float64(abs(odds))
	for _, b := range t {
		if a < b.Below {
			return a * b.Multiplier
		}
	}
	return a * t[len(t)-1].Multiplier
}

// Validate checks that breakpoints are strictly increasing with non-negative multipliers.
func (t SpreadTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("spread table must have at least one breakpoint")
	}
	for i, b := range t {
		if b.Multiplier < 0 {
			return fmt.Errorf("spread multiplier must be non-negative, got %v at breakpoint %d", b.Multiplier, i)
		}
		if i > 0 && b.Below <= t[i-1].Below {
			return fmt.Errorf("spread breakpoints must be strictly increasing, got %v after %v", b.Below, t[i-1].Below)
		}
	}
	return nil
}

// ImpliedSpread estimates the spread for the given odds using DefaultSpreadTable.
func ImpliedSpread(odds int) float64 {
	return DefaultSpreadTable.Spread(odds)
}

// FlatSpread returns a SpreadFunc that ignores the odds.
func FlatSpread(spread float64) SpreadFunc {
	return func(int) float64 {
		return spread
	}
}

type spreadFile struct {
	Breakpoints []SpreadBreakpoint `yaml:"breakpoints"`
}

// LoadSpreadTable reads a spread table from YAML:
//
//	breakpoints:
//	  - {below: 200, multiplier: 0.3}
//	  - {multiplier: 3}   # no bound, covers everything above
func LoadSpreadTable(path string) (SpreadTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spread table: %w", err)
	}

	var f spreadFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse spread table: %w", err)
	}

	table := SpreadTable(f.Breakpoints)
	if n := len(table); n > 0 && table[n-1].Below == 0 {
		table[n-1].Below = math.Inf(1)
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}
