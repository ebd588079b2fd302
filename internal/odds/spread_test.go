package odds

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestImpliedSpread(t *testing.T) {
	tests := []struct {
		odds     int
		expected float64
	}{
		{-100, 30},
		{100, 30},
		{150, 45},
		{199, 59.7},
		{200, 100},
		{-250, 125},
		{300, 240},
		{400, 600},
		{500, 750},
		{600, 1800},
		{1400, 4200},
		{-1400, 4200},
		{100000, 300000},
	}

	for _, tt := range tests {
		result := ImpliedSpread(tt.odds)
		if math.Abs(result-tt.expected) > 1e-9 {
			t.Errorf("ImpliedSpread(%d) = %v, want %v", tt.odds, result, tt.expected)
		}
	}
}

func TestSpreadTableCustom(t *testing.T) {
	table := SpreadTable{
		{Below: 300, Multiplier: 0.1},
		{Below: 500, Multiplier: 0.2},
	}

	if got := table.Spread(-200); math.Abs(got-20) > 1e-9 {
		t.Errorf("Spread(-200) = %v, want 20", got)
	}
	// Beyond the last breakpoint keeps the last multiplier
	if got := table.Spread(1000); math.Abs(got-200) > 1e-9 {
		t.Errorf("Spread(1000) = %v, want 200", got)
	}
	if got := (SpreadTable{}).Spread(150); got != 0 {
		t.Errorf("empty table Spread(150) = %v, want 0", got)
	}
}

func TestFlatSpread(t *testing.T) {
	f := FlatSpread(DefaultSpread)
	for _, o := range []int{-400, -100, 150, 1400} {
		if got := f(o); got != DefaultSpread {
			t.Errorf("FlatSpread(20)(%d) = %v, want 20", o, got)
		}
	}
}

func TestSpreadTableValidate(t *testing.T) {
	if err := DefaultSpreadTable.Validate(); err != nil {
		t.Errorf("default table should be valid: %v", err)
	}

	tests := []struct {
		name  string
		table SpreadTable
	}{
		{"empty", SpreadTable{}},
		{"negative multiplier", SpreadTable{{Below: 200, Multiplier: -1}}},
		{"not increasing", SpreadTable{{Below: 300, Multiplier: 0.3}, {Below: 200, Multiplier: 0.5}}},
		{"duplicate", SpreadTable{{Below: 300, Multiplier: 0.3}, {Below: 300, Multiplier: 0.5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.table.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadSpreadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spreads.yaml")
	content := `breakpoints:
  - below: 250
    multiplier: 0.2
  - below: 500
    multiplier: 0.6
  - multiplier: 2
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadSpreadTable(path)
	if err != nil {
		t.Fatalf("LoadSpreadTable: %v", err)
	}
	if len(table) != 3 {
		t.Fatalf("len(table) = %d, want 3", len(table))
	}
	if !math.IsInf(table[2].Below, 1) {
		t.Errorf("last breakpoint should be unbounded, got %v", table[2].Below)
	}
	if got := table.Spread(-300); math.Abs(got-180) > 1e-9 {
		t.Errorf("Spread(-300) = %v, want 180", got)
	}
	if got := table.Spread(900); math.Abs(got-1800) > 1e-9 {
		t.Errorf("Spread(900) = %v, want 1800", got)
	}
}

func TestLoadSpreadTableErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadSpreadTable(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("breakpoints: [{below: 300, multiplier: 0.3}, {below: 100, multiplier: 0.3}]"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSpreadTable(bad); err == nil {
		t.Error("expected error for decreasing breakpoints")
	}

	garbage := filepath.Join(dir, "garbage.yaml")
	if err := os.WriteFile(garbage, []byte("breakpoints: {not: [a list"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSpreadTable(garbage); err == nil {
		t.Error("expected parse error")
	}
}
