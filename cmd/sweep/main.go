package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"freebet-arb/internal/config"
	"freebet-arb/internal/logger"
	"freebet-arb/internal/plot"
	"freebet-arb/internal/report"
	"freebet-arb/internal/sweep"
)

// Risk coefficients of the published charts: losses equal to gains, normal, and
// any loss unacceptable.
var matrixRisks = []float64{1, 2, 100}

func main() {
	cfg := config.Load()

	name := flag.String("name", "strategy", "base name of the .html and .csv outputs")
	matrix := flag.Bool("matrix", false, "render the six published charts into RAW_PLOT_DIR")
	titled := flag.Bool("title", false, "add a title describing the strategy")
	flag.IntVar(&cfg.NumBets, "bets", cfg.NumBets, "number of promotions")
	flag.Float64Var(&cfg.RiskCoefficient, "risk", cfg.RiskCoefficient, "loss multiplier for the risk adjustment")
	flag.BoolVar(&cfg.PromoIncludesStake, "stake", cfg.PromoIncludesStake, "a winning credit returns its stake")
	flag.BoolVar(&cfg.SelfHedging, "hedge", cfg.SelfHedging, "stake the favourite side in round 1")
	flag.Float64Var(&cfg.StressTax, "tax", cfg.StressTax, "stress tax subtracted from every outcome")
	flag.IntVar(&cfg.SweepWorkers, "workers", cfg.SweepWorkers, "rows evaluated in parallel")
	flag.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "directory for the single chart outputs")
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reporter := report.NewReporter(log)
	reporter.LogStartup("sweep", cfg.Summary())

	if *matrix {
		if err := runMatrix(ctx, log, reporter, cfg.Sweep(spread), cfg.RawPlotDir, *titled); err != nil {
			log.Fatalw("Matrix sweep failed", "error", err)
		}
		return
	}

	grid, err := runOne(ctx, reporter, cfg.Sweep(spread))
	if err != nil {
		log.Fatalw("Sweep failed", "error", err)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Fatalw("Creating output dir", "dir", cfg.OutputDir, "error", err)
	}

	htmlPath := filepath.Join(cfg.OutputDir, *name+".html")
	id, err := writeChart(htmlPath, grid, *titled)
	if err != nil {
		log.Fatalw("Writing chart", "error", err)
	}
	log.Infow("Chart written", "path", htmlPath, "div", id)

	csvPath := filepath.Join(cfg.OutputDir, *name+".csv")
	if err := writeCSV(csvPath, grid); err != nil {
		log.Fatalw("Writing CSV", "error", err)
	}
	log.Infow("Grid written", "path", csvPath)
}

func runOne(ctx context.Context, reporter *report.Reporter, sc sweep.Config) (*sweep.Grid, error) {
	grid, err := sweep.Run(ctx, sc)
	if err != nil {
		return nil, err
	}
	summary, err := grid.Summary()
	if err != nil {
		return nil, err
	}
	reporter.SweepResult(grid.Max(), summary)
	return grid, nil
}

// runMatrix renders every risk coefficient with and without the stake returned.
func runMatrix(ctx context.Context, log *zap.SugaredLogger, reporter *report.Reporter, base sweep.Config, dir string, titled bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	for _, stake := range []bool{false, true} {
		for _, risk := range matrixRisks {
			sc := base
			sc.PromoIncludesStake = stake
			sc.RiskCoefficient = risk

			log.Infow("Sweeping", "risk", risk, "stake", stake)
			grid, err := runOne(ctx, reporter, sc)
			if err != nil {
				return err
			}

			path := filepath.Join(dir, fmt.Sprintf("risk%g_stake_%t.html", risk, stake))
			id, err := writeChart(path, grid, titled)
			if err != nil {
				return err
			}
			log.Infow("Chart written", "path", path, "div", id, "risk", risk, "stake", stake)
		}
	}
	return nil
}

func writeChart(path string, grid *sweep.Grid, titled bool) (string, error) {
	title := ""
	if titled {
		title = plot.ChartTitle(grid.Config)
	}
	fig := plot.NewHeatmap(grid, title)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := plot.WriteHTML(f, fig); err != nil {
		return "", err
	}
	return fig.ID, f.Close()
}

func writeCSV(path string, grid *sweep.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := grid.WriteCSV(f); err != nil {
		return err
	}
	return f.Close()
}
