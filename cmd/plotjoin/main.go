package main

import (
	"flag"

	"freebet-arb/internal/config"
	"freebet-arb/internal/logger"
	"freebet-arb/internal/plot"
)

func main() {
	cfg := config.Load()

	flag.StringVar(&cfg.RawPlotDir, "dir", cfg.RawPlotDir, "directory of rendered chart pages")
	flag.StringVar(&cfg.CombinedPlotPath, "out", cfg.CombinedPlotPath, "script file to append to")
	flag.Parse()

	log := logger.New()
	defer log.Sync()

	n, err := plot.CombineDir(cfg.RawPlotDir, cfg.CombinedPlotPath)
	if err != nil {
		log.Fatalw("Combining plots", "dir", cfg.RawPlotDir, "combined", n, "error", err)
	}
	log.Infow("Plots combined", "files", n, "out", cfg.CombinedPlotPath)
}
