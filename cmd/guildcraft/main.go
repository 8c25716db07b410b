package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/johns/guildcraft/internal/calibration"
	"github.com/johns/guildcraft/internal/climate"
	"github.com/johns/guildcraft/internal/config"
	"github.com/johns/guildcraft/internal/metrics"
	"github.com/johns/guildcraft/internal/phylo"
	"github.com/johns/guildcraft/internal/refdata"
	"github.com/johns/guildcraft/internal/scorer"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("load config: %v", err)
	}

	switch os.Args[1] {
	case "score":
		if len(os.Args) < 4 {
			fatal("usage: guildcraft score <plant-id> <plant-id> [...]")
		}
		if err := runScore(cfg, os.Args[2:]); err != nil {
			fatal("score: %v", err)
		}

	case "calibrate":
		if err := runCalibrate(cfg); err != nil {
			fatal("calibrate: %v", err)
		}

	case "watch":
		if err := runWatch(cfg); err != nil {
			fatal("watch: %v", err)
		}

	case "init":
		dir := flagValue(os.Args[2:], "--data-dir")
		if dir == "" {
			dir = "~/guildcraft"
		}
		path, err := config.WriteDefault(dir)
		if err != nil {
			fatal("init: %v", err)
		}
		fmt.Printf("config: %s\n", path)

	case "version":
		fmt.Printf("guildcraft v%s\n", version)

	case "help", "--help", "-h":
		usage()

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func runScore(cfg config.Config, plantIDs []string) error {
	data, err := refdata.Load(cfg.Data.DatabasePath)
	if err != nil {
		return err
	}
	tree, err := phylo.LoadTree(cfg.Data.TreePath)
	if err != nil {
		return err
	}
	table, err := calibration.LoadTable(cfg.Calibration.Path)
	if err != nil {
		return err
	}
	tier, err := climate.ParseTier(cfg.Calibration.Tier)
	if err != nil {
		return err
	}

	s := scorer.New(data, table, tree, tier)
	result, err := s.Score(plantIDs)
	if err != nil {
		return err
	}
	printResult(result, tier)
	return nil
}

func printResult(r *scorer.Result, tier climate.Tier) {
	fmt.Printf("overall: %.1f / 100 (tier %s)\n\n", r.Overall, tier.Key())
	fmt.Printf("%-22s %10s %10s\n", "metric", "raw", "score")
	for _, m := range metrics.All() {
		fmt.Printf("%-22s %10.4f %10.1f\n", m.Key(), r.RawValues[m], r.Normalized[m])
	}

	fmt.Printf("\nshared tiers: %s\n", r.SharedTiers)
	fmt.Printf("nitrogen fixers: %d\n", r.Flags.NitrogenFixers)
	if r.Flags.SoilPH == scorer.PHNoData {
		fmt.Println("soil pH: no data")
	} else {
		fmt.Printf("soil pH: %s (spread %.1f)\n", r.Flags.SoilPH, r.Flags.SoilPHRange)
	}
}

func runCalibrate(cfg config.Config) error {
	data, err := refdata.Load(cfg.Data.DatabasePath)
	if err != nil {
		return err
	}
	tree, err := phylo.LoadTree(cfg.Data.TreePath)
	if err != nil {
		return err
	}
	typ, err := calibration.ParseType(cfg.Calibration.Type)
	if err != nil {
		return err
	}

	s := &calibration.Sampler{
		Data:    data,
		PD:      tree,
		Samples: cfg.Sampler.Samples,
		Seed:    cfg.Sampler.Seed,
	}
	table, err := s.Run(typ)
	if err != nil {
		return err
	}

	path := cfg.Calibration.Path
	if !cfg.Sampler.Compress {
		path = strings.TrimSuffix(path, calibration.CompressedExt)
	}
	if err := calibration.Save(table, path); err != nil {
		return err
	}
	fmt.Printf("calibrated %d tiers (%s, %d samples/tier): %s\n",
		len(table.Tiers()), typ, cfg.Sampler.Samples, path)
	return nil
}

func runWatch(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("watching %s\n", cfg.Calibration.Path)
	err := calibration.Watch(ctx, cfg.Calibration.Path, func(t *calibration.Table, err error) {
		if err != nil {
			fmt.Fprintf(os.Stderr, "reload failed: %v\n", err)
			return
		}
		fmt.Printf("reloaded: %d entries across %d tiers\n", t.Len(), len(t.Tiers()))
	})
	if err == context.Canceled {
		return nil
	}
	return err
}

func usage() {
	fmt.Fprintf(os.Stderr, `guildcraft v%s — plant guild compatibility scoring

Usage:
  guildcraft score <id> <id> [...]   Score a guild of plant IDs
  guildcraft calibrate               Rebuild percentile calibration tables
  guildcraft watch                   Watch the calibration file for changes
  guildcraft init [--data-dir <d>]   Write a default config
  guildcraft version                 Print version
  guildcraft help                    Show this help

Configuration: ~/.config/guildcraft/config.toml
`, version)
}

func flagValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "guildcraft: "+format+"\n", args...)
	os.Exit(1)
}
