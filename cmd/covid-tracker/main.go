package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"covidtracker/internal/aggregator"
	"covidtracker/internal/cleaner"
	"covidtracker/internal/config"
	"covidtracker/internal/exporter"
	"covidtracker/internal/infrastructure"
	"covidtracker/internal/loader"
	"covidtracker/internal/render"
	"covidtracker/pkg/contracts/domain"
)

func main() {
	if err := run(); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	paths, err := config.GetPaths()
	if err != nil {
		return fmt.Errorf("failed to initialize paths: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create required directories: %w", err)
	}

	// Anchor the log file next to the executable unless configured absolute.
	if cfg.Logging.FilePath == "logs/tracker.log" {
		cfg.Logging.FilePath = paths.GetLogPath("tracker.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.WithRunID(context.Background(), uuid.NewString())

	logger.InfoContext(ctx, "starting COVID-19 data tracker",
		slog.String("executable_dir", paths.ExecutableDir),
		slog.Int("sources", len(cfg.Sources.Order)))

	table, err := loader.New(logger, paths, cfg.Sources, cfg.HTTP).Load(ctx)
	if err != nil {
		return err
	}

	records, stats, err := cleaner.New(logger).Clean(ctx, table)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no usable rows after cleaning (%d input rows)", stats.InputRows)
	}

	agg := aggregator.New(logger)
	series := agg.GlobalSeries(ctx, records)
	snapshots := agg.Snapshots(ctx, records)

	logger.InfoContext(ctx, "dataset coverage",
		slog.Int("countries", len(snapshots)),
		slog.String("from", series[0].Date.Format(domain.DateFormat)),
		slog.String("to", series[len(series)-1].Date.Format(domain.DateFormat)))

	renderer := render.New(logger, paths, cfg.Charts)
	if _, err := renderer.GlobalTrends(ctx, series); err != nil {
		return err
	}
	for _, metric := range cfg.Charts.Metrics {
		if _, err := renderer.CountryComparison(ctx, snapshots, metric); err != nil {
			return err
		}
	}

	if _, err := exporter.NewCSVWriter(logger, paths).WriteCleanData(ctx, cfg.Output.CleanDataFile, records); err != nil {
		return err
	}
	if _, err := exporter.NewExcelWriter(logger, paths).WriteSummary(ctx, cfg.Output.SummaryWorkbook, snapshots, series); err != nil {
		return err
	}

	logger.InfoContext(ctx, "analysis complete",
		slog.String("output_dir", paths.OutputDir))

	return nil
}
