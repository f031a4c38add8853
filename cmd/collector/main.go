package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/samvad-hq/samvad-news-aggregator/internal/app"
	"github.com/samvad-hq/samvad-news-aggregator/internal/config"
	"github.com/samvad-hq/samvad-news-aggregator/internal/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "collector failed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("collector", pflag.ContinueOnError)
	sourceID := flags.StringP("source", "s", "", "fetch only this source id (default: all sources)")
	format := flags.StringP("format", "f", app.FormatJSON, "output format: json or lines")
	sourcesFile := flags.String("sources-file", "", "sources registry file (overrides SOURCES_FILE)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flags.Changed("sources-file") {
		cfg.SourcesFile = *sourcesFile
	}
	// stdout carries the records.
	cfg.LogOutput = "stderr"

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector, err := app.NewCollector(cfg, log, os.Stdout, *format)
	if err != nil {
		return err
	}

	n, err := collector.Run(ctx, *sourceID)
	if err != nil {
		return fmt.Errorf("collector run: %w", err)
	}
	log.InfoObj("collection finished", "collector_meta", map[string]any{
		"source_id": *sourceID,
		"records":   n,
	})
	return nil
}
