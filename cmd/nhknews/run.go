package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/yuto-naga/convert-text-nhknews/archive"
	"github.com/yuto-naga/convert-text-nhknews/config"
	"github.com/yuto-naga/convert-text-nhknews/logging"
	"github.com/yuto-naga/convert-text-nhknews/pipeline"
)

func handleRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", getEnv("NHKNEWS_CONFIG", "nhknews.yaml"), "Path to the optional YAML config file (NHKNEWS_CONFIG)")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, logFile, err := logging.Open(cfg.LogDir, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	store, err := archive.Open(cfg.ArchivePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open archive index: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	p := &pipeline.Pipeline{
		Config: cfg,
		Logger: logger,
		Store:  store,
	}

	res, err := p.Run(context.Background())
	if err != nil {
		// Single top-level recovery point: record the failure with its
		// concrete type, then exit nonzero. Teardown already happened
		// inside the pipeline.
		logger.Error("archive run aborted", "type", fmt.Sprintf("%T", err), "error", err)
		fmt.Fprintf(os.Stderr, "Error: archive run aborted: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Archived %d of %d articles (run %s)\n", res.SavedCount, res.URLCount, res.RunID)
}
