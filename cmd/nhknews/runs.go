package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"

	"github.com/yuto-naga/convert-text-nhknews/archive"
	"github.com/yuto-naga/convert-text-nhknews/config"
)

const timeDisplayFormat = "2006-01-02 15:04"

func openStore(configPath string) *archive.Store {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	store, err := archive.Open(cfg.ArchivePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open archive index: %v\n", err)
		os.Exit(1)
	}
	return store
}

func handleRuns(args []string) {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	configPath := fs.String("config", getEnv("NHKNEWS_CONFIG", "nhknews.yaml"), "Path to the optional YAML config file (NHKNEWS_CONFIG)")
	limit := fs.Int("limit", 20, "Maximum number of runs to list")
	fs.Parse(args)

	store := openStore(*configPath)
	defer store.Close()

	runs, err := store.ListRuns(*limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to list runs: %v\n", err)
		os.Exit(1)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return
	}

	fmt.Printf("%-36s %-16s %-7s %5s %5s\n", "RUN", "STARTED", "STATUS", "URLS", "SAVED")
	for _, run := range runs {
		fmt.Printf("%-36s %-16s %-7s %5d %5d\n",
			run.RunID.String(),
			run.StartedAt.Local().Format(timeDisplayFormat),
			run.Status,
			run.URLCount,
			run.SavedCount,
		)
	}
}

func handleArticles(args []string) {
	fs := flag.NewFlagSet("articles", flag.ExitOnError)
	configPath := fs.String("config", getEnv("NHKNEWS_CONFIG", "nhknews.yaml"), "Path to the optional YAML config file (NHKNEWS_CONFIG)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: run ID is required\n")
		fmt.Fprintf(os.Stderr, "Usage: nhknews articles <run-id>\n")
		os.Exit(1)
	}

	runID, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid run ID: %v\n", err)
		os.Exit(1)
	}

	store := openStore(*configPath)
	defer store.Close()

	articles, err := store.ListArticles(runID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to list articles: %v\n", err)
		os.Exit(1)
	}

	if len(articles) == 0 {
		fmt.Println("No articles saved for this run.")
		return
	}

	fmt.Printf("%-16s %-40s %s\n", "WRITTEN", "TITLE", "PATH")
	for _, a := range articles {
		// Truncate by display width so full-width titles keep the columns
		// aligned.
		title := runewidth.FillRight(runewidth.Truncate(a.Title, 40, "…"), 40)
		fmt.Printf("%-16s %s %s\n",
			a.WrittenAt.Local().Format(timeDisplayFormat),
			title,
			a.Path,
		)
	}
}
