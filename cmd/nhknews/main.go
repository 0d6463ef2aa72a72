package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		handleRun(os.Args[2:])
	case "runs":
		handleRuns(os.Args[2:])
	case "articles":
		handleArticles(os.Args[2:])
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("nhknews - NHK news ranking text archiver")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  nhknews <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  run        Scrape the ranking pages and archive article text")
	fmt.Println("  runs       List past archive runs")
	fmt.Println("  articles   List the articles saved during a run")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  NHKNEWS_CONFIG  Path to the optional YAML config file (default: nhknews.yaml)")
}
