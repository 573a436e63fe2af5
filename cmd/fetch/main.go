package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"pagelens/internal/domain"
	"pagelens/internal/pkg/logger"
	"pagelens/internal/service/pipeline"
)

// One-shot CLI: fetch a single URL's metadata and print it as JSON
func main() {
	var (
		urlFlag      = flag.String("url", "", "URL to fetch metadata for (required)")
		timeoutFlag  = flag.Duration("timeout", domain.DefaultTimeout, "Per-fetch timeout")
		renderedFlag = flag.Bool("rendered", false, "Force headless browser extraction")
		noEnrichFlag = flag.Bool("no-enrich", false, "Skip the enrichment stages")
		logLevelFlag = flag.String("log-level", "warn", "Log level")
	)
	flag.Parse()

	if *urlFlag == "" {
		fmt.Fprintln(os.Stderr, "usage: fetch -url <url> [-rendered] [-timeout 15s] [-no-enrich]")
		os.Exit(2)
	}

	log := logger.New(*logLevelFlag)

	opts := domain.DefaultFetchOptions()
	opts.Timeout = *timeoutFlag
	opts.PreferRendered = *renderedFlag
	opts.EnableCaching = false // nothing to share in a one-shot run
	if *noEnrichFlag {
		opts.EnableImageAnalysis = false
		opts.EnableContentAnalysis = false
		opts.EnableSEOOptimization = false
		opts.EnableSentimentAnalysis = false
		opts.EnableCategoryDetection = false
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag+30*time.Second)
	defer cancel()

	record, err := pipeline.FetchOnce(ctx, log, *urlFlag, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fetch failed: %v\n", err)
		os.Exit(1)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(record); err != nil {
		fmt.Fprintf(os.Stderr, "encode failed: %v\n", err)
		os.Exit(1)
	}
}
