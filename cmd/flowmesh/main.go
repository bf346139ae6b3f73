// Command flowmesh executes a workflow JSON document and prints the
// per-output-node results, or the attributed failure when a node aborts
// the run.
//
// Usage:
//
//	flowmesh [flags] workflow.json
//
// The Gemini provider reads GEMINI_API_KEY from the environment; a .env
// file in the working directory is loaded automatically.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"

	_ "github.com/joho/godotenv/autoload"

	"github.com/flowmesh/flowmesh/engine"
	"github.com/flowmesh/flowmesh/observability"
	"github.com/flowmesh/flowmesh/providers/fetch"
	"github.com/flowmesh/flowmesh/providers/genai/gemini"
	"github.com/flowmesh/flowmesh/workflow"
)

func main() {
	showLog := flag.Bool("log", false, "print the execution log after the results")
	debug := flag.Bool("debug", false, "enable debug logging")
	liveFetch := flag.Bool("live-fetch", false, "let data loader nodes fetch their source URLs")
	dryRun := flag.Bool("dry-run", false, "run without a generative provider; LLM and image nodes fail as not configured")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: flowmesh [flags] workflow.json")
		flag.PrintDefaults()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	wf, err := workflow.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "flowmesh:", err)
		os.Exit(1)
	}

	opts := []engine.Option{
		engine.WithObserver(observability.NewSlog(logger)),
	}
	if !*dryRun {
		opts = append(opts, engine.WithProvider(gemini.New()))
	}
	if *liveFetch {
		opts = append(opts, engine.WithFetcher(fetch.New()))
	}

	runner := engine.NewRunner(opts...)
	report := runner.Execute(context.Background(), wf)

	if report.Failed() {
		fmt.Fprintf(os.Stderr, "run failed: %s", report.Error)
		if report.FailedNodeID != "" {
			fmt.Fprintf(os.Stderr, " (node %s)", report.FailedNodeID)
		}
		fmt.Fprintln(os.Stderr)
		printLog(report, *showLog)
		os.Exit(1)
	}

	// Stable ordering for script consumption.
	outputIDs := make([]string, 0, len(report.Results))
	for nodeID := range report.Results {
		outputIDs = append(outputIDs, nodeID)
	}
	sort.Strings(outputIDs)

	for _, nodeID := range outputIDs {
		result := report.Results[nodeID]
		fmt.Printf("[%s] %s\n", nodeID, result.Answer)
		if result.ImageURL != "" {
			fmt.Printf("[%s] image: %d bytes (base64 data URL)\n", nodeID, len(result.ImageURL))
		}
	}

	printLog(report, *showLog)
}

func printLog(report *workflow.Report, show bool) {
	if !show {
		return
	}
	for _, entry := range report.Log {
		fmt.Fprintf(os.Stderr, "%s  %-8s %-15s %s\n",
			entry.Timestamp.Format("15:04:05.000"), entry.Status, entry.NodeLabel, entry.Message)
	}
}
