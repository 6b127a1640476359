package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/vsinha/palletsim/pkg/palletsim"
	"github.com/vsinha/palletsim/pkg/repository"
	"github.com/vsinha/palletsim/pkg/stats"
)

func main() {
	var (
		scenario     = flag.String("scenario", "", "Path to a demand CSV file (date,destination,sku,trays)")
		topK         = flag.Int("records", 0, "Top-K SKUs by total trays to admit per day (0 = all SKUs)")
		strategy     = flag.String("strategy", "unlimited", "Scheduling strategy: unlimited, limited")
		startPallets = flag.Int("start-pallets", 2, "Initial entry pallet count (strategy=unlimited)")
		maxEntrySKUs = flag.Int("max-entry-skus", 2, "Max distinct source SKUs per batch (strategy=limited)")
		seed         = flag.Int64("seed", 1, "RNG seed for the unlimited-exit swap policy")
		format       = flag.String("format", "text", "Output format: text, json, csv")
		verbose      = flag.Bool("verbose", false, "Enable verbose output")
		concurrency  = flag.Int("concurrency", 1, "Max days simulated concurrently (days are independent)")
		help         = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	if *help {
		showHelp()
		return
	}

	if *scenario == "" {
		fmt.Fprintf(os.Stderr, "Error: -scenario is required\n\n")
		showHelp()
		os.Exit(1)
	}

	if *strategy != "unlimited" && *strategy != "limited" {
		fmt.Fprintf(os.Stderr, "Error: -strategy must be \"unlimited\" or \"limited\", got %q\n", *strategy)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Palletizing simulator\n")
		fmt.Printf("  Scenario: %s\n", *scenario)
		fmt.Printf("  Strategy: %s\n", *strategy)
		fmt.Printf("  Format: %s\n", *format)
		fmt.Println()
	}

	records, err := repository.NewLoader().LoadDemandRecords(*scenario)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading demand records: %v\n", err)
		os.Exit(1)
	}

	store := repository.NewStore(records)
	dates := store.Dates()
	if *verbose {
		fmt.Printf("Loaded %d records across %d days\n\n", len(records), len(dates))
	}

	cfg := runConfig{
		strategy:     *strategy,
		startPallets: *startPallets,
		maxEntrySKUs: *maxEntrySKUs,
		seed:         *seed,
		topK:         *topK,
	}

	startTime := time.Now()
	results := runDays(store, dates, cfg, *concurrency)
	elapsed := time.Since(startTime)

	if *verbose {
		fmt.Printf("Simulated %d days in %v\n\n", len(results), elapsed)
	}

	outCfg := OutputConfig{
		Format:   *format,
		Verbose:  *verbose,
		Elapsed:  elapsed,
		Scenario: *scenario,
	}

	if err := generateOutput(results, outCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating output: %v\n", err)
		os.Exit(1)
	}
}

// runConfig bundles the per-day scheduling choices the CLI exposes as
// flags, so runDays and runOneDay can stay free of flag.Value details.
type runConfig struct {
	strategy     string
	startPallets int
	maxEntrySKUs int
	seed         int64
	topK         int
}

// DayResult is one day's observable outputs: its metrics, the completed
// pallets, and the derived statistics computed over them.
type DayResult struct {
	Date      time.Time
	Metrics   *palletsim.SimulationMetrics
	Completed []*palletsim.DestPallet
	Summary   stats.DaySummary
	Err       error
}

func runOneDay(store *repository.Store, date time.Time, cfg runConfig) DayResult {
	k := cfg.topK
	if k <= 0 {
		k = -1
	}
	topKSKUs := store.TopKSKUs(date, k)
	demand := store.SetDay(date, topKSKUs)

	var (
		metrics   *palletsim.SimulationMetrics
		completed []*palletsim.DestPallet
		runErr    error
	)

	switch cfg.strategy {
	case "limited":
		sched := palletsim.NewLimitedPositionScheduler(demand, cfg.maxEntrySKUs)
		runErr = sched.Run()
		metrics = sched.Metrics
		completed = sched.CompletedPallets()
	default:
		alloc := palletsim.NewSkuAllocation(demand)
		rng := rand.New(rand.NewSource(cfg.seed))
		sched := palletsim.NewUnlimitedExitScheduler(demand, alloc, rng, cfg.startPallets)
		runErr = sched.Run()
		metrics = sched.Metrics
		completed = sched.CompletedPallets()
	}

	return DayResult{
		Date:      date,
		Metrics:   metrics,
		Completed: completed,
		Summary:   stats.Summarize(metrics, completed),
		Err:       runErr,
	}
}

func sortedResults(results []DayResult) []DayResult {
	out := make([]DayResult, len(results))
	copy(out, results)
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func showHelp() {
	fmt.Printf(`Palletizing Simulator CLI

USAGE:
    palletsim -scenario <file> [options]

OPTIONS:
    -scenario <file>      Path to a demand CSV file (date,destination,sku,trays)
    -records <n>          Top-K SKUs by total trays to admit per day (0 = all)
    -strategy <name>      Scheduling strategy: unlimited, limited (default: unlimited)
    -start-pallets <n>    Initial entry pallet count for strategy=unlimited (default: 2)
    -max-entry-skus <n>   Max distinct source SKUs per batch for strategy=limited (default: 2)
    -seed <n>             RNG seed for the unlimited-exit swap policy (default: 1)
    -format <fmt>         Output format: text, json, csv (default: text)
    -concurrency <n>      Max days simulated concurrently (default: 1)
    -verbose              Enable verbose output
    -help                 Show this help message

DEMAND CSV FORMAT:
    date,destination,sku,trays
    2026-01-05,D1,1,40
    2026-01-05,D2,2,8

EXAMPLES:
    palletsim -scenario demand.csv -strategy unlimited -start-pallets 3 -verbose
    palletsim -scenario demand.csv -strategy limited -max-entry-skus 3 -format json
    palletsim -scenario demand.csv -concurrency 4
`)
}
