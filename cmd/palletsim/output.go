package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/vsinha/palletsim/pkg/palletsim"
)

// OutputConfig controls how a run's DayResults are rendered.
type OutputConfig struct {
	Format   string
	Verbose  bool
	Elapsed  time.Duration
	Scenario string
}

func generateOutput(results []DayResult, cfg OutputConfig) error {
	switch cfg.Format {
	case "text":
		return generateTextOutput(results, cfg)
	case "json":
		return generateJSONOutput(results, cfg)
	case "csv":
		return generateCSVOutput(results, cfg)
	default:
		return fmt.Errorf("unsupported output format: %s", cfg.Format)
	}
}

func generateTextOutput(results []DayResult, cfg OutputConfig) error {
	fmt.Println("===================================================================")
	fmt.Println("                 PALLETIZING SIMULATION RESULTS")
	fmt.Println("===================================================================")
	fmt.Printf("Scenario: %s\n", cfg.Scenario)
	fmt.Printf("Elapsed:  %v\n", cfg.Elapsed)
	fmt.Printf("Days:     %d\n\n", len(results))

	for _, r := range results {
		fmt.Printf("Day %s\n", r.Date.Format("2006-01-02"))
		fmt.Println("-------------------------------------------------------------------")
		if r.Err != nil {
			if errors.Is(r.Err, palletsim.ErrUnsatisfiedDemand) {
				fmt.Printf("  WARNING: demand unsatisfied, %d layers remaining\n", r.Metrics.RemainingLayers)
			} else {
				fmt.Printf("  ERROR: %v\n", r.Err)
				continue
			}
		}
		fmt.Printf("  Completed pallets: %d\n", len(r.Completed))
		fmt.Printf("  Transfered layers: %d / %d\n", r.Metrics.TransferedLayers, r.Metrics.TotalLayers)
		fmt.Printf("  Batch transfers:   %d\n", r.Metrics.BatchTransfers)
		fmt.Printf("  Pallet changes:    %d\n", r.Metrics.PalletChanges)
		fmt.Printf("  Fill rate:         %s\n", r.Summary.FillRate.String())
		fmt.Printf("  Avg utilization:   %s\n", r.Summary.AverageUtilization.String())
		if cfg.Verbose {
			fmt.Printf("  Swap rate:         %s\n", r.Summary.SwapRate.String())
			for _, p := range r.Completed {
				fmt.Printf("    pallet %d -> %s (%d layers)\n", p.ID, p.Destination, p.Len())
			}
		}
		fmt.Println()
	}

	return nil
}

type jsonDayResult struct {
	Date               string `json:"date"`
	Error              string `json:"error,omitempty"`
	CompletedPallets   int    `json:"completed_pallets"`
	TransferedLayers   int    `json:"transfered_layers"`
	TotalLayers        int    `json:"total_layers"`
	BatchTransfers     int    `json:"batch_transfers"`
	PalletChanges      int    `json:"pallet_changes"`
	FillRate           string `json:"fill_rate"`
	AverageUtilization string `json:"average_utilization"`
	SwapRate           string `json:"swap_rate"`
}

func generateJSONOutput(results []DayResult, cfg OutputConfig) error {
	out := struct {
		Metadata struct {
			Scenario string `json:"scenario"`
			Elapsed  string `json:"elapsed"`
			Days     int    `json:"days"`
		} `json:"metadata"`
		Days []jsonDayResult `json:"days"`
	}{}

	out.Metadata.Scenario = cfg.Scenario
	out.Metadata.Elapsed = cfg.Elapsed.String()
	out.Metadata.Days = len(results)

	for _, r := range results {
		jr := jsonDayResult{
			Date:               r.Date.Format("2006-01-02"),
			CompletedPallets:   len(r.Completed),
			TransferedLayers:   r.Metrics.TransferedLayers,
			TotalLayers:        r.Metrics.TotalLayers,
			BatchTransfers:     r.Metrics.BatchTransfers,
			PalletChanges:      r.Metrics.PalletChanges,
			FillRate:           r.Summary.FillRate.String(),
			AverageUtilization: r.Summary.AverageUtilization.String(),
			SwapRate:           r.Summary.SwapRate.String(),
		}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		}
		out.Days = append(out.Days, jr)
	}

	jsonBytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Printf("%s\n", jsonBytes)
	return nil
}

func generateCSVOutput(results []DayResult, cfg OutputConfig) error {
	writer := csv.NewWriter(os.Stdout)
	defer writer.Flush()

	header := []string{
		"date", "completed_pallets", "transfered_layers", "total_layers",
		"batch_transfers", "pallet_changes", "fill_rate", "average_utilization", "swap_rate", "error",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range results {
		errMsg := ""
		if r.Err != nil {
			errMsg = r.Err.Error()
		}
		record := []string{
			r.Date.Format("2006-01-02"),
			fmt.Sprintf("%d", len(r.Completed)),
			fmt.Sprintf("%d", r.Metrics.TransferedLayers),
			fmt.Sprintf("%d", r.Metrics.TotalLayers),
			fmt.Sprintf("%d", r.Metrics.BatchTransfers),
			fmt.Sprintf("%d", r.Metrics.PalletChanges),
			r.Summary.FillRate.String(),
			r.Summary.AverageUtilization.String(),
			r.Summary.SwapRate.String(),
			errMsg,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return nil
}
