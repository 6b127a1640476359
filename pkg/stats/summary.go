// Package stats computes descriptive statistics over a completed day's
// SimulationMetrics and DestPallets: fill rate, pallet utilization, and
// the source-pallet swap rate. These are consumed by the surrounding
// CLI for reporting; the simulator core never computes them itself.
package stats

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/palletsim/pkg/palletsim"
)

// DaySummary reports exact (non-floating-point) ratios for one day's run.
type DaySummary struct {
	// FillRate is TransferedLayers / TotalLayers: the fraction of the
	// day's demand that was actually moved.
	FillRate decimal.Decimal
	// AverageUtilization is the mean of each completed pallet's
	// Len()/LayersPerPallet ratio.
	AverageUtilization decimal.Decimal
	// SwapRate is PalletChanges / TotalPallets: how often a source
	// pallet had to be replaced mid-run, relative to the day's total
	// partial-pallet count. Zero for LimitedPositionScheduler runs,
	// which never swap.
	SwapRate decimal.Decimal
	// CompletedPallets is the count of pallets retired during the day.
	CompletedPallets int
}

// Summarize computes a DaySummary from a day's metrics and the pallets
// it retired. It tolerates a zero TotalLayers or TotalPallets (an empty
// day) by reporting zero ratios rather than dividing by zero.
func Summarize(m *palletsim.SimulationMetrics, completed []*palletsim.DestPallet) DaySummary {
	s := DaySummary{CompletedPallets: len(completed)}

	if m.TotalLayers > 0 {
		s.FillRate = decimal.NewFromInt(int64(m.TransferedLayers)).
			DivRound(decimal.NewFromInt(int64(m.TotalLayers)), 6)
	}

	if m.TotalPallets > 0 {
		s.SwapRate = decimal.NewFromInt(int64(m.PalletChanges)).
			DivRound(decimal.NewFromInt(int64(m.TotalPallets)), 6)
	}

	if len(completed) > 0 {
		sum := decimal.Zero
		denom := decimal.NewFromInt(int64(palletsim.LayersPerPallet))
		for _, p := range completed {
			sum = sum.Add(decimal.NewFromInt(int64(p.Len())).DivRound(denom, 6))
		}
		s.AverageUtilization = sum.DivRound(decimal.NewFromInt(int64(len(completed))), 6)
	}

	return s
}

// LedgerFillRates returns the fill rate at every snapshot in the
// metrics ledger, suitable for plotting progress across the run.
func LedgerFillRates(m *palletsim.SimulationMetrics) []decimal.Decimal {
	if m.TotalLayers == 0 {
		return nil
	}
	denom := decimal.NewFromInt(int64(m.TotalLayers))
	out := make([]decimal.Decimal, len(m.Ledger))
	for i, snap := range m.Ledger {
		out[i] = decimal.NewFromInt(int64(snap.TransferedLayers)).DivRound(denom, 6)
	}
	return out
}
