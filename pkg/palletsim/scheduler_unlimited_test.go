package palletsim

import (
	"errors"
	"math/rand"
	"testing"
)

// One destination, one SKU, 30 layers needed: two full pallets, two
// batch transfers.
func TestUnlimitedExitScheduler_SingleSKUTwoPallets(t *testing.T) {
	demand := NewDayDemand([]DemandRecord{
		{Destination: "D1", SKU: 100, Trays: 30 * TraysPerLayer},
	})
	alloc := NewSkuAllocation(demand)
	rng := rand.New(rand.NewSource(1))

	sched := NewUnlimitedExitScheduler(demand, alloc, rng, 1)

	// The day needs ceil(30/15) = 2 partial pallets of sku 100, even
	// though only one entry position is staged at a time.
	if sched.Metrics.TotalPallets != 2 {
		t.Errorf("expected total_pallets 2, got %d", sched.Metrics.TotalPallets)
	}

	if err := sched.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if sched.Metrics.TransferedLayers != 30 {
		t.Errorf("expected 30 transfered layers, got %d", sched.Metrics.TransferedLayers)
	}
	completed := sched.CompletedPallets()
	if len(completed) != 2 {
		t.Fatalf("expected 2 completed pallets, got %d", len(completed))
	}
	for _, p := range completed {
		if !p.Complete() || p.Len() != 15 {
			t.Errorf("expected a full 15-layer pallet, got len=%d complete=%v", p.Len(), p.Complete())
		}
		if p.Destination != "D1" {
			t.Errorf("expected destination D1, got %s", p.Destination)
		}
	}
	if sched.Metrics.BatchTransfers != 2 {
		t.Errorf("expected 2 batch transfers, got %d", sched.Metrics.BatchTransfers)
	}
}

// Three SKUs with one destination each, 15 layers apiece, but only two
// entry positions: the third SKU has to arrive through a swap.
func TestUnlimitedExitScheduler_GreedySwap(t *testing.T) {
	demand := NewDayDemand([]DemandRecord{
		{Destination: "Dx", SKU: 10, Trays: 15 * TraysPerLayer},
		{Destination: "Dy", SKU: 20, Trays: 15 * TraysPerLayer},
		{Destination: "Dz", SKU: 30, Trays: 15 * TraysPerLayer},
	})
	alloc := NewSkuAllocation(demand)
	rng := rand.New(rand.NewSource(42))

	sched := NewUnlimitedExitScheduler(demand, alloc, rng, 2)
	if err := sched.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	completed := sched.CompletedPallets()
	if len(completed) != 3 {
		t.Fatalf("expected 3 completed pallets, got %d", len(completed))
	}
	wantDest := map[SKU]Destination{10: "Dx", 20: "Dy", 30: "Dz"}
	for _, p := range completed {
		if !p.Complete() {
			t.Errorf("pallet for %s not complete", p.Destination)
		}
		for _, l := range p.Layers() {
			if wantDest[l.SKU] != p.Destination {
				t.Errorf("destination purity violated: sku %d landed on %s", l.SKU, p.Destination)
			}
		}
	}
	if sched.Metrics.PalletChanges < 1 {
		t.Errorf("expected at least one pallet change, got %d", sched.Metrics.PalletChanges)
	}
	if sched.Metrics.TransferedLayers != 45 {
		t.Errorf("expected 45 transfered layers, got %d", sched.Metrics.TransferedLayers)
	}
}

// Demand for a SKU with zero allocated partial pallets is unsatisfiable.
func TestUnlimitedExitScheduler_UnsatisfiedDemand(t *testing.T) {
	demand := NewDayDemand([]DemandRecord{
		{Destination: "D1", SKU: 1, Trays: 20 * TraysPerLayer},
	})
	// Build allocation from an empty demand so SKU 1 starts with zero
	// partial pallets despite DayDemand wanting 20 layers of it.
	alloc := NewSkuAllocation(NewDayDemand(nil))
	rng := rand.New(rand.NewSource(1))

	sched := NewUnlimitedExitScheduler(demand, alloc, rng, 1)
	err := sched.Run()
	if !errors.Is(err, ErrUnsatisfiedDemand) {
		t.Fatalf("expected ErrUnsatisfiedDemand, got %v", err)
	}
	if sched.Metrics.RemainingLayers != 20 {
		t.Errorf("expected remaining_layers 20, got %d", sched.Metrics.RemainingLayers)
	}
}

// One SKU shared across two destinations with different demand sizes.
func TestUnlimitedExitScheduler_MultiDestSharing(t *testing.T) {
	demand := NewDayDemand([]DemandRecord{
		{Destination: "D1", SKU: 7, Trays: 12 * TraysPerLayer},
		{Destination: "D2", SKU: 7, Trays: 8 * TraysPerLayer},
	})
	alloc := NewSkuAllocation(demand)
	rng := rand.New(rand.NewSource(3))

	sched := NewUnlimitedExitScheduler(demand, alloc, rng, 1)
	_ = sched.Run()

	if sched.Metrics.TransferedLayers != 20 {
		t.Errorf("conservation violated: expected 20 transfered layers, got %d", sched.Metrics.TransferedLayers)
	}
}

func TestUnlimitedExitScheduler_ConservationAndNoOverfill(t *testing.T) {
	demand := NewDayDemand([]DemandRecord{
		{Destination: "D1", SKU: 1, Trays: 37 * TraysPerLayer},
		{Destination: "D2", SKU: 1, Trays: 23 * TraysPerLayer},
		{Destination: "D2", SKU: 2, Trays: 45 * TraysPerLayer},
		{Destination: "D3", SKU: 3, Trays: 19 * TraysPerLayer},
	})
	initialTotal := demand.TotalRemaining()
	alloc := NewSkuAllocation(demand)
	rng := rand.New(rand.NewSource(99))

	sched := NewUnlimitedExitScheduler(demand, alloc, rng, 2)
	_ = sched.Run()

	if got := initialTotal - demand.TotalRemaining(); got != sched.Metrics.TransferedLayers {
		t.Errorf("conservation violated: moved %d layers out of demand, metrics says %d transfered",
			got, sched.Metrics.TransferedLayers)
	}

	for _, p := range sched.CompletedPallets() {
		if p.Len() > LayersPerPallet {
			t.Errorf("pallet %d overfilled: %d layers", p.ID, p.Len())
		}
		if p.Complete() != (p.Len() == LayersPerPallet) {
			t.Errorf("pallet %d: complete flag inconsistent with length %d", p.ID, p.Len())
		}
	}

	prev := MetricsSnapshot{}
	for _, snap := range sched.Metrics.Ledger {
		if snap.TransferedLayers < prev.TransferedLayers ||
			snap.BatchTransfers < prev.BatchTransfers ||
			snap.PalletChanges < prev.PalletChanges {
			t.Fatalf("metrics ledger is not monotonic: %+v followed %+v", snap, prev)
		}
		prev = snap
	}
}
