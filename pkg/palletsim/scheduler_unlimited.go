package palletsim

import "math/rand"

// UnlimitedExitScheduler is the greedy simulator for a cell with an
// unbounded number of concurrent output pallets: each entry pallet is
// drained into whichever destinations still want its SKU, and exhausted
// entry slots are refreshed by a randomized swap policy.
type UnlimitedExitScheduler struct {
	demand *DayDemand
	alloc  *SkuAllocation
	rng    *rand.Rand

	entryIDs idGenerator
	destIDs  idGenerator

	entryPallets []*SourcePallet
	exitPallets  []*DestPallet
	completed    []*DestPallet

	Metrics *SimulationMetrics
}

// NewUnlimitedExitScheduler creates up to startPallets SourcePallets,
// choosing the SKUs with the highest partial_pallets count from alloc.
func NewUnlimitedExitScheduler(demand *DayDemand, alloc *SkuAllocation, rng *rand.Rand, startPallets int) *UnlimitedExitScheduler {
	s := &UnlimitedExitScheduler{demand: demand, alloc: alloc, rng: rng}

	for _, sku := range alloc.HighestAllocated(startPallets) {
		s.entryPallets = append(s.entryPallets, NewSourcePallet(s.entryIDs.Next(), sku))
		alloc.MarkAssigned(sku)
	}

	totalLayers := demand.TotalRemaining()
	s.Metrics = NewSimulationMetrics(alloc.TotalPartialPallets(), totalLayers)
	s.Metrics.RemainingLayers = totalLayers
	s.Metrics.NumExitPallets = 0

	return s
}

// CompletedPallets returns every DestPallet retired during the run, in
// retirement order.
func (s *UnlimitedExitScheduler) CompletedPallets() []*DestPallet {
	out := make([]*DestPallet, len(s.completed))
	copy(out, s.completed)
	return out
}

// Run drives the simulation to completion. It returns ErrUnsatisfiedDemand
// (non-fatal) if demand remains once the scheduler can no longer make
// progress; the metrics on s.Metrics are valid either way.
func (s *UnlimitedExitScheduler) Run() error {
	for s.demand.TotalRemaining() > 0 && s.alloc.TotalPartialPallets() > 0 {
		if len(s.entryPallets) == 0 {
			return ErrUnsatisfiedDemand
		}

		for i := range s.entryPallets {
			s.runEntryPallet(i)
		}

		s.applySwapPolicy()
		s.Metrics.RemainingLayers = s.demand.TotalRemaining()
		s.Metrics.NumExitPallets = len(s.exitPallets)
		s.Metrics.NumCompletedPallets = len(s.completed)
	}

	if s.demand.TotalRemaining() > 0 {
		return ErrUnsatisfiedDemand
	}
	return nil
}

// runEntryPallet drains entry pallet i into exit pallets for as long as
// it is non-empty and some destination still wants its SKU.
func (s *UnlimitedExitScheduler) runEntryPallet(i int) {
	entry := s.entryPallets[i]
	if entry.Empty() {
		return
	}

	destinations := s.demand.DestinationsForSKU(entry.SKU)
	for !entry.Empty() && len(destinations) > 0 {
		s.Metrics.Snapshot()

		j := s.findOpenExitFor(destinations)
		if j < 0 {
			dp := NewDestPallet(s.destIDs.Next(), destinations[0])
			s.exitPallets = append(s.exitPallets, dp)
			j = len(s.exitPallets) - 1
		}
		s.layerTransferBatch(i, j)
		s.retireExitPallets()

		destinations = s.demand.DestinationsForSKU(entry.SKU)
	}
}

// findOpenExitFor returns the index of the first exit pallet bound to one
// of destinations that is not yet complete, or -1 if none match.
func (s *UnlimitedExitScheduler) findOpenExitFor(destinations []Destination) int {
	want := make(map[Destination]bool, len(destinations))
	for _, d := range destinations {
		want[d] = true
	}
	for j, p := range s.exitPallets {
		if !p.Complete() && want[p.Destination] {
			return j
		}
	}
	return -1
}

// retireExitPallets moves every complete exit pallet, or every exit
// pallet whose destination no longer carries demand, into completed.
func (s *UnlimitedExitScheduler) retireExitPallets() {
	kept := s.exitPallets[:0]
	for _, p := range s.exitPallets {
		if p.Complete() || s.demand.RemainingForDestination(p.Destination) == 0 {
			s.completed = append(s.completed, p)
			continue
		}
		kept = append(kept, p)
	}
	s.exitPallets = kept
}

// layerTransferBatch moves min(layers needed, entry remaining,
// exit free space) layers from entryPallets[i] to exitPallets[j] in one
// continuous run, counted as a single batch transfer.
func (s *UnlimitedExitScheduler) layerTransferBatch(i, j int) {
	entry := s.entryPallets[i]
	exit := s.exitPallets[j]
	sku := entry.SKU

	q := min(s.demand.LayersNeeded(exit.Destination, sku), entry.Remaining(), LayersPerPallet-exit.Len())
	if q <= 0 {
		return
	}

	for k := 0; k < q; k++ {
		layer, err := entry.TakeTop()
		if err != nil {
			return
		}
		if err := exit.Add(layer); err != nil {
			return
		}
		s.demand.DecrementOne(exit.Destination, sku)
		s.Metrics.RecordTransfer()
	}
	s.Metrics.RecordBatchTransfer()
}

// applySwapPolicy refreshes entry pallet slots at the end of an outer
// pass: every slot is replaced with a freshly sampled SKU that was
// neither active this pass nor already picked this pass, falling back
// to a looser exclusion set before giving up on the slot. A slot with
// no candidate left is deleted.
func (s *UnlimitedExitScheduler) applySwapPolicy() {
	active := make(map[SKU]bool, len(s.entryPallets))
	for _, p := range s.entryPallets {
		active[p.SKU] = true
	}
	for sku := range active {
		s.alloc.Decrement(sku)
	}

	assigned := make(map[SKU]bool)
	toDelete := make(map[int]bool)

	for i := range s.entryPallets {
		exclude := withRemaining(s.alloc, union(active, assigned))

		pick, ok := s.alloc.SampleAvailable(s.rng, exclude)
		if !ok {
			pick, ok = s.alloc.SampleAvailable(s.rng, assigned)
		}
		if !ok {
			toDelete[i] = true
			continue
		}

		s.entryPallets[i] = NewSourcePallet(s.entryIDs.Next(), pick)
		assigned[pick] = true
		s.Metrics.RecordPalletChange()
	}

	if len(toDelete) == 0 {
		return
	}
	kept := s.entryPallets[:0]
	for i, p := range s.entryPallets {
		if !toDelete[i] {
			kept = append(kept, p)
		}
	}
	s.entryPallets = kept
}

func union(a, b map[SKU]bool) map[SKU]bool {
	out := make(map[SKU]bool, len(a)+len(b))
	for sku := range a {
		out[sku] = true
	}
	for sku := range b {
		out[sku] = true
	}
	return out
}

// withRemaining filters skus down to those SkuAllocation still reports a
// positive partial-pallet count for.
func withRemaining(alloc *SkuAllocation, skus map[SKU]bool) map[SKU]bool {
	out := make(map[SKU]bool, len(skus))
	for sku := range skus {
		if alloc.Remaining(sku) > 0 {
			out[sku] = true
		}
	}
	return out
}
