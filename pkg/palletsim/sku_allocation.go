package palletsim

import (
	"math/rand"
	"sort"
)

type skuAllocEntry struct {
	partialPallets int
	assigned       bool
}

// SkuAllocation is the per-day table of pallets-remaining per SKU, used
// to schedule source-pallet swaps. It is rebuilt once per day from the
// day's DayDemand.
type SkuAllocation struct {
	entries map[SKU]*skuAllocEntry
	// order holds the SKU set in a fixed, deterministic order so that
	// sample_available's random pick is reproducible for a given seed
	// regardless of Go's randomized map iteration order.
	order []SKU
}

// NewSkuAllocation aggregates total layers needed per SKU across every
// row of demand and converts it to a partial-pallet count via
// ⌈total/15⌉.
func NewSkuAllocation(demand *DayDemand) *SkuAllocation {
	totals := make(map[SKU]int)
	for _, row := range demand.Rows() {
		totals[row.SKU] += row.Remaining
	}

	skus := make([]SKU, 0, len(totals))
	for sku := range totals {
		skus = append(skus, sku)
	}
	sort.Slice(skus, func(i, j int) bool { return skus[i] < skus[j] })

	entries := make(map[SKU]*skuAllocEntry, len(totals))
	for _, sku := range skus {
		pallets := (totals[sku] + LayersPerPallet - 1) / LayersPerPallet
		entries[sku] = &skuAllocEntry{partialPallets: pallets}
	}

	return &SkuAllocation{entries: entries, order: skus}
}

// Remaining returns the partial-pallet count still available for sku.
func (a *SkuAllocation) Remaining(sku SKU) int {
	e, ok := a.entries[sku]
	if !ok {
		return 0
	}
	return e.partialPallets
}

// Decrement consumes one partial pallet of sku, floored at zero.
func (a *SkuAllocation) Decrement(sku SKU) {
	e, ok := a.entries[sku]
	if !ok || e.partialPallets == 0 {
		return
	}
	e.partialPallets--
}

// MarkAssigned records that sku is currently loaded onto an entry
// pallet.
func (a *SkuAllocation) MarkAssigned(sku SKU) {
	if e, ok := a.entries[sku]; ok {
		e.assigned = true
	}
}

// TotalPartialPallets sums partial_pallets across every SKU; the
// unlimited-exit scheduler uses this to detect that no SKU has any
// allocation left.
func (a *SkuAllocation) TotalPartialPallets() int {
	total := 0
	for _, e := range a.entries {
		total += e.partialPallets
	}
	return total
}

// HighestAllocated returns up to n SKUs with the highest partial_pallets
// count, ties broken by SKU ascending for determinism.
func (a *SkuAllocation) HighestAllocated(n int) []SKU {
	candidates := make([]SKU, len(a.order))
	copy(candidates, a.order)
	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := a.entries[candidates[i]].partialPallets, a.entries[candidates[j]].partialPallets
		if pi != pj {
			return pi > pj
		}
		return candidates[i] < candidates[j]
	})
	if n > len(candidates) {
		n = len(candidates)
	}
	return candidates[:n]
}

// SampleAvailable uniformly picks a random SKU among those with
// partial_pallets > 0 whose key is not in exclude, using rng for
// reproducibility. ok is false if no candidate remains.
func (a *SkuAllocation) SampleAvailable(rng *rand.Rand, exclude map[SKU]bool) (sku SKU, ok bool) {
	var candidates []SKU
	for _, s := range a.order {
		if exclude[s] {
			continue
		}
		if a.entries[s].partialPallets > 0 {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[rng.Intn(len(candidates))], true
}
