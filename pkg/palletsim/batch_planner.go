package palletsim

// EntryPlanRow tells the limited-position scheduler how many source
// pallets of sku to stage for a batch group.
type EntryPlanRow struct {
	Group        int
	SKU          SKU
	PalletsCount int
}

// ExitPlanRow is one composed pallet assignment, scoped to the batch
// group it was assigned to.
type ExitPlanRow struct {
	Group         int
	Destination   Destination
	PalletOrdinal int
	SKU           SKU
	Layers        int
}

type composedPallet struct {
	destination Destination
	ordinal     int
	rows        []PalletRow
	skus        map[SKU]bool
}

func (p *composedPallet) subsetOf(s map[SKU]bool) bool {
	for sku := range p.skus {
		if !s[sku] {
			return false
		}
	}
	return true
}

func (p *composedPallet) intersects(s map[SKU]bool) bool {
	for sku := range p.skus {
		if s[sku] {
			return true
		}
	}
	return false
}

// PlanBatches groups composed output-pallet rows into batches. A batch's
// SKU set starts from its seed pallet and only grows, by whole
// intersecting pallets, while it holds fewer than maxEntrySKUs SKUs. The
// cap is not enforced strictly: a seed pallet already carrying more SKUs
// keeps them all, and merging a pallet can add several SKUs at once.
func PlanBatches(rows []PalletRow, maxEntrySKUs int) (entry []EntryPlanRow, exit []ExitPlanRow) {
	pallets := groupByPallet(rows)

	group := 1
	for len(pallets) > 0 {
		seed := pallets[0]
		s := make(map[SKU]bool, len(seed.skus))
		for sku := range seed.skus {
			s[sku] = true
		}

		if len(s) < maxEntrySKUs {
			for _, p := range pallets[1:] {
				if len(s) == maxEntrySKUs {
					break
				}
				if p.intersects(s) {
					for sku := range p.skus {
						s[sku] = true
					}
				}
			}
		}

		var assigned []*composedPallet
		var remaining []*composedPallet
		for _, p := range pallets {
			if p.subsetOf(s) {
				assigned = append(assigned, p)
			} else {
				remaining = append(remaining, p)
			}
		}

		layersBySKU := make(map[SKU]int)
		for _, p := range assigned {
			for _, r := range p.rows {
				layersBySKU[r.SKU] += r.Layers
				exit = append(exit, ExitPlanRow{
					Group:         group,
					Destination:   p.destination,
					PalletOrdinal: p.ordinal,
					SKU:           r.SKU,
					Layers:        r.Layers,
				})
			}
		}
		for sku := range s {
			total := layersBySKU[sku]
			palletsCount := (total + LayersPerPallet - 1) / LayersPerPallet
			if palletsCount == 0 {
				continue
			}
			entry = append(entry, EntryPlanRow{Group: group, SKU: sku, PalletsCount: palletsCount})
		}

		pallets = remaining
		group++
	}

	return entry, exit
}

// groupByPallet aggregates composer output rows back into per-pallet
// SKU sets, preserving destination/pallet_ordinal row order.
func groupByPallet(rows []PalletRow) []*composedPallet {
	var out []*composedPallet
	index := make(map[Destination]map[int]int)
	for _, r := range rows {
		byOrdinal, ok := index[r.Destination]
		if !ok {
			byOrdinal = make(map[int]int)
			index[r.Destination] = byOrdinal
		}
		if i, ok := byOrdinal[r.PalletOrdinal]; ok {
			out[i].rows = append(out[i].rows, r)
			out[i].skus[r.SKU] = true
			continue
		}
		p := &composedPallet{
			destination: r.Destination,
			ordinal:     r.PalletOrdinal,
			rows:        []PalletRow{r},
			skus:        map[SKU]bool{r.SKU: true},
		}
		byOrdinal[r.PalletOrdinal] = len(out)
		out = append(out, p)
	}
	return out
}
