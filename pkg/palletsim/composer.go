package palletsim

import "sort"

// PalletRow is one composed output-pallet assignment: layers of sku
// assigned to the pallet_ordinal'th output pallet for a destination.
type PalletRow struct {
	Destination   Destination
	PalletOrdinal int
	SKU           SKU
	Layers        int
}

// skuCount is the composer's input shape: a destination's SKU/layers-
// needed rows, pre-split so that no single count exceeds LayersPerPallet.
// Splitting oversized rows is the caller's job; the composer rejects
// them (see DESIGN.md).
type skuCount struct {
	SKU   SKU
	Count int
}

// ComposeDestination packs one destination's ⟨SKU, layers_needed⟩ rows
// into a deterministic sequence of fixed-capacity pallet specs:
// largest row first, then an exact-fill search, then a partial-fill
// sweep over whatever still fits.
func ComposeDestination(destination Destination, rows []DemandRow) ([]PalletRow, error) {
	counts := make([]skuCount, 0, len(rows))
	for _, r := range rows {
		if r.Destination != destination {
			continue
		}
		if r.Remaining <= 0 || r.Remaining > LayersPerPallet {
			return nil, ErrTypeMismatch
		}
		counts = append(counts, skuCount{SKU: r.SKU, Count: r.Remaining})
	}
	if len(counts) == 0 {
		return nil, nil
	}

	// Sort rows by layers_needed descending; ties broken by SKU for
	// determinism (the source's dataframe sort only guarantees the
	// former).
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].SKU < counts[j].SKU
	})

	var out []PalletRow
	curPallet := 1
	curLayers := 0

	for len(counts) > 0 {
		head := counts[0]
		counts = counts[1:]
		out = append(out, PalletRow{Destination: destination, PalletOrdinal: curPallet, SKU: head.SKU, Layers: head.Count})
		curLayers += head.Count
		layersMissing := LayersPerPallet - curLayers

		// Exact-fill search: scan remaining rows in order for a count
		// equal to layersMissing.
		exactIdx := -1
		for j, c := range counts {
			if c.Count == layersMissing {
				exactIdx = j
				break
			}
		}
		if exactIdx >= 0 {
			c := counts[exactIdx]
			out = append(out, PalletRow{Destination: destination, PalletOrdinal: curPallet, SKU: c.SKU, Layers: c.Count})
			counts = append(counts[:exactIdx], counts[exactIdx+1:]...)
			curPallet++
			curLayers = 0
			continue
		}

		// Partial-fill sweep: take rows that fit, in order, until full.
		advanced := false
		var remaining []skuCount
		for j, c := range counts {
			if curLayers == LayersPerPallet {
				remaining = append(remaining, counts[j:]...)
				break
			}
			if c.Count <= LayersPerPallet-curLayers {
				out = append(out, PalletRow{Destination: destination, PalletOrdinal: curPallet, SKU: c.SKU, Layers: c.Count})
				curLayers += c.Count
				if curLayers == LayersPerPallet {
					advanced = true
				}
				continue
			}
			remaining = append(remaining, c)
		}
		counts = remaining

		if curLayers == LayersPerPallet {
			curPallet++
			curLayers = 0
			continue
		}
		if !advanced {
			// The outer iteration did not advance the pallet: nothing
			// more fits. Advance anyway.
			curPallet++
			curLayers = 0
		}
	}

	return out, nil
}
