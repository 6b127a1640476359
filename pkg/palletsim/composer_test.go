package palletsim

import "testing"

func TestComposeDestination_PairFill(t *testing.T) {
	rows := []DemandRow{
		{Destination: "D1", SKU: 1, Remaining: 10},
		{Destination: "D1", SKU: 2, Remaining: 5},
	}

	pallets, err := ComposeDestination("D1", rows)
	if err != nil {
		t.Fatalf("ComposeDestination failed: %v", err)
	}

	if len(pallets) != 2 {
		t.Fatalf("expected 2 pallet rows, got %d", len(pallets))
	}
	if pallets[0].PalletOrdinal != 1 || pallets[1].PalletOrdinal != 1 {
		t.Fatalf("expected a single pallet, got ordinals %d,%d", pallets[0].PalletOrdinal, pallets[1].PalletOrdinal)
	}

	total := 0
	for _, p := range pallets {
		total += p.Layers
	}
	if total != 15 {
		t.Errorf("expected 15 total layers, got %d", total)
	}
}

func TestComposeDestination_ExactFill(t *testing.T) {
	// Counts 7, 8, 3, 12 must compose into [12,3] then [8,7]: two
	// complete pallets, no third.
	rows := []DemandRow{
		{Destination: "D1", SKU: 1, Remaining: 7},  // A
		{Destination: "D1", SKU: 2, Remaining: 8},  // B
		{Destination: "D1", SKU: 3, Remaining: 3},  // C
		{Destination: "D1", SKU: 4, Remaining: 12}, // D
	}

	pallets, err := ComposeDestination("D1", rows)
	if err != nil {
		t.Fatalf("ComposeDestination failed: %v", err)
	}

	byOrdinal := make(map[int][]PalletRow)
	maxOrdinal := 0
	for _, p := range pallets {
		byOrdinal[p.PalletOrdinal] = append(byOrdinal[p.PalletOrdinal], p)
		if p.PalletOrdinal > maxOrdinal {
			maxOrdinal = p.PalletOrdinal
		}
	}
	if maxOrdinal != 2 {
		t.Fatalf("expected exactly 2 pallets, got %d", maxOrdinal)
	}

	for ordinal, rows := range byOrdinal {
		total := 0
		for _, r := range rows {
			total += r.Layers
		}
		if total != 15 {
			t.Errorf("pallet %d: expected 15 layers, got %d", ordinal, total)
		}
	}

	first := byOrdinal[1]
	if len(first) != 2 || first[0].SKU != 4 || first[0].Layers != 12 || first[1].SKU != 3 || first[1].Layers != 3 {
		t.Errorf("expected first pallet [(D,12),(C,3)], got %+v", first)
	}
}

func TestComposeDestination_RejectsOversizedRow(t *testing.T) {
	rows := []DemandRow{{Destination: "D1", SKU: 1, Remaining: 20}}
	if _, err := ComposeDestination("D1", rows); err != ErrTypeMismatch {
		t.Fatalf("expected ErrTypeMismatch for an oversized row, got %v", err)
	}
}

func TestComposeDestination_CoverageMatchesInput(t *testing.T) {
	rows := []DemandRow{
		{Destination: "D1", SKU: 1, Remaining: 9},
		{Destination: "D1", SKU: 2, Remaining: 4},
		{Destination: "D1", SKU: 3, Remaining: 6},
		{Destination: "D1", SKU: 4, Remaining: 11},
	}

	pallets, err := ComposeDestination("D1", rows)
	if err != nil {
		t.Fatalf("ComposeDestination failed: %v", err)
	}

	wantTotal := 0
	for _, r := range rows {
		wantTotal += r.Remaining
	}
	gotTotal := 0
	for _, p := range pallets {
		gotTotal += p.Layers
		if p.Layers > LayersPerPallet {
			t.Errorf("pallet row exceeds capacity: %+v", p)
		}
	}
	if gotTotal != wantTotal {
		t.Errorf("coverage mismatch: want %d, got %d", wantTotal, gotTotal)
	}
}
