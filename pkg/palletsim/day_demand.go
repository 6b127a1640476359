package palletsim

// DemandRecord is one row of the external input contract: a
// destination/SKU pair with a tray count already reduced modulo a full
// pallet's trays by the upstream data-loading collaborator.
type DemandRecord struct {
	Destination Destination
	SKU         SKU
	Trays       int
}

type demandKey struct {
	Destination Destination
	SKU         SKU
}

type demandRow struct {
	key       demandKey
	remaining int
}

// DayDemand is the mutable order book for one simulated day: rows of
// ⟨destination, sku⟩ → remaining_layers, mutated by every transfer.
type DayDemand struct {
	rows  []demandRow
	index map[demandKey]int
}

// NewDayDemand builds a day's order book from raw input records,
// converting trays to layers by truncating division. Records
// for the same ⟨destination, sku⟩ pair are summed; rows that would start
// at zero remaining layers are dropped.
func NewDayDemand(records []DemandRecord) *DayDemand {
	d := &DayDemand{index: make(map[demandKey]int)}
	for _, rec := range records {
		layers := rec.Trays / TraysPerLayer
		if layers <= 0 {
			continue
		}
		key := demandKey{Destination: rec.Destination, SKU: rec.SKU}
		if i, ok := d.index[key]; ok {
			d.rows[i].remaining += layers
			continue
		}
		d.index[key] = len(d.rows)
		d.rows = append(d.rows, demandRow{key: key, remaining: layers})
	}
	return d
}

// DestinationsForSKU returns the distinct destinations that still need
// layers of sku, in row order, dropping zero-remaining and duplicate
// entries.
func (d *DayDemand) DestinationsForSKU(sku SKU) []Destination {
	var out []Destination
	seen := make(map[Destination]bool)
	for _, row := range d.rows {
		if row.key.SKU != sku || row.remaining <= 0 {
			continue
		}
		if seen[row.key.Destination] {
			continue
		}
		seen[row.key.Destination] = true
		out = append(out, row.key.Destination)
	}
	return out
}

// LayersNeeded returns the remaining layer count for ⟨dest, sku⟩, or 0 if
// no such row exists.
func (d *DayDemand) LayersNeeded(dest Destination, sku SKU) int {
	key := demandKey{Destination: dest, SKU: sku}
	i, ok := d.index[key]
	if !ok {
		return 0
	}
	return d.rows[i].remaining
}

// Decrement reduces the ⟨dest, sku⟩ row by n layers (n defaults to 1 when
// called with DecrementOne), removing the row entirely once it reaches
// zero. Decrementing a row that does not exist is a no-op; decrementing
// by n at or past the remaining count removes the row.
func (d *DayDemand) Decrement(dest Destination, sku SKU, n int) {
	key := demandKey{Destination: dest, SKU: sku}
	i, ok := d.index[key]
	if !ok {
		return
	}
	d.rows[i].remaining -= n
	if d.rows[i].remaining > 0 {
		return
	}
	d.removeRow(i)
}

// DecrementOne decrements ⟨dest, sku⟩ by a single layer.
func (d *DayDemand) DecrementOne(dest Destination, sku SKU) {
	d.Decrement(dest, sku, 1)
}

// removeRow deletes row i by swapping in the last row and truncating,
// keeping the index map consistent without shifting every later row.
func (d *DayDemand) removeRow(i int) {
	last := len(d.rows) - 1
	delete(d.index, d.rows[i].key)
	if i != last {
		d.rows[i] = d.rows[last]
		d.index[d.rows[i].key] = i
	}
	d.rows = d.rows[:last]
}

// TotalRemaining sums remaining_layers across every row.
func (d *DayDemand) TotalRemaining() int {
	total := 0
	for _, row := range d.rows {
		total += row.remaining
	}
	return total
}

// Rows returns a snapshot of ⟨destination, sku, remaining⟩ for every row
// still carrying demand. Used by NewSkuAllocation.
func (d *DayDemand) Rows() []DemandRow {
	out := make([]DemandRow, 0, len(d.rows))
	for _, row := range d.rows {
		out = append(out, DemandRow{Destination: row.key.Destination, SKU: row.key.SKU, Remaining: row.remaining})
	}
	return out
}

// DemandRow is a read-only projection of one order-book row.
type DemandRow struct {
	Destination Destination
	SKU         SKU
	Remaining   int
}

// RowsForDestination returns the rows for one destination, in row order.
func (d *DayDemand) RowsForDestination(dest Destination) []DemandRow {
	var out []DemandRow
	for _, row := range d.rows {
		if row.key.Destination != dest {
			continue
		}
		out = append(out, DemandRow{Destination: row.key.Destination, SKU: row.key.SKU, Remaining: row.remaining})
	}
	return out
}

// RemainingForDestination sums remaining layers across every SKU still
// owed to dest.
func (d *DayDemand) RemainingForDestination(dest Destination) int {
	total := 0
	for _, row := range d.rows {
		if row.key.Destination == dest {
			total += row.remaining
		}
	}
	return total
}

// Destinations returns the distinct destinations with remaining demand,
// in first-seen row order.
func (d *DayDemand) Destinations() []Destination {
	var out []Destination
	seen := make(map[Destination]bool)
	for _, row := range d.rows {
		if seen[row.key.Destination] {
			continue
		}
		seen[row.key.Destination] = true
		out = append(out, row.key.Destination)
	}
	return out
}
