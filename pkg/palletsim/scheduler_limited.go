package palletsim

import "sort"

// LimitedPositionScheduler is the batch-driven simulator for a cell with
// a limited number of source-pallet positions: it composes a day's
// demand into output-pallet specs, groups them into batches via
// PlanBatches (with maxEntrySKUs as the planner's cap), and runs each
// group to completion before advancing to the next.
type LimitedPositionScheduler struct {
	demand       *DayDemand
	maxEntrySKUs int

	entryIDs idGenerator
	destIDs  idGenerator

	entryPallets []*SourcePallet
	exitPallets  []*DestPallet
	completed    []*DestPallet

	Metrics   *SimulationMetrics
	EntryPlan []EntryPlanRow
	ExitPlan  []ExitPlanRow
}

// NewLimitedPositionScheduler prepares a scheduler for one day's demand.
// maxEntrySKUs is passed to PlanBatches as its cap N on the distinct
// source SKUs per batch.
func NewLimitedPositionScheduler(demand *DayDemand, maxEntrySKUs int) *LimitedPositionScheduler {
	totalLayers := demand.TotalRemaining()
	s := &LimitedPositionScheduler{
		demand:       demand,
		maxEntrySKUs: maxEntrySKUs,
		Metrics:      NewSimulationMetrics(0, totalLayers),
	}
	s.Metrics.RemainingLayers = totalLayers
	return s
}

// CompletedPallets returns every DestPallet retired during the run, in
// retirement order.
func (s *LimitedPositionScheduler) CompletedPallets() []*DestPallet {
	out := make([]*DestPallet, len(s.completed))
	copy(out, s.completed)
	return out
}

// Run composes the day's demand, plans batches, and drives every group
// to completion in order. It returns ErrUnsatisfiedDemand if demand
// remains afterward; the metrics are valid either way.
func (s *LimitedPositionScheduler) Run() error {
	rows, err := s.composeAll()
	if err != nil {
		return err
	}

	s.EntryPlan, s.ExitPlan = PlanBatches(rows, s.maxEntrySKUs)
	s.Metrics.TotalPallets = countPallets(rows)

	for _, g := range buildGroups(s.EntryPlan, s.ExitPlan) {
		s.runGroup(g)
		s.Metrics.RemainingLayers = s.demand.TotalRemaining()
		s.Metrics.NumCompletedPallets = len(s.completed)
	}

	if s.demand.TotalRemaining() > 0 {
		return ErrUnsatisfiedDemand
	}
	return nil
}

// composeAll runs the composer over every destination still carrying
// demand, in destination order. Rows needing more than a full pallet of
// one SKU are split here, before the composer sees them: splitting
// oversized rows is the scheduler's job, the composer rejects them.
func (s *LimitedPositionScheduler) composeAll() ([]PalletRow, error) {
	var all []PalletRow
	for _, dest := range s.demand.Destinations() {
		rows, err := ComposeDestination(dest, splitOversizedRows(s.demand.RowsForDestination(dest)))
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
	}
	return all, nil
}

// splitOversizedRows chunks any row over LayersPerPallet into full-pallet
// pieces plus a remainder, preserving row order.
func splitOversizedRows(rows []DemandRow) []DemandRow {
	out := make([]DemandRow, 0, len(rows))
	for _, r := range rows {
		for r.Remaining > LayersPerPallet {
			out = append(out, DemandRow{Destination: r.Destination, SKU: r.SKU, Remaining: LayersPerPallet})
			r.Remaining -= LayersPerPallet
		}
		out = append(out, r)
	}
	return out
}

func countPallets(rows []PalletRow) int {
	seen := make(map[Destination]map[int]bool)
	count := 0
	for _, r := range rows {
		byOrdinal, ok := seen[r.Destination]
		if !ok {
			byOrdinal = make(map[int]bool)
			seen[r.Destination] = byOrdinal
		}
		if !byOrdinal[r.PalletOrdinal] {
			byOrdinal[r.PalletOrdinal] = true
			count++
		}
	}
	return count
}

// batchGroup is one BatchPlanner group's worth of entry and exit rows.
type batchGroup struct {
	id    int
	entry []EntryPlanRow
	exit  []ExitPlanRow
}

// buildGroups rebuilds the ordered list of batch groups from the
// planner's flattened entry/exit tables.
func buildGroups(entryPlan []EntryPlanRow, exitPlan []ExitPlanRow) []*batchGroup {
	index := make(map[int]*batchGroup)
	var ids []int
	get := func(id int) *batchGroup {
		g, ok := index[id]
		if !ok {
			g = &batchGroup{id: id}
			index[id] = g
			ids = append(ids, id)
		}
		return g
	}
	for _, e := range entryPlan {
		g := get(e.Group)
		g.entry = append(g.entry, e)
	}
	for _, x := range exitPlan {
		g := get(x.Group)
		g.exit = append(g.exit, x)
	}

	sort.Ints(ids)
	out := make([]*batchGroup, 0, len(ids))
	for _, id := range ids {
		out = append(out, index[id])
	}
	return out
}

// entrySlot tracks one source-pallet position within a batch: its SKU,
// its current pallet (nil once exhausted with no refills left), and how
// many more full pallets of that SKU the EntryPlan allows it to load.
type entrySlot struct {
	sku         SKU
	pallet      *SourcePallet
	palletsLeft int
}

type exitPalletKey struct {
	destination Destination
	ordinal     int
}

type exitRowState struct {
	key       exitPalletKey
	sku       SKU
	remaining int
}

// runGroup stages one source-pallet slot per EntryPlan row of the group
// and every exit pallet for the group up front; the slot count is not
// capped at maxEntrySKUs, so a group whose SKU set exceeds the cap gets
// a slot for every SKU in it. It then repeatedly sweeps slots into
// matching exit rows, refilling a slot from its remaining EntryPlan
// allotment whenever it runs dry, until every exit row is satisfied or
// no slot can make further progress.
func (s *LimitedPositionScheduler) runGroup(g *batchGroup) {
	palletOf := make(map[exitPalletKey]*DestPallet)
	var palletOrder []exitPalletKey
	var rows []*exitRowState

	for _, x := range g.exit {
		key := exitPalletKey{destination: x.Destination, ordinal: x.PalletOrdinal}
		if _, ok := palletOf[key]; !ok {
			dp := NewDestPallet(s.destIDs.Next(), x.Destination)
			palletOf[key] = dp
			palletOrder = append(palletOrder, key)
			s.exitPallets = append(s.exitPallets, dp)
		}
		rows = append(rows, &exitRowState{key: key, sku: x.SKU, remaining: x.Layers})
	}

	slots := make([]*entrySlot, 0, len(g.entry))
	for _, e := range g.entry {
		slot := &entrySlot{sku: e.SKU, palletsLeft: e.PalletsCount}
		slot.pallet = s.loadNextPallet(slot)
		slots = append(slots, slot)
		if slot.pallet != nil {
			s.entryPallets = append(s.entryPallets, slot.pallet)
		}
	}

	for {
		progressed := false
		for _, slot := range slots {
			if slot.pallet == nil || slot.pallet.Empty() {
				slot.pallet = s.loadNextPallet(slot)
			}
			if slot.pallet == nil {
				continue
			}
			for _, key := range palletOrder {
				if slot.pallet.Empty() {
					break
				}
				row := findRow(rows, key, slot.sku)
				if row == nil || row.remaining <= 0 {
					continue
				}
				q := min(row.remaining, slot.pallet.Remaining())
				if q <= 0 {
					continue
				}
				dp := palletOf[key]
				for n := 0; n < q; n++ {
					layer, err := slot.pallet.TakeTop()
					if err != nil {
						break
					}
					if err := dp.Add(layer); err != nil {
						break
					}
					s.demand.DecrementOne(dp.Destination, slot.sku)
					s.Metrics.RecordTransfer()
				}
				row.remaining -= q
				s.Metrics.RecordBatchTransfer()
				progressed = true
			}
		}

		if !progressed || exitRowsSatisfied(rows) {
			break
		}
	}

	for _, key := range palletOrder {
		s.completed = append(s.completed, palletOf[key])
	}
	s.exitPallets = nil
	s.entryPallets = nil
}

func (s *LimitedPositionScheduler) loadNextPallet(slot *entrySlot) *SourcePallet {
	if slot.palletsLeft <= 0 {
		return nil
	}
	slot.palletsLeft--
	return NewSourcePallet(s.entryIDs.Next(), slot.sku)
}

func findRow(rows []*exitRowState, key exitPalletKey, sku SKU) *exitRowState {
	for _, r := range rows {
		if r.key == key && r.sku == sku {
			return r
		}
	}
	return nil
}

func exitRowsSatisfied(rows []*exitRowState) bool {
	for _, r := range rows {
		if r.remaining > 0 {
			return false
		}
	}
	return true
}
