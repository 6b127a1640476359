package repository

import (
	"sort"
	"time"

	"github.com/vsinha/palletsim/pkg/palletsim"
)

// Store groups demand records by date and applies a per-day top-K SKU
// filter before a day is handed to the simulator: the simulator's input
// for a day is the intersection of that day's rows with its top-K SKU
// set.
type Store struct {
	byDate map[time.Time][]DemandRecord
	dates  []time.Time
}

// NewStore indexes records by date, keeping the distinct dates sorted
// ascending.
func NewStore(records []DemandRecord) *Store {
	s := &Store{byDate: make(map[time.Time][]DemandRecord)}
	for _, r := range records {
		key := r.Date.Truncate(24 * time.Hour)
		if _, ok := s.byDate[key]; !ok {
			s.dates = append(s.dates, key)
		}
		s.byDate[key] = append(s.byDate[key], r)
	}
	sort.Slice(s.dates, func(i, j int) bool { return s.dates[i].Before(s.dates[j]) })
	return s
}

// Dates returns the distinct dates in scope, ascending.
func (s *Store) Dates() []time.Time {
	out := make([]time.Time, len(s.dates))
	copy(out, s.dates)
	return out
}

// TopKSKUs ranks the SKUs present on date by total trays demanded across
// every destination, descending, ties broken by SKU ascending, and
// returns up to k of them.
func (s *Store) TopKSKUs(date time.Time, k int) []palletsim.SKU {
	totals := make(map[palletsim.SKU]int)
	for _, r := range s.byDate[date.Truncate(24*time.Hour)] {
		totals[r.SKU] += r.Trays
	}

	skus := make([]palletsim.SKU, 0, len(totals))
	for sku := range totals {
		skus = append(skus, sku)
	}
	sort.Slice(skus, func(i, j int) bool {
		if totals[skus[i]] != totals[skus[j]] {
			return totals[skus[i]] > totals[skus[j]]
		}
		return skus[i] < skus[j]
	})

	if k > len(skus) || k < 0 {
		k = len(skus)
	}
	return skus[:k]
}

// SetDay builds the DayDemand for date, restricted to rows whose SKU is
// in the day's top-K set, converting each matching record into a
// palletsim.DemandRecord. It is the store's analogue of the core's
// set_day(date, top_k_rows) call.
func (s *Store) SetDay(date time.Time, topK []palletsim.SKU) *palletsim.DayDemand {
	allowed := make(map[palletsim.SKU]bool, len(topK))
	for _, sku := range topK {
		allowed[sku] = true
	}

	var rows []palletsim.DemandRecord
	for _, r := range s.byDate[date.Truncate(24*time.Hour)] {
		if !allowed[r.SKU] {
			continue
		}
		rows = append(rows, palletsim.DemandRecord{
			Destination: r.Destination,
			SKU:         r.SKU,
			Trays:       r.Trays,
		})
	}
	return palletsim.NewDayDemand(rows)
}
