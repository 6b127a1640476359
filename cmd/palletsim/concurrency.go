package main

import (
	"sync"
	"time"

	"github.com/vsinha/palletsim/pkg/repository"
)

// runDays simulates every date in dates, independently (each day owns
// its own DayDemand, SkuAllocation, and scheduler instance, carrying no
// state across days). Up to concurrency days run at once; a
// concurrency of 1 or less runs them sequentially. The result order is
// always ascending by date regardless of completion order.
func runDays(store *repository.Store, dates []time.Time, cfg runConfig, concurrency int) []DayResult {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]DayResult, len(dates))

	if concurrency == 1 || len(dates) <= 1 {
		for i, date := range dates {
			results[i] = runOneDay(store, date, cfg)
		}
		return sortedResults(results)
	}

	var (
		wg  sync.WaitGroup
		sem = make(chan struct{}, concurrency)
	)

	for i, date := range dates {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, date time.Time) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = runOneDay(store, date, cfg)
		}(i, date)
	}
	wg.Wait()

	return sortedResults(results)
}
