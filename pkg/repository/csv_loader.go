// Package repository loads and stages the day-by-day demand records that
// feed the palletizing simulator: a CSV loader for the external
// ⟨date, destination, sku, trays⟩ contract, and an in-memory store that
// groups records by date and applies the collaborator-supplied top-K SKU
// filter before a day is scheduled.
package repository

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/vsinha/palletsim/pkg/palletsim"
)

// DemandRecord is one row of the demand input: a date, a destination, a
// SKU, and a tray quantity.
type DemandRecord struct {
	Date        time.Time
	Destination palletsim.Destination
	SKU         palletsim.SKU
	Trays       int
}

// Loader reads demand records from a CSV file.
type Loader struct{}

// NewLoader creates a new CSV loader.
func NewLoader() *Loader {
	return &Loader{}
}

var expectedHeader = []string{"date", "destination", "sku", "trays"}

// LoadDemandRecords loads demand records from a CSV file with header
// "date,destination,sku,trays". Dates are parsed as YYYY-MM-DD. Tray
// counts are reduced modulo a full pallet's trays at load time, and
// rows whose count reduces to zero are dropped, so every record handed
// to the simulator is bounded by a single pallet.
func (l *Loader) LoadDemandRecords(filename string) ([]DemandRecord, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open demand file %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read demand CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("demand CSV must have header and at least one data row")
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("demand CSV header mismatch. Expected: %v, Got: %v", expectedHeader, header)
	}

	var out []DemandRecord
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("demand CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		rec, err := parseDemandRecord(record)
		if err != nil {
			return nil, fmt.Errorf("demand CSV row %d: %w", i+2, err)
		}
		if rec.Trays == 0 {
			continue
		}
		out = append(out, rec)
	}

	return out, nil
}

func parseDemandRecord(record []string) (DemandRecord, error) {
	date, err := time.Parse("2006-01-02", record[0])
	if err != nil {
		return DemandRecord{}, fmt.Errorf("invalid date %q: %w", record[0], err)
	}

	sku, err := strconv.Atoi(record[2])
	if err != nil {
		return DemandRecord{}, fmt.Errorf("invalid sku %q: %w", record[2], err)
	}

	trays, err := strconv.Atoi(record[3])
	if err != nil {
		return DemandRecord{}, fmt.Errorf("invalid trays %q: %w", record[3], err)
	}
	if trays < 0 {
		return DemandRecord{}, fmt.Errorf("trays must be non-negative, got %d", trays)
	}
	trays %= palletsim.LayersPerPallet * palletsim.TraysPerLayer

	return DemandRecord{
		Date:        date,
		Destination: palletsim.Destination(record[1]),
		SKU:         palletsim.SKU(sku),
		Trays:       trays,
	}, nil
}

func validateHeader(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
