package repository

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "demand.csv")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestLoader_LoadDemandRecordsParsesRows(t *testing.T) {
	path := writeCSV(t, "date,destination,sku,trays\n2026-01-05,D1,1,40\n2026-01-05,D2,2,8\n")

	records, err := NewLoader().LoadDemandRecords(path)
	if err != nil {
		t.Fatalf("LoadDemandRecords failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Destination != "D1" || records[0].SKU != 1 || records[0].Trays != 40 {
		t.Errorf("unexpected first record: %+v", records[0])
	}
}

func TestLoader_ReducesTraysModuloFullPallet(t *testing.T) {
	// 15 layers * 4 trays = 60 trays per full pallet: 100 reduces to 40,
	// 60 reduces to 0 and the row is dropped.
	path := writeCSV(t, "date,destination,sku,trays\n2026-01-05,D1,1,100\n2026-01-05,D2,2,60\n2026-01-05,D3,3,59\n")

	records, err := NewLoader().LoadDemandRecords(path)
	if err != nil {
		t.Fatalf("LoadDemandRecords failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected the 60-tray row to be dropped, got %d records", len(records))
	}
	if records[0].Trays != 40 {
		t.Errorf("expected 100 trays to reduce to 40, got %d", records[0].Trays)
	}
	if records[1].Destination != "D3" || records[1].Trays != 59 {
		t.Errorf("expected the 59-tray row untouched, got %+v", records[1])
	}
}

func TestLoader_RejectsHeaderMismatch(t *testing.T) {
	path := writeCSV(t, "day,dest,sku,trays\n2026-01-05,D1,1,40\n")

	if _, err := NewLoader().LoadDemandRecords(path); err == nil {
		t.Fatal("expected header mismatch error, got nil")
	}
}

func TestLoader_RejectsMalformedRow(t *testing.T) {
	path := writeCSV(t, "date,destination,sku,trays\n2026-01-05,D1,notanumber,40\n")

	if _, err := NewLoader().LoadDemandRecords(path); err == nil {
		t.Fatal("expected parse error for malformed sku column, got nil")
	}
}
