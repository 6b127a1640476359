package palletsim

// MetricsSnapshot is a point-in-time copy of the running counters,
// appended to the ledger at each iteration of strategy A's inner pass.
type MetricsSnapshot struct {
	RemainingLayers     int
	NumExitPallets      int
	NumCompletedPallets int
	TransferedLayers    int
	BatchTransfers      int
	PalletChanges       int
}

// SimulationMetrics holds the running counters and per-step ledger for
// one simulation run.
type SimulationMetrics struct {
	TotalPallets int
	TotalLayers  int

	RemainingLayers     int
	NumExitPallets      int
	NumCompletedPallets int
	TransferedLayers    int
	BatchTransfers      int
	PalletChanges       int

	Ledger []MetricsSnapshot
}

// NewSimulationMetrics captures the start-of-simulation totals.
func NewSimulationMetrics(totalPallets, totalLayers int) *SimulationMetrics {
	return &SimulationMetrics{TotalPallets: totalPallets, TotalLayers: totalLayers}
}

// Snapshot appends the current counter values to the ledger.
func (m *SimulationMetrics) Snapshot() {
	m.Ledger = append(m.Ledger, MetricsSnapshot{
		RemainingLayers:     m.RemainingLayers,
		NumExitPallets:      m.NumExitPallets,
		NumCompletedPallets: m.NumCompletedPallets,
		TransferedLayers:    m.TransferedLayers,
		BatchTransfers:      m.BatchTransfers,
		PalletChanges:       m.PalletChanges,
	})
}

// RecordTransfer bumps the layer-transfer counter by one layer.
func (m *SimulationMetrics) RecordTransfer() {
	m.TransferedLayers++
}

// RecordBatchTransfer bumps the batch-transfer counter. Callers must
// only call this once per contiguous same-source/same-destination run.
func (m *SimulationMetrics) RecordBatchTransfer() {
	m.BatchTransfers++
}

// RecordPalletChange bumps the source-pallet swap counter.
func (m *SimulationMetrics) RecordPalletChange() {
	m.PalletChanges++
}
