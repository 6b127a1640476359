package palletsim

import "errors"

// Sentinel errors for fatal scheduler bugs, recorded non-fatal
// outcomes, and composer input guards. Checked with errors.Is.
var (
	// ErrPalletEmpty is returned by SourcePallet.TakeTop on an empty pallet.
	// Any caller that sees it has a scheduler bug: callers are expected to
	// check Empty() before calling TakeTop.
	ErrPalletEmpty = errors.New("palletsim: source pallet is empty")

	// ErrPalletComplete is returned by DestPallet.Add on a full pallet.
	ErrPalletComplete = errors.New("palletsim: destination pallet is complete")

	// ErrUnsatisfiedDemand is a non-fatal outcome: the day's metrics are
	// still valid and should be emitted, but demand remained when the
	// scheduler ran out of entry pallets or SKU allocation.
	ErrUnsatisfiedDemand = errors.New("palletsim: demand unsatisfied for the day")

	// ErrTypeMismatch guards composer input: a row shape the composer
	// does not recognize, or a precondition violation (see the composer
	// oversized-row discussion in DESIGN.md).
	ErrTypeMismatch = errors.New("palletsim: composer input row not recognized")
)
