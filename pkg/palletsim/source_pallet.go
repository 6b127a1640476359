package palletsim

// SourcePallet is a full, single-SKU inbound pallet: a LIFO stack of
// Layers. It is built full and only ever shrinks.
type SourcePallet struct {
	ID     int
	SKU    SKU
	layers []Layer
}

// NewSourcePallet instantiates a full pallet of the given SKU, with
// layers tagged 0..LayersPerPallet-1.
func NewSourcePallet(id int, sku SKU) *SourcePallet {
	layers := make([]Layer, LayersPerPallet)
	for i := range layers {
		layers[i] = Layer{SKU: sku, LayerNo: i}
	}
	return &SourcePallet{ID: id, SKU: sku, layers: layers}
}

// Empty reports whether the pallet has no layers left. It is always
// derived, never set directly.
func (p *SourcePallet) Empty() bool {
	return len(p.layers) == 0
}

// Remaining returns the number of layers still on the pallet.
func (p *SourcePallet) Remaining() int {
	return len(p.layers)
}

// TakeTop removes and returns the top layer of the stack. It fails with
// ErrPalletEmpty if the pallet has nothing left.
func (p *SourcePallet) TakeTop() (Layer, error) {
	if p.Empty() {
		return Layer{}, ErrPalletEmpty
	}
	last := len(p.layers) - 1
	layer := p.layers[last]
	p.layers = p.layers[:last]
	return layer, nil
}
