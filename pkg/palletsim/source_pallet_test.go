package palletsim

import "testing"

func TestSourcePallet_TakeTopDrainsInOrder(t *testing.T) {
	p := NewSourcePallet(1, 42)
	if p.Empty() {
		t.Fatal("freshly constructed pallet should not be empty")
	}
	if p.Remaining() != LayersPerPallet {
		t.Fatalf("expected %d layers, got %d", LayersPerPallet, p.Remaining())
	}

	for i := LayersPerPallet - 1; i >= 0; i-- {
		layer, err := p.TakeTop()
		if err != nil {
			t.Fatalf("TakeTop failed at layer %d: %v", i, err)
		}
		if layer.SKU != 42 {
			t.Errorf("layer sku mismatch: want 42, got %d", layer.SKU)
		}
		if layer.LayerNo != i {
			t.Errorf("expected layer_no %d, got %d", i, layer.LayerNo)
		}
	}

	if !p.Empty() {
		t.Fatal("pallet should be empty after draining all layers")
	}
}

func TestSourcePallet_TakeTopOnEmptyFails(t *testing.T) {
	p := NewSourcePallet(1, 1)
	for !p.Empty() {
		if _, err := p.TakeTop(); err != nil {
			t.Fatalf("unexpected error while draining: %v", err)
		}
	}
	if _, err := p.TakeTop(); err != ErrPalletEmpty {
		t.Fatalf("expected ErrPalletEmpty, got %v", err)
	}
}
