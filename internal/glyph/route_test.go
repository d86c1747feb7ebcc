package glyph

import "testing"

func TestTotalCostFreeLineRun(t *testing.T) {
	m := DefaultCostModel()
	route := []Pixel{{0, 0, 1}, {1, 0, 1}, {2, 0, 1}, {3, 0, 1}}
	// Three unit steps in the same direction: the first sets the direction
	// and costs 1, the two that continue it are discounted to 0.
	if got := m.TotalCost(route); got != 1 {
		t.Fatalf("TotalCost = %d, want 1", got)
	}
}

func TestTotalCostPenLift(t *testing.T) {
	m := DefaultCostModel()
	route := []Pixel{{0, 0, 1}, {5, 5, 1}}
	got := m.TotalCost(route)
	want := 5 + DefaultPenLiftCost
	if got != want {
		t.Fatalf("TotalCost = %d, want %d", got, want)
	}
}

func TestTotalCostColorChange(t *testing.T) {
	m := DefaultCostModel()
	route := []Pixel{{0, 0, 1}, {1, 0, 2}}
	got := m.TotalCost(route)
	want := 1 + DefaultColorChangeCost
	if got != want {
		t.Fatalf("TotalCost = %d, want %d", got, want)
	}
}

func TestTotalCostSingleOrEmptyRoute(t *testing.T) {
	m := DefaultCostModel()
	if got := m.TotalCost(nil); got != 0 {
		t.Fatalf("TotalCost(nil) = %d, want 0", got)
	}
	if got := m.TotalCost([]Pixel{{0, 0, 1}}); got != 0 {
		t.Fatalf("TotalCost(single) = %d, want 0", got)
	}
}

func TestTSP2OptShortRouteUnchanged(t *testing.T) {
	o := NewOptimizer(DefaultCostModel())
	route := []Pixel{{0, 0, 1}, {5, 5, 1}}
	got := o.TSP2Opt(route)
	if len(got) != 2 || got[0] != route[0] || got[1] != route[1] {
		t.Fatalf("short route should be unchanged, got %+v", got)
	}
}

func TestTSP2OptImprovesCost(t *testing.T) {
	o := NewOptimizer(DefaultCostModel())
	route := []Pixel{{0, 0, 1}, {5, 0, 1}, {0, 1, 1}, {5, 1, 1}}
	originalCost := o.Model.TotalCost(route)
	optimized := o.TSP2Opt(route)
	optimizedCost := o.Model.TotalCost(optimized)
	if optimizedCost >= originalCost {
		t.Fatalf("optimized cost %d should be strictly less than original cost %d", optimizedCost, originalCost)
	}
	if optimized[len(optimized)-1] != route[len(route)-1] {
		t.Fatal("final point must remain pinned")
	}
}

func TestTSP2OptMonotonicity(t *testing.T) {
	o := NewOptimizer(DefaultCostModel())
	route := []Pixel{{3, 1, 1}, {0, 0, 1}, {2, 2, 1}, {1, 0, 1}, {4, 4, 1}}
	originalCost := o.Model.TotalCost(route)
	optimized := o.TSP2Opt(route)
	optimizedCost := o.Model.TotalCost(optimized)
	if optimizedCost > originalCost {
		t.Fatalf("optimized cost %d exceeds original cost %d", optimizedCost, originalCost)
	}
}
