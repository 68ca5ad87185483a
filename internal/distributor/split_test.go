package distributor

import "testing"

func TestBestBreakerPairPrefersBalancedLowLoad(t *testing.T) {
	t.Parallel()

	tr := newTransformer(TransformerType{Capacity: 500, SafeLoad: 400, Breakers: 4}, 248)
	tr.Breakers[0].assign(LoadUnit{ID: "a", CDL: 100})
	tr.Breakers[1].assign(LoadUnit{ID: "b", CDL: 20})
	tr.Breakers[2].assign(LoadUnit{ID: "c", CDL: 25})
	// Breaker 4 stays empty.

	b1, b2 := bestBreakerPair(tr.Breakers)
	if b1 == nil || b2 == nil {
		t.Fatalf("expected a pair to be found")
	}
	// (20, 0) scores (100-20)+(200-20)=260 and beats the tighter but heavier
	// (20, 25) pair at (100-5)+(200-45)=250.
	if b1.Number != 2 || b2.Number != 4 {
		t.Fatalf("expected pair (2, 4), got (%d, %d)", b1.Number, b2.Number)
	}
}

func TestBestBreakerPairFirstMaxWinsTies(t *testing.T) {
	t.Parallel()

	tr := newTransformer(TransformerType{Capacity: 500, SafeLoad: 400, Breakers: 4}, 248)

	b1, b2 := bestBreakerPair(tr.Breakers)
	if b1.Number != 1 || b2.Number != 2 {
		t.Fatalf("expected the first scanned pair (1, 2) on all-equal scores, got (%d, %d)", b1.Number, b2.Number)
	}
}

func TestBestBreakerPairSkipsDedicatedAndConsumed(t *testing.T) {
	t.Parallel()

	tr := newTransformer(TransformerType{Capacity: 500, SafeLoad: 400, Breakers: 4}, 248)
	tr.Breakers[0].Dedicated = true
	tr.Breakers[1].pairUsed = true

	b1, b2 := bestBreakerPair(tr.Breakers)
	if b1 == nil || b1.Number != 3 || b2.Number != 4 {
		t.Fatalf("expected pair (3, 4), got %v, %v", b1, b2)
	}

	tr.Breakers[2].pairUsed = true
	if b1, _ := bestBreakerPair(tr.Breakers); b1 != nil {
		t.Fatalf("expected no pair with a single eligible breaker")
	}
}

func TestPackSplitUnitsCreatesAnnotatedHalves(t *testing.T) {
	t.Parallel()

	d := &greedyDistributor{params: DefaultParams()}
	tr := newTransformer(TransformerType{Capacity: 1000, SafeLoad: 800, Breakers: 6}, 248)
	dropped := []LoadUnit{}

	unplaced := d.packSplitUnits(tr, []LoadUnit{
		{ID: "u1", Capacity: 630, CDL: 300, Category: "commercial", TimePattern: "daytime", TypeName: "dual meter"},
	}, &dropped)

	if len(unplaced) != 0 || len(dropped) != 0 {
		t.Fatalf("expected clean placement, unplaced=%v dropped=%v", unplaced, dropped)
	}

	b1, b2 := tr.Breakers[0], tr.Breakers[1]
	if !b1.pairUsed || !b2.pairUsed {
		t.Fatalf("expected both breakers marked pair-consumed")
	}
	if b1.Meters[0].ID != "u1_p1" || b1.Meters[0].Note != "part 1" {
		t.Fatalf("unexpected first half: %+v", b1.Meters[0])
	}
	if b2.Meters[0].ID != "u1_p2" || b2.Meters[0].Note != "part 2" {
		t.Fatalf("unexpected second half: %+v", b2.Meters[0])
	}
	if b1.Meters[0].CDL+b2.Meters[0].CDL != 300 {
		t.Fatalf("halves do not sum to the original load")
	}
}

func TestPackSplitUnitsDropsOversizedHalf(t *testing.T) {
	t.Parallel()

	d := &greedyDistributor{params: DefaultParams()}
	tr := newTransformer(TransformerType{Capacity: 1000, SafeLoad: 800, Breakers: 6}, 248)
	dropped := []LoadUnit{}

	unplaced := d.packSplitUnits(tr, []LoadUnit{
		{ID: "u1", Capacity: 450, CDL: 600},
	}, &dropped)

	if len(unplaced) != 0 {
		t.Fatalf("expected no recyclable units, got %v", unplaced)
	}
	if len(dropped) != 1 || dropped[0].ID != "u1" {
		t.Fatalf("expected u1 dropped permanently, got %v", dropped)
	}
}

func TestPackSplitUnitsRunsOutOfPairs(t *testing.T) {
	t.Parallel()

	d := &greedyDistributor{params: DefaultParams()}
	tr := newTransformer(TransformerType{Capacity: 500, SafeLoad: 400, Breakers: 2}, 248)
	dropped := []LoadUnit{}

	unplaced := d.packSplitUnits(tr, []LoadUnit{
		{ID: "u1", Capacity: 500, CDL: 200},
		{ID: "u2", Capacity: 500, CDL: 200},
	}, &dropped)

	if len(unplaced) != 1 || unplaced[0].ID != "u2" {
		t.Fatalf("expected u2 left for the next round, got %v", unplaced)
	}
	if len(dropped) != 0 {
		t.Fatalf("expected no permanent drops, got %v", dropped)
	}
}
