package stats

import (
	"testing"

	"suivi-kpi/internal/delivery"
)

func responses(scores ...int) []delivery.NpsResponse {
	rs := make([]delivery.NpsResponse, len(scores))
	for i, s := range scores {
		rs[i] = delivery.NpsResponse{Score: s}
	}
	return rs
}

func TestComputeNps_Boundaries(t *testing.T) {
	// Exact boundary scores: 6 detractor, 7 and 8 passive, 9 promoter.
	b := ComputeNps(responses(6, 7, 8, 9))

	if b.Detractors != 1 {
		t.Errorf("Score 6 must be a detractor, got %d detractors", b.Detractors)
	}
	if b.Passives != 2 {
		t.Errorf("Scores 7 and 8 must be passives, got %d", b.Passives)
	}
	if b.Promoters != 1 {
		t.Errorf("Score 9 must be a promoter, got %d", b.Promoters)
	}
	if b.Nps == nil || *b.Nps != 0 {
		t.Errorf("Expected NPS 0 ((1-1)/4), got %v", b.Nps)
	}
}

func TestComputeNps_Range(t *testing.T) {
	if b := ComputeNps(responses(10, 10, 9)); b.Nps == nil || *b.Nps != 100 {
		t.Errorf("All promoters must give 100, got %v", b.Nps)
	}
	if b := ComputeNps(responses(0, 3, 6)); b.Nps == nil || *b.Nps != -100 {
		t.Errorf("All detractors must give -100, got %v", b.Nps)
	}
}

func TestComputeNps_Empty(t *testing.T) {
	b := ComputeNps(nil)
	if b.Total != 0 {
		t.Errorf("Expected zero total, got %d", b.Total)
	}
	if b.Nps != nil {
		t.Errorf("Expected nil NPS with no responses, got %v", *b.Nps)
	}
}

func TestNpsByCarrier(t *testing.T) {
	rs := []delivery.NpsResponse{
		{Score: 10, Carrier: "Staff"},
		{Score: 2, Carrier: "Staff"},
		{Score: 9, Carrier: "Urbaine"},
	}

	byCarrier := NpsByCarrier(rs)
	if len(byCarrier) != 2 {
		t.Fatalf("Expected 2 carriers, got %d", len(byCarrier))
	}
	// Sorted by carrier name.
	if byCarrier[0].Carrier != "Staff" || byCarrier[1].Carrier != "Urbaine" {
		t.Fatalf("Unexpected order: %+v", byCarrier)
	}
	if nps := byCarrier[0].Breakdown.Nps; nps == nil || *nps != 0 {
		t.Errorf("Expected Staff NPS 0, got %v", nps)
	}
	if nps := byCarrier[1].Breakdown.Nps; nps == nil || *nps != 100 {
		t.Errorf("Expected Urbaine NPS 100, got %v", nps)
	}
}

func TestCompareNullLast(t *testing.T) {
	a, b := 80.0, 60.0

	if CompareNullLast(&a, &b, true) >= 0 {
		t.Error("Higher value must sort first when descending")
	}
	if CompareNullLast(&a, &b, false) <= 0 {
		t.Error("Higher value must sort last when ascending")
	}
	// Nil sinks regardless of direction.
	if CompareNullLast(nil, &b, true) <= 0 || CompareNullLast(nil, &b, false) <= 0 {
		t.Error("Nil must always sort last")
	}
	if CompareNullLast(&a, nil, true) >= 0 || CompareNullLast(&a, nil, false) >= 0 {
		t.Error("Non-nil must always sort before nil")
	}
	if CompareNullLast(nil, nil, true) != 0 {
		t.Error("Two nils compare equal")
	}
}
