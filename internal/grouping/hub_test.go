package grouping

import (
	"testing"

	"suivi-kpi/internal/delivery"
)

func TestDepotFor(t *testing.T) {
	rules := []delivery.DepotRule{
		{Name: "CLV", Keywords: []string{"clv"}},
		{Name: "Lyon", Keywords: []string{"lyon"}},
	}

	if got := DepotFor("Entrepot CLV Vitry", rules); got != "CLV" {
		t.Errorf("Expected CLV, got %q", got)
	}
	if got := DepotFor("Entrepot Lyon Sud", rules); got != "Lyon" {
		t.Errorf("Expected Lyon, got %q", got)
	}
	if got := DepotFor("Plateforme Nord", rules); got != Unknown {
		t.Errorf("Expected %q fallback, got %q", Unknown, got)
	}
	if got := DepotFor("", rules); got != Unknown {
		t.Errorf("Expected %q for empty hub, got %q", Unknown, got)
	}
	if got := DepotFor("Entrepot CLV Vitry", nil); got != Unknown {
		t.Errorf("Expected %q with no rules, got %q", Unknown, got)
	}
}

func TestCategoryFor(t *testing.T) {
	cases := []struct {
		hub  string
		want string
	}{
		{"Entrepot CLV Vitry", CategoryDepot},
		{"Magasin City Bastille", CategoryMagasin},
		{"MAGASIN Drive Clichy", CategoryMagasin},
		{"mag Bastille", CategoryMagasin},
		{"Plateforme Nord", CategoryDepot},
		{"", CategoryAutre},
		{"   ", CategoryAutre},
	}

	for _, tc := range cases {
		if got := CategoryFor(tc.hub); got != tc.want {
			t.Errorf("CategoryFor(%q) = %q, want %q", tc.hub, got, tc.want)
		}
	}
}

func TestClassifyCarriers(t *testing.T) {
	rules := []delivery.CarrierRule{
		{Carrier: "Staff", Keywords: []string{"staff"}},
		{Carrier: "Urbaine", Keywords: []string{"urbaine"}},
	}
	rounds := []delivery.Round{
		{Name: "T001", Driver: "Karim Staff"},
		{Name: "T002 urbaine", Driver: "Jo"},
		{Name: "T003", Driver: "Sam Externe"},
		{Name: "T004", Driver: "Sam Externe"},
		{Name: "T005", Driver: ""},
	}

	carriers, unassigned := ClassifyCarriers(rounds, rules)

	if carriers["T001"] != "Staff" {
		t.Errorf("Expected driver match, got %q", carriers["T001"])
	}
	// Driver misses, round name catches.
	if carriers["T002 urbaine"] != "Urbaine" {
		t.Errorf("Expected round-name fallback, got %q", carriers["T002 urbaine"])
	}
	if carriers["T003"] != Unknown {
		t.Errorf("Expected %q, got %q", Unknown, carriers["T003"])
	}

	// One unassigned driver aggregated over both rounds; empty drivers stay off the list.
	if len(unassigned) != 1 {
		t.Fatalf("Expected 1 unassigned driver, got %d", len(unassigned))
	}
	if unassigned[0].Driver != "Sam Externe" || unassigned[0].Rounds != 2 {
		t.Errorf("Unexpected unassigned entry: %+v", unassigned[0])
	}
}
