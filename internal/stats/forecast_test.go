package stats

import (
	"testing"

	"suivi-kpi/internal/delivery"
)

func forecastFixture() ([]delivery.DepotRule, []delivery.CarrierRule, []delivery.ForecastRule) {
	depotRules := []delivery.DepotRule{
		{Name: "CLV", Keywords: []string{"clv"}},
	}
	carrierRules := []delivery.CarrierRule{
		{Carrier: "Staff", Keywords: []string{"staff"}},
	}
	forecastRules := []delivery.ForecastRule{
		{Type: delivery.ForecastRuleTime, Category: delivery.CategoryMatin, Keywords: []string{"matin"}, IsActive: true},
		{Type: delivery.ForecastRuleTime, Category: delivery.CategorySoir, Keywords: []string{"soir"}, IsActive: true},
		{Type: delivery.ForecastRuleType, Category: "BU", Keywords: []string{"bu-"}, IsActive: true},
	}
	return depotRules, carrierRules, forecastRules
}

func TestClassifyForecast_ExcludesUnresolvableDepots(t *testing.T) {
	depotRules, carrierRules, forecastRules := forecastFixture()
	rounds := []delivery.Round{
		{Name: "T001 matin", HubName: "Entrepot CLV Vitry", Driver: "Karim Staff"},
		{Name: "T002 matin", HubName: "Plateforme Nord", Driver: "Karim Staff"}, // no depot match
	}

	result := ClassifyForecast(rounds, forecastRules, depotRules, carrierRules)

	if len(result) != 1 {
		t.Fatalf("Expected 1 depot, got %d", len(result))
	}
	if _, ok := result["Inconnu"]; ok {
		t.Error("Unresolvable depots must be excluded, not bucketed under Inconnu")
	}
	if result["CLV"]["Staff"].Total != 1 {
		t.Errorf("Expected 1 round under CLV/Staff, got %d", result["CLV"]["Staff"].Total)
	}
}

func TestClassifyForecast_TimeFirstMatchWins(t *testing.T) {
	depotRules, carrierRules, forecastRules := forecastFixture()
	// Round name matches both matin and soir; only the first rule fires.
	rounds := []delivery.Round{
		{Name: "T001 matin soir", HubName: "CLV Vitry", Driver: "Staff"},
	}

	cell := ClassifyForecast(rounds, forecastRules, depotRules, carrierRules)["CLV"]["Staff"]
	if cell.Matin != 1 || cell.Soir != 0 {
		t.Errorf("Expected matin=1 soir=0, got %+v", cell)
	}
}

func TestClassifyForecast_BuSuppressesClassique(t *testing.T) {
	depotRules, carrierRules, forecastRules := forecastFixture()
	rounds := []delivery.Round{
		{Name: "bu-pro T001 matin", HubName: "CLV Vitry", Driver: "Staff"},
		{Name: "T002 soir", HubName: "CLV Vitry", Driver: "Staff"},
	}

	cell := ClassifyForecast(rounds, forecastRules, depotRules, carrierRules)["CLV"]["Staff"]

	if cell.Total != 2 {
		t.Fatalf("Expected total 2, got %d", cell.Total)
	}
	if cell.Bu != 1 || cell.Classique != 1 {
		t.Errorf("Expected bu=1 classique=1, got %+v", cell)
	}
	// The BU round still counts toward its time bucket: the axes are orthogonal.
	if cell.Matin != 1 || cell.Soir != 1 {
		t.Errorf("Expected matin=1 soir=1, got %+v", cell)
	}
}

func TestClassifyForecast_BuIsPrefixOnly(t *testing.T) {
	depotRules, carrierRules, forecastRules := forecastFixture()
	// "bu-" appears mid-name: type rules match prefixes only.
	rounds := []delivery.Round{
		{Name: "T001 bu-pro", HubName: "CLV Vitry", Driver: "Staff"},
	}

	cell := ClassifyForecast(rounds, forecastRules, depotRules, carrierRules)["CLV"]["Staff"]
	if cell.Bu != 0 || cell.Classique != 1 {
		t.Errorf("Expected classique round, got %+v", cell)
	}
}

func TestClassifyForecast_IgnoresInactiveRules(t *testing.T) {
	depotRules, carrierRules, _ := forecastFixture()
	forecastRules := []delivery.ForecastRule{
		{Type: delivery.ForecastRuleTime, Category: delivery.CategoryMatin, Keywords: []string{"matin"}, IsActive: false},
	}
	rounds := []delivery.Round{
		{Name: "T001 matin", HubName: "CLV Vitry", Driver: "Staff"},
	}

	cell := ClassifyForecast(rounds, forecastRules, depotRules, carrierRules)["CLV"]["Staff"]
	if cell.Matin != 0 {
		t.Errorf("Inactive rule must not classify, got %+v", cell)
	}
	if cell.Total != 1 || cell.Classique != 1 {
		t.Errorf("Round still counts toward total/classique, got %+v", cell)
	}
}

func TestClassifyForecast_UnknownCarrierKept(t *testing.T) {
	depotRules, carrierRules, forecastRules := forecastFixture()
	rounds := []delivery.Round{
		{Name: "T001", HubName: "CLV Vitry", Driver: "Sam Externe"},
	}

	result := ClassifyForecast(rounds, forecastRules, depotRules, carrierRules)
	if result["CLV"]["Inconnu"].Total != 1 {
		t.Errorf("Carrier fallback must be Inconnu, got %+v", result["CLV"])
	}
}
