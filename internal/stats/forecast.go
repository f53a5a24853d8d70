package stats

import (
	"suivi-kpi/internal/delivery"
	"suivi-kpi/internal/grouping"
)

// ForecastCell counts rounds per depot/carrier pair across two independent
// axes: time of day (matin/soir) and business unit (bu/classique).
type ForecastCell struct {
	Total     int `json:"total"`
	Matin     int `json:"matin"`
	Soir      int `json:"soir"`
	Bu        int `json:"bu"`
	Classique int `json:"classique"`
}

// ForecastMap is depot -> carrier -> cell.
type ForecastMap map[string]map[string]ForecastCell

// ClassifyForecast buckets rounds for the capacity forecast. Rounds whose
// depot cannot be resolved are excluded entirely (unlike dashboard
// aggregation, which keeps them under Inconnu). Inactive rules never
// participate. Time classification uses substring matching over the round
// name, business-unit classification uses prefix matching; a round not
// matched by any BU rule counts as classique regardless of its time bucket.
func ClassifyForecast(rounds []delivery.Round, forecastRules []delivery.ForecastRule, depotRules []delivery.DepotRule, carrierRules []delivery.CarrierRule) ForecastMap {
	var timeRules, buRules []delivery.ForecastRule
	for _, r := range forecastRules {
		if !r.IsActive {
			continue
		}
		switch r.Type {
		case delivery.ForecastRuleTime:
			timeRules = append(timeRules, r)
		case delivery.ForecastRuleType:
			buRules = append(buRules, r)
		}
	}

	result := make(ForecastMap)

	for _, round := range rounds {
		depot := grouping.DepotFor(round.HubName, depotRules)
		if depot == grouping.Unknown {
			continue
		}
		carrier := grouping.CarrierFor(round.Driver, round.Name, carrierRules)

		if result[depot] == nil {
			result[depot] = make(map[string]ForecastCell)
		}
		cell := result[depot][carrier]
		cell.Total++

		// Time axis: first matching rule wins, at most one bucket.
		if rule, ok := grouping.MatchFirst(timeRules, round.Name, grouping.ModeContains); ok {
			switch rule.Category {
			case delivery.CategoryMatin:
				cell.Matin++
			case delivery.CategorySoir:
				cell.Soir++
			}
		}

		// BU axis: a BU match suppresses the classique increment.
		if _, ok := grouping.MatchFirst(buRules, round.Name, grouping.ModeStartsWith); ok {
			cell.Bu++
		} else {
			cell.Classique++
		}

		result[depot][carrier] = cell
	}

	return result
}
