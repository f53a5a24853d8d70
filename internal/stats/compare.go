package stats

import (
	"sort"

	"suivi-kpi/internal/grouping"
)

// DepotComparison pairs a depot label with its KPI rollup.
type DepotComparison struct {
	Depot string         `json:"depot"`
	Stats DashboardStats `json:"stats"`
}

// CompareDepots computes one DashboardStats per configured depot (plus the
// Inconnu bucket when it is non-empty), reusing Aggregate with a depot filter
// so both views share identical semantics. Results are ranked by punctuality,
// depots with no measurable rate sinking to the bottom.
func CompareDepots(in Input, filter Filter) []DepotComparison {
	labels := make([]string, 0, len(in.DepotRules)+1)
	seen := make(map[string]bool)
	for _, rule := range in.DepotRules {
		if !seen[rule.Name] {
			labels = append(labels, rule.Name)
			seen[rule.Name] = true
		}
	}
	labels = append(labels, grouping.Unknown)

	results := make([]DepotComparison, 0, len(labels))
	for _, depot := range labels {
		scoped := filter
		scoped.Dimension = FilterDepot
		scoped.Value = depot
		s := Aggregate(in, scoped)
		if depot == grouping.Unknown && s.TotalTasks == 0 {
			continue
		}
		results = append(results, DepotComparison{Depot: depot, Stats: s})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return CompareNullLast(results[i].Stats.PunctualityRate, results[j].Stats.PunctualityRate, true) < 0
	})

	return results
}

// CarrierKpi is the per-carrier rollup for the comparison table.
type CarrierKpi struct {
	Carrier         string       `json:"carrier"`
	Rounds          int          `json:"rounds"`
	Tasks           int          `json:"tasks"`
	PunctualityRate *float64     `json:"punctualityRate"`
	AverageRating   *float64     `json:"averageRating"`
	Nps             NpsBreakdown `json:"nps"`
}

// RollupCarriers groups tasks by their round's resolved carrier and computes
// punctuality, rating and NPS per carrier. Tasks on rounds with no carrier
// match land under Inconnu rather than disappearing.
func RollupCarriers(in Input) []CarrierKpi {
	carrierByRound, _ := grouping.ClassifyCarriers(in.Rounds, in.CarrierRules)

	roundsPerCarrier := make(map[string]int)
	for _, round := range in.Rounds {
		roundsPerCarrier[carrierByRound[round.Name]]++
	}

	type acc struct {
		tasks, onTime, evaluable int
		ratings                  []float64
	}
	byCarrier := make(map[string]*acc)
	get := func(carrier string) *acc {
		a, ok := byCarrier[carrier]
		if !ok {
			a = &acc{}
			byCarrier[carrier] = a
		}
		return a
	}

	for _, task := range in.Tasks {
		carrier, ok := carrierByRound[task.RoundName]
		if !ok {
			carrier = grouping.Unknown
		}
		a := get(carrier)
		a.tasks++
		if ot, _, evaluableTask := Punctuality(task); evaluableTask {
			a.evaluable++
			if ot {
				a.onTime++
			}
		}
		if task.Rating != nil {
			a.ratings = append(a.ratings, float64(*task.Rating))
		}
	}

	npsPerCarrier := make(map[string]NpsBreakdown)
	for _, c := range NpsByCarrier(in.NpsResponses) {
		npsPerCarrier[c.Carrier] = c.Breakdown
	}

	results := make([]CarrierKpi, 0, len(byCarrier))
	for carrier, a := range byCarrier {
		results = append(results, CarrierKpi{
			Carrier:         carrier,
			Rounds:          roundsPerCarrier[carrier],
			Tasks:           a.tasks,
			PunctualityRate: Rate(a.onTime, a.evaluable),
			AverageRating:   Mean(a.ratings),
			Nps:             npsPerCarrier[carrier],
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if c := CompareNullLast(results[i].PunctualityRate, results[j].PunctualityRate, true); c != 0 {
			return c < 0
		}
		return results[i].Carrier < results[j].Carrier
	})

	return results
}
