package stats

import (
	"sort"

	"suivi-kpi/internal/delivery"
)

// NPS score boundaries: 9-10 promoter, 7-8 passive, 0-6 detractor.
const (
	promoterFloor    = 9
	detractorCeiling = 6
)

// NpsBreakdown is the promoter/passive/detractor split of a response set.
type NpsBreakdown struct {
	Promoters  int      `json:"promoters"`
	Passives   int      `json:"passives"`
	Detractors int      `json:"detractors"`
	Total      int      `json:"total"`
	Nps        *float64 `json:"nps"`
}

// ComputeNps folds responses into an NpsBreakdown.
// Nps = (promoters - detractors) / total * 100, nil when there are no
// responses.
func ComputeNps(responses []delivery.NpsResponse) NpsBreakdown {
	var b NpsBreakdown
	for _, r := range responses {
		switch {
		case r.Score >= promoterFloor:
			b.Promoters++
		case r.Score <= detractorCeiling:
			b.Detractors++
		default:
			b.Passives++
		}
		b.Total++
	}
	if b.Total > 0 {
		v := round2(float64(b.Promoters-b.Detractors) / float64(b.Total) * 100)
		b.Nps = &v
	}
	return b
}

// CarrierNps pairs a carrier with its breakdown.
type CarrierNps struct {
	Carrier   string       `json:"carrier"`
	Breakdown NpsBreakdown `json:"breakdown"`
}

// NpsByCarrier computes a breakdown per carrier label. Responses without a
// carrier fall under the Unknown bucket of the consumer's choosing; here they
// keep their empty label so callers can decide.
func NpsByCarrier(responses []delivery.NpsResponse) []CarrierNps {
	grouped := make(map[string][]delivery.NpsResponse)
	for _, r := range responses {
		grouped[r.Carrier] = append(grouped[r.Carrier], r)
	}

	results := make([]CarrierNps, 0, len(grouped))
	for carrier, rs := range grouped {
		results = append(results, CarrierNps{Carrier: carrier, Breakdown: ComputeNps(rs)})
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Carrier < results[j].Carrier
	})
	return results
}
