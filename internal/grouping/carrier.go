package grouping

import (
	"sort"

	"suivi-kpi/internal/delivery"
)

// UnassignedDriver is a diagnostic record for a driver no carrier rule
// matched. Surfacing these is part of the contract: unmatched records are
// reported, not silently dropped.
type UnassignedDriver struct {
	Driver    string `json:"driver"`
	RoundName string `json:"roundName,omitempty"`
	Rounds    int    `json:"rounds"`
}

// CarrierFor resolves a carrier label from the driver name, falling back to
// the round name (substring match in both passes). Returns Unknown when
// neither matches.
func CarrierFor(driver, roundName string, rules []delivery.CarrierRule) string {
	if rule, ok := MatchFirst(rules, driver, ModeContains); ok {
		return rule.Carrier
	}
	if rule, ok := MatchFirst(rules, roundName, ModeContains); ok {
		return rule.Carrier
	}
	return Unknown
}

// ClassifyCarriers resolves a carrier for every round and collects the
// unassigned-drivers diagnostic list. The returned map is keyed by round name
// (tasks reference rounds by name).
func ClassifyCarriers(rounds []delivery.Round, rules []delivery.CarrierRule) (map[string]string, []UnassignedDriver) {
	carriers := make(map[string]string, len(rounds))
	unassigned := make(map[string]*UnassignedDriver)

	for _, round := range rounds {
		carrier := CarrierFor(round.Driver, round.Name, rules)
		carriers[round.Name] = carrier

		if carrier == Unknown && round.Driver != "" {
			if u, ok := unassigned[round.Driver]; ok {
				u.Rounds++
			} else {
				unassigned[round.Driver] = &UnassignedDriver{
					Driver:    round.Driver,
					RoundName: round.Name,
					Rounds:    1,
				}
			}
		}
	}

	list := make([]UnassignedDriver, 0, len(unassigned))
	for _, u := range unassigned {
		list = append(list, *u)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Rounds != list[j].Rounds {
			return list[i].Rounds > list[j].Rounds
		}
		return list[i].Driver < list[j].Driver
	})

	return carriers, list
}
