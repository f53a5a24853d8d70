package grouping

import (
	"strings"

	"suivi-kpi/internal/delivery"
)

// Hub categories. The category split (warehouse vs in-store drop point) is a
// naming-convention classification, independent of the depot rule outcome.
const (
	CategoryDepot   = "depot"
	CategoryMagasin = "magasin"
	CategoryAutre   = "autre"
)

// DepotFor resolves a hub name to its depot label using the ordered depot
// rules (substring match). Unmatched or empty hub names resolve to Unknown.
func DepotFor(hubName string, rules []delivery.DepotRule) string {
	if rule, ok := MatchFirst(rules, hubName, ModeContains); ok {
		return rule.Name
	}
	return Unknown
}

// CategoryFor splits hubs into warehouses ("depot") and in-store drop points
// ("magasin") by naming convention. Store hubs carry a "magasin" or "mag "
// marker in their name; anything else with a name is a warehouse. The result
// does not depend on the depot rule configuration.
func CategoryFor(hubName string) string {
	name := strings.ToLower(strings.TrimSpace(hubName))
	if name == "" {
		return CategoryAutre
	}
	if strings.Contains(name, "magasin") || strings.HasPrefix(name, "mag ") || strings.HasPrefix(name, "mag_") {
		return CategoryMagasin
	}
	return CategoryDepot
}
