package delivery

import (
	"encoding/json"
	"time"
)

// timeLayouts are tried in order when a date arrives as a plain string.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FlexTime accepts the two date shapes the document store emits: an ISO-8601
// string or a native timestamp object ({"seconds":..,"nanoseconds":..}).
// Unparseable or absent values leave Valid false; they never error, so one bad
// date cannot reject a whole payload.
type FlexTime struct {
	Time  time.Time
	Valid bool
}

type storeTimestamp struct {
	Seconds     *int64 `json:"seconds"`
	Nanoseconds int64  `json:"nanoseconds"`
	USeconds    *int64 `json:"_seconds"`
	UNanos      int64  `json:"_nanoseconds"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (ft *FlexTime) UnmarshalJSON(b []byte) error {
	ft.Valid = false
	if len(b) == 0 || string(b) == "null" || string(b) == `""` {
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				ft.Time = t
				ft.Valid = true
				return nil
			}
		}
		return nil
	}

	var ts storeTimestamp
	if err := json.Unmarshal(b, &ts); err != nil {
		return nil
	}
	switch {
	case ts.Seconds != nil:
		ft.Time = time.Unix(*ts.Seconds, ts.Nanoseconds)
		ft.Valid = true
	case ts.USeconds != nil:
		ft.Time = time.Unix(*ts.USeconds, ts.UNanos)
		ft.Valid = true
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (ft FlexTime) MarshalJSON() ([]byte, error) {
	if !ft.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(ft.Time.Format(time.RFC3339))
}

// Ptr returns the parsed time as a pointer, nil when the date was unusable.
func (ft FlexTime) Ptr() *time.Time {
	if !ft.Valid {
		return nil
	}
	t := ft.Time
	return &t
}

// ArticleDTO is a raw bac line item.
type ArticleDTO struct {
	BacType  string   `json:"bacType"`
	Status   string   `json:"status"`
	WeightKg *float64 `json:"weightKg"`
	Weight   *float64 `json:"poids"` // legacy field name in older exports
}

// TaskDTO is the raw task shape from the document store.
type TaskDTO struct {
	ID              string       `json:"id"`
	HubName         string       `json:"nomHub"`
	RoundName       string       `json:"nomTournee"`
	Sequence        int          `json:"sequence"`
	WindowStart     FlexTime     `json:"heureDebutCreneau"`
	WindowEnd       FlexTime     `json:"heureFinCreneau"`
	CompletedAt     FlexTime     `json:"heureCloture"`
	Progress        string       `json:"avancement"`
	Attempts        int          `json:"tentatives"`
	DriverFirstName string       `json:"livreurPrenom"`
	DriverLastName  string       `json:"livreurNom"`
	CustomerName    string       `json:"clientNom"`
	CustomerPhone   string       `json:"clientTelephone"`
	Articles        []ArticleDTO `json:"articles"`
	Rating          *float64     `json:"notation"`
	Comment         string       `json:"commentaire"`
	ForcedArrival   bool         `json:"arriveeForcee"`
	Instructions    string       `json:"instructions"`
}

// RoundDTO is the raw round shape from the document store.
type RoundDTO struct {
	ID                 string   `json:"id"`
	Name               string   `json:"nom"`
	Date               FlexTime `json:"date"`
	HubName            string   `json:"nomHub"`
	Driver             string   `json:"livreur"`
	Status             string   `json:"statut"`
	OrderCount         int      `json:"nombreCommandes"`
	PlannedDurationSec int64    `json:"dureeTotalePrevue"`
	FinishedAt         FlexTime `json:"hasFinished"`
	RealizedSec        *int64   `json:"hasLasted"`
}

// ExportDTO is one full export payload (tasks, rounds, rule configuration).
type ExportDTO struct {
	Tasks         []TaskDTO      `json:"tasks"`
	Rounds        []RoundDTO     `json:"rounds"`
	DepotRules    []DepotRule    `json:"depotRules"`
	CarrierRules  []CarrierRule  `json:"carrierRules"`
	ForecastRules []ForecastRule `json:"forecastRules"`
}
