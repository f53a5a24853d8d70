// Package engine generates simulated delivery datasets for demos and
// pipeline tests. The output deliberately includes the messiness of real
// exports: missing windows, unrated tasks, unplanned stops, unknown drivers.
package engine

import (
	"fmt"
	"math/rand"
	"time"

	"suivi-kpi/internal/delivery"
	"suivi-kpi/internal/store"
)

// GeneratorConfig controls dataset generation.
type GeneratorConfig struct {
	Rounds        int
	TasksPerRound int
	Seed          int64
	Now           time.Time
}

var hubs = []string{
	"Entrepot CLV Vitry",
	"Entrepot CLV Aulnay",
	"Entrepot Lyon Sud",
	"Magasin City Bastille",
	"Magasin Drive Clichy",
	"Plateforme Nord", // matches no default depot rule on purpose
}

var drivers = []string{
	"Karim Staff", "Leila Staff", "Marc ST-07",
	"Jo Urbaine", "Nina Urbaine",
	"Sam Externe", // unassigned on purpose
}

// DefaultRules returns a rule configuration matching the simulated hubs.
func DefaultRules() ([]delivery.DepotRule, []delivery.CarrierRule, []delivery.ForecastRule) {
	depotRules := []delivery.DepotRule{
		{Name: "CLV", Keywords: []string{"clv"}},
		{Name: "Lyon", Keywords: []string{"lyon"}},
		{Name: "Magasins", Keywords: []string{"magasin"}},
	}
	carrierRules := []delivery.CarrierRule{
		{Carrier: "Staff", Keywords: []string{"staff", "st-"}},
		{Carrier: "Urbaine", Keywords: []string{"urbaine"}},
	}
	forecastRules := []delivery.ForecastRule{
		{Type: delivery.ForecastRuleTime, Category: delivery.CategoryMatin, Keywords: []string{"matin", "am"}, IsActive: true},
		{Type: delivery.ForecastRuleTime, Category: delivery.CategorySoir, Keywords: []string{"soir", "pm"}, IsActive: true},
		{Type: delivery.ForecastRuleType, Category: "BU", Keywords: []string{"bu-"}, IsActive: true},
	}
	return depotRules, carrierRules, forecastRules
}

// Generate builds one simulated dataset. The callback fires once per round so
// callers can drive a progress display.
func Generate(cfg GeneratorConfig, onRound func()) store.Dataset {
	rng := rand.New(rand.NewSource(cfg.Seed))
	now := cfg.Now
	if now.IsZero() {
		now = time.Now()
	}

	depotRules, carrierRules, forecastRules := DefaultRules()
	ds := store.Dataset{
		DepotRules:    depotRules,
		CarrierRules:  carrierRules,
		ForecastRules: forecastRules,
		FetchedAt:     now,
	}

	halfDays := []string{"matin", "soir", "bu-pro", ""}

	for i := 0; i < cfg.Rounds; i++ {
		day := now.AddDate(0, 0, -rng.Intn(14))
		hub := hubs[rng.Intn(len(hubs))]
		driver := drivers[rng.Intn(len(drivers))]
		slot := halfDays[rng.Intn(len(halfDays))]
		name := fmt.Sprintf("T%03d %s %s", i+1, slot, day.Format("0102"))

		plannedSec := int64(3600 + rng.Intn(4*3600))
		round := delivery.Round{
			ID:                 fmt.Sprintf("round-%03d", i+1),
			Name:               name,
			Date:               day,
			HubName:            hub,
			Driver:             driver,
			Status:             "CLOTUREE",
			OrderCount:         cfg.TasksPerRound,
			PlannedDurationSec: plannedSec,
		}
		if rng.Float64() < 0.85 {
			realized := plannedSec + int64(rng.Intn(3600)) - 1800
			if realized < 0 {
				realized = 0
			}
			round.RealizedSec = &realized
			finished := day.Add(time.Duration(realized) * time.Second)
			round.FinishedAt = &finished
		}
		ds.Rounds = append(ds.Rounds, round)

		for j := 0; j < cfg.TasksPerRound; j++ {
			ds.Tasks = append(ds.Tasks, generateTask(rng, round, j))
		}

		if onRound != nil {
			onRound()
		}
	}

	// A few unplanned stops with no round assignment.
	for k := 0; k < cfg.Rounds/10+1; k++ {
		ds.Tasks = append(ds.Tasks, delivery.Task{
			ID:       fmt.Sprintf("task-unplanned-%02d", k+1),
			HubName:  hubs[rng.Intn(len(hubs))],
			Progress: delivery.ProgressPending,
		})
	}

	for n := 0; n < cfg.Rounds*2; n++ {
		carrier := "Staff"
		if rng.Float64() < 0.4 {
			carrier = "Urbaine"
		}
		date := now.AddDate(0, 0, -rng.Intn(14))
		ds.NpsResponses = append(ds.NpsResponses, delivery.NpsResponse{
			Score:   rng.Intn(11),
			Carrier: carrier,
			Date:    &date,
		})
	}

	return ds
}

func generateTask(rng *rand.Rand, round delivery.Round, seq int) delivery.Task {
	windowStart := round.Date.Add(time.Duration(8+seq) * time.Hour / 2)
	windowEnd := windowStart.Add(2 * time.Hour)

	task := delivery.Task{
		ID:        fmt.Sprintf("%s-task-%02d", round.ID, seq+1),
		HubName:   round.HubName,
		RoundName: round.Name,
		Sequence:  seq + 1,
		Progress:  delivery.ProgressCompleted,
		Attempts:  1,
	}

	if rng.Float64() < 0.9 {
		task.WindowStart = &windowStart
		task.WindowEnd = &windowEnd
	}

	switch {
	case rng.Float64() < 0.06:
		task.Progress = delivery.ProgressFailed
		task.Attempts = 1 + rng.Intn(2)
	default:
		// Mostly on time, with a late tail reaching past the 1h bucket.
		offset := time.Duration(rng.Intn(210)-30) * time.Minute
		done := windowStart.Add(offset)
		task.CompletedAt = &done
	}

	if task.IsCompleted() && rng.Float64() < 0.35 {
		rating := 2 + rng.Intn(4)
		task.Rating = &rating
	}
	if rng.Float64() < 0.04 {
		task.ForcedArrival = true
	}

	bacCount := 1 + rng.Intn(4)
	types := []string{delivery.BacSec, delivery.BacFrais, delivery.BacSurgele}
	for b := 0; b < bacCount; b++ {
		status := delivery.ArticleScanned
		if rng.Float64() < 0.05 {
			status = delivery.ArticleMissing
		}
		task.Articles = append(task.Articles, delivery.Article{
			BacType:  types[rng.Intn(len(types))],
			Status:   status,
			WeightKg: 4 + rng.Float64()*12,
		})
	}

	return task
}
