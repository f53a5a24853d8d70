package delivery

import (
	"math"
	"strings"
)

// MapTask transforms a raw store task into a domain Task, normalizing dates
// and the rating. Bad dates become nil pointers; the record itself is kept.
func MapTask(dto TaskDTO) Task {
	task := Task{
		ID:              dto.ID,
		HubName:         strings.TrimSpace(dto.HubName),
		RoundName:       strings.TrimSpace(dto.RoundName),
		Sequence:        dto.Sequence,
		WindowStart:     dto.WindowStart.Ptr(),
		WindowEnd:       dto.WindowEnd.Ptr(),
		CompletedAt:     dto.CompletedAt.Ptr(),
		Progress:        strings.ToUpper(strings.TrimSpace(dto.Progress)),
		Attempts:        dto.Attempts,
		DriverFirstName: strings.TrimSpace(dto.DriverFirstName),
		DriverLastName:  strings.TrimSpace(dto.DriverLastName),
		CustomerName:    dto.CustomerName,
		CustomerPhone:   dto.CustomerPhone,
		Comment:         dto.Comment,
		ForcedArrival:   dto.ForcedArrival,
		Instructions:    dto.Instructions,
	}

	// Ratings arrive as floats from the store; the domain scale is 0-5 integers.
	if dto.Rating != nil && *dto.Rating >= 0 && *dto.Rating <= 5 {
		r := int(math.Round(*dto.Rating))
		task.Rating = &r
	}

	// A closed task has at least one attempt even if the store omits it.
	if task.IsClosed() && task.Attempts < 1 {
		task.Attempts = 1
	}

	for _, a := range dto.Articles {
		task.Articles = append(task.Articles, mapArticle(a))
	}

	return task
}

func mapArticle(dto ArticleDTO) Article {
	article := Article{
		BacType: strings.ToUpper(strings.TrimSpace(dto.BacType)),
		Status:  strings.ToUpper(strings.TrimSpace(dto.Status)),
	}
	switch {
	case dto.WeightKg != nil:
		article.WeightKg = *dto.WeightKg
	case dto.Weight != nil:
		article.WeightKg = *dto.Weight
	}
	return article
}

// MapRound transforms a raw store round into a domain Round.
func MapRound(dto RoundDTO) Round {
	round := Round{
		ID:                 dto.ID,
		Name:               strings.TrimSpace(dto.Name),
		HubName:            strings.TrimSpace(dto.HubName),
		Driver:             strings.TrimSpace(dto.Driver),
		Status:             strings.ToUpper(strings.TrimSpace(dto.Status)),
		OrderCount:         dto.OrderCount,
		PlannedDurationSec: dto.PlannedDurationSec,
		FinishedAt:         dto.FinishedAt.Ptr(),
	}

	if dto.Date.Valid {
		round.Date = dto.Date.Time
	}

	// Negative realized durations are store glitches; drop them rather than
	// letting them poison duration averages.
	if dto.RealizedSec != nil && *dto.RealizedSec >= 0 {
		v := *dto.RealizedSec
		round.RealizedSec = &v
	}

	return round
}

// MapExport maps a full export payload into domain collections. Rule arrays
// pass through untouched; their order is operator-maintained configuration.
func MapExport(dto ExportDTO) ([]Task, []Round, []DepotRule, []CarrierRule, []ForecastRule) {
	tasks := make([]Task, 0, len(dto.Tasks))
	for _, t := range dto.Tasks {
		tasks = append(tasks, MapTask(t))
	}
	rounds := make([]Round, 0, len(dto.Rounds))
	for _, r := range dto.Rounds {
		rounds = append(rounds, MapRound(r))
	}
	return tasks, rounds, dto.DepotRules, dto.CarrierRules, dto.ForecastRules
}
