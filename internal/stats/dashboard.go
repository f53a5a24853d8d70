package stats

import (
	"time"

	"suivi-kpi/internal/delivery"
	"suivi-kpi/internal/grouping"
)

// Filter dimensions for pre-filtering the dataset before aggregation.
const (
	FilterAll      = "all"
	FilterDepot    = "depot"
	FilterCategory = "category"
)

// Input carries everything Aggregate needs. Rule arrays are read-only
// configuration; the collections are never mutated.
type Input struct {
	Tasks        []delivery.Task
	Rounds       []delivery.Round
	Comments     []delivery.CustomerComment
	NpsResponses []delivery.NpsResponse
	Verbatims    []delivery.ProcessedVerbatim
	DepotRules   []delivery.DepotRule
	CarrierRules []delivery.CarrierRule
}

// Filter scopes an aggregation to a depot or hub category and a time range.
// Zero From/To means unbounded on that side.
type Filter struct {
	Dimension string    `json:"dimension,omitempty"`
	Value     string    `json:"value,omitempty"`
	From      time.Time `json:"from,omitempty"`
	To        time.Time `json:"to,omitempty"`
}

// DashboardStats is the cross-collection KPI rollup. All rates follow the
// null-on-zero-denominator law; nil means "not measurable", never zero.
type DashboardStats struct {
	TotalTasks         int      `json:"totalTasks"`
	CompletedTasks     int      `json:"completedTasks"`
	UnplannedTasks     int      `json:"unplannedTasks"`
	FailedDeliveryRate *float64 `json:"failedDeliveryRate"`
	PunctualityRate    *float64 `json:"punctualityRate"`
	AverageRating      *float64 `json:"averageRating"`
	Nps                *float64 `json:"nps"`
	ScanbacRate        *float64 `json:"scanbacRate"`
	AlertRate          *float64 `json:"alertRate"`
	RatingRate         *float64 `json:"ratingRate"`
	LateOver1hRate     *float64 `json:"lateOver1hRate"`
	TotalComments      int      `json:"totalComments"`
	TotalVerbatims     int      `json:"totalVerbatims"`
}

// Aggregate folds the filtered collections into a DashboardStats. Each rate
// is scoped to its semantically correct denominator: failure and alert rates
// run over closed tasks, scanbac over articles of completed tasks,
// punctuality over tasks with both a window and a completion timestamp.
func Aggregate(in Input, filter Filter) DashboardStats {
	var stats DashboardStats

	var (
		failed, closed     int
		onTime, evaluable  int
		lateOver1h         int
		rated              int
		alerts             int
		scanned, articles  int
		ratings            []float64
	)

	for _, task := range in.Tasks {
		if !inScope(task, filter, in.DepotRules) {
			continue
		}

		stats.TotalTasks++
		if task.IsUnplanned() {
			stats.UnplannedTasks++
		}
		if task.IsCompleted() {
			stats.CompletedTasks++
			for _, a := range task.Articles {
				articles++
				if a.Status == delivery.ArticleScanned {
					scanned++
				}
			}
		}
		if task.IsClosed() {
			closed++
			if task.IsFailed() {
				failed++
			}
			if task.ForcedArrival {
				alerts++
			}
		}
		if task.Rating != nil {
			rated++
			ratings = append(ratings, float64(*task.Rating))
		}
		if ot, late, ok := Punctuality(task); ok {
			evaluable++
			if ot {
				onTime++
			}
			if late {
				lateOver1h++
			}
		}
	}

	stats.FailedDeliveryRate = Rate(failed, closed)
	stats.PunctualityRate = Rate(onTime, evaluable)
	stats.LateOver1hRate = Rate(lateOver1h, evaluable)
	stats.AlertRate = Rate(alerts, closed)
	stats.RatingRate = Rate(rated, stats.CompletedTasks)
	stats.ScanbacRate = Rate(scanned, articles)
	stats.AverageRating = Mean(ratings)

	stats.Nps = ComputeNps(filterNps(in.NpsResponses, filter)).Nps

	for _, c := range in.Comments {
		if inRange(c.CreatedAt, filter) {
			stats.TotalComments++
		}
	}
	stats.TotalVerbatims = len(in.Verbatims)

	return stats
}

// inScope applies the dimension and time filters to one task. The time anchor
// is the completion timestamp when present, else the window start; tasks with
// no usable date only pass an unbounded filter.
func inScope(task delivery.Task, filter Filter, depotRules []delivery.DepotRule) bool {
	switch filter.Dimension {
	case FilterDepot:
		if grouping.DepotFor(task.HubName, depotRules) != filter.Value {
			return false
		}
	case FilterCategory:
		if grouping.CategoryFor(task.HubName) != filter.Value {
			return false
		}
	}

	anchor := task.CompletedAt
	if anchor == nil {
		anchor = task.WindowStart
	}
	return inRange(anchor, filter)
}

func inRange(t *time.Time, filter Filter) bool {
	if filter.From.IsZero() && filter.To.IsZero() {
		return true
	}
	if t == nil {
		return false
	}
	if !filter.From.IsZero() && t.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && t.After(filter.To) {
		return false
	}
	return true
}

func filterNps(responses []delivery.NpsResponse, filter Filter) []delivery.NpsResponse {
	if filter.From.IsZero() && filter.To.IsZero() {
		return responses
	}
	var scoped []delivery.NpsResponse
	for _, r := range responses {
		if inRange(r.Date, filter) {
			scoped = append(scoped, r)
		}
	}
	return scoped
}
