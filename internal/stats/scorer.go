package stats

import (
	"math"
	"time"

	"suivi-kpi/internal/delivery"
)

// Capacity overflow thresholds. These are fixed operational policy, not
// tenant configuration (pending a product decision, they stay constants).
const (
	MaxBacsPerRound   = 105
	MaxWeightPerRound = 1250.0 // kg
)

// LateThreshold separates plain lateness from the "late over 1h" bucket.
// A task is in the bucket only when completion exceeds windowEnd by strictly
// more than this.
const LateThreshold = 60 * time.Minute

// BacTotals sums a round's bac counts by type.
type BacTotals struct {
	Sec     int `json:"secs"`
	Frais   int `json:"frais"`
	Surgele int `json:"surgeles"`
	Other   int `json:"other,omitempty"`
	Total   int `json:"total"`
}

// RoundStats are the per-round derived metrics.
type RoundStats struct {
	RoundID         string    `json:"roundId"`
	RoundName       string    `json:"roundName"`
	RealizedMinutes *int      `json:"realizedMinutes"`
	PlannedMinutes  *int      `json:"plannedMinutes"`
	AverageRating   *float64  `json:"averageRating"`
	PunctualityRate *float64  `json:"punctualityRate"`
	OnTimeCount     int       `json:"onTimeCount"`
	EvaluableCount  int       `json:"evaluableCount"`
	LateOver1hCount int       `json:"lateOver1hCount"`
	Bacs            BacTotals `json:"bacs"`
	WeightKg        float64   `json:"weightKg"`
	BacOverflow     bool      `json:"bacOverflow"`
	WeightOverflow  bool      `json:"weightOverflow"`
}

// ScoreRound derives the metrics for one round from its tasks.
func ScoreRound(round delivery.Round, tasks []delivery.Task) RoundStats {
	rs := RoundStats{
		RoundID:   round.ID,
		RoundName: round.Name,
	}

	if round.RealizedSec != nil {
		m := toMinutes(*round.RealizedSec)
		rs.RealizedMinutes = &m
	}
	if round.PlannedDurationSec > 0 {
		m := toMinutes(round.PlannedDurationSec)
		rs.PlannedMinutes = &m
	}

	var ratings []float64
	for _, task := range tasks {
		if task.Rating != nil {
			ratings = append(ratings, float64(*task.Rating))
		}

		if onTime, lateOver1h, ok := Punctuality(task); ok {
			rs.EvaluableCount++
			if onTime {
				rs.OnTimeCount++
			}
			if lateOver1h {
				rs.LateOver1hCount++
			}
		}

		for _, a := range task.Articles {
			switch a.BacType {
			case delivery.BacSec:
				rs.Bacs.Sec++
			case delivery.BacFrais:
				rs.Bacs.Frais++
			case delivery.BacSurgele:
				rs.Bacs.Surgele++
			default:
				rs.Bacs.Other++
			}
			rs.Bacs.Total++
			rs.WeightKg += a.WeightKg
		}
	}

	rs.AverageRating = Mean(ratings)
	rs.PunctualityRate = Rate(rs.OnTimeCount, rs.EvaluableCount)
	rs.BacOverflow = rs.Bacs.Total > MaxBacsPerRound
	rs.WeightOverflow = rs.WeightKg > MaxWeightPerRound

	return rs
}

// ScoreRounds scores every round against its own tasks (matched by round
// name). Tasks without a round assignment contribute to no round.
func ScoreRounds(rounds []delivery.Round, tasks []delivery.Task) []RoundStats {
	byRound := make(map[string][]delivery.Task)
	for _, task := range tasks {
		if !task.IsUnplanned() {
			byRound[task.RoundName] = append(byRound[task.RoundName], task)
		}
	}

	results := make([]RoundStats, 0, len(rounds))
	for _, round := range rounds {
		results = append(results, ScoreRound(round, byRound[round.Name]))
	}
	return results
}

// Punctuality classifies a task against its scheduled window. ok is false
// when the task lacks a window or a completion timestamp, in which case it is
// excluded from punctuality denominators entirely. The window is inclusive on
// both ends; lateOver1h requires completion strictly past windowEnd + 1h, so
// the two buckets never overlap.
func Punctuality(task delivery.Task) (onTime, lateOver1h, ok bool) {
	if task.WindowStart == nil || task.WindowEnd == nil || task.CompletedAt == nil {
		return false, false, false
	}
	done := *task.CompletedAt
	onTime = !done.Before(*task.WindowStart) && !done.After(*task.WindowEnd)
	lateOver1h = done.After(task.WindowEnd.Add(LateThreshold))
	return onTime, lateOver1h, true
}

// Window deviation kinds for detail views.
const (
	DeviationOnTime = "onTime"
	DeviationEarly  = "early"
	DeviationLate   = "late"
)

// WindowDeviation describes how far outside its window a task completed.
// Minutes is always a non-negative whole number.
type WindowDeviation struct {
	Kind    string `json:"kind"`
	Minutes int    `json:"minutes"`
}

// DeviationFor computes the early/late classification for a task. ok is false
// when the task is not evaluable.
func DeviationFor(task delivery.Task) (WindowDeviation, bool) {
	if task.WindowStart == nil || task.WindowEnd == nil || task.CompletedAt == nil {
		return WindowDeviation{}, false
	}
	done := *task.CompletedAt
	switch {
	case done.Before(*task.WindowStart):
		return WindowDeviation{Kind: DeviationEarly, Minutes: wholeMinutes(task.WindowStart.Sub(done))}, true
	case done.After(*task.WindowEnd):
		return WindowDeviation{Kind: DeviationLate, Minutes: wholeMinutes(done.Sub(*task.WindowEnd))}, true
	default:
		return WindowDeviation{Kind: DeviationOnTime}, true
	}
}

func toMinutes(seconds int64) int {
	return int(math.Round(float64(seconds) / 60.0))
}

func wholeMinutes(d time.Duration) int {
	if d < 0 {
		d = -d
	}
	return int(math.Round(d.Minutes()))
}
