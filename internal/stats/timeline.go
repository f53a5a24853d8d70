package stats

import (
	"suivi-kpi/internal/delivery"
)

// TimelinePoint is one bucket of the completion timeline consumed by the
// dashboard charts.
type TimelinePoint struct {
	Label           string   `json:"label"`
	Completed       int      `json:"completed"`
	Failed          int      `json:"failed"`
	OnTime          int      `json:"onTime"`
	Evaluable       int      `json:"evaluable"`
	PunctualityRate *float64 `json:"punctualityRate"`
}

// Timeline buckets closed tasks by completion date over the window. Tasks
// without a completion timestamp contribute nothing; failed tasks are
// anchored on their window start since they never completed.
func Timeline(tasks []delivery.Task, window Window) []TimelinePoint {
	buckets := window.Subdivide()
	points := make([]TimelinePoint, len(buckets))
	for i, start := range buckets {
		points[i] = TimelinePoint{Label: window.Label(start)}
	}

	for _, task := range tasks {
		anchor := task.CompletedAt
		if anchor == nil && task.IsFailed() {
			anchor = task.WindowStart
		}
		if anchor == nil {
			continue
		}
		idx := window.FindBucketIndex(*anchor)
		if idx < 0 || idx >= len(points) {
			continue
		}

		if task.IsCompleted() {
			points[idx].Completed++
		}
		if task.IsFailed() {
			points[idx].Failed++
		}
		if onTime, _, ok := Punctuality(task); ok {
			points[idx].Evaluable++
			if onTime {
				points[idx].OnTime++
			}
		}
	}

	for i := range points {
		points[i].PunctualityRate = Rate(points[i].OnTime, points[i].Evaluable)
	}

	return points
}
