package stats

import (
	"testing"
	"time"

	"suivi-kpi/internal/delivery"
)

func TestWindow_SnapAndSubdivide(t *testing.T) {
	// Wed Mar 4 snaps back to Mon Mar 2; weekly buckets cover both weeks.
	start := time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	w := NewWindow(start, end, "week")
	if w.Start.Day() != 2 || w.Start.Weekday() != time.Monday {
		t.Errorf("Expected start snapped to Monday Mar 2, got %v", w.Start)
	}

	buckets := w.Subdivide()
	if len(buckets) != 2 {
		t.Fatalf("Expected 2 weekly buckets, got %d", len(buckets))
	}
	if got := w.Label(buckets[0]); got != "2026-W10" {
		t.Errorf("Expected ISO week label 2026-W10, got %q", got)
	}
}

func TestWindow_FindBucketIndex(t *testing.T) {
	w := NewWindow(
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		"day",
	)

	inside := time.Date(2026, 3, 3, 14, 30, 0, 0, time.UTC)
	if idx := w.FindBucketIndex(inside); idx != 2 {
		t.Errorf("Expected bucket 2, got %d", idx)
	}
	outside := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	if idx := w.FindBucketIndex(outside); idx != -1 {
		t.Errorf("Expected -1 for out-of-window time, got %d", idx)
	}
}

func TestTimeline(t *testing.T) {
	day1 := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	day1Start := day1.Add(-time.Hour)
	day1End := day1.Add(time.Hour)

	tasks := []delivery.Task{
		// On time on day 1.
		{ID: "t1", Progress: delivery.ProgressCompleted, CompletedAt: &day1, WindowStart: &day1Start, WindowEnd: &day1End},
		// Completed on day 2, no window so not evaluable.
		{ID: "t2", Progress: delivery.ProgressCompleted, CompletedAt: &day2},
		// Failed on day 1, anchored on its window start.
		{ID: "t3", Progress: delivery.ProgressFailed, WindowStart: &day1Start},
		// No dates at all, contributes nothing.
		{ID: "t4", Progress: delivery.ProgressPending},
	}

	points := Timeline(tasks, NewWindow(day1, day2, "day"))
	if len(points) != 2 {
		t.Fatalf("Expected 2 points, got %d", len(points))
	}

	d1 := points[0]
	if d1.Label != "2026-03-02" {
		t.Errorf("Unexpected label %q", d1.Label)
	}
	if d1.Completed != 1 || d1.Failed != 1 {
		t.Errorf("Day 1 counts mismatch: %+v", d1)
	}
	if d1.PunctualityRate == nil || *d1.PunctualityRate != 100 {
		t.Errorf("Expected day 1 punctuality 100, got %v", d1.PunctualityRate)
	}

	d2 := points[1]
	if d2.Completed != 1 || d2.Failed != 0 {
		t.Errorf("Day 2 counts mismatch: %+v", d2)
	}
	if d2.PunctualityRate != nil {
		t.Errorf("Day 2 has no evaluable task, expected nil rate, got %v", *d2.PunctualityRate)
	}
}
