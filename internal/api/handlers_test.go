package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"suivi-kpi/internal/config"
	"suivi-kpi/internal/delivery"
	"suivi-kpi/internal/stats"
	"suivi-kpi/internal/store"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	done := start.Add(30 * time.Minute)
	rating := 5

	data := store.Dataset{
		Tasks: []delivery.Task{
			{
				ID: "t1", HubName: "Entrepot CLV Vitry", RoundName: "T001 matin",
				Progress: delivery.ProgressCompleted, Rating: &rating,
				WindowStart: &start, WindowEnd: &end, CompletedAt: &done,
			},
			{ID: "t2", HubName: "Entrepot CLV Vitry", Progress: delivery.ProgressPending},
		},
		Rounds: []delivery.Round{
			{ID: "r1", Name: "T001 matin", HubName: "Entrepot CLV Vitry", Driver: "Karim Staff"},
			{ID: "r2", Name: "T002", HubName: "Entrepot CLV Vitry", Driver: "Sam Externe"},
		},
		DepotRules:   []delivery.DepotRule{{Name: "CLV", Keywords: []string{"clv"}}},
		CarrierRules: []delivery.CarrierRule{{Carrier: "Staff", Keywords: []string{"staff"}}},
		ForecastRules: []delivery.ForecastRule{
			{Type: delivery.ForecastRuleTime, Category: delivery.CategoryMatin, Keywords: []string{"matin"}, IsActive: true},
		},
		FetchedAt: start,
	}

	cfg := &config.AppConfig{HTTPAddr: ":0"}
	return NewServer(cfg, data, nil)
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHandleDashboard(t *testing.T) {
	s := testServer(t)

	w := get(t, s, "/api/dashboard")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var got stats.DashboardStats
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if got.TotalTasks != 2 || got.CompletedTasks != 1 || got.UnplannedTasks != 1 {
		t.Errorf("Counts mismatch: %+v", got)
	}
	if got.PunctualityRate == nil || *got.PunctualityRate != 100 {
		t.Errorf("Expected punctuality 100, got %v", got.PunctualityRate)
	}
	// Null rates serialize as JSON null, not 0.
	if got.FailedDeliveryRate == nil {
		// 1 closed task, 0 failed -> 0%, present.
		t.Error("Expected failed rate 0, got nil")
	}
}

func TestHandleDashboard_BadDate(t *testing.T) {
	s := testServer(t)
	if w := get(t, s, "/api/dashboard?from=not-a-date"); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestHandleDashboard_DepotFilter(t *testing.T) {
	s := testServer(t)

	w := get(t, s, "/api/dashboard?dimension=depot&value=Lyon")
	var got stats.DashboardStats
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if got.TotalTasks != 0 {
		t.Errorf("Expected no Lyon tasks, got %d", got.TotalTasks)
	}
}

func TestHandleRoundStats_SingleRound(t *testing.T) {
	s := testServer(t)

	w := get(t, s, "/api/rounds/stats?round=T001+matin")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var rs stats.RoundStats
	if err := json.Unmarshal(w.Body.Bytes(), &rs); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if rs.RoundID != "r1" {
		t.Errorf("Expected round r1, got %q", rs.RoundID)
	}

	if w := get(t, s, "/api/rounds/stats?round=missing"); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown round, got %d", w.Code)
	}
}

func TestHandleForecast(t *testing.T) {
	s := testServer(t)

	w := get(t, s, "/api/forecast")
	var got stats.ForecastMap
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if got["CLV"]["Staff"].Matin != 1 {
		t.Errorf("Expected one matin round under CLV/Staff, got %+v", got)
	}
}

func TestHandleUnassignedDrivers(t *testing.T) {
	s := testServer(t)

	w := get(t, s, "/api/drivers/unassigned")
	var got []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(got) != 1 || got[0]["driver"] != "Sam Externe" {
		t.Errorf("Expected Sam Externe unassigned, got %+v", got)
	}
}

func TestHandleTimeline(t *testing.T) {
	s := testServer(t)

	w := get(t, s, "/api/dashboard/timeline?bucket=day")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var points []stats.TimelinePoint
	if err := json.Unmarshal(w.Body.Bytes(), &points); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(points) != 1 || points[0].Completed != 1 {
		t.Errorf("Expected a single day with one completion, got %+v", points)
	}
}

func TestRequestIDHeader(t *testing.T) {
	s := testServer(t)

	w := get(t, s, "/healthz")
	if w.Header().Get("X-Request-Id") == "" {
		t.Error("Expected a generated request ID header")
	}
}
