package api

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"suivi-kpi/internal/stats"
)

func testCache(t *testing.T) *StatsCache {
	t.Helper()
	mr := miniredis.RunT(t)
	cache, err := NewStatsCache("redis://"+mr.Addr(), time.Minute)
	if err != nil {
		t.Fatalf("Failed to connect to miniredis: %v", err)
	}
	return cache
}

func TestStatsCache_SetGet(t *testing.T) {
	cache := testCache(t)
	ctx := context.Background()

	rate := 87.5
	in := stats.DashboardStats{
		TotalTasks:      10,
		CompletedTasks:  8,
		PunctualityRate: &rate,
	}
	key := Key(stats.Filter{Dimension: stats.FilterDepot, Value: "CLV"})

	if _, ok := cache.Get(ctx, key); ok {
		t.Fatal("Expected miss before Set")
	}

	cache.Set(ctx, key, in)

	got, ok := cache.Get(ctx, key)
	if !ok {
		t.Fatal("Expected hit after Set")
	}
	if got.TotalTasks != 10 || got.CompletedTasks != 8 {
		t.Errorf("Counts mismatch: %+v", got)
	}
	if got.PunctualityRate == nil || *got.PunctualityRate != 87.5 {
		t.Errorf("Rate mismatch: %v", got.PunctualityRate)
	}
	// Nil rates must survive the round trip as nil, not zero.
	if got.FailedDeliveryRate != nil {
		t.Errorf("Expected nil failed rate, got %v", *got.FailedDeliveryRate)
	}
}

func TestStatsCache_NilCacheIsAlwaysMiss(t *testing.T) {
	var cache *StatsCache
	ctx := context.Background()

	if _, ok := cache.Get(ctx, "k"); ok {
		t.Error("Nil cache must miss")
	}
	cache.Set(ctx, "k", stats.DashboardStats{}) // must not panic
}

func TestKey_DistinguishesFilters(t *testing.T) {
	a := Key(stats.Filter{Dimension: stats.FilterDepot, Value: "CLV"})
	b := Key(stats.Filter{Dimension: stats.FilterDepot, Value: "Lyon"})
	if a == b {
		t.Error("Different filters must produce different keys")
	}
}
