package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"suivi-kpi/internal/grouping"
	"suivi-kpi/internal/stats"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"tasks":     len(s.data.Tasks),
		"rounds":    len(s.data.Rounds),
		"fetchedAt": s.data.FetchedAt,
	})
}

// handleDashboard serves the cross-collection KPI rollup.
// Query: dimension (all|depot|category), value, from, to (RFC3339 or date).
func (s *Server) handleDashboard(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key := Key(filter)
	if cached, ok := s.cache.Get(c.Request.Context(), key); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	result := stats.Aggregate(s.input(), filter)
	s.cache.Set(c.Request.Context(), key, result)
	c.JSON(http.StatusOK, result)
}

// handleTimeline serves the bucketed completion series used by the dashboard
// charts. Query: from, to, bucket (day|week|month, default day). Without
// explicit bounds the window spans the dataset's completion dates.
func (s *Server) handleTimeline(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	from, to := filter.From, filter.To
	if from.IsZero() || to.IsZero() {
		for _, task := range s.data.Tasks {
			if task.CompletedAt == nil {
				continue
			}
			if from.IsZero() || task.CompletedAt.Before(from) {
				from = *task.CompletedAt
			}
			if to.IsZero() || task.CompletedAt.After(to) {
				to = *task.CompletedAt
			}
		}
	}
	if from.IsZero() {
		c.JSON(http.StatusOK, []stats.TimelinePoint{})
		return
	}

	window := stats.NewWindow(from, to, c.DefaultQuery("bucket", "day"))
	c.JSON(http.StatusOK, stats.Timeline(s.data.Tasks, window))
}

func (s *Server) handleCompareDepots(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats.CompareDepots(s.input(), filter))
}

func (s *Server) handleCarriers(c *gin.Context) {
	c.JSON(http.StatusOK, stats.RollupCarriers(s.input()))
}

// handleRoundStats serves per-round derived metrics, optionally for a single
// round (?round=<name>).
func (s *Server) handleRoundStats(c *gin.Context) {
	scored := stats.ScoreRounds(s.data.Rounds, s.data.Tasks)

	if name := c.Query("round"); name != "" {
		for _, rs := range scored {
			if rs.RoundName == name {
				c.JSON(http.StatusOK, rs)
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown round"})
		return
	}

	c.JSON(http.StatusOK, scored)
}

func (s *Server) handleForecast(c *gin.Context) {
	result := stats.ClassifyForecast(s.data.Rounds, s.data.ForecastRules, s.data.DepotRules, s.data.CarrierRules)
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleUnassignedDrivers(c *gin.Context) {
	_, unassigned := grouping.ClassifyCarriers(s.data.Rounds, s.data.CarrierRules)
	c.JSON(http.StatusOK, unassigned)
}

func parseFilter(c *gin.Context) (stats.Filter, error) {
	filter := stats.Filter{
		Dimension: c.DefaultQuery("dimension", stats.FilterAll),
		Value:     c.Query("value"),
	}

	var err error
	if filter.From, err = parseDate(c.Query("from")); err != nil {
		return filter, err
	}
	if filter.To, err = parseDate(c.Query("to")); err != nil {
		return filter, err
	}
	return filter, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
