// Package api exposes the computed KPIs as JSON over HTTP. Rendering stays
// with the consuming views; this layer only hands the derived records over.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"suivi-kpi/internal/config"
	"suivi-kpi/internal/stats"
	"suivi-kpi/internal/store"
)

// Server serves KPI aggregates over a loaded dataset.
type Server struct {
	cfg   *config.AppConfig
	data  store.Dataset
	cache *StatsCache
}

// NewServer creates a server over a dataset. cache may be nil.
func NewServer(cfg *config.AppConfig, data store.Dataset, cache *StatsCache) *Server {
	return &Server{cfg: cfg, data: data, cache: cache}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), Logger())

	router.GET("/healthz", s.handleHealth)

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/dashboard", s.handleDashboard)
		apiGroup.GET("/dashboard/timeline", s.handleTimeline)
		apiGroup.GET("/depots/compare", s.handleCompareDepots)
		apiGroup.GET("/carriers", s.handleCarriers)
		apiGroup.GET("/rounds/stats", s.handleRoundStats)
		apiGroup.GET("/forecast", s.handleForecast)
		apiGroup.GET("/drivers/unassigned", s.handleUnassignedDrivers)
	}

	return router
}

// Run starts the HTTP listener and blocks.
func (s *Server) Run() error {
	log.Info().Str("addr", s.cfg.HTTPAddr).
		Int("tasks", len(s.data.Tasks)).
		Int("rounds", len(s.data.Rounds)).
		Msg("HTTP API listening")
	return s.Router().Run(s.cfg.HTTPAddr)
}

func (s *Server) input() stats.Input {
	return stats.Input{
		Tasks:        s.data.Tasks,
		Rounds:       s.data.Rounds,
		Comments:     s.data.Comments,
		NpsResponses: s.data.NpsResponses,
		Verbatims:    s.data.Verbatims,
		DepotRules:   s.data.DepotRules,
		CarrierRules: s.data.CarrierRules,
	}
}
