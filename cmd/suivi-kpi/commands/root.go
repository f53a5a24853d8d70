package commands

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"suivi-kpi/internal/api"
	"suivi-kpi/internal/config"
	"suivi-kpi/internal/logging"
	"suivi-kpi/internal/store"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "suivi-kpi",
	Short: "suivi-kpi serves last-mile delivery KPIs",
	Long: `Classifies delivery tasks and rounds under depots and carriers using
operator-maintained matching rules, derives per-round and cross-dataset KPIs
(punctuality, ratings, NPS, capacity overflows), and serves them as JSON.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose, "")

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		logging.Init(verbose, cfg.LogDir)

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("suivi-kpi starting")
	},
	Run: func(cmd *cobra.Command, args []string) {
		dataset, err := loadDataset(cmd.Context())
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load dataset")
		}

		cache, err := api.NewStatsCache(cfg.RedisURL, cfg.SnapshotTTL)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, serving without cache")
		}

		server := api.NewServer(cfg, dataset, cache)
		if err := server.Run(); err != nil {
			log.Fatal().Err(err).Msg("HTTP server stopped")
		}
	},
}

// loadDataset prefers the Postgres mirror when configured, falling back to
// the local snapshot.
func loadDataset(ctx context.Context) (store.Dataset, error) {
	if cfg.PostgresURL != "" {
		repo, err := store.Open(cfg.PostgresURL)
		if err != nil {
			return store.Dataset{}, err
		}
		defer repo.Close()
		return store.LoadFromPostgres(ctx, repo)
	}

	snapshots := store.NewSnapshotStore(cfg.SnapshotDir)
	return snapshots.Load(cfg.Dataset)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
