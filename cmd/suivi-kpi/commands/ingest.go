package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"suivi-kpi/internal/store"
)

var ingestFile string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a raw document-store export into the local snapshot",
	Run: func(cmd *cobra.Command, args []string) {
		dataset, err := store.LoadExport(ingestFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", ingestFile).Msg("Failed to read export")
		}

		snapshots := store.NewSnapshotStore(cfg.SnapshotDir)
		if err := snapshots.Save(cfg.Dataset, dataset); err != nil {
			log.Fatal().Err(err).Msg("Failed to save snapshot")
		}

		log.Info().
			Str("dataset", cfg.Dataset).
			Int("tasks", len(dataset.Tasks)).
			Int("rounds", len(dataset.Rounds)).
			Msg("Export ingested")
	},
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "path to the export JSON file")
	_ = ingestCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(ingestCmd)
}
