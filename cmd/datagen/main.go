package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"suivi-kpi/cmd/datagen/engine"
	"suivi-kpi/internal/store"
)

func main() {
	rounds := flag.Int("rounds", 120, "number of rounds to generate")
	tasksPerRound := flag.Int("tasks", 18, "tasks per round")
	seed := flag.Int64("seed", 42, "random seed")
	outDir := flag.String("out", "./snapshots", "output directory for snapshot files")
	name := flag.String("name", "default", "snapshot name")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Rounds:        *rounds,
		TasksPerRound: *tasksPerRound,
		Seed:          *seed,
		Now:           time.Now(),
	}

	bar := progressbar.Default(int64(cfg.Rounds), "generating rounds")
	dataset := engine.Generate(cfg, func() { _ = bar.Add(1) })

	snapshots := store.NewSnapshotStore(*outDir)
	if err := snapshots.Save(*name, dataset); err != nil {
		fmt.Fprintf(os.Stderr, "failed to save snapshot: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d tasks / %d rounds to %s/%s.*\n", len(dataset.Tasks), len(dataset.Rounds), *outDir, *name)
}
