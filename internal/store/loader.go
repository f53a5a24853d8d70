package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"suivi-kpi/internal/delivery"
)

// LoadFromPostgres assembles a Dataset from the repository, fetching the five
// collections concurrently.
func LoadFromPostgres(ctx context.Context, repo *Repository) (Dataset, error) {
	var ds Dataset
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		ds.Tasks, err = repo.ListTasks(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		ds.Rounds, err = repo.ListRounds(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		ds.DepotRules, err = repo.ListDepotRules(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		ds.CarrierRules, err = repo.ListCarrierRules(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		ds.ForecastRules, err = repo.ListForecastRules(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return Dataset{}, fmt.Errorf("load dataset: %w", err)
	}

	ds.FetchedAt = time.Now()
	return ds, nil
}

// LoadExport reads a raw document-store export file (the shape the web app
// downloads) and maps it into a Dataset.
func LoadExport(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("read export: %w", err)
	}

	var dto delivery.ExportDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return Dataset{}, fmt.Errorf("decode export: %w", err)
	}

	var ds Dataset
	ds.Tasks, ds.Rounds, ds.DepotRules, ds.CarrierRules, ds.ForecastRules = delivery.MapExport(dto)
	ds.FetchedAt = time.Now()
	return ds, nil
}
