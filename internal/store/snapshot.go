// Package store supplies datasets to the engine: a JSONL snapshot store for
// offline/cached data and a Postgres repository mirroring the document store.
package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"suivi-kpi/internal/delivery"
)

// Dataset is one coherent unit of work for the engine: the record collections
// plus the rule configuration they should be classified with.
type Dataset struct {
	Tasks         []delivery.Task              `json:"tasks"`
	Rounds        []delivery.Round             `json:"rounds"`
	Comments      []delivery.CustomerComment   `json:"comments,omitempty"`
	NpsResponses  []delivery.NpsResponse       `json:"npsResponses,omitempty"`
	Verbatims     []delivery.ProcessedVerbatim `json:"verbatims,omitempty"`
	DepotRules    []delivery.DepotRule         `json:"depotRules"`
	CarrierRules  []delivery.CarrierRule       `json:"carrierRules"`
	ForecastRules []delivery.ForecastRule      `json:"forecastRules"`
	FetchedAt     time.Time                    `json:"fetchedAt"`
}

// SnapshotStore persists datasets under a directory, one snapshot per name.
// Tasks and rounds go to JSONL files (one record per line, tolerant of
// individual bad lines); the smaller collections share a single JSON sidecar.
type SnapshotStore struct {
	mu  sync.Mutex
	dir string
}

// NewSnapshotStore creates a store rooted at dir.
func NewSnapshotStore(dir string) *SnapshotStore {
	return &SnapshotStore{dir: dir}
}

type snapshotMeta struct {
	Comments      []delivery.CustomerComment   `json:"comments,omitempty"`
	NpsResponses  []delivery.NpsResponse       `json:"npsResponses,omitempty"`
	Verbatims     []delivery.ProcessedVerbatim `json:"verbatims,omitempty"`
	DepotRules    []delivery.DepotRule         `json:"depotRules"`
	CarrierRules  []delivery.CarrierRule       `json:"carrierRules"`
	ForecastRules []delivery.ForecastRule      `json:"forecastRules"`
	FetchedAt     time.Time                    `json:"fetchedAt"`
}

// Save writes the dataset atomically (temp files then rename).
func (s *SnapshotStore) Save(name string, ds Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	if err := writeJSONL(s.path(name, "tasks.jsonl"), ds.Tasks); err != nil {
		return err
	}
	if err := writeJSONL(s.path(name, "rounds.jsonl"), ds.Rounds); err != nil {
		return err
	}

	meta := snapshotMeta{
		Comments:      ds.Comments,
		NpsResponses:  ds.NpsResponses,
		Verbatims:     ds.Verbatims,
		DepotRules:    ds.DepotRules,
		CarrierRules:  ds.CarrierRules,
		ForecastRules: ds.ForecastRules,
		FetchedAt:     ds.FetchedAt,
	}
	if err := writeJSONAtomic(s.path(name, "meta.json"), meta); err != nil {
		return err
	}

	log.Info().Str("snapshot", name).
		Int("tasks", len(ds.Tasks)).
		Int("rounds", len(ds.Rounds)).
		Msg("Snapshot saved")
	return nil
}

// Load reads a dataset back. A missing snapshot yields an empty dataset, not
// an error, so a cold start serves empty aggregates instead of failing.
func (s *SnapshotStore) Load(name string) (Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ds Dataset

	if err := readJSONL(s.path(name, "tasks.jsonl"), &ds.Tasks); err != nil {
		return ds, err
	}
	if err := readJSONL(s.path(name, "rounds.jsonl"), &ds.Rounds); err != nil {
		return ds, err
	}

	metaBytes, err := os.ReadFile(s.path(name, "meta.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return ds, nil
		}
		return ds, fmt.Errorf("read snapshot meta: %w", err)
	}
	var meta snapshotMeta
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return ds, fmt.Errorf("decode snapshot meta: %w", err)
	}
	ds.Comments = meta.Comments
	ds.NpsResponses = meta.NpsResponses
	ds.Verbatims = meta.Verbatims
	ds.DepotRules = meta.DepotRules
	ds.CarrierRules = meta.CarrierRules
	ds.ForecastRules = meta.ForecastRules
	ds.FetchedAt = meta.FetchedAt

	log.Info().Str("snapshot", name).
		Int("tasks", len(ds.Tasks)).
		Int("rounds", len(ds.Rounds)).
		Msg("Snapshot loaded")
	return ds, nil
}

func (s *SnapshotStore) path(name, suffix string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s.%s", name, suffix))
}

func writeJSONL[T any](path string, records []T) error {
	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp snapshot file: %w", err)
	}

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	for _, r := range records {
		if err := encoder.Encode(r); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("encode snapshot record: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("flush snapshot file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close snapshot file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename snapshot file: %w", err)
	}
	return nil
}

func readJSONL[T any](path string, out *[]T) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open snapshot file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var record T
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Skipping invalid JSON line in snapshot")
			continue
		}
		*out = append(*out, record)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read snapshot file: %w", err)
	}
	return nil
}

func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}
