package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"suivi-kpi/internal/delivery"
)

// Repository reads tasks, rounds and rule configuration from the Postgres
// mirror of the document store. It is read-only; the engine never writes
// operational data back.
type Repository struct {
	DB *sql.DB
}

// Open connects to Postgres via the pgx stdlib driver.
func Open(databaseURL string) (*Repository, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("verify postgres connection: %w", err)
	}

	return &Repository{DB: db}, nil
}

// Close releases the connection pool.
func (r *Repository) Close() error {
	return r.DB.Close()
}

// ListTasks returns all tasks with their articles attached.
func (r *Repository) ListTasks(ctx context.Context) ([]delivery.Task, error) {
	rows, err := r.DB.QueryContext(ctx, `
	SELECT
		id, hub_name, round_name, sequence,
		window_start, window_end, completed_at,
		progress, attempts,
		driver_first_name, driver_last_name,
		rating, comment, forced_arrival, instructions
	FROM tasks
	ORDER BY round_name, sequence;
	`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []delivery.Task
	index := make(map[string]int)
	for rows.Next() {
		var t delivery.Task
		var roundName, comment, instructions sql.NullString
		var sequence, attempts sql.NullInt64
		var rating sql.NullInt64
		var windowStart, windowEnd, completedAt sql.NullTime
		err := rows.Scan(
			&t.ID, &t.HubName, &roundName, &sequence,
			&windowStart, &windowEnd, &completedAt,
			&t.Progress, &attempts,
			&t.DriverFirstName, &t.DriverLastName,
			&rating, &comment, &t.ForcedArrival, &instructions,
		)
		if err != nil {
			return nil, fmt.Errorf("list tasks: scan row: %w", err)
		}
		t.RoundName = roundName.String
		t.Sequence = int(sequence.Int64)
		t.Attempts = int(attempts.Int64)
		t.Comment = comment.String
		t.Instructions = instructions.String
		if windowStart.Valid {
			v := windowStart.Time
			t.WindowStart = &v
		}
		if windowEnd.Valid {
			v := windowEnd.Time
			t.WindowEnd = &v
		}
		if completedAt.Valid {
			v := completedAt.Time
			t.CompletedAt = &v
		}
		if rating.Valid {
			v := int(rating.Int64)
			t.Rating = &v
		}
		index[t.ID] = len(tasks)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: row iteration: %w", err)
	}

	if err := r.attachArticles(ctx, tasks, index); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *Repository) attachArticles(ctx context.Context, tasks []delivery.Task, index map[string]int) error {
	rows, err := r.DB.QueryContext(ctx, `
	SELECT task_id, bac_type, status, COALESCE(weight_kg, 0)
	FROM articles;
	`)
	if err != nil {
		return fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var taskID string
		var a delivery.Article
		if err := rows.Scan(&taskID, &a.BacType, &a.Status, &a.WeightKg); err != nil {
			return fmt.Errorf("list articles: scan row: %w", err)
		}
		if i, ok := index[taskID]; ok {
			tasks[i].Articles = append(tasks[i].Articles, a)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list articles: row iteration: %w", err)
	}
	return nil
}

// ListRounds returns all rounds.
func (r *Repository) ListRounds(ctx context.Context) ([]delivery.Round, error) {
	rows, err := r.DB.QueryContext(ctx, `
	SELECT
		id, name, date, hub_name, driver, status,
		order_count, planned_duration_sec, finished_at, realized_sec
	FROM rounds
	ORDER BY date, name;
	`)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	defer rows.Close()

	var rounds []delivery.Round
	for rows.Next() {
		var round delivery.Round
		var driver, status sql.NullString
		var finishedAt sql.NullTime
		var realizedSec sql.NullInt64
		err := rows.Scan(
			&round.ID, &round.Name, &round.Date, &round.HubName, &driver, &status,
			&round.OrderCount, &round.PlannedDurationSec, &finishedAt, &realizedSec,
		)
		if err != nil {
			return nil, fmt.Errorf("list rounds: scan row: %w", err)
		}
		round.Driver = driver.String
		round.Status = status.String
		if finishedAt.Valid {
			v := finishedAt.Time
			round.FinishedAt = &v
		}
		if realizedSec.Valid && realizedSec.Int64 >= 0 {
			v := realizedSec.Int64
			round.RealizedSec = &v
		}
		rounds = append(rounds, round)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rounds: row iteration: %w", err)
	}
	return rounds, nil
}

// ListDepotRules returns the depot rules in operator-maintained order.
func (r *Repository) ListDepotRules(ctx context.Context) ([]delivery.DepotRule, error) {
	rows, err := r.DB.QueryContext(ctx, `
	SELECT name, keywords FROM depot_rules ORDER BY position;
	`)
	if err != nil {
		return nil, fmt.Errorf("list depot rules: %w", err)
	}
	defer rows.Close()

	var rules []delivery.DepotRule
	for rows.Next() {
		var rule delivery.DepotRule
		var keywords string
		if err := rows.Scan(&rule.Name, &keywords); err != nil {
			return nil, fmt.Errorf("list depot rules: scan row: %w", err)
		}
		rule.Keywords = splitKeywords(keywords)
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list depot rules: row iteration: %w", err)
	}
	return rules, nil
}

// ListCarrierRules returns the carrier rules in operator-maintained order.
func (r *Repository) ListCarrierRules(ctx context.Context) ([]delivery.CarrierRule, error) {
	rows, err := r.DB.QueryContext(ctx, `
	SELECT carrier, keywords FROM carrier_rules ORDER BY position;
	`)
	if err != nil {
		return nil, fmt.Errorf("list carrier rules: %w", err)
	}
	defer rows.Close()

	var rules []delivery.CarrierRule
	for rows.Next() {
		var rule delivery.CarrierRule
		var keywords string
		if err := rows.Scan(&rule.Carrier, &keywords); err != nil {
			return nil, fmt.Errorf("list carrier rules: scan row: %w", err)
		}
		rule.Keywords = splitKeywords(keywords)
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list carrier rules: row iteration: %w", err)
	}
	return rules, nil
}

// splitKeywords parses the comma-separated keyword column. Keywords are
// stored flattened so the same schema works on any SQL backend.
func splitKeywords(s string) []string {
	var keywords []string
	for _, kw := range strings.Split(s, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// ListForecastRules returns all forecast rules; active filtering happens in
// the classifier.
func (r *Repository) ListForecastRules(ctx context.Context) ([]delivery.ForecastRule, error) {
	rows, err := r.DB.QueryContext(ctx, `
	SELECT type, category, keywords, is_active FROM forecast_rules ORDER BY position;
	`)
	if err != nil {
		return nil, fmt.Errorf("list forecast rules: %w", err)
	}
	defer rows.Close()

	var rules []delivery.ForecastRule
	for rows.Next() {
		var rule delivery.ForecastRule
		var keywords string
		if err := rows.Scan(&rule.Type, &rule.Category, &keywords, &rule.IsActive); err != nil {
			return nil, fmt.Errorf("list forecast rules: scan row: %w", err)
		}
		rule.Keywords = splitKeywords(keywords)
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list forecast rules: row iteration: %w", err)
	}
	return rules, nil
}
