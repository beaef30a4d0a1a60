package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"aqi-forecast-service/internal/core/domain"
	ports "aqi-forecast-service/internal/core/ports/output"
)

type forecastRepo struct {
	pool *pgxpool.Pool
}

func NewForecastRepository(pool *pgxpool.Pool) ports.ForecastRepository {
	return &forecastRepo{pool: pool}
}

func (r *forecastRepo) CreateRun(ctx context.Context, run *domain.ForecastRun) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create run: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO forecast_run (id, run_at, location, model_version_id, model_name, horizon_hours)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, run.ID, run.RunAt, run.Location, run.ModelVersionID, run.ModelName, run.HorizonHours)
	if err != nil {
		return fmt.Errorf("create forecast run: %w", err)
	}

	batch := &pgx.Batch{}
	for _, p := range run.Predictions {
		batch.Queue(`
			INSERT INTO prediction (id, run_id, target_time, value, us_aqi, category)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, p.ID, p.RunID, p.TargetTime, p.Value, p.AQI, string(p.Category))
	}
	results := tx.SendBatch(ctx, batch)
	for range run.Predictions {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("create predictions: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close prediction batch: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *forecastRepo) GetRun(ctx context.Context, id uuid.UUID) (*domain.ForecastRun, error) {
	query := `
		SELECT id, run_at, location, model_version_id, model_name, horizon_hours
		FROM forecast_run WHERE id = $1
	`
	run, err := scanRun(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("get forecast run: %w", err)
	}
	if err := r.loadPredictions(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

func (r *forecastRepo) GetLatestRun(ctx context.Context, location string) (*domain.ForecastRun, error) {
	query := `
		SELECT id, run_at, location, model_version_id, model_name, horizon_hours
		FROM forecast_run
		WHERE location = $1
		ORDER BY run_at DESC
		LIMIT 1
	`
	run, err := scanRun(r.pool.QueryRow(ctx, query, location))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoForecast
		}
		return nil, fmt.Errorf("get latest forecast run: %w", err)
	}
	if err := r.loadPredictions(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

func (r *forecastRepo) ListRuns(ctx context.Context, location string, limit, offset int) ([]*domain.ForecastRun, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM forecast_run WHERE location = $1`, location).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count forecast runs: %w", err)
	}

	query := `
		SELECT id, run_at, location, model_version_id, model_name, horizon_hours
		FROM forecast_run
		WHERE location = $1
		ORDER BY run_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, location, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list forecast runs: %w", err)
	}
	defer rows.Close()

	var out []*domain.ForecastRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, run)
	}
	return out, total, rows.Err()
}

func (r *forecastRepo) loadPredictions(ctx context.Context, run *domain.ForecastRun) error {
	rows, err := r.pool.Query(ctx, `
		SELECT id, run_id, target_time, value, us_aqi, category
		FROM prediction
		WHERE run_id = $1
		ORDER BY target_time
	`, run.ID)
	if err != nil {
		return fmt.Errorf("load predictions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Prediction
		var category string
		if err := rows.Scan(&p.ID, &p.RunID, &p.TargetTime, &p.Value, &p.AQI, &category); err != nil {
			return err
		}
		p.TargetTime = p.TargetTime.UTC()
		p.Category = domain.Category(category)
		run.Predictions = append(run.Predictions, p)
	}
	return rows.Err()
}

func scanRun(row rowScanner) (*domain.ForecastRun, error) {
	var run domain.ForecastRun
	err := row.Scan(&run.ID, &run.RunAt, &run.Location, &run.ModelVersionID, &run.ModelName, &run.HorizonHours)
	if err != nil {
		return nil, err
	}
	run.RunAt = run.RunAt.UTC()
	return &run, nil
}
