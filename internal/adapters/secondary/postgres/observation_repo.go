package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"aqi-forecast-service/internal/core/domain"
	ports "aqi-forecast-service/internal/core/ports/output"
)

type observationRepo struct {
	pool *pgxpool.Pool
}

func NewObservationRepository(pool *pgxpool.Pool) ports.ObservationRepository {
	return &observationRepo{pool: pool}
}

const observationColumns = `
	location, observed_at, pm2_5, pm10, o3, no2, so2, co,
	temperature_c, humidity_pct, wind_speed_ms, pressure_hpa,
	precipitation_mm, us_aqi`

func (r *observationRepo) UpsertBatch(ctx context.Context, obs []domain.Observation) (int, error) {
	if len(obs) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO observation (` + observationColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (location, observed_at) DO UPDATE SET
			pm2_5 = EXCLUDED.pm2_5, pm10 = EXCLUDED.pm10,
			o3 = EXCLUDED.o3, no2 = EXCLUDED.no2,
			so2 = EXCLUDED.so2, co = EXCLUDED.co,
			temperature_c = EXCLUDED.temperature_c,
			humidity_pct = EXCLUDED.humidity_pct,
			wind_speed_ms = EXCLUDED.wind_speed_ms,
			pressure_hpa = EXCLUDED.pressure_hpa,
			precipitation_mm = EXCLUDED.precipitation_mm,
			us_aqi = EXCLUDED.us_aqi
	`
	for _, o := range obs {
		batch.Queue(query,
			o.Location, o.Time,
			o.Pollutants.PM25, o.Pollutants.PM10, o.Pollutants.O3,
			o.Pollutants.NO2, o.Pollutants.SO2, o.Pollutants.CO,
			o.TemperatureC, o.HumidityPct, o.WindSpeedMS,
			o.PressureHpa, o.PrecipitationMM, o.AQI,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range obs {
		if _, err := results.Exec(); err != nil {
			return 0, fmt.Errorf("upsert observations: %w", err)
		}
	}
	return len(obs), nil
}

func (r *observationRepo) GetRange(ctx context.Context, location string, from, to time.Time) ([]domain.Observation, error) {
	query := `
		SELECT ` + observationColumns + `
		FROM observation
		WHERE location = $1 AND observed_at BETWEEN $2 AND $3
		ORDER BY observed_at
	`
	rows, err := r.pool.Query(ctx, query, location, from, to)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	var out []domain.Observation
	for rows.Next() {
		o, err := scanObservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *observationRepo) GetLatest(ctx context.Context, location string) (*domain.Observation, error) {
	query := `
		SELECT ` + observationColumns + `
		FROM observation
		WHERE location = $1
		ORDER BY observed_at DESC
		LIMIT 1
	`
	o, err := scanObservation(r.pool.QueryRow(ctx, query, location))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoObservations
		}
		return nil, fmt.Errorf("get latest observation: %w", err)
	}
	return &o, nil
}

func (r *observationRepo) Count(ctx context.Context, location string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM observation WHERE location = $1`, location).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count observations: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanObservation(row rowScanner) (domain.Observation, error) {
	var o domain.Observation
	err := row.Scan(
		&o.Location, &o.Time,
		&o.Pollutants.PM25, &o.Pollutants.PM10, &o.Pollutants.O3,
		&o.Pollutants.NO2, &o.Pollutants.SO2, &o.Pollutants.CO,
		&o.TemperatureC, &o.HumidityPct, &o.WindSpeedMS,
		&o.PressureHpa, &o.PrecipitationMM, &o.AQI,
	)
	if err != nil {
		return domain.Observation{}, err
	}
	o.Time = o.Time.UTC()
	return o, nil
}
