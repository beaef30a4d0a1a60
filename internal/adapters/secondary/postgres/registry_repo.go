package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"aqi-forecast-service/internal/core/domain"
	ports "aqi-forecast-service/internal/core/ports/output"
)

type registryRepo struct {
	pool *pgxpool.Pool
}

func NewModelRegistryRepository(pool *pgxpool.Pool) ports.ModelRegistryRepository {
	return &registryRepo{pool: pool}
}

func (r *registryRepo) CreateModel(ctx context.Context, model *domain.RegisteredModel) error {
	query := `
		INSERT INTO registered_model (id, created_at, updated_at, name, description, location, target)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`
	_, err := r.pool.Exec(ctx, query,
		model.ID, model.CreatedAt, model.UpdatedAt,
		model.Name, model.Description, model.Location, model.Target,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrModelNameConflict
		}
		return fmt.Errorf("create registered model: %w", err)
	}
	return nil
}

func (r *registryRepo) GetModelByID(ctx context.Context, id uuid.UUID) (*domain.RegisteredModel, error) {
	query := `
		SELECT id, created_at, updated_at, name, description, location, target
		FROM registered_model WHERE id = $1
	`
	m, err := scanModel(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrModelNotFound
		}
		return nil, fmt.Errorf("get model by id: %w", err)
	}
	return m, nil
}

func (r *registryRepo) GetModelByName(ctx context.Context, name string) (*domain.RegisteredModel, error) {
	query := `
		SELECT id, created_at, updated_at, name, description, location, target
		FROM registered_model WHERE name = $1
	`
	m, err := scanModel(r.pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrModelNotFound
		}
		return nil, fmt.Errorf("get model by name: %w", err)
	}
	return m, nil
}

func (r *registryRepo) ListModels(ctx context.Context) ([]*domain.RegisteredModel, error) {
	query := `
		SELECT id, created_at, updated_at, name, description, location, target
		FROM registered_model ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	var out []*domain.RegisteredModel
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

const versionColumns = `
	id, created_at, updated_at, registered_model_id, name, status, is_champion,
	spec, rmse, mae, mape, r2, horizon_hours, trained_from, trained_to,
	training_rows, COALESCE(failure_reason, '')`

func (r *registryRepo) CreateVersion(ctx context.Context, v *domain.ModelVersion) error {
	query := `
		INSERT INTO model_version
			(id, created_at, updated_at, registered_model_id, name, status,
			 is_champion, spec, rmse, mae, mape, r2, horizon_hours,
			 trained_from, trained_to, training_rows, failure_reason)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`
	_, err := r.pool.Exec(ctx, query,
		v.ID, v.CreatedAt, v.UpdatedAt, v.RegisteredModelID, v.Name,
		string(v.Status), v.IsChampion, []byte(v.Spec),
		v.Metrics.RMSE, v.Metrics.MAE, v.Metrics.MAPE, v.Metrics.R2,
		v.HorizonHours, v.TrainedFrom, v.TrainedTo, v.TrainingRows,
		nullIfEmpty(v.FailureReason),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrVersionNameConflict
		}
		return fmt.Errorf("create model version: %w", err)
	}
	return nil
}

func (r *registryRepo) GetVersionByID(ctx context.Context, id uuid.UUID) (*domain.ModelVersion, error) {
	query := `SELECT ` + versionColumns + ` FROM model_version WHERE id = $1`
	v, err := scanVersion(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVersionNotFound
		}
		return nil, fmt.Errorf("get model version: %w", err)
	}
	return v, nil
}

func (r *registryRepo) ListVersions(ctx context.Context, modelID uuid.UUID, filter ports.VersionListFilter) ([]*domain.ModelVersion, int, error) {
	args := []any{modelID}
	where := `WHERE registered_model_id = $1`
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM model_version `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count model versions: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`
		SELECT %s FROM model_version %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, versionColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list model versions: %w", err)
	}
	defer rows.Close()

	var out []*domain.ModelVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, v)
	}
	return out, total, rows.Err()
}

func (r *registryRepo) UpdateVersion(ctx context.Context, v *domain.ModelVersion) error {
	query := `
		UPDATE model_version
		SET status = $1, spec = $2, rmse = $3, mae = $4, mape = $5, r2 = $6,
			failure_reason = $7, updated_at = NOW()
		WHERE id = $8
	`
	result, err := r.pool.Exec(ctx, query,
		string(v.Status), []byte(v.Spec),
		v.Metrics.RMSE, v.Metrics.MAE, v.Metrics.MAPE, v.Metrics.R2,
		nullIfEmpty(v.FailureReason), v.ID,
	)
	if err != nil {
		return fmt.Errorf("update model version: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrVersionNotFound
	}
	return nil
}

func (r *registryRepo) SetChampion(ctx context.Context, modelID uuid.UUID, versionID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin set champion: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE model_version SET is_champion = FALSE, updated_at = NOW()
		 WHERE registered_model_id = $1 AND is_champion`, modelID); err != nil {
		return fmt.Errorf("clear champion: %w", err)
	}

	result, err := tx.Exec(ctx,
		`UPDATE model_version SET is_champion = TRUE, updated_at = NOW()
		 WHERE id = $1 AND registered_model_id = $2`, versionID, modelID)
	if err != nil {
		return fmt.Errorf("set champion: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrVersionNotFound
	}
	return tx.Commit(ctx)
}

func (r *registryRepo) GetChampion(ctx context.Context, modelID uuid.UUID) (*domain.ModelVersion, error) {
	query := `SELECT ` + versionColumns + `
		FROM model_version
		WHERE registered_model_id = $1 AND is_champion AND status = 'READY'`
	v, err := scanVersion(r.pool.QueryRow(ctx, query, modelID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoChampion
		}
		return nil, fmt.Errorf("get champion: %w", err)
	}
	return v, nil
}

func scanModel(row rowScanner) (*domain.RegisteredModel, error) {
	var m domain.RegisteredModel
	err := row.Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt, &m.Name, &m.Description, &m.Location, &m.Target)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanVersion(row rowScanner) (*domain.ModelVersion, error) {
	var v domain.ModelVersion
	var status string
	var spec []byte
	err := row.Scan(
		&v.ID, &v.CreatedAt, &v.UpdatedAt, &v.RegisteredModelID, &v.Name,
		&status, &v.IsChampion, &spec,
		&v.Metrics.RMSE, &v.Metrics.MAE, &v.Metrics.MAPE, &v.Metrics.R2,
		&v.HorizonHours, &v.TrainedFrom, &v.TrainedTo, &v.TrainingRows,
		&v.FailureReason,
	)
	if err != nil {
		return nil, err
	}
	v.Status = domain.VersionStatus(status)
	v.Spec = spec
	return &v, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
