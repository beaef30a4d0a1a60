package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"aqi-forecast-service/internal/core/domain"
	ports "aqi-forecast-service/internal/core/ports/output"
)

// RegistryService manages registered models and their versions. The training
// pipeline registers versions through it; the API reads and promotes them.
type RegistryService struct {
	repo ports.ModelRegistryRepository
}

func NewRegistryService(repo ports.ModelRegistryRepository) *RegistryService {
	return &RegistryService{repo: repo}
}

// EnsureModel returns the registered model with the given name, creating it
// if it does not exist yet.
func (s *RegistryService) EnsureModel(ctx context.Context, name, description, location, target string) (*domain.RegisteredModel, error) {
	if name == "" {
		return nil, domain.ErrInvalidModelName
	}
	model, err := s.repo.GetModelByName(ctx, name)
	if err == nil {
		return model, nil
	}
	if err != domain.ErrModelNotFound {
		return nil, err
	}

	now := time.Now().UTC()
	model = &domain.RegisteredModel{
		ID:          uuid.New(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Name:        name,
		Description: description,
		Location:    location,
		Target:      target,
	}
	if err := s.repo.CreateModel(ctx, model); err != nil {
		if err == domain.ErrModelNameConflict {
			// Lost a create race; the model exists now.
			return s.repo.GetModelByName(ctx, name)
		}
		return nil, err
	}
	return model, nil
}

func (s *RegistryService) GetModel(ctx context.Context, id uuid.UUID) (*domain.RegisteredModel, error) {
	return s.repo.GetModelByID(ctx, id)
}

func (s *RegistryService) GetModelByName(ctx context.Context, name string) (*domain.RegisteredModel, error) {
	return s.repo.GetModelByName(ctx, name)
}

func (s *RegistryService) ListModels(ctx context.Context) ([]*domain.RegisteredModel, error) {
	return s.repo.ListModels(ctx)
}

func (s *RegistryService) GetVersion(ctx context.Context, id uuid.UUID) (*domain.ModelVersion, error) {
	return s.repo.GetVersionByID(ctx, id)
}

func (s *RegistryService) ListVersions(ctx context.Context, modelID uuid.UUID, filter ports.VersionListFilter) ([]*domain.ModelVersion, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if _, err := s.repo.GetModelByID(ctx, modelID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListVersions(ctx, modelID, filter)
}

// RegisterVersion persists a freshly trained version.
func (s *RegistryService) RegisterVersion(ctx context.Context, version *domain.ModelVersion) error {
	if _, err := s.repo.GetModelByID(ctx, version.RegisteredModelID); err != nil {
		return err
	}
	now := time.Now().UTC()
	if version.ID == uuid.Nil {
		version.ID = uuid.New()
	}
	version.CreatedAt = now
	version.UpdatedAt = now
	return s.repo.CreateVersion(ctx, version)
}

// FinalizeVersion records the outcome of a training round on a previously
// registered version. The spec column rejects NULL, so an outcome without a
// winning spec keeps a placeholder.
func (s *RegistryService) FinalizeVersion(ctx context.Context, version *domain.ModelVersion) error {
	if len(version.Spec) == 0 {
		version.Spec = json.RawMessage(`{}`)
	}
	version.UpdatedAt = time.Now().UTC()
	return s.repo.UpdateVersion(ctx, version)
}

// Promote makes a READY version the champion of its model.
func (s *RegistryService) Promote(ctx context.Context, versionID uuid.UUID) (*domain.ModelVersion, error) {
	version, err := s.repo.GetVersionByID(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if version.Status != domain.VersionStatusReady {
		return nil, domain.ErrVersionNotReady
	}
	if err := s.repo.SetChampion(ctx, version.RegisteredModelID, versionID); err != nil {
		return nil, err
	}
	return s.repo.GetVersionByID(ctx, versionID)
}

// Champion resolves the champion version of the named model.
func (s *RegistryService) Champion(ctx context.Context, modelName string) (*domain.ModelVersion, error) {
	model, err := s.repo.GetModelByName(ctx, modelName)
	if err != nil {
		return nil, err
	}
	return s.repo.GetChampion(ctx, model.ID)
}
