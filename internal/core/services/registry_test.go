package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"aqi-forecast-service/internal/core/domain"
	ports "aqi-forecast-service/internal/core/ports/output"
	"aqi-forecast-service/internal/testutil"
)

func TestRegistryService_EnsureModel_Existing(t *testing.T) {
	repo := new(testutil.MockModelRegistryRepo)
	svc := NewRegistryService(repo)

	existing := &domain.RegisteredModel{ID: uuid.New(), Name: "aqi-rawalpindi"}
	repo.On("GetModelByName", mock.Anything, "aqi-rawalpindi").Return(existing, nil)

	model, err := svc.EnsureModel(context.Background(), "aqi-rawalpindi", "", "rawalpindi", "us_aqi")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, model.ID)
	repo.AssertNotCalled(t, "CreateModel", mock.Anything, mock.Anything)
}

func TestRegistryService_EnsureModel_Creates(t *testing.T) {
	repo := new(testutil.MockModelRegistryRepo)
	svc := NewRegistryService(repo)

	repo.On("GetModelByName", mock.Anything, "aqi-rawalpindi").Return(nil, domain.ErrModelNotFound)
	repo.On("CreateModel", mock.Anything, mock.AnythingOfType("*domain.RegisteredModel")).Return(nil)

	model, err := svc.EnsureModel(context.Background(), "aqi-rawalpindi", "desc", "rawalpindi", "us_aqi")
	require.NoError(t, err)
	assert.Equal(t, "aqi-rawalpindi", model.Name)
	assert.Equal(t, "us_aqi", model.Target)
	assert.NotEqual(t, uuid.Nil, model.ID)
	repo.AssertExpectations(t)
}

func TestRegistryService_EnsureModel_CreateRace(t *testing.T) {
	repo := new(testutil.MockModelRegistryRepo)
	svc := NewRegistryService(repo)

	winner := &domain.RegisteredModel{ID: uuid.New(), Name: "aqi-rawalpindi"}
	repo.On("GetModelByName", mock.Anything, "aqi-rawalpindi").Return(nil, domain.ErrModelNotFound).Once()
	repo.On("CreateModel", mock.Anything, mock.Anything).Return(domain.ErrModelNameConflict)
	repo.On("GetModelByName", mock.Anything, "aqi-rawalpindi").Return(winner, nil).Once()

	model, err := svc.EnsureModel(context.Background(), "aqi-rawalpindi", "", "rawalpindi", "us_aqi")
	require.NoError(t, err)
	assert.Equal(t, winner.ID, model.ID)
}

func TestRegistryService_EnsureModel_EmptyName(t *testing.T) {
	svc := NewRegistryService(new(testutil.MockModelRegistryRepo))
	_, err := svc.EnsureModel(context.Background(), "", "", "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidModelName)
}

func TestRegistryService_ListVersions_DefaultLimit(t *testing.T) {
	repo := new(testutil.MockModelRegistryRepo)
	svc := NewRegistryService(repo)

	modelID := uuid.New()
	repo.On("GetModelByID", mock.Anything, modelID).Return(&domain.RegisteredModel{ID: modelID}, nil)

	expected := ports.VersionListFilter{Limit: 20}
	repo.On("ListVersions", mock.Anything, modelID, expected).Return([]*domain.ModelVersion{}, 0, nil)

	_, _, err := svc.ListVersions(context.Background(), modelID, ports.VersionListFilter{})
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRegistryService_ListVersions_ModelMissing(t *testing.T) {
	repo := new(testutil.MockModelRegistryRepo)
	svc := NewRegistryService(repo)

	modelID := uuid.New()
	repo.On("GetModelByID", mock.Anything, modelID).Return(nil, domain.ErrModelNotFound)

	_, _, err := svc.ListVersions(context.Background(), modelID, ports.VersionListFilter{})
	assert.ErrorIs(t, err, domain.ErrModelNotFound)
}

func TestRegistryService_Promote(t *testing.T) {
	repo := new(testutil.MockModelRegistryRepo)
	svc := NewRegistryService(repo)

	modelID := uuid.New()
	versionID := uuid.New()
	version := &domain.ModelVersion{ID: versionID, RegisteredModelID: modelID, Status: domain.VersionStatusReady}

	repo.On("GetVersionByID", mock.Anything, versionID).Return(version, nil)
	repo.On("SetChampion", mock.Anything, modelID, versionID).Return(nil)

	promoted, err := svc.Promote(context.Background(), versionID)
	require.NoError(t, err)
	assert.Equal(t, versionID, promoted.ID)
	repo.AssertExpectations(t)
}

func TestRegistryService_Promote_NotReady(t *testing.T) {
	repo := new(testutil.MockModelRegistryRepo)
	svc := NewRegistryService(repo)

	versionID := uuid.New()
	repo.On("GetVersionByID", mock.Anything, versionID).Return(
		&domain.ModelVersion{ID: versionID, Status: domain.VersionStatusFailed}, nil)

	_, err := svc.Promote(context.Background(), versionID)
	assert.ErrorIs(t, err, domain.ErrVersionNotReady)
	repo.AssertNotCalled(t, "SetChampion", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegistryService_Champion(t *testing.T) {
	repo := new(testutil.MockModelRegistryRepo)
	svc := NewRegistryService(repo)

	modelID := uuid.New()
	champ := &domain.ModelVersion{ID: uuid.New(), IsChampion: true, Status: domain.VersionStatusReady}
	repo.On("GetModelByName", mock.Anything, "aqi-rawalpindi").Return(&domain.RegisteredModel{ID: modelID}, nil)
	repo.On("GetChampion", mock.Anything, modelID).Return(champ, nil)

	got, err := svc.Champion(context.Background(), "aqi-rawalpindi")
	require.NoError(t, err)
	assert.Equal(t, champ.ID, got.ID)
}

func TestRegistryService_Champion_None(t *testing.T) {
	repo := new(testutil.MockModelRegistryRepo)
	svc := NewRegistryService(repo)

	modelID := uuid.New()
	repo.On("GetModelByName", mock.Anything, "aqi-rawalpindi").Return(&domain.RegisteredModel{ID: modelID}, nil)
	repo.On("GetChampion", mock.Anything, modelID).Return(nil, domain.ErrNoChampion)

	_, err := svc.Champion(context.Background(), "aqi-rawalpindi")
	assert.ErrorIs(t, err, domain.ErrNoChampion)
}
