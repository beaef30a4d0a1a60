package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"aqi-forecast-service/internal/core/domain"
	"aqi-forecast-service/internal/core/services"
	"aqi-forecast-service/internal/testutil"
)

type routerMocks struct {
	obs    *testutil.MockObservationRepo
	reg    *testutil.MockModelRegistryRepo
	fc     *testutil.MockForecastRepo
	client *testutil.MockAirQualityClient
}

var handlerSite = domain.Location{
	Name:      "rawalpindi",
	Latitude:  33.5973,
	Longitude: 73.0479,
	Timezone:  "Asia/Karachi",
}

func setupRouter() (routerMocks, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	m := routerMocks{
		obs:    new(testutil.MockObservationRepo),
		reg:    new(testutil.MockModelRegistryRepo),
		fc:     new(testutil.MockForecastRepo),
		client: new(testutil.MockAirQualityClient),
	}

	featureSvc := services.NewFeatureService(m.obs, m.client, handlerSite)
	registrySvc := services.NewRegistryService(m.reg)
	trainingSvc := services.NewTrainingService(m.obs, registrySvc, handlerSite, services.TrainingConfig{ModelName: "aqi-rawalpindi"})
	inferenceSvc := services.NewInferenceService(m.obs, m.fc, registrySvc, handlerSite, "aqi-rawalpindi", 30)
	forecastSvc := services.NewForecastService(m.fc, handlerSite)

	h := New(featureSvc, registrySvc, trainingSvc, inferenceSvc, forecastSvc, "aqi-rawalpindi", handlerSite)
	r := gin.New()
	api := r.Group("/api/v1")
	h.RegisterRoutes(api)
	return m, r
}

func storedRun() *domain.ForecastRun {
	id := uuid.New()
	base := time.Now().UTC().Truncate(time.Hour)
	run := &domain.ForecastRun{
		ID:             id,
		RunAt:          base,
		Location:       "rawalpindi",
		ModelVersionID: uuid.New(),
		ModelName:      "20260301-060000-arima",
		HorizonHours:   3,
	}
	for h := 0; h < 3; h++ {
		aqi := 140 + h
		run.Predictions = append(run.Predictions, domain.Prediction{
			ID:         uuid.New(),
			RunID:      id,
			TargetTime: base.Add(time.Duration(h+1) * time.Hour),
			Value:      float64(aqi),
			AQI:        aqi,
			Category:   domain.CategoryForAQI(aqi),
		})
	}
	return run
}

func TestGetLatestForecast(t *testing.T) {
	m, r := setupRouter()
	run := storedRun()
	m.fc.On("GetLatestRun", mock.Anything, "rawalpindi").Return(run, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/forecast/latest", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, run.ModelName, resp["model_version"])
	preds := resp["predictions"].([]any)
	require.Len(t, preds, 3)
	first := preds[0].(map[string]any)
	assert.Equal(t, float64(140), first["us_aqi"])
	assert.Contains(t, first, "forecast_date_utc")
	assert.Contains(t, first, "forecast_date_local")
}

func TestGetLatestForecast_BadTimeParam(t *testing.T) {
	_, r := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/forecast/latest?from=yesterday", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetLatestForecast_NoneYet(t *testing.T) {
	m, r := setupRouter()
	m.fc.On("GetLatestRun", mock.Anything, "rawalpindi").Return(nil, domain.ErrNoForecast)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/forecast/latest", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCurrentAQI(t *testing.T) {
	m, r := setupRouter()
	run := storedRun()
	m.fc.On("GetLatestRun", mock.Anything, "rawalpindi").Return(run, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/forecast/current", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(140), resp["us_aqi"])
	assert.Equal(t, string(domain.CategoryUSG), resp["category"])
	assert.Equal(t, run.ModelName, resp["model_version"])
}

func TestGetForecastRun_InvalidID(t *testing.T) {
	_, r := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/forecast/runs/not-a-uuid", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListForecastRuns(t *testing.T) {
	m, r := setupRouter()
	m.fc.On("ListRuns", mock.Anything, "rawalpindi", 20, 0).
		Return([]*domain.ForecastRun{storedRun()}, 1, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/forecast/runs", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["total"])
}

func TestListObservations_RequiresWindow(t *testing.T) {
	_, r := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/observations", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListObservations(t *testing.T) {
	m, r := setupRouter()

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(time.Hour)
	obs := []domain.Observation{
		{Location: "rawalpindi", Time: from, Pollutants: domain.Pollutants{PM25: 80}, AQI: 164},
	}
	m.obs.On("GetRange", mock.Anything, "rawalpindi", from, to).Return(obs, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/observations?from=2026-03-01T00:00:00Z&to=2026-03-01T01:00:00Z", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	items := resp["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, float64(164), items[0].(map[string]any)["us_aqi"])
}

func TestGetLatestObservation_NoneStored(t *testing.T) {
	m, r := setupRouter()
	m.obs.On("GetLatest", mock.Anything, "rawalpindi").Return(nil, domain.ErrNoObservations)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/observations/latest", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetChampion(t *testing.T) {
	m, r := setupRouter()

	model := &domain.RegisteredModel{ID: uuid.New(), Name: "aqi-rawalpindi"}
	champ := &domain.ModelVersion{
		ID:                uuid.New(),
		RegisteredModelID: model.ID,
		Name:              "20260301-060000-ensemble",
		Status:            domain.VersionStatusReady,
		IsChampion:        true,
		Spec:              json.RawMessage(`{"kind":"drift"}`),
	}
	m.reg.On("GetModelByName", mock.Anything, "aqi-rawalpindi").Return(model, nil)
	m.reg.On("GetChampion", mock.Anything, model.ID).Return(champ, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/champion", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, champ.Name, resp["name"])
	assert.Equal(t, true, resp["is_champion"])
}

func TestPromoteModelVersion_NotReady(t *testing.T) {
	m, r := setupRouter()

	versionID := uuid.New()
	m.reg.On("GetVersionByID", mock.Anything, versionID).Return(
		&domain.ModelVersion{ID: versionID, Status: domain.VersionStatusFailed}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/model_versions/"+versionID.String()+"/promote", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunBackfill(t *testing.T) {
	m, r := setupRouter()

	m.client.On("FetchRange", mock.Anything, handlerSite, mock.Anything, mock.Anything).
		Return([]domain.Observation{{Time: time.Now().UTC()}}, nil)
	m.obs.On("UpsertBatch", mock.Anything, mock.Anything).Return(1, nil)

	body, _ := json.Marshal(map[string]int{"past_days": 30})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/pipelines/ingest/backfill", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["rows"])
}

func TestRunBackfill_Validation(t *testing.T) {
	_, r := setupRouter()

	body, _ := json.Marshal(map[string]int{"past_days": 365})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/pipelines/ingest/backfill", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunTraining_InsufficientHistory(t *testing.T) {
	m, r := setupRouter()

	model := &domain.RegisteredModel{ID: uuid.New(), Name: "aqi-rawalpindi"}
	m.reg.On("GetModelByName", mock.Anything, "aqi-rawalpindi").Return(model, nil)
	m.obs.On("GetRange", mock.Anything, "rawalpindi", mock.Anything, mock.Anything).
		Return([]domain.Observation{}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/pipelines/train/run", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
