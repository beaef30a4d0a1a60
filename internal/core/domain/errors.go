package domain

import "errors"

// ============================================================================
// Feature Store Errors
// ============================================================================

var (
	ErrObservationNotFound = errors.New("observation not found")
	ErrNoObservations      = errors.New("no observations stored for location")
	ErrInvalidRange        = errors.New("invalid time range")
)

// ============================================================================
// Model Registry Errors
// ============================================================================

var (
	ErrModelNotFound       = errors.New("registered model not found")
	ErrModelNameConflict   = errors.New("model with this name already exists")
	ErrVersionNotFound     = errors.New("model version not found")
	ErrVersionNameConflict = errors.New("version with this name already exists for this model")
	ErrInvalidModelName    = errors.New("model name is required")
	ErrVersionNotReady     = errors.New("model version is not ready")
	ErrNoChampion          = errors.New("no champion model version")
)

// ============================================================================
// Training / Inference Errors
// ============================================================================

var (
	ErrInsufficientHistory = errors.New("insufficient observation history for training")
	ErrTrainingFailed      = errors.New("training produced no usable candidate")
	ErrInvalidSpec         = errors.New("invalid forecaster spec")
)

// ============================================================================
// Forecast Serving Errors
// ============================================================================

var (
	ErrRunNotFound = errors.New("forecast run not found")
	ErrNoForecast  = errors.New("no forecast runs available")
)

// ============================================================================
// Ingestion Errors
// ============================================================================

var (
	ErrProviderUnavailable = errors.New("air quality provider unavailable")
)
