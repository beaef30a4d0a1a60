package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Logger    LoggerConfig
	Location  LocationConfig
	OpenMeteo OpenMeteoConfig
	Pipeline  PipelineConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type LoggerConfig struct {
	Level  string
	Format string
}

type LocationConfig struct {
	Name      string
	Latitude  float64
	Longitude float64
	Timezone  string
}

type OpenMeteoConfig struct {
	AirQualityURL string
	WeatherURL    string
	Timeout       time.Duration
	RPS           float64
	Burst         int
}

type PipelineConfig struct {
	IngestInterval time.Duration
	TrainInterval  time.Duration
	InferInterval  time.Duration
	IngestPastDays int
	HorizonHours   int
	HistoryDays    int
	MinTrainHours  int
	CacheTTL       time.Duration
	ModelName      string
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)

	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "aqi")
	v.SetDefault("DATABASE_PASSWORD", "aqi")
	v.SetDefault("DATABASE_NAME", "aqi_forecast")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 2)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")

	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	// Default site matches the original deployment.
	v.SetDefault("LOCATION_NAME", "rawalpindi")
	v.SetDefault("LOCATION_LATITUDE", 33.5973)
	v.SetDefault("LOCATION_LONGITUDE", 73.0479)
	v.SetDefault("LOCATION_TIMEZONE", "Asia/Karachi")

	v.SetDefault("OPENMETEO_AIR_QUALITY_URL", "")
	v.SetDefault("OPENMETEO_WEATHER_URL", "")
	v.SetDefault("OPENMETEO_TIMEOUT", "10s")
	v.SetDefault("OPENMETEO_RPS", 1.0)
	v.SetDefault("OPENMETEO_BURST", 3)

	v.SetDefault("PIPELINE_INGEST_INTERVAL", "1h")
	v.SetDefault("PIPELINE_TRAIN_INTERVAL", "24h")
	v.SetDefault("PIPELINE_INFER_INTERVAL", "1h")
	v.SetDefault("PIPELINE_INGEST_PAST_DAYS", 2)
	v.SetDefault("PIPELINE_HORIZON_HOURS", 74)
	v.SetDefault("PIPELINE_HISTORY_DAYS", 90)
	v.SetDefault("PIPELINE_MIN_TRAIN_HOURS", 336)
	v.SetDefault("PIPELINE_CACHE_TTL", "1m")
	v.SetDefault("PIPELINE_MODEL_NAME", "")

	// Env
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DATABASE_HOST"),
			Port:            v.GetInt("DATABASE_PORT"),
			User:            v.GetString("DATABASE_USER"),
			Password:        v.GetString("DATABASE_PASSWORD"),
			Name:            v.GetString("DATABASE_NAME"),
			SSLMode:         v.GetString("DATABASE_SSLMODE"),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			ConnMaxLifetime: durationOr(v, "DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
		Location: LocationConfig{
			Name:      v.GetString("LOCATION_NAME"),
			Latitude:  v.GetFloat64("LOCATION_LATITUDE"),
			Longitude: v.GetFloat64("LOCATION_LONGITUDE"),
			Timezone:  v.GetString("LOCATION_TIMEZONE"),
		},
		OpenMeteo: OpenMeteoConfig{
			AirQualityURL: v.GetString("OPENMETEO_AIR_QUALITY_URL"),
			WeatherURL:    v.GetString("OPENMETEO_WEATHER_URL"),
			Timeout:       durationOr(v, "OPENMETEO_TIMEOUT", 10*time.Second),
			RPS:           v.GetFloat64("OPENMETEO_RPS"),
			Burst:         v.GetInt("OPENMETEO_BURST"),
		},
		Pipeline: PipelineConfig{
			IngestInterval: durationOr(v, "PIPELINE_INGEST_INTERVAL", time.Hour),
			TrainInterval:  durationOr(v, "PIPELINE_TRAIN_INTERVAL", 24*time.Hour),
			InferInterval:  durationOr(v, "PIPELINE_INFER_INTERVAL", time.Hour),
			IngestPastDays: v.GetInt("PIPELINE_INGEST_PAST_DAYS"),
			HorizonHours:   v.GetInt("PIPELINE_HORIZON_HOURS"),
			HistoryDays:    v.GetInt("PIPELINE_HISTORY_DAYS"),
			MinTrainHours:  v.GetInt("PIPELINE_MIN_TRAIN_HOURS"),
			CacheTTL:       durationOr(v, "PIPELINE_CACHE_TTL", time.Minute),
			ModelName:      v.GetString("PIPELINE_MODEL_NAME"),
		},
	}

	if cfg.Pipeline.ModelName == "" {
		cfg.Pipeline.ModelName = "aqi-" + cfg.Location.Name
	}

	return cfg, nil
}

func durationOr(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return fallback
	}
	return d
}
