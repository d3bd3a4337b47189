package configuration

import (
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

type Config struct {
	ServerAddress      string
	DatabaseURI        string
	RedisAddress       string
	ForecastAPIURL     string
	SessionTTL         time.Duration
	TrendCacheTTL      time.Duration
	AlertCheckInterval time.Duration
	LogLevel           string
	LogToFile          bool
	SecureCookie       bool
}

type tomlConfig struct {
	ServerAddress      string `toml:"server_address"`
	DatabaseURI        string `toml:"database_uri"`
	RedisAddress       string `toml:"redis_address"`
	ForecastAPIURL     string `toml:"forecast_api_url"`
	SessionTTL         string `toml:"session_ttl"`
	TrendCacheTTL      string `toml:"trend_cache_ttl"`
	AlertCheckInterval string `toml:"alert_check_interval"`
	LogLevel           string `toml:"log_level"`
	LogToFile          bool   `toml:"log_to_file"`
	SecureCookie       bool   `toml:"secure_cookie"`
}

func GetConfig(path string) (*Config, error) {
	var tc tomlConfig
	_, err := toml.DecodeFile(path, &tc)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode toml file with path: %s", path)
	}

	if tc.ServerAddress == "" {
		tc.ServerAddress = "localhost:8888"
	}

	if tc.DatabaseURI == "" {
		tc.DatabaseURI = "mongodb://localhost:27017"
	}

	if tc.RedisAddress == "" {
		tc.RedisAddress = "localhost:6379"
	}

	if tc.ForecastAPIURL == "" {
		return nil, errors.New("forecast_api_url is not set")
	}

	if tc.SessionTTL == "" {
		tc.SessionTTL = "30m"
	}
	sessionTTL, err := time.ParseDuration(tc.SessionTTL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse session_ttl: %s", tc.SessionTTL)
	}
	if sessionTTL < time.Minute {
		return nil, errors.Errorf("session_ttl too short (%v), minimum: 1m", sessionTTL)
	}

	if tc.TrendCacheTTL == "" {
		tc.TrendCacheTTL = "5m"
	}
	trendCacheTTL, err := time.ParseDuration(tc.TrendCacheTTL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse trend_cache_ttl: %s", tc.TrendCacheTTL)
	}

	if tc.AlertCheckInterval == "" {
		tc.AlertCheckInterval = "10m"
	}
	alertCheckInterval, err := time.ParseDuration(tc.AlertCheckInterval)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse alert_check_interval: %s", tc.AlertCheckInterval)
	}
	if alertCheckInterval < 15*time.Second {
		return nil, errors.Errorf("alert_check_interval too short (%v), minimum interval: 15s", alertCheckInterval)
	}

	if tc.LogLevel == "" {
		tc.LogLevel = "INFO"
	}

	return &Config{
		ServerAddress:      tc.ServerAddress,
		DatabaseURI:        tc.DatabaseURI,
		RedisAddress:       tc.RedisAddress,
		ForecastAPIURL:     tc.ForecastAPIURL,
		SessionTTL:         sessionTTL,
		TrendCacheTTL:      trendCacheTTL,
		AlertCheckInterval: alertCheckInterval,
		LogLevel:           tc.LogLevel,
		LogToFile:          tc.LogToFile,
		SecureCookie:       tc.SecureCookie,
	}, nil
}
