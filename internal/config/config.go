// Package config loads service settings from environment variables and
// an optional YAML file, with validated defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/couchcryptid/weather-prediction-service/internal/warning"
	"github.com/spf13/viper"
)

// Config holds all service settings.
type Config struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	LogLevel        string        `mapstructure:"log_level"`
	LogFormat       string        `mapstructure:"log_format"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// Kafka event publishing. Disabled by default; enabling requires
	// brokers and a topic.
	KafkaEnabled    bool     `mapstructure:"kafka_enabled"`
	KafkaBrokers    []string `mapstructure:"kafka_brokers"`
	KafkaAlertTopic string   `mapstructure:"kafka_alert_topic"`

	// Engine cadences and windows.
	UpdateIntervalMinutes int           `mapstructure:"update_interval_minutes"`
	RetrainInterval       time.Duration `mapstructure:"retrain_interval"`
	HistoryWindowDays     int           `mapstructure:"history_window_days"`
	TrainingWindowDays    int           `mapstructure:"training_window_days"`
	AccuracyWindowDays    int           `mapstructure:"accuracy_window_days"`
	StaleAfter            time.Duration `mapstructure:"stale_after"`

	// Model tuning.
	Estimators int   `mapstructure:"estimators"`
	Seed       int64 `mapstructure:"seed"`

	// Accuracy and confidence knobs.
	LowConfidenceThreshold  float64 `mapstructure:"low_confidence_threshold"`
	AccuracyAlertFloor      float64 `mapstructure:"accuracy_alert_floor"`
	AccuracyAlertMinSamples int     `mapstructure:"accuracy_alert_min_samples"`
	RetentionDays           int     `mapstructure:"retention_days"`

	// SeverityThresholds is loaded from the optional YAML file; the
	// environment cannot express the nested table.
	SeverityThresholds warning.Thresholds `mapstructure:"severity_thresholds"`
}

// Load reads configuration from the environment and, when CONFIG_FILE
// is set, a YAML file. File values override defaults; environment
// values override both.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("shutdown_timeout", "15s")

	v.SetDefault("kafka_enabled", false)
	v.SetDefault("kafka_brokers", []string{"localhost:9092"})
	v.SetDefault("kafka_alert_topic", "weather-alerts")

	v.SetDefault("update_interval_minutes", 60)
	v.SetDefault("retrain_interval", "168h")
	v.SetDefault("history_window_days", 30)
	v.SetDefault("training_window_days", 90)
	v.SetDefault("accuracy_window_days", 7)
	v.SetDefault("stale_after", "6h")

	v.SetDefault("estimators", 24)
	v.SetDefault("seed", 42)

	v.SetDefault("low_confidence_threshold", 0.70)
	v.SetDefault("accuracy_alert_floor", 0.70)
	v.SetDefault("accuracy_alert_min_samples", 10)
	v.SetDefault("retention_days", 90)

	defaults := warning.DefaultThresholds()
	v.SetDefault("severity_thresholds", map[string]any{})

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", file, err)
		}
	}

	cfg := &Config{SeverityThresholds: defaults}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	// KAFKA_BROKERS arrives as a comma-separated string from the
	// environment.
	if len(cfg.KafkaBrokers) == 1 && strings.Contains(cfg.KafkaBrokers[0], ",") {
		cfg.KafkaBrokers = strings.Split(cfg.KafkaBrokers[0], ",")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.UpdateIntervalMinutes <= 0 {
		return errors.New("update_interval_minutes must be positive")
	}
	if c.RetrainInterval <= 0 {
		return errors.New("retrain_interval must be positive")
	}
	if c.LowConfidenceThreshold < 0 || c.LowConfidenceThreshold > 1 {
		return errors.New("low_confidence_threshold must be in [0,1]")
	}
	if c.AccuracyAlertFloor < 0 || c.AccuracyAlertFloor > 1 {
		return errors.New("accuracy_alert_floor must be in [0,1]")
	}
	if c.RetentionDays < 90 {
		return errors.New("retention_days must be at least 90")
	}
	if c.KafkaEnabled {
		if len(c.KafkaBrokers) == 0 {
			return errors.New("kafka_enabled is true but kafka_brokers is empty")
		}
		if c.KafkaAlertTopic == "" {
			return errors.New("kafka_enabled is true but kafka_alert_topic is empty")
		}
	}
	return nil
}

// UpdateInterval returns the forecast regeneration cadence.
func (c *Config) UpdateInterval() time.Duration {
	return time.Duration(c.UpdateIntervalMinutes) * time.Minute
}
