package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, 60, cfg.UpdateIntervalMinutes)
	assert.Equal(t, time.Hour, cfg.UpdateInterval())
	assert.Equal(t, 168*time.Hour, cfg.RetrainInterval)
	assert.Equal(t, 30, cfg.HistoryWindowDays)
	assert.Equal(t, 90, cfg.TrainingWindowDays)
	assert.Equal(t, 6*time.Hour, cfg.StaleAfter)
	assert.Equal(t, 24, cfg.Estimators)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.InDelta(t, 0.70, cfg.LowConfidenceThreshold, 1e-9)
	assert.InDelta(t, 0.70, cfg.AccuracyAlertFloor, 1e-9)
	assert.Equal(t, 10, cfg.AccuracyAlertMinSamples)
	assert.Equal(t, 90, cfg.RetentionDays)

	// Severity defaults carry the operational ladder values.
	assert.InDelta(t, 30.0, cfg.SeverityThresholds.HeatC.Low, 1e-9)
	assert.InDelta(t, 45.0, cfg.SeverityThresholds.HeatC.Severe, 1e-9)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_ALERT_TOPIC", "alerts")
	t.Setenv("UPDATE_INTERVAL_MINUTES", "30")
	t.Setenv("RETRAIN_INTERVAL", "24h")
	t.Setenv("LOW_CONFIDENCE_THRESHOLD", "0.6")
	t.Setenv("RETENTION_DAYS", "120")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "alerts", cfg.KafkaAlertTopic)
	assert.Equal(t, 30*time.Minute, cfg.UpdateInterval())
	assert.Equal(t, 24*time.Hour, cfg.RetrainInterval)
	assert.InDelta(t, 0.6, cfg.LowConfidenceThreshold, 1e-9)
	assert.Equal(t, 120, cfg.RetentionDays)
}

func TestLoad_SeverityThresholdFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
severity_thresholds:
  wind_kmh:
    low: 50
    moderate: 70
    high: 90
    severe: 110
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 50.0, cfg.SeverityThresholds.WindKMH.Low, 1e-9)
	assert.InDelta(t, 110.0, cfg.SeverityThresholds.WindKMH.Severe, 1e-9)
	// Untouched dimensions keep their defaults.
	assert.InDelta(t, 30.0, cfg.SeverityThresholds.HeatC.Low, 1e-9)
}

func TestLoad_Validation(t *testing.T) {
	t.Run("retention below 90 rejected", func(t *testing.T) {
		t.Setenv("RETENTION_DAYS", "30")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "retention_days")
	})

	t.Run("threshold out of range rejected", func(t *testing.T) {
		t.Setenv("LOW_CONFIDENCE_THRESHOLD", "1.5")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "low_confidence_threshold")
	})

	t.Run("kafka enabled requires topic", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		yaml := "kafka_enabled: true\nkafka_alert_topic: \"\"\n"
		require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
		t.Setenv("CONFIG_FILE", path)

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "kafka_alert_topic")
	})
}
