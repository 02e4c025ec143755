package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	log := NewLogger("nonsense", "development")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewLoggerProductionUsesJSON(t *testing.T) {
	log := NewLogger("debug", "production")
	_, ok := log.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestRunLoggerStarted(t *testing.T) {
	log, buf := setupTestLogger()
	runLogger := NewRunLogger(log)

	runLogger.LogRunStarted("run_001", "2026-08-23", 14)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "run_001", logEntry["run_id"])
	assert.Equal(t, "prediction", logEntry["component"])
	assert.Equal(t, float64(14), logEntry["scan_days"])
}

func TestRunLoggerMatchupAnalyzed(t *testing.T) {
	log, buf := setupTestLogger()
	runLogger := NewRunLogger(log)

	runLogger.LogMatchupAnalyzed(
		"run_001",
		"Jannik Sinner vs Carlos Alcaraz (Hard)",
		"Jannik Sinner",
		0.62,
		10000,
		85.0,
	)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "Jannik Sinner", logEntry["favorite"])
	assert.Equal(t, 0.62, logEntry["win_probability"])
}

func TestRunLoggerMatchupSkipped(t *testing.T) {
	log, buf := setupTestLogger()
	runLogger := NewRunLogger(log)

	runLogger.LogMatchupSkipped("run_001", "A vs B (Clay)", "insufficient_data")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "insufficient_data", logEntry["reason"])
}

func TestRunLoggerCompleted(t *testing.T) {
	log, buf := setupTestLogger()
	runLogger := NewRunLogger(log)

	runLogger.LogRunCompleted("run_001", 8, 2, 0, 1234.5)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(8), logEntry["predictions"])
	assert.Equal(t, float64(2), logEntry["skipped"])
}

func TestAuditLoggerPredictionsPersisted(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogPredictionsPersisted(
		"run_001",
		8,
		time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC),
	)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "run_001", logEntry["run_id"])
	assert.Equal(t, "audit", logEntry["component"])
	assert.Equal(t, float64(8), logEntry["count"])
}

func TestAuditLoggerRunTriggered(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogRunTriggered("scheduler", "run_001")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "scheduler", logEntry["source"])
}

func TestAuditLoggerExportWritten(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogExportWritten("run_001", "csv", "output/predictions.csv", 8)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "csv", logEntry["format"])
	assert.Equal(t, float64(8), logEntry["rows"])
}

func TestLoggerJSONFormat(t *testing.T) {
	log, buf := setupTestLogger()
	runLogger := NewRunLogger(log)

	runLogger.LogMatchupAnalyzed(
		"run_001",
		"Jannik Sinner vs Carlos Alcaraz (Hard)",
		"Jannik Sinner",
		0.62,
		10000,
		85.0,
	)

	// Verify output is valid JSON
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	assert.NoError(t, err)
	assert.NotEmpty(t, logEntry)
}

func BenchmarkRunLoggerMatchupAnalyzed(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	runLogger := NewRunLogger(log)

	for i := 0; i < b.N; i++ {
		runLogger.LogMatchupAnalyzed(
			"run_001",
			"Jannik Sinner vs Carlos Alcaraz (Hard)",
			"Jannik Sinner",
			0.62,
			10000,
			85.0,
		)
	}
}

func BenchmarkAuditLoggerPredictionsPersisted(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	auditLogger := NewAuditLogger(log)

	for i := 0; i < b.N; i++ {
		auditLogger.LogPredictionsPersisted("run_001", 8, time.Now())
	}
}
