// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogPredictionsPersisted logs a stored prediction batch.
func (al *AuditLogger) LogPredictionsPersisted(runID string, count int, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"run_id":    runID,
		"count":     count,
		"timestamp": timestamp.Unix(),
	}).Info("Prediction batch persisted")
}

// LogRunTriggered logs what initiated a prediction run.
func (al *AuditLogger) LogRunTriggered(source, runID string) {
	al.WithFields(logrus.Fields{
		"source": source,
		"run_id": runID,
	}).Info("Prediction run triggered")
}

// LogExportWritten logs a prediction export.
func (al *AuditLogger) LogExportWritten(runID, format, path string, rows int) {
	al.WithFields(logrus.Fields{
		"run_id": runID,
		"format": format,
		"path":   path,
		"rows":   rows,
	}).Info("Prediction export written")
}

// LogSchemaEnsured logs database schema initialization.
func (al *AuditLogger) LogSchemaEnsured(database string) {
	al.WithField("database", database).Info("Database schema ensured")
}
