package journey

import (
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/swaglabs/storefront-e2e/internal/models"
)

// LogRecorder writes finished runs to the log
type LogRecorder struct {
	log logrus.FieldLogger
}

// NewLogRecorder creates a recorder logging to log
func NewLogRecorder(log logrus.FieldLogger) *LogRecorder {
	return &LogRecorder{log: log}
}

// Record logs run
func (r *LogRecorder) Record(run *models.Run) error {
	entry := r.log.WithFields(logrus.Fields{
		"journey":     run.Journey,
		"account":     run.Account,
		"run_id":      run.ID,
		"state":       run.FinalState,
		"status":      run.Status,
		"duration_ms": run.Duration().Milliseconds(),
	})
	if run.Status == models.RunStatusFailed {
		entry.WithField("failure", run.Failure).Warn("Journey finished")
		return nil
	}
	entry.Info("Journey finished")
	return nil
}

// Recorders fans a run out to several recorders
type Recorders []Recorder

// Record hands run to every recorder, joining their errors
func (rs Recorders) Record(run *models.Run) error {
	var errs []error
	for _, r := range rs {
		if err := r.Record(run); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
