package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunStatus represents valid journey run states
type RunStatus string

// Run statuses
const (
	RunStatusRunning RunStatus = "running"
	RunStatusPassed  RunStatus = "passed"
	RunStatusFailed  RunStatus = "failed"
)

// Run is the recorded outcome of one journey against one account
type Run struct {
	ID         string
	Journey    string
	Account    string
	Status     RunStatus
	FinalState string
	Failure    string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Domain errors
var (
	ErrInvalidJourney          = errors.New("journey name cannot be empty")
	ErrInvalidStatusTransition = errors.New("invalid run status transition")
	ErrEmptyFailureReason      = errors.New("failure reason cannot be empty")
)

// NewRun starts a run for the named journey
func NewRun(journey, account string) (*Run, error) {
	if journey == "" {
		return nil, ErrInvalidJourney
	}

	return &Run{
		ID:        uuid.New().String(),
		Journey:   journey,
		Account:   account,
		Status:    RunStatusRunning,
		StartedAt: time.Now(),
	}, nil
}

// Pass marks the run as passed in the given final state
func (r *Run) Pass(finalState string) error {
	if r.Status != RunStatusRunning {
		return fmt.Errorf("%w: cannot pass run with status %s", ErrInvalidStatusTransition, r.Status)
	}

	r.Status = RunStatusPassed
	r.FinalState = finalState
	r.FinishedAt = time.Now()
	return nil
}

// Fail marks the run as failed. Failing a failed run keeps the first reason.
func (r *Run) Fail(finalState, reason string) error {
	if reason == "" {
		return ErrEmptyFailureReason
	}
	if r.Status == RunStatusPassed {
		return fmt.Errorf("%w: cannot fail a passed run", ErrInvalidStatusTransition)
	}
	if r.Status == RunStatusFailed {
		return nil
	}

	r.Status = RunStatusFailed
	r.FinalState = finalState
	r.Failure = reason
	r.FinishedAt = time.Now()
	return nil
}

// IsFinished returns true once the run passed or failed
func (r *Run) IsFinished() bool {
	return r.Status == RunStatusPassed || r.Status == RunStatusFailed
}

// Duration returns how long the run took, or how long it has been running
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
