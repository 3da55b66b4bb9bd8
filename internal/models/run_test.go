package models

import (
	"errors"
	"testing"
	"time"
)

func TestNewRun(t *testing.T) {
	tests := []struct {
		name    string
		journey string
		account string
		wantErr error
	}{
		{
			name:    "valid run",
			journey: "purchase single item",
			account: "standard_user",
		},
		{
			name:    "account is optional",
			journey: "login page screenshot",
		},
		{
			name:    "empty journey name",
			account: "standard_user",
			wantErr: ErrInvalidJourney,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run, err := NewRun(tt.journey, tt.account)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewRun() error = %v, wantErr %v", err, tt.wantErr)
				}
				if run != nil {
					t.Error("Expected run to be nil when error occurs")
				}
				return
			}

			if err != nil {
				t.Fatalf("NewRun() unexpected error = %v", err)
			}
			if run.ID == "" {
				t.Error("Run ID should not be empty")
			}
			if run.Status != RunStatusRunning {
				t.Errorf("Expected status %s, got %s", RunStatusRunning, run.Status)
			}
			if run.StartedAt.IsZero() {
				t.Error("StartedAt should be set")
			}
		})
	}
}

func TestRun_Pass(t *testing.T) {
	tests := []struct {
		name         string
		initialState RunStatus
		wantErr      bool
	}{
		{name: "pass running run", initialState: RunStatusRunning},
		{name: "cannot pass passed run", initialState: RunStatusPassed, wantErr: true},
		{name: "cannot pass failed run", initialState: RunStatusFailed, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := &Run{ID: "test-id", Journey: "j", Status: tt.initialState}

			err := run.Pass("checkout_confirmed")

			if (err != nil) != tt.wantErr {
				t.Fatalf("Pass() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidStatusTransition) {
					t.Errorf("Expected ErrInvalidStatusTransition, got %v", err)
				}
				return
			}
			if run.Status != RunStatusPassed || run.FinalState != "checkout_confirmed" {
				t.Errorf("Unexpected run after Pass: %+v", run)
			}
			if !run.IsFinished() {
				t.Error("Expected passed run to be finished")
			}
		})
	}
}

func TestRun_Fail(t *testing.T) {
	tests := []struct {
		name         string
		initialState RunStatus
		reason       string
		wantErr      bool
		wantReason   string
	}{
		{name: "fail running run", initialState: RunStatusRunning, reason: "timeout", wantReason: "timeout"},
		{name: "cannot fail passed run", initialState: RunStatusPassed, reason: "late", wantErr: true},
		{name: "empty reason", initialState: RunStatusRunning, wantErr: true},
		{name: "first failure wins", initialState: RunStatusFailed, reason: "second", wantReason: "first"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := &Run{ID: "test-id", Journey: "j", Status: tt.initialState}
			if tt.initialState == RunStatusFailed {
				run.Failure = "first"
			}

			err := run.Fail("authenticated", tt.reason)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Fail() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				if run.Status != RunStatusFailed {
					t.Errorf("Expected status %s, got %s", RunStatusFailed, run.Status)
				}
				if run.Failure != tt.wantReason {
					t.Errorf("Expected failure %q, got %q", tt.wantReason, run.Failure)
				}
			}
		})
	}
}

func TestRun_Duration(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	run := &Run{StartedAt: start, FinishedAt: start.Add(3 * time.Second)}

	if got := run.Duration(); got != 3*time.Second {
		t.Errorf("Duration() = %s, want 3s", got)
	}

	running := &Run{StartedAt: time.Now().Add(-time.Second)}
	if got := running.Duration(); got < time.Second {
		t.Errorf("Expected running duration of at least 1s, got %s", got)
	}
}
