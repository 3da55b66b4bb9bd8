package journey

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Outcome is one acceptable result of a step whose result is not fixed
type Outcome struct {
	Name  string
	Check func() error
}

// OneOf returns the name of the first outcome whose check passes. When none
// does the error wraps ErrUnexpectedOutcome and every check's failure.
func OneOf(outcomes ...Outcome) (string, error) {
	names := make([]string, 0, len(outcomes))
	errs := make([]error, 0, len(outcomes))
	for _, o := range outcomes {
		err := o.Check()
		if err == nil {
			return o.Name, nil
		}
		names = append(names, o.Name)
		errs = append(errs, fmt.Errorf("%s: %w", o.Name, err))
	}
	return "", fmt.Errorf("%w (accepted: %s): %w", ErrUnexpectedOutcome, strings.Join(names, ", "), errors.Join(errs...))
}

// PollInterval is how often Eventually re-checks
var PollInterval = 100 * time.Millisecond

// Eventually re-runs check until it passes or timeout elapses, returning
// the last failure
func Eventually(timeout time.Duration, check func() error) error {
	deadline := time.Now().Add(timeout)
	for {
		err := check()
		if err == nil || time.Now().After(deadline) {
			return err
		}
		time.Sleep(PollInterval)
	}
}
