// Package journey sequences page-object operations into checked user journeys.
//
// A journey moves through a fixed set of states. Every step runs one action
// and then its postcondition; the next step is only attempted once the
// postcondition held. The first failure poisons the journey so later steps
// report the original failure instead of cascading.
package journey

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/swaglabs/storefront-e2e/internal/models"
)

// State is a checkpoint in a shopper's journey
type State string

// Journey states
const (
	Unauthenticated     State = "unauthenticated"
	Authenticated       State = "authenticated"
	CartPopulated       State = "cart_populated"
	CheckoutInfoEntered State = "checkout_info_entered"
	CheckoutConfirmed   State = "checkout_confirmed"
)

// Journey errors
var (
	ErrPrecondition      = errors.New("precondition violated")
	ErrDivergence        = errors.New("application diverged from expected state")
	ErrUnexpectedOutcome = errors.New("no accepted outcome observed")
)

var transitions = map[State][]State{
	Unauthenticated:     {Authenticated},
	Authenticated:       {CartPopulated},
	CartPopulated:       {CheckoutInfoEntered, Authenticated},
	CheckoutInfoEntered: {CheckoutConfirmed},
}

// CanTransition reports whether to may follow from
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Recorder stores finished runs
type Recorder interface {
	Record(run *models.Run) error
}

// Machine tracks one journey
type Machine struct {
	state    State
	err      error
	run      *models.Run
	recorder Recorder
	log      logrus.FieldLogger
}

// New starts the named journey for account in the Unauthenticated state
func New(name, account string, recorder Recorder, log logrus.FieldLogger) (*Machine, error) {
	run, err := models.NewRun(name, account)
	if err != nil {
		return nil, err
	}

	m := &Machine{
		state:    Unauthenticated,
		run:      run,
		recorder: recorder,
	}
	m.log = log.WithFields(logrus.Fields{
		"journey": name,
		"account": account,
		"run_id":  run.ID,
	})
	return m, nil
}

// State returns the last confirmed state
func (m *Machine) State() State {
	return m.state
}

// Err returns the failure that poisoned the journey, if any
func (m *Machine) Err() error {
	return m.err
}

// Run returns the run being recorded
func (m *Machine) Run() *models.Run {
	return m.run
}

// Advance runs action and then verify, moving to state to when both succeed.
// Transitions not in the journey graph fail with ErrPrecondition without
// running anything.
func (m *Machine) Advance(to State, name string, action, verify func() error) error {
	if m.err == nil && !CanTransition(m.state, to) {
		return m.poison(name, fmt.Errorf("%w: cannot move from %s to %s", ErrPrecondition, m.state, to))
	}
	if err := m.step(name, action, verify); err != nil {
		return err
	}

	m.log.WithFields(logrus.Fields{"state": to, "from": m.state}).Info(name)
	m.state = to
	return nil
}

// Do runs a step that leaves the journey in its current state
func (m *Machine) Do(name string, action, verify func() error) error {
	if err := m.step(name, action, verify); err != nil {
		return err
	}
	m.log.WithField("state", m.state).Debug(name)
	return nil
}

// Abort poisons the journey with a failure observed outside a step
func (m *Machine) Abort(err error) {
	if m.err == nil && err != nil {
		m.poison("abort", err)
	}
}

func (m *Machine) step(name string, action, verify func() error) error {
	if m.err != nil {
		return fmt.Errorf("%w: %s skipped, journey already failed: %w", ErrPrecondition, name, m.err)
	}
	if action != nil {
		if err := action(); err != nil {
			return m.poison(name, fmt.Errorf("%s: %w", name, err))
		}
	}
	if verify != nil {
		if err := verify(); err != nil {
			return m.poison(name, fmt.Errorf("%s: %w", name, err))
		}
	}
	return nil
}

func (m *Machine) poison(name string, err error) error {
	m.err = err
	m.log.WithError(err).WithFields(logrus.Fields{"state": m.state, "step": name}).Warn("Journey failed")
	return err
}

// Finish closes the run as passed or failed and hands it to the recorder.
// It returns the journey failure, or the recorder's error if recording failed.
func (m *Machine) Finish() error {
	if !m.run.IsFinished() {
		var err error
		if m.err != nil {
			err = m.run.Fail(string(m.state), m.err.Error())
		} else {
			err = m.run.Pass(string(m.state))
		}
		if err != nil {
			return err
		}
	}

	if m.recorder != nil {
		if err := m.recorder.Record(m.run); err != nil {
			return errors.Join(m.err, fmt.Errorf("failed to record run %s: %w", m.run.ID, err))
		}
	}
	return m.err
}

// Expect returns ErrDivergence described by format unless ok holds
func Expect(ok bool, format string, args ...any) error {
	if ok {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrDivergence, fmt.Sprintf(format, args...))
}

// ExpectEqual returns ErrDivergence unless got equals want
func ExpectEqual[T comparable](what string, want, got T) error {
	return Expect(want == got, "%s: want %v, got %v", what, want, got)
}
