package model

import (
	"errors"
	"fmt"

	"airlockmc/state"

	"go.uber.org/multierr"
)

var (
	// An Open command on an open door or a Close command on a closed door
	ErrIllegalDoorCommand = errors.New("model: illegal door command")
	// A reset signal asserted while the button is idle
	ErrResetIdleButton = errors.New("model: reset asserted on an idle button")
)

// UncoveredCaseError is returned when no rule of a table matches a configuration.
//
// The rule tables must be total, so this is a modeling error and not a property violation.
type UncoveredCaseError struct {
	Table         string
	Configuration state.Configuration
}

func (e *UncoveredCaseError) Error() string {
	return fmt.Sprintf("model: no rule of table %q matches configuration %v", e.Table, e.Configuration)
}

// MalformedModelError aggregates every problem found while loading a model.
type MalformedModelError struct {
	Model string
	Err   error
}

func (e *MalformedModelError) Error() string {
	errs := multierr.Errors(e.Err)
	if len(errs) == 1 {
		return fmt.Sprintf("model %q is malformed: %v", e.Model, errs[0])
	}
	return fmt.Sprintf("model %q is malformed: %v errors occurred. \nError 1: %v", e.Model, len(errs), errs[0])
}

func (e *MalformedModelError) Unwrap() []error {
	return multierr.Errors(e.Err)
}
