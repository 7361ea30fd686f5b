package model

import (
	"fmt"

	"airlockmc/state"
)

// NextPressed returns every value the button can take in the next step.
//
// A pressed button stays pressed until it is reset. An idle button may or may not
// be pressed by the environment, so both values are returned, idle first.
// Resetting an idle button returns ErrResetIdleButton.
func NextPressed(pressed, reset bool) ([]bool, error) {
	switch {
	case pressed && reset:
		return []bool{false}, nil
	case pressed:
		return []bool{true}, nil
	case reset:
		return nil, ErrResetIdleButton
	default:
		return []bool{false, true}, nil
	}
}

// buttonBranches returns the successor values of a button as state values.
func buttonBranches(id state.ButtonID, cfg state.Configuration, cmds state.Commands) ([]state.Button, error) {
	next, err := NextPressed(cfg.Pressed(id), cmds.Reset[id])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", err, id)
	}
	out := make([]state.Button, 0, len(next))
	for _, pressed := range next {
		if pressed {
			out = append(out, state.Pressed)
		} else {
			out = append(out, state.Idle)
		}
	}
	return out, nil
}
