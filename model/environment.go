package model

import (
	"fmt"

	"airlockmc/state"
)

// SuccessorsOf evaluates the controller on cfg and enumerates every choice of the
// environment, returning one step per distinct successor configuration.
//
// Branches are enumerated in a fixed order: access mode successors in graph order,
// then the buttons in field order with "stay" before "toggle". Duplicate successors
// keep their first occurrence.
//
// If the commands cannot be applied, for example an Open command on an open door,
// a single step with Err set is returned instead. An uncovered case in a rule table
// is returned as an error.
func (m *Model) SuccessorsOf(cfg state.Configuration) ([]state.Step, error) {
	cmds, err := m.Controller.Step(cfg)
	if err != nil {
		return nil, err
	}
	failed := func(err error) []state.Step {
		return []state.Step{{From: cfg, Commands: cmds, Err: err}}
	}

	inner, err := NextStatus(cfg.InnerDoor, cmds.Inner)
	if err != nil {
		return failed(fmt.Errorf("inner door: %w", err)), nil
	}
	outer, err := NextStatus(cfg.OuterDoor, cmds.Outer)
	if err != nil {
		return failed(fmt.Errorf("outer door: %w", err)), nil
	}

	branches := make([][]state.Button, state.NumButtons)
	for _, id := range state.ButtonIDs {
		if branches[id], err = buttonBranches(id, cfg, cmds); err != nil {
			return failed(err), nil
		}
	}

	base := state.Configuration{
		InnerDoor:   inner,
		OuterDoor:   outer,
		Cleanliness: cmds.NextCleanliness,
	}
	seen := map[state.Configuration]bool{}
	steps := []state.Step{}
	for _, mode := range m.AccessModes.Next(cfg.AccessMode) {
		next := base
		next.AccessMode = mode
		for _, buttons := range product(branches) {
			next.Buttons = buttons
			if seen[next] {
				continue
			}
			seen[next] = true
			steps = append(steps, state.Step{From: cfg, Commands: cmds, To: next})
		}
	}
	return steps, nil
}

// product returns the cartesian product of the button branches, the first
// button varying slowest.
func product(branches [][]state.Button) [][state.NumButtons]state.Button {
	out := [][state.NumButtons]state.Button{{}}
	for i, options := range branches {
		grown := make([][state.NumButtons]state.Button, 0, len(out)*len(options))
		for _, prefix := range out {
			for _, b := range options {
				prefix[i] = b
				grown = append(grown, prefix)
			}
		}
		out = grown
	}
	return out
}
