package model

import (
	"fmt"

	"airlockmc/state"
)

// AccessModeGraph lists the access modes the environment may switch to from each mode.
// Successors are explored in the listed order.
type AccessModeGraph map[state.AccessMode][]state.AccessMode

// DefaultAccessModes is the fixed mode graph of the airlock:
// normal may escalate to evacuation, evacuation to lockdown, and lockdown
// can only be lifted back to normal.
func DefaultAccessModes() AccessModeGraph {
	return AccessModeGraph{
		state.Normal:   {state.Normal, state.Evac},
		state.Evac:     {state.Normal, state.Evac, state.Lockdown},
		state.Lockdown: {state.Lockdown, state.Normal},
	}
}

func (g AccessModeGraph) Next(m state.AccessMode) []state.AccessMode {
	return g[m]
}

// validate checks that every mode has at least one successor.
func (g AccessModeGraph) validate() error {
	for _, m := range state.AccessModes {
		if len(g[m]) == 0 {
			return fmt.Errorf("access mode %v has no successor", m)
		}
	}
	return nil
}
