package stateManager

import (
	"airlockmc/state"
)

// Manages the discovered state space during an exploration.
type StateManager interface {
	// Add the configuration as a successor of the parent node.
	// Returns the id of the node and whether it was discovered now.
	AddState(cfg state.Configuration, parent int) (int, bool)
	// Returns the id of a discovered configuration
	Lookup(cfg state.Configuration) (int, bool)
	// Record a transition between two discovered nodes
	AddEdge(from, to int)
	// Mark whether every reachable configuration has been discovered
	SetComplete(complete bool)
	State() state.StateSpace
	Reset()
}
