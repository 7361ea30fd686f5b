package scheduler

import (
	"errors"
)

// Decides the order in which discovered nodes are expanded.
//
// The explorer expands one batch of nodes at a time, possibly in parallel, and adds the
// nodes discovered while expanding the batch before asking for the next one.
type Scheduler interface {
	// Add a newly discovered node to be expanded later
	Add(id int)
	// Get the next batch of nodes to be expanded and its depth.
	// Returns NoNodesError if no nodes are pending.
	NextBatch() ([]int, int, error)
	Reset()
}

var NoNodesError = errors.New("scheduler: No nodes pending expansion")
