package stateManager

import (
	"airlockmc/state"
	"airlockmc/tree"
	"sync"

	"golang.org/x/exp/slices"
)

// Organizes the discovered state space as a graph.
//
// Every configuration is stored once and identified by the order it was discovered in.
// The first parent of every node is kept in a spanning tree rooted in the initial
// configuration, so with breadth first discovery the path in the tree is a shortest path.
type GraphStateManager struct {
	sync.RWMutex

	nodes      []*tree.Tree[state.Configuration]
	// Visited set, keyed by the packed configuration
	index      map[uint16]int
	successors [][]int
	complete   bool
}

// Create a new empty GraphStateManager
func NewGraphStateManager() *GraphStateManager {
	return &GraphStateManager{
		nodes:      []*tree.Tree[state.Configuration]{},
		index:      map[uint16]int{},
		successors: [][]int{},
	}
}

// Add the configuration to the discovered state space.
//
// parent is the id of the node the configuration was reached from, or -1 for the initial configuration.
// If the configuration has already been discovered the existing id is returned together with false.
// Is safe to call from multiple goroutines.
func (sm *GraphStateManager) AddState(cfg state.Configuration, parent int) (int, bool) {
	sm.Lock()
	defer sm.Unlock()

	key := cfg.Key()
	if id, ok := sm.index[key]; ok {
		return id, false
	}
	var node *tree.Tree[state.Configuration]
	if parent < 0 {
		node = tree.New(cfg)
	} else {
		node = sm.nodes[parent].AddChild(cfg)
	}
	id := len(sm.nodes)
	sm.nodes = append(sm.nodes, node)
	sm.index[key] = id
	sm.successors = append(sm.successors, []int{})
	return id, true
}

// Add a transition between two discovered nodes. Duplicate transitions are ignored.
func (sm *GraphStateManager) AddEdge(from, to int) {
	sm.Lock()
	defer sm.Unlock()

	if slices.Contains(sm.successors[from], to) {
		return
	}
	sm.successors[from] = append(sm.successors[from], to)
}

func (sm *GraphStateManager) SetComplete(complete bool) {
	sm.Lock()
	defer sm.Unlock()
	sm.complete = complete
}

func (sm *GraphStateManager) State() state.StateSpace {
	return sm
}

func (sm *GraphStateManager) Reset() {
	sm.Lock()
	defer sm.Unlock()
	sm.nodes = []*tree.Tree[state.Configuration]{}
	sm.index = map[uint16]int{}
	sm.successors = [][]int{}
	sm.complete = false
}

func (sm *GraphStateManager) Len() int {
	sm.RLock()
	defer sm.RUnlock()
	return len(sm.nodes)
}

func (sm *GraphStateManager) Configuration(id int) state.Configuration {
	sm.RLock()
	defer sm.RUnlock()
	return sm.nodes[id].Payload()
}

// Lookup returns the id of a discovered configuration.
func (sm *GraphStateManager) Lookup(cfg state.Configuration) (int, bool) {
	sm.RLock()
	defer sm.RUnlock()
	id, ok := sm.index[cfg.Key()]
	return id, ok
}

// Successors returns the ids of the successors of the node in the order they were added.
func (sm *GraphStateManager) Successors(id int) []int {
	sm.RLock()
	defer sm.RUnlock()
	return slices.Clone(sm.successors[id])
}

func (sm *GraphStateManager) PathTo(id int) []state.Configuration {
	sm.RLock()
	defer sm.RUnlock()
	return sm.nodes[id].PathFromRoot()
}

func (sm *GraphStateManager) Depth(id int) int {
	sm.RLock()
	defer sm.RUnlock()
	return sm.nodes[id].Depth()
}

func (sm *GraphStateManager) Complete() bool {
	sm.RLock()
	defer sm.RUnlock()
	return sm.complete
}

// Number of transitions between discovered nodes
func (sm *GraphStateManager) NumEdges() int {
	sm.RLock()
	defer sm.RUnlock()
	n := 0
	for _, succ := range sm.successors {
		n += len(succ)
	}
	return n
}
