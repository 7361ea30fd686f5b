package stateManager

import (
	"testing"

	"airlockmc/state"
)

func TestAddState(t *testing.T) {
	sm := NewGraphStateManager()
	init := state.Initial()
	next := init.WithButton(state.InnerIn, state.Pressed)

	if id, added := sm.AddState(init, -1); id != 0 || !added {
		t.Fatalf("Expected the initial configuration to be added with id 0. Got: %v %v", id, added)
	}
	if id, added := sm.AddState(next, 0); id != 1 || !added {
		t.Fatalf("Expected the successor to be added with id 1. Got: %v %v", id, added)
	}
	if id, added := sm.AddState(init, 1); id != 0 || added {
		t.Fatalf("Expected the known configuration to keep id 0. Got: %v %v", id, added)
	}
	if sm.Len() != 2 {
		t.Errorf("Expected 2 nodes. Got: %v", sm.Len())
	}
	if id, ok := sm.Lookup(next); !ok || id != 1 {
		t.Errorf("Expected to find the successor with id 1. Got: %v %v", id, ok)
	}
	if sm.Depth(1) != 1 {
		t.Errorf("Expected depth 1. Got: %v", sm.Depth(1))
	}
	path := sm.PathTo(1)
	if len(path) != 2 || path[0] != init || path[1] != next {
		t.Errorf("Expected the path from the initial configuration. Got: %v", path)
	}
}

func TestVisitedSetDistinguishesDomain(t *testing.T) {
	sm := NewGraphStateManager()
	domain := state.Domain()
	for i, cfg := range domain {
		if id, added := sm.AddState(cfg, i-1); id != i || !added {
			t.Fatalf("Expected %v to be added with id %v. Got: %v %v", cfg, i, id, added)
		}
	}
	for i, cfg := range domain {
		back, err := state.FromKey(cfg.Key())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if id, added := sm.AddState(back, 0); id != i || added {
			t.Errorf("Expected %v to be known with id %v. Got: %v %v", cfg, i, id, added)
		}
	}
	if sm.Len() != len(domain) {
		t.Errorf("Expected %v nodes. Got: %v", len(domain), sm.Len())
	}
}

func TestAddEdge(t *testing.T) {
	sm := NewGraphStateManager()
	sm.AddState(state.Initial(), -1)
	sm.AddState(state.Initial().WithButton(state.OuterIn, state.Pressed), 0)
	sm.AddEdge(0, 1)
	sm.AddEdge(0, 0)
	sm.AddEdge(0, 1)
	succ := sm.Successors(0)
	if len(succ) != 2 || succ[0] != 1 || succ[1] != 0 {
		t.Fatalf("Expected successors in insertion order without duplicates. Got: %v", succ)
	}
	if sm.NumEdges() != 2 {
		t.Errorf("Expected 2 edges. Got: %v", sm.NumEdges())
	}
	// Modifying the returned slice must not change the graph
	succ[0] = 5
	if sm.Successors(0)[0] != 1 {
		t.Errorf("Successors returned the internal slice")
	}
}

func TestReset(t *testing.T) {
	sm := NewGraphStateManager()
	sm.AddState(state.Initial(), -1)
	sm.SetComplete(true)
	sm.Reset()
	if sm.Len() != 0 || sm.Complete() {
		t.Fatalf("Expected an empty incomplete state space after reset. Got: %v nodes complete=%v", sm.Len(), sm.Complete())
	}
}
