package checking

import (
	"testing"

	"airlockmc/state"
)

// A hand built state space. Node ids index into cfgs and parent gives the
// breadth first search tree used for shortest paths.
type graphSpace struct {
	cfgs     []state.Configuration
	succ     [][]int
	parent   []int
	complete bool
}

func (g *graphSpace) Len() int                                 { return len(g.cfgs) }
func (g *graphSpace) Configuration(id int) state.Configuration { return g.cfgs[id] }
func (g *graphSpace) Successors(id int) []int                  { return g.succ[id] }
func (g *graphSpace) Complete() bool                           { return g.complete }

func (g *graphSpace) Depth(id int) int {
	return len(g.PathTo(id)) - 1
}

func (g *graphSpace) PathTo(id int) []state.Configuration {
	out := []state.Configuration{}
	for ; id >= 0; id = g.parent[id] {
		out = append([]state.Configuration{g.cfgs[id]}, out...)
	}
	return out
}

func cfgWith(t *testing.T, fields map[state.Field]string) state.Configuration {
	cfg := state.Initial()
	for f, v := range fields {
		var err error
		cfg, err = cfg.With(f, v)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}
	return cfg
}
