package checking

import (
	"fmt"
	"strings"

	"airlockmc/state"
	"airlockmc/trace"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// FairnessChecker checks liveness properties under fairness on an explored state space.
//
// A property "eventually Target" is violated iff there is a reachable cycle on which
// Target never holds and every fairness condition holds somewhere. Such cycles are
// found as the non-trivial strongly connected components of the state graph
// restricted to the configurations where Target does not hold.
type FairnessChecker struct{}

func NewFairnessChecker() *FairnessChecker {
	return &FairnessChecker{}
}

// Check the liveness property on the state space.
//
// If no lasso can be built through a fair component the result is Inconclusive.
// A fair cycle found in a partial state space is a real counterexample, so the
// result is Fail. If no fair cycle is found in a partial state space the result is
// Inconclusive.
func (fc *FairnessChecker) Check(space state.StateSpace, prop Liveness) Result {
	res := Result{
		Property:      prop.Name,
		Description:   prop.Description,
		Kind:          KindLiveness,
		StatesChecked: space.Len(),
	}

	component := fc.fairComponent(space, prop)
	if component == nil {
		if !space.Complete() {
			res.Verdict = Inconclusive
			res.Message = fmt.Sprintf("no fair cycle avoiding the target in the %d configurations explored before the limit", space.Len())
			return res
		}
		res.Verdict = Pass
		res.Message = fmt.Sprintf("holds under fairness (%v)", fairnessNames(prop.Fairness))
		return res
	}

	waypoints := make([]func(state.Configuration) bool, 0, len(prop.Fairness))
	for _, f := range prop.Fairness {
		waypoints = append(waypoints, f.Holds)
	}
	tr, err := trace.Lasso(space, component, waypoints...)
	if err != nil {
		// Only an inconsistent state space or fairness predicate gets here
		res.Verdict = Inconclusive
		res.Message = fmt.Sprintf("fair cycle of %d configurations found, but no counterexample could be built: %v", len(component), err)
		return res
	}
	res.Verdict = Fail
	res.Message = fmt.Sprintf("fair cycle of %d configurations never reaches the target", len(component))
	res.Trace = &tr
	return res
}

// fairComponent returns the node ids, in ascending order, of the fair non-trivial
// strongly connected component avoiding the target with the smallest node id.
// Returns nil if there is no such component.
func (fc *FairnessChecker) fairComponent(space state.StateSpace, prop Liveness) []int {
	g := simple.NewDirectedGraph()
	selfLoop := map[int]bool{}
	for id := 0; id < space.Len(); id++ {
		if !prop.Target(space.Configuration(id)) {
			g.AddNode(simple.Node(id))
		}
	}
	nodes := g.Nodes()
	for nodes.Next() {
		from := int(nodes.Node().ID())
		for _, to := range space.Successors(from) {
			if to == from {
				selfLoop[from] = true
				continue
			}
			if g.Node(int64(to)) != nil {
				g.SetEdge(g.NewEdge(simple.Node(from), simple.Node(to)))
			}
		}
	}

	var best []int
	for _, scc := range topo.TarjanSCC(g) {
		ids := nodeIDs(scc)
		if len(ids) == 1 && !selfLoop[ids[0]] {
			continue
		}
		if !fc.fair(space, ids, prop.Fairness) {
			continue
		}
		if best == nil || ids[0] < best[0] {
			best = ids
		}
	}
	return best
}

// fair returns true if every fairness condition holds in some node of the component.
func (fc *FairnessChecker) fair(space state.StateSpace, ids []int, fairness []Fairness) bool {
	for _, f := range fairness {
		found := false
		for _, id := range ids {
			if f.Holds(space.Configuration(id)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func nodeIDs(nodes []graph.Node) []int {
	ids := make([]int, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, int(n.ID()))
	}
	slices.Sort(ids)
	return ids
}

func fairnessNames(fairness []Fairness) string {
	if len(fairness) == 0 {
		return "none"
	}
	names := make([]string, 0, len(fairness))
	for _, f := range fairness {
		names = append(names, f.Name)
	}
	return strings.Join(names, ", ")
}
