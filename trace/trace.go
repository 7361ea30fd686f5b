package trace

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"airlockmc/state"

	"google.golang.org/protobuf/types/known/structpb"
)

// Trace is a sequence of configurations demonstrating a property violation.
//
// For a liveness counterexample the configurations from LoopStart to the end
// form a cycle: the last configuration equals States[LoopStart].
type Trace struct {
	States []state.Configuration
	// Index of the first configuration of the cycle. -1 if the trace has no cycle.
	LoopStart int
	// Additional information about the last step, for example the commands that broke a step invariant.
	Note string
}

var ErrNoPath = errors.New("trace: no path between the configurations")

// Path returns the shortest trace from the initial configuration to the node.
func Path(space state.StateSpace, id int) Trace {
	return Trace{
		States:    space.PathTo(id),
		LoopStart: -1,
	}
}

// Extend returns a copy of the trace with one more configuration appended.
func (t Trace) Extend(cfg state.Configuration) Trace {
	states := make([]state.Configuration, 0, len(t.States)+1)
	states = append(states, t.States...)
	return Trace{
		States:    append(states, cfg),
		LoopStart: t.LoopStart,
		Note:      t.Note,
	}
}

// Lasso builds a liveness counterexample for a strongly connected component.
//
// component must hold the node ids of a non-trivial strongly connected component
// in ascending order. The trace is the shortest path from the initial configuration
// to the first node of the component, followed by a cycle inside the component that
// visits, for each waypoint predicate, a node satisfying it and then returns.
func Lasso(space state.StateSpace, component []int, waypoints ...func(state.Configuration) bool) (Trace, error) {
	if len(component) == 0 {
		return Trace{}, fmt.Errorf("trace: empty component")
	}
	inComp := map[int]bool{}
	for _, id := range component {
		inComp[id] = true
	}
	entry := component[0]
	prefix := space.PathTo(entry)

	visited := map[int]bool{entry: true}
	cycle := []int{}
	cur := entry
	for _, wp := range waypoints {
		if satisfiedBy(space, visited, wp) {
			continue
		}
		target := -1
		for _, id := range component {
			if wp(space.Configuration(id)) {
				target = id
				break
			}
		}
		if target < 0 {
			return Trace{}, fmt.Errorf("trace: no node of the component satisfies a waypoint")
		}
		path, err := shortestPath(space, inComp, cur, target)
		if err != nil {
			return Trace{}, err
		}
		for _, id := range path {
			visited[id] = true
		}
		cycle = append(cycle, path...)
		cur = target
	}
	if cur != entry || len(cycle) == 0 {
		back, err := shortestPath(space, inComp, cur, entry)
		if err != nil {
			return Trace{}, err
		}
		cycle = append(cycle, back...)
	}

	states := make([]state.Configuration, 0, len(prefix)+len(cycle))
	states = append(states, prefix...)
	for _, id := range cycle {
		states = append(states, space.Configuration(id))
	}
	return Trace{
		States:    states,
		LoopStart: len(prefix) - 1,
	}, nil
}

func satisfiedBy(space state.StateSpace, nodes map[int]bool, pred func(state.Configuration) bool) bool {
	for id := range nodes {
		if pred(space.Configuration(id)) {
			return true
		}
	}
	return false
}

// shortestPath does a breadth first search inside the component and returns the
// nodes after from up to and including to. The path has at least one transition,
// so from == to yields a cycle.
func shortestPath(space state.StateSpace, inComp map[int]bool, from, to int) ([]int, error) {
	parent := map[int]int{}
	queue := []int{}
	for _, succ := range space.Successors(from) {
		if _, ok := parent[succ]; inComp[succ] && !ok {
			parent[succ] = from
			queue = append(queue, succ)
		}
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n == to {
			path := []int{n}
			for cur := n; parent[cur] != from; cur = parent[cur] {
				path = append([]int{parent[cur]}, path...)
			}
			return path, nil
		}
		for _, succ := range space.Successors(n) {
			if _, ok := parent[succ]; inComp[succ] && !ok {
				parent[succ] = n
				queue = append(queue, succ)
			}
		}
	}
	return nil, ErrNoPath
}

// Render writes the trace in the classic counterexample layout.
// The first state lists every field, later states only the fields that changed.
func (t Trace) Render(w io.Writer) error {
	wrt := tabwriter.NewWriter(w, 4, 4, 1, ' ', 0)
	for i, cfg := range t.States {
		if i == t.LoopStart {
			fmt.Fprintln(wrt, "  -- Loop starts here")
		}
		fmt.Fprintf(wrt, "  -> State: 1.%d <-\n", i+1)
		var fields []state.FieldValue
		if i == 0 {
			fields = cfg.Fields()
		} else {
			fields = state.Diff(t.States[i-1], cfg)
		}
		for _, fv := range fields {
			fmt.Fprintf(wrt, "    %s\t= %s\n", fv.Field, fv.Value)
		}
	}
	if t.Note != "" {
		fmt.Fprintf(wrt, "  -- %s\n", t.Note)
	}
	return wrt.Flush()
}

func (t Trace) String() string {
	var buffer bytes.Buffer
	_ = t.Render(&buffer)
	return buffer.String()
}

// Value converts the trace to a protobuf value for the JSON report.
// Like the text rendering, each state only carries the fields that changed.
func (t Trace) Value() (*structpb.Value, error) {
	states := make([]interface{}, 0, len(t.States))
	for i, cfg := range t.States {
		var fields []state.FieldValue
		if i == 0 {
			fields = cfg.Fields()
		} else {
			fields = state.Diff(t.States[i-1], cfg)
		}
		changes := map[string]interface{}{}
		for _, fv := range fields {
			changes[string(fv.Field)] = fv.Value
		}
		states = append(states, map[string]interface{}{
			"state":   i + 1,
			"changes": changes,
		})
	}
	out := map[string]interface{}{
		"states": states,
	}
	if t.LoopStart >= 0 {
		out["loop_start"] = t.LoopStart + 1
	}
	if t.Note != "" {
		out["note"] = t.Note
	}
	return structpb.NewValue(out)
}
