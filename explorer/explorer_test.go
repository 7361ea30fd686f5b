package explorer

import (
	"context"
	"errors"
	"testing"

	"airlockmc/checking"
	"airlockmc/model"
	"airlockmc/scheduler"
	"airlockmc/state"
	"airlockmc/stateManager"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// A model where configuration i has the successors i+1 and 2i+1 modulo the size.
type ringModel struct {
	cfgs  []state.Configuration
	index map[state.Configuration]int
	fail  map[int]error
}

func newRingModel(n int) *ringModel {
	m := &ringModel{
		cfgs:  state.Domain()[:n],
		index: map[state.Configuration]int{},
		fail:  map[int]error{},
	}
	for i, cfg := range m.cfgs {
		m.index[cfg] = i
	}
	return m
}

func (m *ringModel) Initial() state.Configuration {
	return m.cfgs[0]
}

func (m *ringModel) SuccessorsOf(cfg state.Configuration) ([]state.Step, error) {
	i := m.index[cfg]
	if err, ok := m.fail[i]; ok {
		return nil, err
	}
	n := len(m.cfgs)
	return []state.Step{
		{From: cfg, To: m.cfgs[(i+1)%n]},
		{From: cfg, To: m.cfgs[(2*i+1)%n]},
	}, nil
}

func newTestExplorer(maxStates, maxDepth, numConcurrent int) (*Explorer, *stateManager.GraphStateManager) {
	sm := stateManager.NewGraphStateManager()
	return NewExplorer(scheduler.NewQueueScheduler(), sm, maxStates, maxDepth, numConcurrent, nil), sm
}

func noChecks() *checking.PredicateChecker {
	return checking.NewPredicateChecker(nil, nil)
}

func TestExploreRing(t *testing.T) {
	e, sm := newTestExplorer(0, 0, 1)
	summary, err := e.Explore(context.Background(), newRingModel(10), noChecks())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !summary.Complete || summary.Limit != NoLimit {
		t.Errorf("Expected a complete exploration. Got: %+v", summary)
	}
	if summary.States != 10 || sm.Len() != 10 {
		t.Errorf("Expected 10 states. Got: %v", summary.States)
	}
	// 0 -> 1 twice is stored once
	if summary.Transitions != 19 {
		t.Errorf("Expected 19 transitions. Got: %v", summary.Transitions)
	}
	for id := 1; id < sm.Len(); id++ {
		if sm.Depth(id) < sm.Depth(id-1) {
			t.Errorf("Expected node ids ordered by depth. Node %v has depth %v, node %v has depth %v", id-1, sm.Depth(id-1), id, sm.Depth(id))
		}
	}
}

func TestExploreAirlock(t *testing.T) {
	m, err := model.Airlock()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	e, sm := newTestExplorer(0, 0, 1)
	summary, err := e.Explore(context.Background(), m, noChecks())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !summary.Complete {
		t.Fatalf("Expected a complete exploration. Got: %+v", summary)
	}
	if summary.States < 2 || summary.States > len(state.Domain()) {
		t.Errorf("Expected between 2 and %v states. Got: %v", len(state.Domain()), summary.States)
	}
	if sm.Configuration(0) != m.Initial() {
		t.Errorf("Expected node 0 to be the initial configuration. Got: %v", sm.Configuration(0))
	}
}

func TestExploreIsIndependentOfConcurrency(t *testing.T) {
	m, err := model.Airlock()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	seq, seqSm := newTestExplorer(0, 0, 1)
	par, parSm := newTestExplorer(0, 0, 8)
	if _, err := seq.Explore(context.Background(), m, noChecks()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := par.Explore(context.Background(), m, noChecks()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if seqSm.Len() != parSm.Len() {
		t.Fatalf("Expected the same number of states. Got: %v and %v", seqSm.Len(), parSm.Len())
	}
	for id := 0; id < seqSm.Len(); id++ {
		if seqSm.Configuration(id) != parSm.Configuration(id) {
			t.Fatalf("Expected node %v to be the same configuration. Got: %v and %v", id, seqSm.Configuration(id), parSm.Configuration(id))
		}
		a, b := seqSm.Successors(id), parSm.Successors(id)
		if len(a) != len(b) {
			t.Fatalf("Expected node %v to have the same successors. Got: %v and %v", id, a, b)
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("Expected node %v to have the same successors. Got: %v and %v", id, a, b)
			}
		}
	}
}

var limitTests = []struct {
	maxStates int
	maxDepth  int
	limit     Limit
	states    int
}{
	{5, 0, MaxStatesLimit, 5},
	{0, 1, MaxDepthLimit, 2},
	{0, 2, MaxDepthLimit, 4},
	{100, 100, NoLimit, 20},
}

func TestExploreLimits(t *testing.T) {
	for i, test := range limitTests {
		e, sm := newTestExplorer(test.maxStates, test.maxDepth, 2)
		summary, err := e.Explore(context.Background(), newRingModel(20), noChecks())
		if err != nil {
			t.Fatalf("Unexpected error on test %v: %v", i, err)
		}
		if summary.Limit != test.limit {
			t.Errorf("Expected limit %q on test %v. Got: %q", test.limit, i, summary.Limit)
		}
		if summary.Complete != (test.limit == NoLimit) || sm.Complete() != summary.Complete {
			t.Errorf("Unexpected completeness on test %v: %+v", i, summary)
		}
		if summary.States != test.states {
			t.Errorf("Expected %v states on test %v. Got: %v", test.states, i, summary.States)
		}
	}
}

func TestExploreRecordsViolations(t *testing.T) {
	m := newRingModel(10)
	target := m.cfgs[7]
	pc := checking.NewPredicateChecker([]checking.Invariant{{
		Name:  "never-7",
		Holds: func(c state.Configuration) bool { return c != target },
	}}, nil)
	e, _ := newTestExplorer(0, 0, 4)
	if _, err := e.Explore(context.Background(), m, pc); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !pc.Violated() {
		t.Fatalf("Expected the invariant to be violated")
	}
}

func TestExploreLogsViolations(t *testing.T) {
	m := newRingModel(10)
	target := m.cfgs[7]
	pc := checking.NewPredicateChecker([]checking.Invariant{{
		Name:  "never-7",
		Holds: func(c state.Configuration) bool { return c != target },
	}}, nil)
	core, logs := observer.New(zapcore.DebugLevel)
	e := NewExplorer(scheduler.NewQueueScheduler(), stateManager.NewGraphStateManager(), 0, 0, 2, zap.New(core))
	if _, err := e.Explore(context.Background(), m, pc); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	levels := logs.FilterMessage("Explored level").All()
	if len(levels) == 0 {
		t.Fatalf("Expected the explored levels to be logged")
	}
	if levels[0].ContextMap()["violated"] != false {
		t.Errorf("Expected no violation after the first level. Got: %v", levels[0].ContextMap())
	}
	if last := levels[len(levels)-1]; last.ContextMap()["violated"] != true {
		t.Errorf("Expected the violation to be logged by the last level. Got: %v", last.ContextMap())
	}
	if logs.FilterMessage("Exploration finished").Len() != 1 {
		t.Errorf("Expected the summary to be logged once")
	}
}

func TestExploreExpansionError(t *testing.T) {
	m := newRingModel(10)
	errUncovered := errors.New("uncovered")
	m.fail[1] = errUncovered
	e, _ := newTestExplorer(0, 0, 4)
	_, err := e.Explore(context.Background(), m, noChecks())
	if !errors.Is(err, errUncovered) {
		t.Fatalf("Expected the expansion error to be returned. Got: %v", err)
	}
}

func TestExploreCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e, _ := newTestExplorer(0, 0, 1)
	if _, err := e.Explore(ctx, newRingModel(10), noChecks()); !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled. Got: %v", err)
	}
}

func BenchmarkExploreAirlock(b *testing.B) {
	m, err := model.Airlock()
	if err != nil {
		b.Fatalf("Unexpected error: %v", err)
	}
	for i := 0; i < b.N; i++ {
		e, _ := newTestExplorer(0, 0, 4)
		if _, err := e.Explore(context.Background(), m, noChecks()); err != nil {
			b.Fatalf("Unexpected error: %v", err)
		}
	}
}
