package explorer

import (
	"context"
	"fmt"

	"airlockmc/checking"
	"airlockmc/scheduler"
	"airlockmc/state"
	"airlockmc/stateManager"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// The system being explored.
type Model interface {
	Initial() state.Configuration
	// Every step out of the configuration, in a deterministic order
	SuccessorsOf(state.Configuration) ([]state.Step, error)
}

// Why an exploration stopped before covering the reachable state space
type Limit string

const (
	NoLimit        Limit = ""
	MaxStatesLimit Limit = "max states"
	MaxDepthLimit  Limit = "max depth"
)

// Summary of a completed exploration
type Summary struct {
	States      int
	Transitions int
	// Depth of the deepest expanded level
	Depth int
	// True if every reachable configuration was discovered and expanded
	Complete bool
	Limit    Limit
}

// Explores the reachable state space of a model
//
// Discovers the state space breadth first, storing it in the state manager and
// checking the safety invariants of the predicate checker on every node and transition.
type Explorer struct {
	sch scheduler.Scheduler
	sm  stateManager.StateManager

	maxStates     int
	maxDepth      int
	numConcurrent int

	log *zap.Logger
}

// Create a new explorer
//
// maxStates is the maximum number of configurations discovered. 0 means no limit.
//
// maxDepth is the maximum depth of the breadth first search. 0 means no limit.
//
// numConcurrent specifies the maximum number of configurations that are expanded concurrently.
func NewExplorer(sch scheduler.Scheduler, sm stateManager.StateManager, maxStates, maxDepth, numConcurrent int, log *zap.Logger) *Explorer {
	if numConcurrent < 1 {
		numConcurrent = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Explorer{
		sch:           sch,
		sm:            sm,
		maxStates:     maxStates,
		maxDepth:      maxDepth,
		numConcurrent: numConcurrent,
		log:           log,
	}
}

// The result of expanding one node
type expansion struct {
	steps []state.Step
	// Step invariants broken by each step
	brokenSteps [][]int
	// State invariants broken by the target of each step
	brokenStates [][]int
	err          error
}

// Explore the reachable state space of the model.
//
// Nodes of a level are expanded concurrently, but the results are merged in the order
// the nodes were discovered. The node ids, the state space and the recorded violations
// are therefore the same for any number of concurrent workers.
//
// Returns an error if a configuration could not be expanded, for example because a
// rule table does not cover it, or if the context is cancelled.
func (e *Explorer) Explore(ctx context.Context, m Model, pc *checking.PredicateChecker) (Summary, error) {
	e.sm.Reset()
	e.sch.Reset()

	init := m.Initial()
	root, _ := e.sm.AddState(init, -1)
	for _, index := range pc.CheckState(init) {
		pc.RecordState(index, root)
	}
	e.sch.Add(root)

	summary := Summary{}
	space := e.sm.State()
	for {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		batch, depth, err := e.sch.NextBatch()
		if err == scheduler.NoNodesError {
			summary.Complete = true
			break
		}
		if e.maxDepth > 0 && depth >= e.maxDepth {
			summary.Limit = MaxDepthLimit
			break
		}
		summary.Depth = depth

		results, err := e.expand(ctx, m, pc, space, batch)
		if err != nil {
			return summary, err
		}
		if e.merge(pc, space, batch, results) {
			summary.Limit = MaxStatesLimit
			break
		}
		e.log.Debug("Explored level",
			zap.Int("depth", depth),
			zap.Int("frontier", len(batch)),
			zap.Int("states", space.Len()),
			zap.Bool("violated", pc.Violated()),
		)
	}

	e.sm.SetComplete(summary.Complete)
	summary.States = space.Len()
	for id := 0; id < space.Len(); id++ {
		summary.Transitions += len(space.Successors(id))
	}
	e.log.Info("Exploration finished",
		zap.Int("states", summary.States),
		zap.Int("transitions", summary.Transitions),
		zap.Int("depth", summary.Depth),
		zap.Bool("complete", summary.Complete),
		zap.String("limit", string(summary.Limit)),
	)
	return summary, nil
}

// Expand every node in the batch using up to numConcurrent goroutines.
func (e *Explorer) expand(ctx context.Context, m Model, pc *checking.PredicateChecker, space state.StateSpace, batch []int) ([]expansion, error) {
	results := make([]expansion, len(batch))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.numConcurrent)
	for i, id := range batch {
		i, id := i, id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cfg := space.Configuration(id)
			steps, err := m.SuccessorsOf(cfg)
			if err != nil {
				results[i].err = fmt.Errorf("expanding %v: %w", cfg, err)
				return nil
			}
			res := expansion{
				steps:        steps,
				brokenSteps:  make([][]int, len(steps)),
				brokenStates: make([][]int, len(steps)),
			}
			for j, step := range steps {
				res.brokenSteps[j] = pc.CheckStep(step)
				if step.Err == nil {
					res.brokenStates[j] = pc.CheckState(step.To)
				}
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	errorSlice := []error{}
	for _, res := range results {
		if res.err != nil {
			errorSlice = append(errorSlice, res.err)
		}
	}
	if len(errorSlice) > 0 {
		return nil, explorationError{errorSlice: errorSlice}
	}
	return results, nil
}

// Merge the expansions into the state space in batch order.
// Returns true if the state limit stopped the discovery of new nodes.
func (e *Explorer) merge(pc *checking.PredicateChecker, space state.StateSpace, batch []int, results []expansion) bool {
	limited := false
	for i, from := range batch {
		res := results[i]
		for j, step := range res.steps {
			for _, index := range res.brokenSteps[j] {
				pc.RecordStep(index, from, step)
			}
			// A step that could not be applied has no successor
			if step.Err != nil {
				continue
			}
			if e.maxStates > 0 && space.Len() >= e.maxStates {
				if _, known := e.sm.Lookup(step.To); !known {
					limited = true
					continue
				}
			}
			to, added := e.sm.AddState(step.To, from)
			e.sm.AddEdge(from, to)
			if !added {
				continue
			}
			for _, index := range res.brokenStates[j] {
				pc.RecordState(index, to)
			}
			e.sch.Add(to)
		}
	}
	return limited
}
