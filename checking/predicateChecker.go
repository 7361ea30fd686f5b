package checking

import (
	"fmt"

	"airlockmc/state"
	"airlockmc/trace"
)

// A recorded invariant violation.
type violation struct {
	// Node where the invariant was broken, or the source node of the broken step
	node int
	step *state.Step
}

// PredicateChecker checks safety invariants while the state space is explored.
//
// CheckState and CheckStep are pure and can be called from several goroutines.
// Record keeps the first violation of each property and must be called from a
// single goroutine in exploration order, so the kept violation is the one found
// first by the breadth first search and its trace is the shortest.
type PredicateChecker struct {
	invariants []Invariant
	steps      []StepInvariant

	stateViolations []*violation
	stepViolations  []*violation
}

func NewPredicateChecker(invariants []Invariant, steps []StepInvariant) *PredicateChecker {
	return &PredicateChecker{
		invariants:      invariants,
		steps:           steps,
		stateViolations: make([]*violation, len(invariants)),
		stepViolations:  make([]*violation, len(steps)),
	}
}

// CheckState returns the indexes of the invariants broken by the configuration.
func (pc *PredicateChecker) CheckState(cfg state.Configuration) []int {
	var broken []int
	for index, inv := range pc.invariants {
		if !inv.Holds(cfg) {
			broken = append(broken, index)
		}
	}
	return broken
}

// CheckStep returns the indexes of the step invariants broken by the transition.
func (pc *PredicateChecker) CheckStep(step state.Step) []int {
	var broken []int
	for index, inv := range pc.steps {
		if !inv.Holds(step) {
			broken = append(broken, index)
		}
	}
	return broken
}

// RecordState records that the node breaks the invariant with the index.
// Only the first recorded violation of each invariant is kept.
func (pc *PredicateChecker) RecordState(index, node int) {
	if pc.stateViolations[index] == nil {
		pc.stateViolations[index] = &violation{node: node}
	}
}

// RecordStep records that a transition out of node breaks the step invariant with the index.
func (pc *PredicateChecker) RecordStep(index, node int, step state.Step) {
	if pc.stepViolations[index] == nil {
		pc.stepViolations[index] = &violation{node: node, step: &step}
	}
}

// Violated returns true if some invariant has been broken.
func (pc *PredicateChecker) Violated() bool {
	for _, v := range pc.stateViolations {
		if v != nil {
			return true
		}
	}
	for _, v := range pc.stepViolations {
		if v != nil {
			return true
		}
	}
	return false
}

// Results returns one result per invariant, state invariants first.
//
// An invariant without a recorded violation passes if the state space is complete
// and is inconclusive otherwise.
func (pc *PredicateChecker) Results(space state.StateSpace) []Result {
	out := make([]Result, 0, len(pc.invariants)+len(pc.steps))
	for i, inv := range pc.invariants {
		res := Result{
			Property:      inv.Name,
			Description:   inv.Description,
			Kind:          KindInvariant,
			StatesChecked: space.Len(),
		}
		if v := pc.stateViolations[i]; v != nil {
			tr := trace.Path(space, v.node)
			res.Verdict = Fail
			res.Message = fmt.Sprintf("invariant violated after %d steps", len(tr.States)-1)
			res.Trace = &tr
		} else {
			res.Verdict, res.Message = unviolated(space)
		}
		out = append(out, res)
	}
	for i, inv := range pc.steps {
		res := Result{
			Property:      inv.Name,
			Description:   inv.Description,
			Kind:          KindInvariant,
			StatesChecked: space.Len(),
		}
		if v := pc.stepViolations[i]; v != nil {
			tr := trace.Path(space, v.node)
			if v.step.Err == nil {
				tr = tr.Extend(v.step.To)
			}
			tr.Note = fmt.Sprintf("commands: %v", v.step.Commands)
			if v.step.Err != nil {
				tr.Note += fmt.Sprintf("; error: %v", v.step.Err)
			}
			res.Verdict = Fail
			res.Message = fmt.Sprintf("invariant violated after %d steps", len(tr.States)-1)
			res.Trace = &tr
		} else {
			res.Verdict, res.Message = unviolated(space)
		}
		out = append(out, res)
	}
	return out
}

func unviolated(space state.StateSpace) (Verdict, string) {
	if !space.Complete() {
		return Inconclusive, fmt.Sprintf("no violation in the %d configurations explored before the limit", space.Len())
	}
	return Pass, fmt.Sprintf("holds in all %d reachable configurations", space.Len())
}
