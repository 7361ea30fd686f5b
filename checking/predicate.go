package checking

import (
	"airlockmc/state"
)

// A function to be evaluated on a configuration
// It returns true if the predicate holds for the configuration and false otherwise
type Predicate func(state.Configuration) bool

// A function to be evaluated on a transition
type StepPredicate func(state.Step) bool

// Invariant is a predicate that must hold in every reachable configuration.
type Invariant struct {
	Name        string
	Description string
	Holds       Predicate
}

// StepInvariant is a predicate that must hold for every transition out of a
// reachable configuration.
type StepInvariant struct {
	Name        string
	Description string
	Holds       StepPredicate
}

// Fairness is a condition that must hold infinitely often along a path for the
// path to be considered when checking liveness.
type Fairness struct {
	Name  string
	Holds Predicate
}

// Liveness claims that from every reachable configuration, along every fair
// path, Target eventually holds.
type Liveness struct {
	Name        string
	Description string
	Target      Predicate
	Fairness    []Fairness
}

// Properties is the set of properties checked in one verification run.
type Properties struct {
	Invariants     []Invariant
	StepInvariants []StepInvariant
	Liveness       []Liveness
}

// Names returns the names of all properties in checking order.
func (p Properties) Names() []string {
	out := []string{}
	for _, inv := range p.Invariants {
		out = append(out, inv.Name)
	}
	for _, inv := range p.StepInvariants {
		out = append(out, inv.Name)
	}
	for _, l := range p.Liveness {
		out = append(out, l.Name)
	}
	return out
}

// Not negates a predicate.
func Not(pred Predicate) Predicate {
	return func(c state.Configuration) bool {
		return !pred(c)
	}
}

// Is returns a predicate that holds when the field has the value.
// The value is compared against the canonical spelling of the field domain.
func Is(f state.Field, value string) Predicate {
	return func(c state.Configuration) bool {
		return c.Get(f) == value
	}
}

// Next returns a step predicate that checks pred on the successor configuration
// whenever cond holds on the source configuration.
// Steps that failed to produce a successor are ignored.
func Next(cond, pred Predicate) StepPredicate {
	return func(s state.Step) bool {
		if s.Err != nil || !cond(s.From) {
			return true
		}
		return pred(s.To)
	}
}
