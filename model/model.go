package model

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"airlockmc/state"

	"go.uber.org/multierr"
)

// Model is a complete description of the airlock: its initial configuration,
// the access mode graph driven by the environment and the controller tables.
type Model struct {
	Name        string
	Start       state.Configuration
	AccessModes AccessModeGraph
	Controller  *Controller
}

func (m *Model) Initial() state.Configuration {
	return m.Start
}

// CheckTotal evaluates the controller on every configuration of the domain and
// returns a *MalformedModelError listing the first uncovered configuration of
// each table. Returns nil if every table is total.
func (m *Model) CheckTotal() error {
	var errs error
	reported := map[string]bool{}
	for _, cfg := range state.Domain() {
		_, err := m.Controller.Step(cfg)
		if err == nil {
			continue
		}
		var uncovered *UncoveredCaseError
		if errors.As(err, &uncovered) && reported[uncovered.Table] {
			continue
		}
		if uncovered != nil {
			reported[uncovered.Table] = true
		}
		errs = multierr.Append(errs, err)
	}
	if errs != nil {
		return &MalformedModelError{Model: m.Name, Err: errs}
	}
	return nil
}

// Without returns a copy of the model with one rule removed from the named table.
// Used to check that the verifier rejects weakened controllers.
func (m *Model) Without(table, ruleID string) (*Model, error) {
	ctrl := *m.Controller
	found := false
	switch table {
	case ctrl.InnerDoor.Name:
		ctrl.InnerDoor, found = ctrl.InnerDoor.Without(ruleID)
	case ctrl.OuterDoor.Name:
		ctrl.OuterDoor, found = ctrl.OuterDoor.Without(ruleID)
	case ctrl.Cleanliness.Name:
		ctrl.Cleanliness, found = ctrl.Cleanliness.Without(ruleID)
	default:
		for _, id := range state.ButtonIDs {
			if ctrl.Resets[id].Name == table {
				ctrl.Resets[id], found = ctrl.Resets[id].Without(ruleID)
			}
		}
	}
	if !found {
		return nil, fmt.Errorf("model: no rule %q in table %q", ruleID, table)
	}
	return &Model{
		Name:        fmt.Sprintf("%s without %s/%s", m.Name, table, ruleID),
		Start:       m.Start,
		AccessModes: m.AccessModes,
		Controller:  &ctrl,
	}, nil
}

// Describe writes the initial configuration, the access mode graph and the rule tables.
func (m *Model) Describe(w io.Writer) error {
	wrt := tabwriter.NewWriter(w, 4, 4, 2, ' ', 0)
	fmt.Fprintf(wrt, "model %s\n", m.Name)
	fmt.Fprintln(wrt, "initial")
	for _, fv := range m.Start.Fields() {
		fmt.Fprintf(wrt, "  %s\t%s\n", fv.Field, fv.Value)
	}
	fmt.Fprintln(wrt, "access modes")
	for _, mode := range state.AccessModes {
		fmt.Fprintf(wrt, "  %v\t-> %v\n", mode, m.AccessModes.Next(mode))
	}
	m.Controller.tables(func(name string, rules []ruleView) {
		fmt.Fprintf(wrt, "table %s\n", name)
		for i, r := range rules {
			fmt.Fprintf(wrt, "  %d\t%s\t%v\t%s\n", i+1, r.ID, r.Guard, r.Then)
		}
	})
	return wrt.Flush()
}
