package model

import (
	"fmt"
	"strings"

	"airlockmc/state"
)

// CleanAction is the outcome of the cleanliness table.
type CleanAction uint8

const (
	// Keep the current cleanliness
	Hold CleanAction = iota
	MakeClean
	MakeDirty
)

func (a CleanAction) String() string {
	switch a {
	case MakeClean:
		return "Clean"
	case MakeDirty:
		return "Dirty"
	default:
		return "hold"
	}
}

func parseCleanAction(s string) (CleanAction, error) {
	for _, a := range []CleanAction{Hold, MakeClean, MakeDirty} {
		if strings.EqualFold(a.String(), s) {
			return a, nil
		}
	}
	return Hold, fmt.Errorf("%w: cleanliness outcome %q", state.ErrUnknownValue, s)
}

func (a CleanAction) apply(c state.Cleanliness) state.Cleanliness {
	switch a {
	case MakeClean:
		return state.Clean
	case MakeDirty:
		return state.Dirty
	default:
		return c
	}
}

// Controller computes the commands of the airlock from a configuration.
//
// It holds no state between calls. One call evaluates the tables in a fixed order:
// the two door tables, the reset tables and finally the cleanliness table, which
// may read the door commands computed in the same pass.
type Controller struct {
	InnerDoor Table[state.DoorCmd]
	OuterDoor Table[state.DoorCmd]

	// Indexed by ButtonID. A true outcome asserts the reset signal.
	Resets [state.NumButtons]Table[bool]

	Cleanliness Table[CleanAction]
}

// Step evaluates the controller on cfg.
// Returns an *UncoveredCaseError if some table has no rule for cfg.
func (c *Controller) Step(cfg state.Configuration) (state.Commands, error) {
	cmds := state.Commands{}
	var err error

	if cmds.Inner, _, err = c.InnerDoor.Eval(cfg, cmds); err != nil {
		return cmds, err
	}
	if cmds.Outer, _, err = c.OuterDoor.Eval(cfg, cmds); err != nil {
		return cmds, err
	}
	for _, id := range state.ButtonIDs {
		if cmds.Reset[id], _, err = c.Resets[id].Eval(cfg, cmds); err != nil {
			return cmds, err
		}
	}
	action, _, err := c.Cleanliness.Eval(cfg, cmds)
	if err != nil {
		return cmds, err
	}
	cmds.NextCleanliness = action.apply(cfg.Cleanliness)
	return cmds, nil
}

// tables visits the controller tables in evaluation order, type-erased for
// validation and printing.
func (c *Controller) tables(visit func(name string, rules []ruleView)) {
	visit(c.InnerDoor.Name, views(c.InnerDoor))
	visit(c.OuterDoor.Name, views(c.OuterDoor))
	for _, id := range state.ButtonIDs {
		visit(c.Resets[id].Name, views(c.Resets[id]))
	}
	visit(c.Cleanliness.Name, views(c.Cleanliness))
}

type ruleView struct {
	ID    string
	Guard Guard
	Then  string
}

func views[V any](t Table[V]) []ruleView {
	out := make([]ruleView, 0, len(t.Rules))
	for _, r := range t.Rules {
		out = append(out, ruleView{ID: r.ID, Guard: r.Guard, Then: fmt.Sprint(r.Then)})
	}
	return out
}
