package model

import (
	"fmt"
	"strings"

	"airlockmc/state"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Pseudo fields readable by the reset and cleanliness tables.
// They hold the door commands computed earlier in the same evaluation pass.
const (
	FieldInnerCmd state.Field = "inner_cmd"
	FieldOuterCmd state.Field = "outer_cmd"
)

type condition func(state.Configuration, state.Commands) bool

// Guard is a conjunction of conditions over a configuration and the
// commands already computed in the current pass. The empty guard always matches.
type Guard struct {
	// field = value conditions, values in canonical spelling
	When map[state.Field]string
	// At least one of these buttons is pressed
	AnyPressed []state.ButtonID
	// None of these buttons is pressed
	NonePressed []state.ButtonID

	conds []condition
}

// NewGuard compiles a guard. Conditions on inner_cmd and outer_cmd are only
// accepted when allowCmds is true.
func NewGuard(when map[state.Field]string, anyPressed, nonePressed []state.ButtonID, allowCmds bool) (Guard, error) {
	g := Guard{
		When:        map[state.Field]string{},
		AnyPressed:  anyPressed,
		NonePressed: nonePressed,
	}
	// Sorted so that the compiled guard and its String are deterministic
	fields := maps.Keys(when)
	slices.Sort(fields)

	for _, f := range fields {
		f := f
		value := when[f]
		if f == FieldInnerCmd || f == FieldOuterCmd {
			if !allowCmds {
				return Guard{}, fmt.Errorf("%w: %q is not readable by this table", state.ErrUnknownField, f)
			}
			cmd, err := state.ParseDoorCmd(value)
			if err != nil {
				return Guard{}, err
			}
			g.When[f] = cmd.String()
			if f == FieldInnerCmd {
				g.conds = append(g.conds, func(_ state.Configuration, c state.Commands) bool { return c.Inner == cmd })
			} else {
				g.conds = append(g.conds, func(_ state.Configuration, c state.Commands) bool { return c.Outer == cmd })
			}
			continue
		}
		canon, err := f.Canonical(value)
		if err != nil {
			return Guard{}, err
		}
		g.When[f] = canon
		g.conds = append(g.conds, func(cfg state.Configuration, _ state.Commands) bool { return cfg.Get(f) == canon })
	}
	if len(anyPressed) > 0 {
		ids := anyPressed
		g.conds = append(g.conds, func(cfg state.Configuration, _ state.Commands) bool { return cfg.AnyPressed(ids...) })
	}
	if len(nonePressed) > 0 {
		ids := nonePressed
		g.conds = append(g.conds, func(cfg state.Configuration, _ state.Commands) bool { return !cfg.AnyPressed(ids...) })
	}
	return g, nil
}

func (g Guard) Matches(cfg state.Configuration, cmds state.Commands) bool {
	for _, cond := range g.conds {
		if !cond(cfg, cmds) {
			return false
		}
	}
	return true
}

func (g Guard) String() string {
	parts := []string{}
	fields := maps.Keys(g.When)
	slices.Sort(fields)
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s = %s", f, g.When[f]))
	}
	if len(g.AnyPressed) > 0 {
		parts = append(parts, fmt.Sprintf("any pressed %v", g.AnyPressed))
	}
	if len(g.NonePressed) > 0 {
		parts = append(parts, fmt.Sprintf("none pressed %v", g.NonePressed))
	}
	if len(parts) == 0 {
		return "TRUE"
	}
	return strings.Join(parts, " & ")
}

// Rule is one guarded branch of a table.
type Rule[V any] struct {
	ID    string
	Guard Guard
	Then  V
}

// Table is an ordered list of rules. The first rule whose guard matches decides the value.
type Table[V any] struct {
	Name  string
	Rules []Rule[V]
}

// Eval returns the value and rule id of the first matching rule.
// If no rule matches an *UncoveredCaseError is returned.
func (t Table[V]) Eval(cfg state.Configuration, cmds state.Commands) (V, string, error) {
	for _, r := range t.Rules {
		if r.Guard.Matches(cfg, cmds) {
			return r.Then, r.ID, nil
		}
	}
	var zero V
	return zero, "", &UncoveredCaseError{Table: t.Name, Configuration: cfg}
}

// Without returns a copy of the table with the rule removed.
func (t Table[V]) Without(id string) (Table[V], bool) {
	out := Table[V]{Name: t.Name, Rules: make([]Rule[V], 0, len(t.Rules))}
	found := false
	for _, r := range t.Rules {
		if r.ID == id {
			found = true
			continue
		}
		out.Rules = append(out.Rules, r)
	}
	return out, found
}
