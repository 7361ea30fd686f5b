package properties

import (
	"errors"
	"testing"

	"airlockmc/model"
	"airlockmc/state"
)

func TestAirlockProperties(t *testing.T) {
	props := Airlock()
	names := props.Names()
	// 2 state invariants, 7 step invariants, 2 door, 4 button and 1 cleanliness liveness properties
	if len(names) != 16 {
		t.Fatalf("Expected 16 properties. Got: %v %v", len(names), names)
	}
	seen := map[string]bool{}
	for _, name := range names {
		if seen[name] {
			t.Errorf("Duplicate property name %q", name)
		}
		seen[name] = true
	}
	for _, l := range props.Liveness {
		if len(l.Fairness) != 6 {
			t.Errorf("Expected %v to be checked under 6 fairness conditions. Got: %v", l.Name, len(l.Fairness))
		}
	}
}

func TestButtonReleased(t *testing.T) {
	if name := ButtonReleased(state.OuterOut); name != "button-released-outer-out" {
		t.Fatalf("Unexpected property name: %v", name)
	}
}

func TestSelect(t *testing.T) {
	props, err := Select(Airlock(), []string{EventuallyClean, DoorsMutuallyExclusive})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	names := props.Names()
	if len(names) != 2 || names[0] != DoorsMutuallyExclusive || names[1] != EventuallyClean {
		t.Errorf("Expected the selected properties in checking order. Got: %v", names)
	}

	all, err := Select(Airlock(), nil)
	if err != nil || len(all.Names()) != len(Airlock().Names()) {
		t.Errorf("Expected an empty selection to keep every property. Got: %v %v", all.Names(), err)
	}

	if _, err := Select(Airlock(), []string{"no-such-property"}); !errors.Is(err, ErrUnknownProperty) {
		t.Errorf("Expected ErrUnknownProperty. Got: %v", err)
	}
}

var wellFormedTests = []struct {
	err      error
	expected []bool
}{
	{nil, []bool{true, true}},
	{model.ErrIllegalDoorCommand, []bool{false, true}},
	{model.ErrResetIdleButton, []bool{true, false}},
}

func TestWellFormed(t *testing.T) {
	invs := WellFormed().StepInvariants
	for i, test := range wellFormedTests {
		step := state.Step{From: state.Initial(), Err: test.err}
		for j, inv := range invs {
			if out := inv.Holds(step); out != test.expected[j] {
				t.Errorf("Unexpected result of %v on test %v. Got: %v", inv.Name, i, out)
			}
		}
	}
}

func TestNoOuterOpenWhileDirty(t *testing.T) {
	var inv func(state.Step) bool
	for _, s := range Airlock().StepInvariants {
		if s.Name == NoOuterOpenWhileDirty {
			inv = s.Holds
		}
	}
	step := state.Step{
		From:     state.Configuration{Cleanliness: state.Dirty},
		Commands: state.Commands{Outer: state.OpenDoor},
	}
	if inv(step) {
		t.Errorf("Expected opening the outer door while dirty to break the invariant")
	}
	step.From.Cleanliness = state.Clean
	if !inv(step) {
		t.Errorf("Expected opening the outer door while clean to be allowed")
	}
}
