// Package properties defines the safety and liveness properties of the airlock.
package properties

import (
	"errors"
	"fmt"
	"strings"

	"airlockmc/checking"
	"airlockmc/model"
	"airlockmc/state"
)

const (
	DoorsMutuallyExclusive   = "doors-mutually-exclusive"
	LegalDoorCommands        = "legal-door-commands"
	LegalResets              = "legal-resets"
	OpenRequiresRequest      = "open-requires-request"
	InnerRequestPrecedence   = "inner-request-precedence"
	DirtyWhileInnerOpen      = "dirty-while-inner-open"
	StaysDirtyWhileInnerOpen = "stays-dirty-while-inner-open"
	NoOuterOpenWhileDirty    = "no-outer-open-while-dirty"
	LockdownKeepsDoorsClosed = "lockdown-keeps-doors-closed"
	EventuallyInnerOpen      = "eventually-inner-open"
	EventuallyOuterOpen      = "eventually-outer-open"
	EventuallyClean          = "eventually-clean"
)

var ErrUnknownProperty = errors.New("properties: unknown property")

// ButtonReleased returns the name of the liveness property claiming the button is eventually released.
func ButtonReleased(id state.ButtonID) string {
	name := strings.TrimPrefix(string(id.Field()), "button_")
	return "button-released-" + strings.ReplaceAll(name, "_", "-")
}

var (
	innerOpen = checking.Is(state.FieldInnerDoor, state.Open.String())
	outerOpen = checking.Is(state.FieldOuterDoor, state.Open.String())
	dirty     = checking.Is(state.FieldCleanliness, state.Dirty.String())
	lockdown  = checking.Is(state.FieldAccessMode, state.Lockdown.String())
)

// Fairness returns the fairness conditions the liveness properties are checked under:
// every button is pressed infinitely often and every door is open infinitely often.
func Fairness() []checking.Fairness {
	out := []checking.Fairness{}
	for _, id := range state.ButtonIDs {
		out = append(out, checking.Fairness{
			Name:  id.String() + " pressed",
			Holds: checking.Is(id.Field(), state.Pressed.String()),
		})
	}
	return append(out,
		checking.Fairness{Name: "inner_door open", Holds: innerOpen},
		checking.Fairness{Name: "outer_door open", Holds: outerOpen},
	)
}

// WellFormed returns the built-in step invariants rejecting transitions the
// devices cannot perform.
func WellFormed() checking.Properties {
	return checking.Properties{
		StepInvariants: []checking.StepInvariant{
			{
				Name:        LegalDoorCommands,
				Description: "the controller never opens an open door or closes a closed door",
				Holds: func(s state.Step) bool {
					return !errors.Is(s.Err, model.ErrIllegalDoorCommand)
				},
			},
			{
				Name:        LegalResets,
				Description: "the controller never resets an idle button",
				Holds: func(s state.Step) bool {
					return !errors.Is(s.Err, model.ErrResetIdleButton)
				},
			},
		},
	}
}

// Airlock returns every property of the airlock, the built-in ones included.
func Airlock() checking.Properties {
	props := WellFormed()
	props.Invariants = []checking.Invariant{
		{
			Name:        DoorsMutuallyExclusive,
			Description: "the inner and outer doors are never open at the same time",
			Holds: checking.Not(func(c state.Configuration) bool {
				return innerOpen(c) && outerOpen(c)
			}),
		},
		{
			Name:        DirtyWhileInnerOpen,
			Description: "the chamber is dirty whenever the inner door is open",
			Holds: func(c state.Configuration) bool {
				return !innerOpen(c) || dirty(c)
			},
		},
	}
	props.StepInvariants = append(props.StepInvariants,
		checking.StepInvariant{
			Name:        OpenRequiresRequest,
			Description: "a door only opens if one of its buttons was pressed",
			Holds: func(s state.Step) bool {
				if s.Err != nil {
					return true
				}
				if s.From.InnerDoor == state.Closed && s.To.InnerDoor == state.Open && !s.From.InnerRequested() {
					return false
				}
				if s.From.OuterDoor == state.Closed && s.To.OuterDoor == state.Open && !s.From.OuterRequested() {
					return false
				}
				return true
			},
		},
		checking.StepInvariant{
			Name:        InnerRequestPrecedence,
			Description: "outside lockdown, simultaneous entry requests with the outer door closed are served by the inner door",
			Holds: checking.Next(
				func(c state.Configuration) bool {
					return !lockdown(c) && c.Pressed(state.InnerIn) && c.Pressed(state.OuterIn) && c.OuterDoor == state.Closed
				},
				func(c state.Configuration) bool {
					return innerOpen(c) && !outerOpen(c)
				},
			),
		},
		checking.StepInvariant{
			Name:        StaysDirtyWhileInnerOpen,
			Description: "the chamber is still dirty after a step taken with the inner door open",
			Holds:       checking.Next(innerOpen, dirty),
		},
		checking.StepInvariant{
			Name:        NoOuterOpenWhileDirty,
			Description: "the controller never opens the outer door while the chamber is dirty",
			Holds: func(s state.Step) bool {
				return !dirty(s.From) || s.Commands.Outer != state.OpenDoor
			},
		},
		checking.StepInvariant{
			Name:        LockdownKeepsDoorsClosed,
			Description: "during lockdown no door is opened and both doors are closed after every step",
			Holds: func(s state.Step) bool {
				if !lockdown(s.From) {
					return true
				}
				if s.Commands.Inner == state.OpenDoor || s.Commands.Outer == state.OpenDoor {
					return false
				}
				return s.Err != nil || (s.To.InnerDoor == state.Closed && s.To.OuterDoor == state.Closed)
			},
		},
	)

	fair := Fairness()
	props.Liveness = []checking.Liveness{
		{
			Name:        EventuallyInnerOpen,
			Description: "the inner door eventually opens",
			Target:      innerOpen,
			Fairness:    fair,
		},
		{
			Name:        EventuallyOuterOpen,
			Description: "the outer door eventually opens",
			Target:      outerOpen,
			Fairness:    fair,
		},
	}
	for _, id := range state.ButtonIDs {
		props.Liveness = append(props.Liveness, checking.Liveness{
			Name:        ButtonReleased(id),
			Description: fmt.Sprintf("%v does not stay pressed forever", id),
			Target:      checking.Is(id.Field(), state.Idle.String()),
			Fairness:    fair,
		})
	}
	props.Liveness = append(props.Liveness, checking.Liveness{
		Name:        EventuallyClean,
		Description: "the chamber is eventually cleaned",
		Target:      checking.Not(dirty),
		Fairness:    fair,
	})
	return props
}

// Select returns the properties with the given names, in the order of props.
// An empty list selects every property.
func Select(props checking.Properties, names []string) (checking.Properties, error) {
	if len(names) == 0 {
		return props, nil
	}
	wanted := map[string]bool{}
	for _, name := range names {
		wanted[name] = true
	}
	out := checking.Properties{}
	for _, inv := range props.Invariants {
		if wanted[inv.Name] {
			out.Invariants = append(out.Invariants, inv)
			delete(wanted, inv.Name)
		}
	}
	for _, inv := range props.StepInvariants {
		if wanted[inv.Name] {
			out.StepInvariants = append(out.StepInvariants, inv)
			delete(wanted, inv.Name)
		}
	}
	for _, l := range props.Liveness {
		if wanted[l.Name] {
			out.Liveness = append(out.Liveness, l)
			delete(wanted, l.Name)
		}
	}
	for _, name := range names {
		if wanted[name] {
			return checking.Properties{}, fmt.Errorf("%w: %q", ErrUnknownProperty, name)
		}
	}
	return out, nil
}
