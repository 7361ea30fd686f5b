package state

import (
	"errors"
	"fmt"
	"strings"
)

// Door is the status of one of the two airlock doors.
type Door uint8

const (
	Closed Door = iota
	Open
)

func (d Door) String() string {
	if d == Open {
		return "Open"
	}
	return "Closed"
}

// Button is the status of a request button.
type Button uint8

const (
	Idle Button = iota
	Pressed
)

func (b Button) String() string {
	if b == Pressed {
		return "Pressed"
	}
	return "Idle"
}

// Cleanliness is the contamination status of the airlock chamber.
type Cleanliness uint8

const (
	Clean Cleanliness = iota
	Dirty
)

func (c Cleanliness) String() string {
	if c == Dirty {
		return "Dirty"
	}
	return "Clean"
}

// AccessMode is the operating mode chosen by the environment.
type AccessMode uint8

const (
	Normal AccessMode = iota
	Evac
	Lockdown

	numAccessModes = 3
)

// AccessModes lists every access mode in declaration order.
var AccessModes = []AccessMode{Normal, Evac, Lockdown}

func (m AccessMode) String() string {
	switch m {
	case Evac:
		return "Evac"
	case Lockdown:
		return "Lockdown"
	default:
		return "Normal"
	}
}

// DoorCmd is a command the controller issues to a door.
type DoorCmd uint8

const (
	Nop DoorCmd = iota
	OpenDoor
	CloseDoor
)

func (c DoorCmd) String() string {
	switch c {
	case OpenDoor:
		return "Open"
	case CloseDoor:
		return "Close"
	default:
		return "Nop"
	}
}

// ButtonID identifies one of the four request buttons.
type ButtonID uint8

const (
	InnerIn ButtonID = iota
	InnerOut
	OuterIn
	OuterOut

	NumButtons = 4
)

// ButtonIDs lists the buttons in field order.
var ButtonIDs = []ButtonID{InnerIn, InnerOut, OuterIn, OuterOut}

// Field returns the name of the configuration field holding the button.
func (id ButtonID) Field() Field {
	switch id {
	case InnerIn:
		return FieldButtonInnerIn
	case InnerOut:
		return FieldButtonInnerOut
	case OuterIn:
		return FieldButtonOuterIn
	default:
		return FieldButtonOuterOut
	}
}

func (id ButtonID) String() string {
	return string(id.Field())
}

// Inner is true for the two buttons that request the inner door.
func (id ButtonID) Inner() bool {
	return id == InnerIn || id == InnerOut
}

// Field is the name of a Configuration field as used in model documents and traces.
type Field string

const (
	FieldInnerDoor      Field = "inner_door"
	FieldOuterDoor      Field = "outer_door"
	FieldButtonInnerIn  Field = "button_inner_in"
	FieldButtonInnerOut Field = "button_inner_out"
	FieldButtonOuterIn  Field = "button_outer_in"
	FieldButtonOuterOut Field = "button_outer_out"
	FieldCleanliness    Field = "cleanliness"
	FieldAccessMode     Field = "access_mode"
)

// Fields lists the configuration fields in the fixed order used for rendering and diffs.
var Fields = []Field{
	FieldInnerDoor,
	FieldOuterDoor,
	FieldButtonInnerIn,
	FieldButtonInnerOut,
	FieldButtonOuterIn,
	FieldButtonOuterOut,
	FieldCleanliness,
	FieldAccessMode,
}

var (
	ErrUnknownField = errors.New("state: unknown field")
	ErrUnknownValue = errors.New("state: value outside the field domain")
)

// ButtonByField returns the button stored in the field f.
func ButtonByField(f Field) (ButtonID, bool) {
	for _, id := range ButtonIDs {
		if id.Field() == f {
			return id, true
		}
	}
	return 0, false
}

// Domain returns the values a field can take, in their declaration order.
func (f Field) Domain() ([]string, error) {
	switch f {
	case FieldInnerDoor, FieldOuterDoor:
		return []string{Closed.String(), Open.String()}, nil
	case FieldButtonInnerIn, FieldButtonInnerOut, FieldButtonOuterIn, FieldButtonOuterOut:
		return []string{Idle.String(), Pressed.String()}, nil
	case FieldCleanliness:
		return []string{Clean.String(), Dirty.String()}, nil
	case FieldAccessMode:
		return []string{Normal.String(), Evac.String(), Lockdown.String()}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, string(f))
}

// Canonical maps a case-insensitive value to the spelling used by Configuration.Get.
func (f Field) Canonical(value string) (string, error) {
	domain, err := f.Domain()
	if err != nil {
		return "", err
	}
	for _, v := range domain {
		if strings.EqualFold(v, value) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %s = %q", ErrUnknownValue, f, value)
}

// ParseDoorCmd parses a door command name.
func ParseDoorCmd(s string) (DoorCmd, error) {
	for _, c := range []DoorCmd{Nop, OpenDoor, CloseDoor} {
		if strings.EqualFold(c.String(), s) {
			return c, nil
		}
	}
	return Nop, fmt.Errorf("%w: door command %q", ErrUnknownValue, s)
}

// ParseAccessMode parses an access mode name.
func ParseAccessMode(s string) (AccessMode, error) {
	for _, m := range AccessModes {
		if strings.EqualFold(m.String(), s) {
			return m, nil
		}
	}
	return Normal, fmt.Errorf("%w: access mode %q", ErrUnknownValue, s)
}
