package state

import (
	"fmt"
	"strings"
)

// The complete controller and environment state at one step of the exploration.
//
// Configuration is a comparable value. Two configurations are the same state
// exactly when all fields are equal, so it is used directly as a map key.
// It is never mutated in place, the With* methods return modified copies.
type Configuration struct {
	InnerDoor Door
	OuterDoor Door

	// Indexed by ButtonID
	Buttons [NumButtons]Button

	Cleanliness Cleanliness
	AccessMode  AccessMode
}

// Initial returns the configuration the airlock starts in:
// both doors closed, all buttons idle, chamber clean, normal mode.
func Initial() Configuration {
	return Configuration{}
}

func (c Configuration) Pressed(id ButtonID) bool {
	return c.Buttons[id] == Pressed
}

// AnyPressed returns true if at least one of the buttons is pressed.
func (c Configuration) AnyPressed(ids ...ButtonID) bool {
	for _, id := range ids {
		if c.Pressed(id) {
			return true
		}
	}
	return false
}

// InnerRequested is true if either inner door button is pressed.
func (c Configuration) InnerRequested() bool {
	return c.AnyPressed(InnerIn, InnerOut)
}

// OuterRequested is true if either outer door button is pressed.
func (c Configuration) OuterRequested() bool {
	return c.AnyPressed(OuterIn, OuterOut)
}

func (c Configuration) WithButton(id ButtonID, b Button) Configuration {
	c.Buttons[id] = b
	return c
}

// Get returns the value of the field in its canonical spelling.
// Unknown fields return the empty string.
func (c Configuration) Get(f Field) string {
	switch f {
	case FieldInnerDoor:
		return c.InnerDoor.String()
	case FieldOuterDoor:
		return c.OuterDoor.String()
	case FieldCleanliness:
		return c.Cleanliness.String()
	case FieldAccessMode:
		return c.AccessMode.String()
	}
	if id, ok := ButtonByField(f); ok {
		return c.Buttons[id].String()
	}
	return ""
}

// With returns a copy of the configuration with the field set to value.
// The value is matched case-insensitively against the field's domain.
func (c Configuration) With(f Field, value string) (Configuration, error) {
	v, err := f.Canonical(value)
	if err != nil {
		return c, err
	}
	switch f {
	case FieldInnerDoor:
		c.InnerDoor = doorOf(v)
	case FieldOuterDoor:
		c.OuterDoor = doorOf(v)
	case FieldCleanliness:
		if v == Dirty.String() {
			c.Cleanliness = Dirty
		} else {
			c.Cleanliness = Clean
		}
	case FieldAccessMode:
		m, err := ParseAccessMode(v)
		if err != nil {
			return c, err
		}
		c.AccessMode = m
	default:
		id, _ := ButtonByField(f)
		if v == Pressed.String() {
			c.Buttons[id] = Pressed
		} else {
			c.Buttons[id] = Idle
		}
	}
	return c, nil
}

func doorOf(v string) Door {
	if v == Open.String() {
		return Open
	}
	return Closed
}

// Key packs the configuration into 9 bits.
//
// bit 0 inner door, bit 1 outer door, bits 2-5 buttons, bit 6 cleanliness, bits 7-8 access mode.
func (c Configuration) Key() uint16 {
	k := uint16(c.InnerDoor) | uint16(c.OuterDoor)<<1
	for i, b := range c.Buttons {
		k |= uint16(b) << (2 + i)
	}
	k |= uint16(c.Cleanliness) << 6
	k |= uint16(c.AccessMode) << 7
	return k
}

// FromKey is the inverse of Key.
func FromKey(k uint16) (Configuration, error) {
	mode := AccessMode(k >> 7 & 0b11)
	if mode >= numAccessModes || k>>9 != 0 {
		return Configuration{}, fmt.Errorf("%w: key %#x", ErrUnknownValue, k)
	}
	c := Configuration{
		InnerDoor:   Door(k & 1),
		OuterDoor:   Door(k >> 1 & 1),
		Cleanliness: Cleanliness(k >> 6 & 1),
		AccessMode:  mode,
	}
	for i := range c.Buttons {
		c.Buttons[i] = Button(k >> (2 + i) & 1)
	}
	return c, nil
}

// Domain enumerates every configuration in the product of the field domains,
// ordered by Key.
func Domain() []Configuration {
	out := make([]Configuration, 0, 2*2*16*2*numAccessModes)
	for k := uint16(0); k < 1<<9; k++ {
		c, err := FromKey(k)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

// FieldValue is one line of a configuration snapshot.
type FieldValue struct {
	Field Field
	Value string
}

func (fv FieldValue) String() string {
	return fmt.Sprintf("%s = %s", fv.Field, fv.Value)
}

// Fields returns the full snapshot of the configuration in field order.
func (c Configuration) Fields() []FieldValue {
	out := make([]FieldValue, 0, len(Fields))
	for _, f := range Fields {
		out = append(out, FieldValue{Field: f, Value: c.Get(f)})
	}
	return out
}

// Diff lists the fields of next whose value differs from prev, in field order.
func Diff(prev, next Configuration) []FieldValue {
	out := []FieldValue{}
	for _, f := range Fields {
		if v := next.Get(f); v != prev.Get(f) {
			out = append(out, FieldValue{Field: f, Value: v})
		}
	}
	return out
}

func (c Configuration) String() string {
	pressed := []string{}
	for _, id := range ButtonIDs {
		if c.Pressed(id) {
			pressed = append(pressed, id.String())
		}
	}
	return fmt.Sprintf("inner=%v outer=%v %v %v pressed=[%v]",
		c.InnerDoor, c.OuterDoor, c.Cleanliness, c.AccessMode, strings.Join(pressed, " "))
}
