package state

import (
	"fmt"
	"strings"
)

// Commands is everything the controller computes from a single configuration
// in one evaluation pass.
type Commands struct {
	Inner DoorCmd
	Outer DoorCmd

	// Reset signals, indexed by ButtonID
	Reset [NumButtons]bool

	NextCleanliness Cleanliness
}

func (c Commands) String() string {
	resets := []string{}
	for _, id := range ButtonIDs {
		if c.Reset[id] {
			resets = append(resets, id.String())
		}
	}
	return fmt.Sprintf("inner_cmd=%v outer_cmd=%v reset=[%v] next_cleanliness=%v",
		c.Inner, c.Outer, strings.Join(resets, " "), c.NextCleanliness)
}

// A record of one transition of the airlock.
//
// From is the configuration the controller read, Commands what it computed and
// To the resulting configuration for one choice of the environment.
// If the commands cannot be applied to From, Err is set and To is the zero value.
type Step struct {
	From     Configuration
	Commands Commands
	To       Configuration
	Err      error
}

func (s Step) String() string {
	if s.Err != nil {
		return fmt.Sprintf("%v | %v | error: %v", s.From, s.Commands, s.Err)
	}
	return fmt.Sprintf("%v | %v -> %v", s.From, s.Commands, s.To)
}
