package model

import (
	"fmt"

	"airlockmc/state"
)

// NextStatus applies a command to a door.
//
// Open is only legal on a closed door and Close only on an open door.
// An illegal command returns ErrIllegalDoorCommand and leaves the status unchanged.
func NextStatus(status state.Door, cmd state.DoorCmd) (state.Door, error) {
	switch cmd {
	case state.OpenDoor:
		if status != state.Closed {
			return status, fmt.Errorf("%w: Open on an open door", ErrIllegalDoorCommand)
		}
		return state.Open, nil
	case state.CloseDoor:
		if status != state.Open {
			return status, fmt.Errorf("%w: Close on a closed door", ErrIllegalDoorCommand)
		}
		return state.Closed, nil
	default:
		return status, nil
	}
}
