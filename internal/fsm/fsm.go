package fsm

import "fmt"

type State string

type Event string

const (
	StateAwake    State = "awake"
	StateSleeping State = "sleeping"
	StateStopped  State = "stopped"
)

const (
	EventWake  Event = "wake"
	EventSleep Event = "sleep"
	EventStop  Event = "stop"
)

// Transition computes the next listener state. Stop is terminal and accepted
// from any live state; wake and sleep toggle between the two live states.
func Transition(current State, event Event) (State, error) {
	switch current {
	case StateAwake:
		switch event {
		case EventSleep:
			return StateSleeping, nil
		case EventStop:
			return StateStopped, nil
		case EventWake:
			return StateAwake, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateSleeping:
		switch event {
		case EventWake:
			return StateAwake, nil
		case EventStop:
			return StateStopped, nil
		case EventSleep:
			return StateSleeping, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateStopped:
		return current, invalidTransition(current, event)
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
