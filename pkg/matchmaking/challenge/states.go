package challenge

import "github.com/spadesd/spadesd/pkg/statemachine"

// challengeStateFn is the Rob-Pike state-function type for Challenge,
// reusing pkg/statemachine the way the teacher's pkg/poker/player.go reuses
// it for Player: a state function reads the entity's own authoritative
// fields and returns the state that matches them, logging entry/exit
// through the optional callback. Broker methods mutate those fields (under
// the challenge's lock) and then call Dispatch to let the machine catch up.
type challengeStateFn = statemachine.StateFn[Challenge]

func challengeStateOpen(c *Challenge, cb func(string, statemachine.StateEvent)) challengeStateFn {
	switch {
	case c.tableID != "":
		if cb != nil {
			cb("Open", statemachine.StateExited)
		}
		return challengeStateStarted
	case c.cancelled:
		if cb != nil {
			cb("Open", statemachine.StateExited)
		}
		return challengeStateCancelled
	case c.expired:
		if cb != nil {
			cb("Open", statemachine.StateExited)
		}
		return challengeStateExpired
	}

	if cb != nil {
		cb("Open", statemachine.StateEntered)
	}
	return challengeStateOpen // stays open until an external transition
}

func challengeStateStarted(c *Challenge, cb func(string, statemachine.StateEvent)) challengeStateFn {
	if cb != nil {
		cb("Started", statemachine.StateEntered)
	}
	return nil // terminal
}

func challengeStateCancelled(c *Challenge, cb func(string, statemachine.StateEvent)) challengeStateFn {
	if cb != nil {
		cb("Cancelled", statemachine.StateEntered)
	}
	return nil // terminal
}

func challengeStateExpired(c *Challenge, cb func(string, statemachine.StateEvent)) challengeStateFn {
	if cb != nil {
		cb("Expired", statemachine.StateEntered)
	}
	return nil // terminal
}
