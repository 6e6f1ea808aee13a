// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api

// State is the lifecycle state of a Supervisor.
type State int

const (
	Idle State = iota
	Connecting
	Authenticating
	Authenticated
	AuthFailed
	TimedOut
	Closed
)

var stateNames = [...]string{
	Idle:           "idle",
	Connecting:     "connecting",
	Authenticating: "authenticating",
	Authenticated:  "authenticated",
	AuthFailed:     "auth-failed",
	TimedOut:       "timed-out",
	Closed:         "closed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// AllStates lists every state in lifecycle order.
var AllStates = []State{Idle, Connecting, Authenticating, Authenticated, AuthFailed, TimedOut, Closed}
