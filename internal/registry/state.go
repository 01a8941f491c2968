package registry

import "strings"

// State is a module lifecycle state. Values match the runtime's bit flags.
type State int

const (
	StateUnknown     State = 0
	StateUninstalled State = 0x01
	StateInstalled   State = 0x02
	StateResolved    State = 0x04
	StateStarting    State = 0x08
	StateStopping    State = 0x10
	StateActive      State = 0x20
)

var stateNames = map[State]string{
	StateUninstalled: "UNINSTALLED",
	StateInstalled:   "INSTALLED",
	StateResolved:    "RESOLVED",
	StateStarting:    "STARTING",
	StateStopping:    "STOPPING",
	StateActive:      "ACTIVE",
}

// ParseState maps a state name (any case) to a State. Unknown names yield StateUnknown.
func ParseState(name string) State {
	name = strings.ToUpper(strings.TrimSpace(name))
	for s, n := range stateNames {
		if n == name {
			return s
		}
	}
	return StateUnknown
}

// String returns the upper-case state name, or "UNKNOWN".
func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "UNKNOWN"
}
