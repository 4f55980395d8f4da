package policy

import "fmt"

type Action string

const (
	ActionAllow  Action = "allow"
	ActionBlock  Action = "block"
	ActionShadow Action = "shadow"
)

type Mode string

const (
	ModeEnforce Mode = "enforce"
	ModeShadow  Mode = "shadow"
)

func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case "", ModeEnforce:
		return ModeEnforce, nil
	case ModeShadow:
		return ModeShadow, nil
	default:
		return "", fmt.Errorf("unknown mode %q", raw)
	}
}

// DecideAction reports the action for a scan outcome and whether the
// submission has to be rejected.
func DecideAction(mode Mode, matched bool) (Action, bool) {
	if !matched {
		return ActionAllow, false
	}

	switch mode {
	case ModeShadow:
		return ActionShadow, false
	default:
		return ActionBlock, true
	}
}
