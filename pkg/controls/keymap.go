package controls

import (
	"fmt"
	"sort"
	"strings"
)

// Axis indexes a component of the velocity vector
type Axis int

const (
	AxisX Axis = iota // lateral
	AxisY             // vertical
	AxisZ             // forward/back
)

// Action is a movement intent bound to a key: a velocity axis and a direction on it.
type Action struct {
	Name string
	Axis Axis
	Sign float32 // -1 or +1
}

// Movement actions
var (
	ActionForward     = Action{Name: "forward", Axis: AxisZ, Sign: -1}
	ActionBack        = Action{Name: "back", Axis: AxisZ, Sign: 1}
	ActionStrafeLeft  = Action{Name: "strafe-left", Axis: AxisX, Sign: -1}
	ActionStrafeRight = Action{Name: "strafe-right", Axis: AxisX, Sign: 1}
	ActionAscend      = Action{Name: "ascend", Axis: AxisY, Sign: 1}
	ActionDescend     = Action{Name: "descend", Axis: AxisY, Sign: -1}
)

var actionsByName = map[string]Action{
	ActionForward.Name:     ActionForward,
	ActionBack.Name:        ActionBack,
	ActionStrafeLeft.Name:  ActionStrafeLeft,
	ActionStrafeRight.Name: ActionStrafeRight,
	ActionAscend.Name:      ActionAscend,
	ActionDescend.Name:     ActionDescend,
}

// KeyMap maps key codes to actions
type KeyMap map[string]Action

// DefaultKeyMap returns the W/A/S/D + Space/Shift bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		KeyW:         ActionForward,
		KeyS:         ActionBack,
		KeyA:         ActionStrafeLeft,
		KeyD:         ActionStrafeRight,
		KeySpace:     ActionAscend,
		KeyShiftLeft: ActionDescend,
	}
}

// KeyMapFromBindings builds a key map from action name -> key code pairs.
// Actions missing from bindings keep their default key.
func KeyMapFromBindings(bindings map[string]string) (KeyMap, error) {
	codes := make(map[string]string, len(actionsByName))
	for code, action := range DefaultKeyMap() {
		codes[action.Name] = code
	}

	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, ok := actionsByName[name]; !ok {
			return nil, fmt.Errorf("unknown action %q", name)
		}
		code := strings.TrimSpace(bindings[name])
		if code == "" {
			return nil, fmt.Errorf("empty key code for action %q", name)
		}
		codes[name] = code
	}

	km := make(KeyMap, len(codes))
	for name, code := range codes {
		if other, ok := km[code]; ok {
			return nil, fmt.Errorf("key %q bound to both %q and %q", code, other.Name, name)
		}
		km[code] = actionsByName[name]
	}
	return km, nil
}
