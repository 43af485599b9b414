package controls

import "math"

// Key codes for keyboard input. They follow the physical key names used by
// browsers, so bindings read the same in config files on every platform.
const (
	KeyW         = "KeyW"
	KeyA         = "KeyA"
	KeyS         = "KeyS"
	KeyD         = "KeyD"
	KeySpace     = "Space"
	KeyShiftLeft = "ShiftLeft"
	KeyEscape    = "Escape"
)

// Camera constants
const (
	// Projection
	DefaultFOV  = 75.0
	DefaultNear = 0.1
	DefaultFar  = 1000.0

	// Movement speed in world units per second
	DefaultSpeed = 10.0

	// Mouse sensitivity; pointer deltas are divided by SensitivityScale/sensitivity
	DefaultSensitivity = 1.0
	SensitivityScale   = 1000.0

	// Constraints
	MaxPitch = math.Pi / 2
	MinPitch = -math.Pi / 2
)
