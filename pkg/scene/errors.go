package scene

import "errors"

// Scene graph errors
var (
	ErrNilNode         = errors.New("scene: nil node")
	ErrCyclicGraph     = errors.New("scene: adding node would create a cycle")
	ErrRootOnly        = errors.New("scene: world cannot be a child of another group")
	ErrAlreadyAttached = errors.New("scene: node already belongs to a group")
	ErrInvalidGeometry = errors.New("scene: invalid geometry")
	ErrInvalidColor    = errors.New("scene: invalid color")
)
