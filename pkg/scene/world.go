package scene

// World is the root of the scene graph. It owns a main group for gameplay
// content (players, ships, astro bodies) and a HUD group for overlay
// content (compass, score, health).
//
// A World must not be a child of any other Group; Group.Add rejects it.
type World struct {
	Group
	main *Group
	hud  *Group
}

// NewWorld creates a world with main and hud added as its two children, in that order.
func NewWorld(main, hud *Group) (*World, error) {
	if main == nil || hud == nil {
		return nil, ErrNilNode
	}
	w := &World{main: main, hud: hud}
	w.init(nil)
	if err := w.Add(main); err != nil {
		return nil, err
	}
	if err := w.Add(hud); err != nil {
		return nil, err
	}
	return w, nil
}

// Main returns the gameplay group
func (w *World) Main() *Group {
	return w.main
}

// HUD returns the overlay group
func (w *World) HUD() *Group {
	return w.hud
}

func (w *World) isRoot() {}
