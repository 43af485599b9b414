package scene

import "reflect"

// Group aggregates child nodes. It has no drawable of its own, but its
// transform applies to all nodes under it.
//
// Children are kept in insertion order, which is also the traversal order.
// A child, once added, stays until the group is disposed.
type Group struct {
	Graphic
	children []Node
}

// NewGroup creates an empty group
func NewGroup() *Group {
	g := &Group{}
	g.init(nil)
	return g
}

// Add appends child to the group and parents it under this group's transform.
func (g *Group) Add(child Node) error {
	if isNilNode(child) || child.graphic() == nil {
		return ErrNilNode
	}
	if _, ok := child.(interface{ isRoot() }); ok {
		return ErrRootOnly
	}

	c := child.graphic()
	for p := g; p != nil; p = p.parent {
		if &p.Graphic == c {
			return ErrCyclicGraph
		}
	}
	if c.parent != nil {
		return ErrAlreadyAttached
	}

	c.parent = g
	g.children = append(g.children, child)
	return nil
}

// Children returns the children in order of addition.
// The returned slice is a copy.
func (g *Group) Children() []Node {
	out := make([]Node, len(g.children))
	copy(out, g.children)
	return out
}

// Len returns the number of direct children
func (g *Group) Len() int {
	return len(g.children)
}

// Dispose releases the references to all descendants. The group is empty
// and detached afterwards.
func (g *Group) Dispose() {
	for _, child := range g.children {
		if d, ok := child.(interface{ Dispose() }); ok {
			d.Dispose()
		}
		child.graphic().parent = nil
	}
	g.children = nil
}

// isNilNode reports nil interfaces and typed nil pointers. Methods promoted
// through an embedded field would dereference the latter.
func isNilNode(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
