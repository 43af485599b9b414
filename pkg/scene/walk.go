package scene

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// SkipChildren can be returned by a WalkFunc to skip the descendants of the current node.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for every node visited by Walk with the node's world matrix.
type WalkFunc func(n Node, world mgl32.Mat4) error

// Walk traverses the tree rooted at root depth-first in insertion order,
// composing each node's local matrix with its ancestors'.
func Walk(root Node, fn WalkFunc) error {
	if root == nil {
		return nil
	}
	return walk(root, mgl32.Ident4(), fn)
}

// WalkFrom is like Walk but starts from the given parent matrix.
func WalkFrom(root Node, parent mgl32.Mat4, fn WalkFunc) error {
	if root == nil {
		return nil
	}
	return walk(root, parent, fn)
}

func walk(n Node, parent mgl32.Mat4, fn WalkFunc) error {
	world := parent.Mul4(n.Transform().Matrix())
	if err := fn(n, world); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}

	c, ok := n.(Container)
	if !ok {
		return nil
	}
	for _, child := range c.Children() {
		if err := walk(child, world, fn); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of nodes in the tree rooted at root, root included.
func Count(root Node) int {
	n := 0
	_ = Walk(root, func(Node, mgl32.Mat4) error {
		n++
		return nil
	})
	return n
}

// DrawFunc is called by WalkDrawables for every node carrying a drawable.
type DrawFunc func(n Node, d *Drawable, world mgl32.Mat4) error

// WalkDrawables visits every drawable under root starting from the parent
// matrix. An error from fn does not stop the walk; all of them are joined
// and returned at the end.
func WalkDrawables(root Node, parent mgl32.Mat4, fn DrawFunc) error {
	var errs []error
	_ = WalkFrom(root, parent, func(n Node, world mgl32.Mat4) error {
		if d, ok := n.Drawable(); ok {
			if err := fn(n, d, world); err != nil {
				errs = append(errs, err)
			}
		}
		return nil
	})
	return errors.Join(errs...)
}
