package csg

import (
	"strconv"
	"strings"
)

// Path locates a node inside a tree as the child indices from the root,
// rendered like "difference/0/intersection/1/box".
type Path []string

func (p Path) String() string {
	if len(p) == 0 {
		return "<root>"
	}
	return strings.Join(p, "/")
}

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn skips the node's children.
func Walk(n *Node, fn func(path Path, n *Node) bool) {
	walk(nil, n, fn)
}

func walk(path Path, n *Node, fn func(Path, *Node) bool) {
	if n == nil {
		return
	}
	here := append(path[:len(path):len(path)], n.Name())
	if !fn(here, n) {
		return
	}
	for i, c := range n.Children {
		child := append(here[:len(here):len(here)], strconv.Itoa(i))
		walk(child, c, fn)
	}
}

// Count returns the number of nodes in the tree for which match returns true.
// A nil match counts every node.
func Count(n *Node, match func(*Node) bool) int {
	total := 0
	Walk(n, func(_ Path, c *Node) bool {
		if match == nil || match(c) {
			total++
		}
		return true
	})
	return total
}

// Collect returns every payload of type T in the tree, in walk order.
func Collect[T Data](n *Node) []T {
	var out []T
	Walk(n, func(_ Path, c *Node) bool {
		if d, ok := c.Data.(T); ok {
			out = append(out, d)
		}
		return true
	})
	return out
}

// IsBoolean returns a matcher for combinator nodes of the given op.
func IsBoolean(op BooleanOp) func(*Node) bool {
	return func(n *Node) bool {
		b, ok := n.Data.(Boolean)
		return ok && b.Op == op
	}
}

// Depth returns the height of the tree.
func Depth(n *Node) int {
	if n == nil {
		return 0
	}
	deepest := 0
	for _, c := range n.Children {
		if d := Depth(c); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}
