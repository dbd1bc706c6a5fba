package csg

// Kind enumerates the variants of a tree node.
type Kind int

const (
	KindPrimitive Kind = iota // leaf solid (cylinder, box, extrude, threaded rod)
	KindBoolean               // n-ary combinator (union, difference, intersection, hull)
	KindTransform             // affine transform of a single child
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindBoolean:
		return "boolean"
	case KindTransform:
		return "transform"
	default:
		return "unknown"
	}
}

// Node is the fundamental element of a CSG tree. Nodes are values: once
// built they are never modified, and every operator returns a new Node.
type Node struct {
	Kind     Kind    `json:"kind"`
	Data     Data    `json:"data"`
	Children []*Node `json:"children,omitempty"`
}

// Data is the interface for kind-specific node payloads.
type Data interface {
	nodeData() // marker method restricting implementations to this package
}

// Name returns a short operator name for the node, e.g. "cylinder" or
// "difference".
func (n *Node) Name() string {
	switch d := n.Data.(type) {
	case Cylinder:
		return "cylinder"
	case Box:
		return "box"
	case Extrude:
		return "extrude"
	case ThreadedRod:
		return "threaded_rod"
	case Boolean:
		return d.Op.String()
	case Transform:
		return d.Op.String()
	default:
		return "unknown"
	}
}

func newNode(kind Kind, data Data, children ...*Node) *Node {
	var cs []*Node
	if len(children) > 0 {
		cs = make([]*Node, len(children))
		copy(cs, children)
	}
	return &Node{Kind: kind, Data: data, Children: cs}
}
