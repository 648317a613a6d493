// Package scene provides the narrow node-creation interface the runtime uses
// to mirror instantiated geometry classes as visual nodes.
package scene

import "fmt"

// NodeKind identifies the geometry primitive a node renders as.
type NodeKind int

const (
	KindPart NodeKind = iota
	KindBlock
	KindCylinder
	KindSphere
)

func (k NodeKind) String() string {
	switch k {
	case KindPart:
		return "part"
	case KindBlock:
		return "block"
	case KindCylinder:
		return "cylinder"
	case KindSphere:
		return "sphere"
	default:
		return fmt.Sprintf("kind_%d", int(k))
	}
}

// AlignMode positions a node relative to a reference edge or center.
type AlignMode int

const (
	AlignMin AlignMode = iota
	AlignCenter
	AlignMax
)

// Axis names a rotation axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Node is one entry in the scene graph.
type Node struct {
	Name          string
	Kind          NodeKind
	Parent        *Node
	Position      [3]float64
	Rotation      [3]float64
	Dims          [3]float64
	Radius        float64
	Height        float64
	Material      string
	Selectable    bool
	Alignment     AlignMode
	FootAlignment AlignMode
}

// SetPosition moves the node to an absolute local position.
func (n *Node) SetPosition(pos [3]float64) {
	n.Position = pos
}

// SetAlignment records the node's horizontal alignment mode.
func (n *Node) SetAlignment(mode AlignMode) {
	n.Alignment = mode
}

// SetFootAlignment records the node's vertical (foot) alignment mode.
func (n *Node) SetFootAlignment(mode AlignMode) {
	n.FootAlignment = mode
}

// Rotate adds an angle (radians) to the node's rotation about the given axis.
func (n *Node) Rotate(axis Axis, angle float64) {
	switch axis {
	case AxisX:
		n.Rotation[0] += angle
	case AxisY:
		n.Rotation[1] += angle
	case AxisZ:
		n.Rotation[2] += angle
	}
}

// SetMaterial assigns the node's material name.
func (n *Node) SetMaterial(material string) {
	n.Material = material
}

// SetSelectable marks whether the node can be picked.
func (n *Node) SetSelectable(selectable bool) {
	n.Selectable = selectable
}

// LocalBounds returns the axis-aligned min/max corners of the node's own
// geometry, ignoring position and rotation.
func (n *Node) LocalBounds() (min, max [3]float64) {
	switch n.Kind {
	case KindBlock:
		return [3]float64{}, n.Dims
	case KindCylinder:
		return [3]float64{-n.Radius, 0, -n.Radius}, [3]float64{n.Radius, n.Height, n.Radius}
	case KindSphere:
		return [3]float64{-n.Radius, -n.Radius, -n.Radius}, [3]float64{n.Radius, n.Radius, n.Radius}
	default:
		return [3]float64{}, [3]float64{}
	}
}

// Graph owns all scene nodes for one interpreter session, addressed by name.
type Graph struct {
	nodes map[string]*Node
}

// NewGraph creates an empty scene graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

func (g *Graph) add(node *Node) *Node {
	g.nodes[node.Name] = node
	return node
}

// CreatePart creates a structural grouping node with no geometry of its own.
func (g *Graph) CreatePart(name string, parent *Node) *Node {
	return g.add(&Node{Name: name, Kind: KindPart, Parent: parent, Selectable: true})
}

// CreateBlock creates a box node with dimensions [width, height, depth].
func (g *Graph) CreateBlock(name string, dims [3]float64, parent *Node) *Node {
	return g.add(&Node{Name: name, Kind: KindBlock, Parent: parent, Dims: dims, Selectable: true})
}

// CreateCylinder creates a cylinder node from radius and height.
func (g *Graph) CreateCylinder(name string, radius, height float64, parent *Node) *Node {
	return g.add(&Node{Name: name, Kind: KindCylinder, Parent: parent, Radius: radius, Height: height, Selectable: true})
}

// CreateSphere creates a sphere node from its radius.
func (g *Graph) CreateSphere(name string, radius float64, parent *Node) *Node {
	return g.add(&Node{Name: name, Kind: KindSphere, Parent: parent, Radius: radius, Selectable: true})
}

// Exists reports whether a node with the given name is present.
func (g *Graph) Exists(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Get returns the node registered under name, or nil.
func (g *Graph) Get(name string) *Node {
	return g.nodes[name]
}

// Remove deletes the node registered under name, if any.
func (g *Graph) Remove(name string) {
	delete(g.nodes, name)
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}
