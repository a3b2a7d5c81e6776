// nodemap.go — sidecar position tracking for AST nodes.
//
// Nodes themselves carry no offsets (see ast.go); parsers report each node
// and its start offset to a NodeManager after the node is fully built. This
// is advisory bookkeeping for tooling and never required for correctness —
// NopNodeManager is a valid collaborator.
package exprlang

// NodeManager receives every node the parser builds, with the byte offset
// the node's source text starts at.
type NodeManager interface {
	AddNode(node Node, start int)
}

// NodeMap records node start offsets in the order nodes were built
// (children before parents, left to right among siblings).
type NodeMap struct {
	nodes  []Node
	starts map[Node]int
}

// NewNodeMap returns an empty NodeMap.
func NewNodeMap() *NodeMap {
	return &NodeMap{starts: make(map[Node]int)}
}

// AddNode records node with its start offset.
func (m *NodeMap) AddNode(node Node, start int) {
	if node == nil {
		return
	}
	if _, seen := m.starts[node]; !seen {
		m.nodes = append(m.nodes, node)
	}
	m.starts[node] = start
}

// StartOf returns the recorded start offset of node.
func (m *NodeMap) StartOf(node Node) (int, bool) {
	start, ok := m.starts[node]
	return start, ok
}

// Nodes returns all recorded nodes in build order. Callers must not mutate
// the returned slice.
func (m *NodeMap) Nodes() []Node { return m.nodes }

// NopNodeManager discards every report.
type NopNodeManager struct{}

func (NopNodeManager) AddNode(Node, int) {}
