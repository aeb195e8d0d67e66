package graph

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/biomorph/internal/geom"
)

// Epsilon below which two proposed node positions are treated as the
// same node by AddNode.
const dedupeEpsilon = 1e-3

type NodeID int

type ConnID int

// Node is a point of the biomorph structure. Nodes are owned exclusively
// by the Graph; callers hold IDs, never mutate nodes directly.
type Node struct {
	ID    NodeID
	Pos   geom.Vec3
	Conns []ConnID
	Seed  bool
}

func (n *Node) Degree() int { return len(n.Conns) }

// Connection joins two distinct nodes. The pair is undirected.
type Connection struct {
	ID ConnID
	A  NodeID
	B  NodeID
}

// Graph owns all nodes and connections of one biomorph and enforces the
// structural invariants: endpoints exist and are distinct, no duplicate
// undirected pairs, removal cascades.
type Graph struct {
	nodes  map[NodeID]*Node
	conns  map[ConnID]*Connection
	order  []NodeID // insertion order, preserved across export/import
	nextN  NodeID
	nextC  ConnID
	pairs  map[[2]NodeID]ConnID
}

func New() *Graph {
	return &Graph{
		nodes: make(map[NodeID]*Node),
		conns: make(map[ConnID]*Connection),
		order: make([]NodeID, 0),
		pairs: make(map[[2]NodeID]ConnID),
	}
}

func pairKey(a, b NodeID) [2]NodeID {
	if a > b {
		a, b = b, a
	}
	return [2]NodeID{a, b}
}

// AddNode creates a node at pos, or returns the existing node when one
// already sits within the dedupe radius.
func (g *Graph) AddNode(pos geom.Vec3) *Node {
	for _, id := range g.order {
		if n := g.nodes[id]; n.Pos.Dist(pos) < dedupeEpsilon {
			return n
		}
	}
	n := &Node{ID: g.nextN, Pos: pos, Conns: make([]ConnID, 0, 4)}
	g.nextN++
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
	return n
}

// AddSeed is AddNode with the seed flag set; seeds survive pruning.
func (g *Graph) AddSeed(pos geom.Vec3) *Node {
	n := g.AddNode(pos)
	n.Seed = true
	return n
}

// AddConnection joins a and b. It returns nil without changing the graph
// on a self-pair, an already-connected pair, or an unknown endpoint.
func (g *Graph) AddConnection(a, b NodeID) *Connection {
	if a == b {
		return nil
	}
	na, ok := g.nodes[a]
	if !ok {
		return nil
	}
	nb, ok := g.nodes[b]
	if !ok {
		return nil
	}
	key := pairKey(a, b)
	if _, dup := g.pairs[key]; dup {
		return nil
	}
	c := &Connection{ID: g.nextC, A: a, B: b}
	g.nextC++
	g.conns[c.ID] = c
	g.pairs[key] = c.ID
	na.Conns = append(na.Conns, c.ID)
	nb.Conns = append(nb.Conns, c.ID)
	return c
}

// Length is the Euclidean distance between the connection's endpoints.
func (g *Graph) Length(c *Connection) float64 {
	return g.nodes[c.A].Pos.Dist(g.nodes[c.B].Pos)
}

func (g *Graph) RemoveConnection(id ConnID) {
	c, ok := g.conns[id]
	if !ok {
		return
	}
	delete(g.conns, id)
	delete(g.pairs, pairKey(c.A, c.B))
	g.unlink(c.A, id)
	g.unlink(c.B, id)
}

func (g *Graph) unlink(n NodeID, id ConnID) {
	node, ok := g.nodes[n]
	if !ok {
		return
	}
	for i, cid := range node.Conns {
		if cid == id {
			node.Conns = append(node.Conns[:i], node.Conns[i+1:]...)
			return
		}
	}
}

// RemoveNode removes a node and every incident connection.
func (g *Graph) RemoveNode(id NodeID) {
	n, ok := g.nodes[id]
	if !ok {
		return
	}
	for _, cid := range append([]ConnID(nil), n.Conns...) {
		g.RemoveConnection(cid)
	}
	delete(g.nodes, id)
	for i, nid := range g.order {
		if nid == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

func (g *Graph) Node(id NodeID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

func (g *Graph) Connections() []*Connection {
	out := make([]*Connection, 0, len(g.conns))
	// iterate pairs through node order for deterministic listing
	seen := make(map[ConnID]bool, len(g.conns))
	for _, id := range g.order {
		for _, cid := range g.nodes[id].Conns {
			if !seen[cid] {
				seen[cid] = true
				out = append(out, g.conns[cid])
			}
		}
	}
	return out
}

func (g *Graph) NodeCount() int { return len(g.nodes) }
func (g *Graph) ConnCount() int { return len(g.conns) }

// Connected reports whether the undirected pair already has a connection.
func (g *Graph) Connected(a, b NodeID) bool {
	_, ok := g.pairs[pairKey(a, b)]
	return ok
}

// RandomNode picks a uniformly random node, nil on an empty graph.
func (g *Graph) RandomNode(rng *rand.Rand) *Node {
	if len(g.order) == 0 {
		return nil
	}
	return g.nodes[g.order[rng.Intn(len(g.order))]]
}

// Positions returns node positions in insertion order.
func (g *Graph) Positions() []geom.Vec3 {
	out := make([]geom.Vec3, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id].Pos)
	}
	return out
}

// Clear drops all nodes and connections and resets identity counters.
func (g *Graph) Clear() {
	g.nodes = make(map[NodeID]*Node)
	g.conns = make(map[ConnID]*Connection)
	g.order = g.order[:0]
	g.pairs = make(map[[2]NodeID]ConnID)
	g.nextN = 0
	g.nextC = 0
}

// Validate checks referential integrity: every connection references two
// existing distinct nodes, no duplicate undirected pairs, and node
// adjacency lists agree with the connection set.
func (g *Graph) Validate() error {
	seen := make(map[[2]NodeID]bool, len(g.conns))
	for id, c := range g.conns {
		if c.A == c.B {
			return fmt.Errorf("graph: connection %d is a self-pair", id)
		}
		if _, ok := g.nodes[c.A]; !ok {
			return fmt.Errorf("graph: connection %d references missing node %d", id, c.A)
		}
		if _, ok := g.nodes[c.B]; !ok {
			return fmt.Errorf("graph: connection %d references missing node %d", id, c.B)
		}
		key := pairKey(c.A, c.B)
		if seen[key] {
			return fmt.Errorf("graph: duplicate pair (%d,%d)", key[0], key[1])
		}
		seen[key] = true
	}
	for _, n := range g.nodes {
		for _, cid := range n.Conns {
			c, ok := g.conns[cid]
			if !ok {
				return fmt.Errorf("graph: node %d links missing connection %d", n.ID, cid)
			}
			if c.A != n.ID && c.B != n.ID {
				return fmt.Errorf("graph: node %d links foreign connection %d", n.ID, cid)
			}
		}
	}
	return nil
}
