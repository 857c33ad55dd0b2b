package wdaglib

import "math"

// EdgeRef describes one edge as seen from either endpoint: Other is
// the id of the node at the far end (the parent, when returned from
// EdgesInto), Name is the edge's tagged name, and Weight is its
// log-space weight.
type EdgeRef struct {
	Other  int
	Name   EdgeName
	Weight float64
}

type node struct {
	inEdges  []EdgeRef
	outEdges []EdgeRef

	fw, bw, best float64
	bestFrom     int // index into inEdges chosen by FindBestPath, or -1
}

// WDAG is an arena of nodes addressed by index. Edges store parent
// indices rather than pointers, so the required invariant
// parent.id < child.id is enforced simply by never letting AddEdge
// reference a parent whose id is >= the child's.
//
// A WDAG is built once per training call by a trellis builder, solved
// by exactly one of FindBestPath or FindPosteriorProbs, consumed by a
// re-estimator, and discarded. It is never shared across calls.
type WDAG struct {
	nodes []*node

	start, end       int
	hasStart, hasEnd bool

	alpha float64
}

// New returns an empty WDAG. Reserve with a node-count hint via the
// cap argument to avoid reallocation while the trellis builder runs.
func New(cap int) *WDAG {
	return &WDAG{nodes: make([]*node, 0, cap)}
}

// AddNode appends a new node and returns its id. Ids are assigned in
// strictly increasing order starting at 0.
func (g *WDAG) AddNode() int {
	g.nodes = append(g.nodes, &node{best: LogZero, bestFrom: -1})
	return len(g.nodes) - 1
}

// NNodes returns the number of nodes added so far.
func (g *WDAG) NNodes() int { return len(g.nodes) }

// AddEdge adds a weighted, named edge from parent to child. Panics if
// parent's id is not smaller than child's id: every producer in this
// package adds nodes before the edges that reference them, so this
// can only fire on a programmer error in a new builder.
func (g *WDAG) AddEdge(child, parent int, name EdgeName, weight float64) {
	if parent >= child {
		panic("wdaglib: parent id must be less than child id")
	}
	g.nodes[child].inEdges = append(g.nodes[child].inEdges, EdgeRef{Other: parent, Name: name, Weight: weight})
	g.nodes[parent].outEdges = append(g.nodes[parent].outEdges, EdgeRef{Other: child, Name: name, Weight: weight})
}

// SetRequiredStart designates the unique node every path must begin at.
func (g *WDAG) SetRequiredStart(id int) {
	g.start = id
	g.hasStart = true
}

// SetRequiredEnd designates the unique node every path must end at.
func (g *WDAG) SetRequiredEnd(id int) {
	g.end = id
	g.hasEnd = true
}

// EdgesInto returns the in-edges of a node: for each, the parent id,
// edge name, and log-space weight.
func (g *WDAG) EdgesInto(id int) []EdgeRef {
	return g.nodes[id].inEdges
}

// EdgesOutOf returns the out-edges of a node: for each, the child id,
// edge name, and log-space weight.
func (g *WDAG) EdgesOutOf(id int) []EdgeRef {
	return g.nodes[id].outEdges
}

// Best returns the best-path log-weight to the given node, valid
// after a call to FindBestPath.
func (g *WDAG) Best(id int) float64 { return g.nodes[id].best }

// Fw returns the forward log-mass to the given node, valid after a
// call to FindPosteriorProbs.
func (g *WDAG) Fw(id int) float64 { return g.nodes[id].fw }

// Bw returns the backward log-mass from the given node, valid after a
// call to FindPosteriorProbs.
func (g *WDAG) Bw(id int) float64 { return g.nodes[id].bw }

// Alpha returns the total log-likelihood of the trellis (in nats),
// valid after a call to FindPosteriorProbs. Equal to Fw(end) and to
// Bw(start) up to floating-point rounding.
func (g *WDAG) Alpha() float64 { return g.alpha }

// FindBestPath computes, for every node in topological (= id) order,
// the maximum-plus best-path weight from the required start, then
// reconstructs the sequence of edge names on the best path. It
// returns NoPath if the best-path weight at the required end node is
// LogZero.
func (g *WDAG) FindBestPath() ([]EdgeName, error) {
	if !g.hasStart || !g.hasEnd {
		panic("wdaglib: FindBestPath requires a required start and end node")
	}

	for id, n := range g.nodes {
		if id == g.start {
			n.best = 0
			n.bestFrom = -1
			continue
		}
		n.best = LogZero
		n.bestFrom = -1
		for i, e := range n.inEdges {
			parentBest := g.nodes[e.Other].best
			if parentBest <= LogZero || e.Weight <= LogZero {
				continue
			}
			cand := parentBest + e.Weight
			if math.IsNaN(cand) {
				return nil, &NumericError{Where: "FindBestPath"}
			}
			if cand > n.best {
				n.best = cand
				n.bestFrom = i
			}
		}
	}

	if g.nodes[g.end].best <= LogZero {
		return nil, &NoPath{NNodes: len(g.nodes)}
	}

	var names []EdgeName
	for id := g.end; id != g.start; {
		n := g.nodes[id]
		e := n.inEdges[n.bestFrom]
		names = append(names, e.Name)
		id = e.Other
	}
	// Reverse into start-to-end order.
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}

	return names, nil
}

// FindPosteriorProbs computes forward log-mass fw[v] in topological
// order and backward log-mass bw[v] in reverse topological order, and
// sets Alpha to fw[end] (== bw[start] up to rounding).
func (g *WDAG) FindPosteriorProbs() error {
	if !g.hasStart || !g.hasEnd {
		panic("wdaglib: FindPosteriorProbs requires a required start and end node")
	}

	for id, n := range g.nodes {
		if id == g.start {
			n.fw = 0
			continue
		}
		fw := LogZero
		for _, e := range n.inEdges {
			if e.Weight <= LogZero {
				continue
			}
			fw = Lnsum(fw, g.nodes[e.Other].fw+e.Weight)
		}
		if math.IsNaN(fw) {
			return &NumericError{Where: "FindPosteriorProbs (forward)"}
		}
		n.fw = fw
	}

	for id := len(g.nodes) - 1; id >= 0; id-- {
		n := g.nodes[id]
		if id == g.end {
			n.bw = 0
			continue
		}
		bw := LogZero
		for _, e := range n.outEdges {
			if e.Weight <= LogZero {
				continue
			}
			bw = Lnsum(bw, g.nodes[e.Other].bw+e.Weight)
		}
		if math.IsNaN(bw) {
			return &NumericError{Where: "FindPosteriorProbs (backward)"}
		}
		n.bw = bw
	}

	g.alpha = g.nodes[g.end].fw
	return nil
}
