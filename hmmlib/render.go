package hmmlib

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// dotNode is a trellis node labeled for Graphviz rendering.
type dotNode struct {
	id    int64
	label string
}

func (n dotNode) ID() int64 { return n.id }

func (n dotNode) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "label", Value: n.label}}
}

// dotEdge is a trellis edge labeled with its real-space probability.
type dotEdge struct {
	from, to dotNode
	label    string
}

func (e dotEdge) From() graph.Node         { return e.from }
func (e dotEdge) To() graph.Node           { return e.to }
func (e dotEdge) Weight() float64          { return 1 }
func (e dotEdge) ReversedEdge() graph.Edge { return dotEdge{from: e.to, to: e.from, label: e.label} }

func (e dotEdge) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "label", Value: e.label}}
}

// RenderWindow writes a Graphviz DOT rendering of the trellis in the
// range [center-depth, center+depth] to w. It reads directly from the
// model's current parameter tables rather than from a solved WDAG,
// mirroring HMM::DrawPNGAtState: this is a diagnostic collaborator,
// never consulted by training or decoding. Edges with weight LogZero
// are omitted, as the original omitted edges with weight -infinity.
func (m *Model) RenderWindow(w io.Writer, center, depth int) error {
	if !m.HasAllData() {
		panic("hmmlib: RenderWindow called before all data is loaded")
	}

	T := m.NTimepoints()
	if center < 0 || center >= T {
		return &ConfigurationError{Msg: "RenderWindow: center timepoint out of range"}
	}

	minT := center - depth
	if minT < 0 {
		minT = 0
	}
	maxT := center + depth
	if maxT > T-1 {
		maxT = T - 1
	}

	g := simple.NewWeightedDirectedGraph(0, 0)

	nodeA := func(t, i int) dotNode {
		return dotNode{id: int64(2*m.NState*t + i), label: fmt.Sprintf("%d_%d_A", t, i)}
	}
	nodeB := func(t, i int) dotNode {
		return dotNode{id: int64(2*m.NState*t + m.NState + i), label: fmt.Sprintf("%d_%d_B", t, i)}
	}

	for t := minT; t <= maxT; t++ {
		for i := 0; i < m.NState; i++ {
			g.AddNode(nodeA(t, i))
			g.AddNode(nodeB(t, i))
		}

		if t > minT {
			for iPrev := 0; iPrev < m.NState; iPrev++ {
				for i := 0; i < m.NState; i++ {
					weight := m.TransLog[iPrev][i]
					if weight <= logRenderFloor {
						continue
					}
					g.SetWeightedEdge(dotEdge{
						from:  nodeB(t-1, iPrev),
						to:    nodeA(t, i),
						label: fmt.Sprintf("T_%.4f", math.Exp(weight)),
					})
				}
			}
		}

		for i := 0; i < m.NState; i++ {
			var weight float64
			if m.IsDiscrete() {
				weight = m.SymbolEmissLog[i][m.Observations[t]]
			} else {
				weight = m.TimeEmissLog[t][i]
			}
			if weight <= logRenderFloor {
				continue
			}
			g.SetWeightedEdge(dotEdge{
				from:  nodeA(t, i),
				to:    nodeB(t, i),
				label: fmt.Sprintf("E_%.4f", math.Exp(weight)),
			})
		}
	}

	b, err := dot.Marshal(g, fmt.Sprintf("HMM_at_%d", center), "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// logRenderFloor mirrors the original's isfinite() check: any weight
// at or below this is treated as a zero-probability edge and skipped.
const logRenderFloor = -1e19
