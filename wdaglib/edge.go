package wdaglib

import "fmt"

// EdgeKind tags the four kinds of edge the trellis builder ever produces.
// Using a tagged variant instead of a parsed ASCII name (as the original
// C++ engine did) removes the need for any shared parser state and lets
// the re-estimators switch exhaustively over the kind.
type EdgeKind uint8

const (
	// EdgeStart marks an initial-state assignment: state I at t=0.
	EdgeStart EdgeKind = iota
	// EdgeTrans marks a transition from state I to state J.
	EdgeTrans
	// EdgeEmit marks state I emitting symbol S (S == -1 for continuous models).
	EdgeEmit
	// EdgeFinish marks the zero-weight edge into the required end node.
	EdgeFinish
)

// EdgeName is the tagged name carried by a WDAG edge. I, J, and S are
// only meaningful for the EdgeKind that uses them:
//
//	EdgeStart:  I = state index
//	EdgeTrans:  I = source state, J = destination state
//	EdgeEmit:   I = state index, S = emitted symbol (-1 for continuous)
//	EdgeFinish: no fields used
type EdgeName struct {
	Kind EdgeKind
	I    int
	J    int
	S    int
}

// Start builds an EdgeStart name for state i.
func Start(i int) EdgeName { return EdgeName{Kind: EdgeStart, I: i} }

// Trans builds an EdgeTrans name from state i to state j.
func Trans(i, j int) EdgeName { return EdgeName{Kind: EdgeTrans, I: i, J: j} }

// Emit builds an EdgeEmit name for state i emitting symbol s.
func Emit(i, s int) EdgeName { return EdgeName{Kind: EdgeEmit, I: i, S: s} }

// Finish is the single EdgeFinish name.
var Finish = EdgeName{Kind: EdgeFinish}

// String reproduces the original engine's ASCII edge-name grammar
// ("S i", "T i j", "E i s", "F"), used only for logging and rendering.
func (e EdgeName) String() string {
	switch e.Kind {
	case EdgeStart:
		return fmt.Sprintf("S %d", e.I)
	case EdgeTrans:
		return fmt.Sprintf("T %d %d", e.I, e.J)
	case EdgeEmit:
		return fmt.Sprintf("E %d %d", e.I, e.S)
	case EdgeFinish:
		return "F"
	default:
		return "?"
	}
}
