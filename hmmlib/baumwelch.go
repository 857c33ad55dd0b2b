package hmmlib

import (
	"math"

	"github.com/kshedden/hmmwdag/wdaglib"
)

// adjustToBaumWelch consumes a WDAG with Fw, Bw, and Alpha already
// computed and re-estimates InitLog, TransLog, and (for discrete
// models) SymbolEmissLog from posterior-weighted soft counts. It
// mirrors HMM::AdjustProbsToBaumWelch.
func (m *Model) adjustToBaumWelch(g *wdaglib.WDAG) (bool, error) {
	N := m.NState
	T := m.NTimepoints()

	newInit := make([]float64, N)
	newTrans := make([][]float64, N)
	var newEmiss [][]float64
	for i := range newInit {
		newInit[i] = wdaglib.LogZero
	}
	for i := 0; i < N; i++ {
		newTrans[i] = make([]float64, N)
		for j := range newTrans[i] {
			newTrans[i][j] = wdaglib.LogZero
		}
	}
	if m.IsDiscrete() {
		newEmiss = make([][]float64, N)
		for i := 0; i < N; i++ {
			newEmiss[i] = make([]float64, m.NSymbol)
			for s := range newEmiss[i] {
				newEmiss[i][s] = wdaglib.LogZero
			}
		}
	}
	newStateFreqs := make([]float64, N)
	for i := range newStateFreqs {
		newStateFreqs[i] = wdaglib.LogZero
	}

	nEmissions := 0

	for v := 0; v < g.NNodes(); v++ {
		for _, e := range g.EdgesInto(v) {
			p := g.Fw(e.Other) + e.Weight + g.Bw(v)
			if math.IsNaN(p) {
				return false, &NumericError{Where: "adjustToBaumWelch: posterior edge weight"}
			}

			switch e.Name.Kind {
			case wdaglib.EdgeStart:
				newInit[e.Name.I] = p
			case wdaglib.EdgeTrans:
				newTrans[e.Name.I][e.Name.J] = wdaglib.Lnsum(newTrans[e.Name.I][e.Name.J], p)
			case wdaglib.EdgeEmit:
				if m.IsDiscrete() {
					newEmiss[e.Name.I][e.Name.S] = wdaglib.Lnsum(newEmiss[e.Name.I][e.Name.S], p)
				}
				newStateFreqs[e.Name.I] = wdaglib.Lnsum(newStateFreqs[e.Name.I], p)
				nEmissions++
			case wdaglib.EdgeFinish:
				// Ignored.
			}
		}
	}

	if nEmissions != N*T {
		return false, &NumericError{Where: "adjustToBaumWelch: emission edge count"}
	}

	changed := false

	denomFreq := wdaglib.LogZero
	for _, v := range newStateFreqs {
		denomFreq = wdaglib.Lnsum(denomFreq, v)
	}
	m.StateFreqs = make([]float64, N)
	for i, v := range newStateFreqs {
		m.StateFreqs[i] = math.Exp(v - denomFreq)
	}

	denomInit := wdaglib.LogZero
	for _, v := range newInit {
		denomInit = wdaglib.Lnsum(denomInit, v)
	}
	normInit := make([]float64, N)
	for i, v := range newInit {
		p := v - denomInit
		normInit[i] = p
		if m.InitLog == nil || m.InitLog[i] != p {
			changed = true
		}
	}
	m.InitLog = normInit

	normTrans := make([][]float64, N)
	for i := 0; i < N; i++ {
		denom := wdaglib.LogZero
		for _, v := range newTrans[i] {
			denom = wdaglib.Lnsum(denom, v)
		}
		row := make([]float64, N)
		for j, v := range newTrans[i] {
			p := v - denom
			row[j] = p
			if m.TransLog == nil || m.TransLog[i][j] != p {
				changed = true
			}
		}
		normTrans[i] = row
	}
	m.TransLog = normTrans

	if m.IsDiscrete() {
		normEmiss := make([][]float64, N)
		for i := 0; i < N; i++ {
			denom := wdaglib.LogZero
			for _, v := range newEmiss[i] {
				denom = wdaglib.Lnsum(denom, v)
			}
			row := make([]float64, m.NSymbol)
			for s, v := range newEmiss[i] {
				p := v - denom
				row[s] = p
				if m.SymbolEmissLog == nil || m.SymbolEmissLog[i][s] != p {
					changed = true
				}
			}
			normEmiss[i] = row
		}
		m.SymbolEmissLog = normEmiss
	}

	return changed, nil
}
