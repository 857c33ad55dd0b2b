package hmmlib

import (
	"math"

	"github.com/kshedden/hmmwdag/wdaglib"
)

// adjustToViterbi consumes the edge names on a solved best path and
// re-estimates TransLog (and, for discrete models, SymbolEmissLog) by
// hard count. It mirrors HMM::AdjustProbsToViterbi. InitLog is never
// touched here; this asymmetry with Baum-Welch is specified, not a
// bug.
func (m *Model) adjustToViterbi(bestPath []wdaglib.EdgeName) (bool, []int, error) {
	T := m.NTimepoints()
	N := m.NState

	transCounts := make([][]int, N)
	for i := range transCounts {
		transCounts[i] = make([]int, N)
	}
	var emissCounts [][]int
	if m.IsDiscrete() {
		emissCounts = make([][]int, N)
		for i := range emissCounts {
			emissCounts[i] = make([]int, m.NSymbol)
		}
	}
	stateCounts := make([]int, N)
	predicted := make([]int, 0, T)

	for _, e := range bestPath {
		switch e.Kind {
		case wdaglib.EdgeTrans:
			transCounts[e.I][e.J]++
		case wdaglib.EdgeEmit:
			stateCounts[e.I]++
			if m.IsDiscrete() {
				emissCounts[e.I][e.S]++
			}
			predicted = append(predicted, e.I)
		case wdaglib.EdgeStart, wdaglib.EdgeFinish:
			// Ignored for counts.
		}
	}

	if len(predicted) != T {
		return false, nil, &NumericError{Where: "adjustToViterbi: predicted state count"}
	}

	changed := false

	m.StateFreqs = make([]float64, N)
	for i := 0; i < N; i++ {
		m.StateFreqs[i] = float64(stateCounts[i]) / float64(T)
	}

	newTrans := make([][]float64, N)
	for i := 0; i < N; i++ {
		total := 0
		for _, c := range transCounts[i] {
			total += c
		}
		row := make([]float64, N)
		for j := 0; j < N; j++ {
			var p float64
			if total == 0 {
				p = -math.Log(float64(N))
			} else if transCounts[i][j] == 0 {
				p = wdaglib.LogZero
			} else {
				p = math.Log(float64(transCounts[i][j]) / float64(total))
			}
			row[j] = p
			if m.TransLog == nil || m.TransLog[i][j] != p {
				changed = true
			}
		}
		newTrans[i] = row
	}
	m.TransLog = newTrans

	if m.IsDiscrete() {
		newEmiss := make([][]float64, N)
		for i := 0; i < N; i++ {
			total := 0
			for _, c := range emissCounts[i] {
				total += c
			}
			row := make([]float64, m.NSymbol)
			for s := 0; s < m.NSymbol; s++ {
				var p float64
				if total == 0 {
					p = -math.Log(float64(m.NSymbol))
				} else if emissCounts[i][s] == 0 {
					p = wdaglib.LogZero
				} else {
					p = math.Log(float64(emissCounts[i][s]) / float64(total))
				}
				row[s] = p
				if m.SymbolEmissLog == nil || m.SymbolEmissLog[i][s] != p {
					changed = true
				}
			}
			newEmiss[i] = row
		}
		m.SymbolEmissLog = newEmiss
	}

	return changed, predicted, nil
}
