package hmmlib

import "math"

// ViterbiTraining builds a fresh trellis from the current parameters
// and loaded data, finds its best path, and re-estimates TransLog
// (and, for discrete models, SymbolEmissLog) from hard counts along
// that path. It returns whether any parameter changed and the
// predicted hidden state at each timepoint.
//
// Panics if HasAllData is false. Returns a *wdaglib.NoPath error if
// the current parameters forbid every trajectory consistent with the
// loaded observations.
func (m *Model) ViterbiTraining() (bool, []int, error) {
	if !m.HasAllData() {
		panic("hmmlib: ViterbiTraining called before all data is loaded")
	}

	g := m.ToWDAG()

	bestPath, err := g.FindBestPath()
	if err != nil {
		return false, nil, err
	}

	changed, predicted, err := m.adjustToViterbi(bestPath)
	if err != nil {
		return false, nil, err
	}

	m.RanViterbi = true
	return changed, predicted, nil
}

// BaumWelchTraining builds a fresh trellis from the current
// parameters and loaded data, computes forward and backward
// log-mass over it, and re-estimates InitLog, TransLog, and (for
// discrete models) SymbolEmissLog from posterior-weighted soft
// counts. It returns whether any parameter changed and the total
// log-likelihood of the trellis, in bits.
//
// Panics if HasAllData is false.
func (m *Model) BaumWelchTraining() (bool, float64, error) {
	if !m.HasAllData() {
		panic("hmmlib: BaumWelchTraining called before all data is loaded")
	}

	g := m.ToWDAG()

	if err := g.FindPosteriorProbs(); err != nil {
		return false, 0, err
	}

	changed, err := m.adjustToBaumWelch(g)
	if err != nil {
		return false, 0, err
	}

	m.RanBaumWelch = true
	logLikeBits := g.Alpha() / math.Ln2
	return changed, logLikeBits, nil
}
