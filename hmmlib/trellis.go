package hmmlib

import "github.com/kshedden/hmmwdag/wdaglib"

// ToWDAG unrolls the model's current parameters and loaded data into
// a trellis with exactly 2*NState*T + 2 nodes, where T is the number
// of timepoints. This mirrors HMM::to_WDAG in the original engine:
//
//	S i   - start to A_0[i], weight InitLog[i]
//	T i j - B_{t-1}[i] to A_t[j], weight TransLog[i][j]
//	E i s - A_t[i] to B_t[i], weight SymbolEmissLog[i][obs] or TimeEmissLog[t][i]
//	F     - B_{T-1}[i] to end, weight 0
//
// Panics if HasAllData is false; that is a programmer error, not one
// of the four error kinds training can raise.
func (m *Model) ToWDAG() *wdaglib.WDAG {
	if !m.HasAllData() {
		panic("hmmlib: ToWDAG called before all data is loaded")
	}

	T := m.NTimepoints()
	N := m.NState

	g := wdaglib.New(2*N*T + 2)

	start := g.AddNode()
	g.SetRequiredStart(start)

	stateA := make([]int, N) // "reached state i" nodes for the current timepoint
	stateB := make([]int, N) // "emitted symbol" nodes for the current timepoint
	prevB := make([]int, N)

	for t := 0; t < T; t++ {
		for i := 0; i < N; i++ {
			stateA[i] = g.AddNode()
			if t == 0 {
				g.AddEdge(stateA[i], start, wdaglib.Start(i), m.InitLog[i])
			} else {
				for iPrev := 0; iPrev < N; iPrev++ {
					g.AddEdge(stateA[i], prevB[iPrev], wdaglib.Trans(iPrev, i), m.TransLog[iPrev][i])
				}
			}
		}

		for i := 0; i < N; i++ {
			var obs int
			var weight float64
			if m.IsDiscrete() {
				obs = m.Observations[t]
				weight = m.SymbolEmissLog[i][obs]
			} else {
				obs = -1
				weight = m.TimeEmissLog[t][i]
			}

			stateB[i] = g.AddNode()
			g.AddEdge(stateB[i], stateA[i], wdaglib.Emit(i, obs), weight)
		}

		copy(prevB, stateB)
	}

	end := g.AddNode()
	for i := 0; i < N; i++ {
		g.AddEdge(end, stateB[i], wdaglib.Finish, 0)
	}
	g.SetRequiredEnd(end)

	return g
}
