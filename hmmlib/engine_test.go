package hmmlib

import (
	"math"
	"testing"
)

const eps = 1e-6

func checkRowsSumToOne(t *testing.T, name string, logRows [][]float64) {
	t.Helper()
	for i, row := range logRows {
		var sum float64
		for _, v := range row {
			sum += math.Exp(v)
		}
		if math.Abs(sum-1) > eps {
			t.Errorf("%s row %d sums to %v, want 1", name, i, sum)
		}
	}
}

// S1: fair/biased coin, discrete, two states, two symbols.
func TestScenarioS1FairBiasedCoin(t *testing.T) {
	m := NewDiscrete(2, 2)
	mustLoadFairBiasedCoin(t, m)

	changed, llBits, err := m.BaumWelchTraining()
	if err != nil {
		t.Fatalf("BaumWelchTraining: %v", err)
	}
	if math.IsNaN(llBits) || math.IsInf(llBits, 0) {
		t.Fatalf("log-likelihood is not finite: %v", llBits)
	}
	_ = changed

	checkRowsSumToOne(t, "TransLog", m.TransLog)
	checkRowsSumToOne(t, "SymbolEmissLog", m.SymbolEmissLog)
	var initSum float64
	for _, v := range m.InitLog {
		initSum += math.Exp(v)
	}
	if math.Abs(initSum-1) > eps {
		t.Errorf("InitLog sums to %v, want 1", initSum)
	}

	m2 := NewDiscrete(2, 2)
	mustLoadFairBiasedCoin(t, m2)
	_, predicted, err := m2.ViterbiTraining()
	if err != nil {
		t.Fatalf("ViterbiTraining: %v", err)
	}
	if len(predicted) != 10 {
		t.Fatalf("len(predicted) = %d, want 10", len(predicted))
	}

	// The run of 1s (indices 2..6 and 8..9) should predominantly sit
	// in state 1 (the tail-biased state).
	runIdx := []int{2, 3, 4, 5, 6, 8, 9}
	var inState1 int
	for _, i := range runIdx {
		if predicted[i] == 1 {
			inState1++
		}
	}
	if 2*inState1 <= len(runIdx) {
		t.Errorf("expected most of the run of 1s to be decoded as state 1, got %d/%d", inState1, len(runIdx))
	}
}

// S2: degenerate start must not spuriously raise NoPath.
func TestScenarioS2DegenerateStart(t *testing.T) {
	m := NewDiscrete(2, 2)
	if err := m.SetInit([]float64{1, 0}); err != nil {
		t.Fatalf("SetInit: %v", err)
	}
	if err := m.SetTrans([][]float64{{0.9, 0.1}, {0.1, 0.9}}); err != nil {
		t.Fatalf("SetTrans: %v", err)
	}
	if err := m.SetSymbolEmiss([][]float64{{0.5, 0.5}, {0.1, 0.9}}); err != nil {
		t.Fatalf("SetSymbolEmiss: %v", err)
	}
	if err := m.SetObservations([]int{0, 1, 0, 1}); err != nil {
		t.Fatalf("SetObservations: %v", err)
	}

	_, predicted, err := m.ViterbiTraining()
	if err != nil {
		t.Fatalf("ViterbiTraining: %v", err)
	}
	if predicted[0] != 0 {
		t.Errorf("best path should start in state 0, got %d", predicted[0])
	}
}

// S3: forbidden trajectory must raise NoPath.
func TestScenarioS3ForbiddenTrajectory(t *testing.T) {
	m := NewDiscrete(2, 2)
	if err := m.SetInit([]float64{0.5, 0.5}); err != nil {
		t.Fatalf("SetInit: %v", err)
	}
	if err := m.SetTrans([][]float64{{1, 0}, {0, 1}}); err != nil {
		t.Fatalf("SetTrans: %v", err)
	}
	// State 0 can never emit symbol 1.
	if err := m.SetSymbolEmiss([][]float64{{1, 0}, {0, 1}}); err != nil {
		t.Fatalf("SetSymbolEmiss: %v", err)
	}
	// Observing a 1 first rules out starting in state 0. Starting in
	// state 1 is absorbing, and state 1 can never emit the 0 that
	// follows, so no trajectory explains the observations.
	if err := m.SetObservations([]int{1, 0}); err != nil {
		t.Fatalf("SetObservations: %v", err)
	}

	_, _, err := m.ViterbiTraining()
	if err == nil {
		t.Fatal("expected NoPath error")
	}
}

// S4: continuous model, shift invariance of Baum-Welch under a
// per-timepoint additive constant to time emissions.
func TestScenarioS4ShiftInvariance(t *testing.T) {
	build := func() *Model {
		m := NewContinuous(2)
		if err := m.SetInit([]float64{0.5, 0.5}); err != nil {
			t.Fatalf("SetInit: %v", err)
		}
		if err := m.SetTrans([][]float64{{0.7, 0.3}, {0.4, 0.6}}); err != nil {
			t.Fatalf("SetTrans: %v", err)
		}
		rows := [][]float64{
			{-0.5, -2.1}, {-1.2, -0.8}, {-0.3, -1.9}, {-2.0, -0.1}, {-1.0, -1.0},
		}
		if err := m.SetTimeEmiss(rows); err != nil {
			t.Fatalf("SetTimeEmiss: %v", err)
		}
		return m
	}

	m1 := build()
	_, _, err := m1.BaumWelchTraining()
	if err != nil {
		t.Fatalf("BaumWelchTraining: %v", err)
	}

	m2 := build()
	for j := range m2.TimeEmissLog[2] {
		m2.TimeEmissLog[2][j] += 1000
	}
	_, _, err = m2.BaumWelchTraining()
	if err != nil {
		t.Fatalf("BaumWelchTraining: %v", err)
	}

	for i := range m1.InitLog {
		if math.Abs(m1.InitLog[i]-m2.InitLog[i]) > 1e-9 {
			t.Errorf("InitLog[%d] differs: %v vs %v", i, m1.InitLog[i], m2.InitLog[i])
		}
	}
	for i := range m1.TransLog {
		for j := range m1.TransLog[i] {
			if math.Abs(m1.TransLog[i][j]-m2.TransLog[i][j]) > 1e-9 {
				t.Errorf("TransLog[%d][%d] differs: %v vs %v", i, j, m1.TransLog[i][j], m2.TransLog[i][j])
			}
		}
	}
	for i := range m1.StateFreqs {
		if math.Abs(m1.StateFreqs[i]-m2.StateFreqs[i]) > 1e-9 {
			t.Errorf("StateFreqs[%d] differs: %v vs %v", i, m1.StateFreqs[i], m2.StateFreqs[i])
		}
	}
}

// S5: idempotence of convergence.
func TestScenarioS5Idempotence(t *testing.T) {
	m := NewDiscrete(2, 2)
	mustLoadFairBiasedCoin(t, m)

	var lastLL float64
	for i := 0; i < 200; i++ {
		changed, ll, err := m.BaumWelchTraining()
		if err != nil {
			t.Fatalf("BaumWelchTraining: %v", err)
		}
		lastLL = ll
		if !changed {
			break
		}
	}

	changed, ll, err := m.BaumWelchTraining()
	if err != nil {
		t.Fatalf("BaumWelchTraining: %v", err)
	}
	if changed {
		t.Error("expected changed=false once converged")
	}
	if math.Abs(ll-lastLL) > 1e-9 {
		t.Errorf("log-likelihood moved after convergence: %v vs %v", ll, lastLL)
	}
}

// S6: pseudocount fallback for a never-visited state.
func TestScenarioS6PseudocountFallback(t *testing.T) {
	m := NewDiscrete(2, 2)
	// The chain must start in state 0, both states emit every symbol
	// with the same probability, and the transition structure keeps
	// the chain in state 0 for every observation, so the Viterbi path
	// never visits state 1.
	if err := m.SetInit([]float64{1, 0}); err != nil {
		t.Fatalf("SetInit: %v", err)
	}
	if err := m.SetTrans([][]float64{{0.99, 0.01}, {0.01, 0.99}}); err != nil {
		t.Fatalf("SetTrans: %v", err)
	}
	if err := m.SetSymbolEmiss([][]float64{{0.5, 0.5}, {0.5, 0.5}}); err != nil {
		t.Fatalf("SetSymbolEmiss: %v", err)
	}
	if err := m.SetObservations([]int{0, 1, 0, 1, 0}); err != nil {
		t.Fatalf("SetObservations: %v", err)
	}

	_, predicted, err := m.ViterbiTraining()
	if err != nil {
		t.Fatalf("ViterbiTraining: %v", err)
	}
	for _, s := range predicted {
		if s == 1 {
			t.Skip("state 1 was visited on the best path; fallback scenario requires a different setup")
		}
	}

	want := -math.Log(2)
	for j, v := range m.TransLog[1] {
		if v != want {
			t.Errorf("TransLog[1][%d] = %v, want exactly %v", j, v, want)
		}
	}
}

// Property 2: trellis size.
func TestTrellisSize(t *testing.T) {
	m := NewDiscrete(2, 2)
	mustLoadFairBiasedCoin(t, m)
	g := m.ToWDAG()
	want := 2*m.NState*m.NTimepoints() + 2
	if g.NNodes() != want {
		t.Errorf("NNodes() = %d, want %d", g.NNodes(), want)
	}
}

// Property 3 (layer form): for every timepoint, summing fw+bw across
// the states at that layer recovers alpha. See wdaglib's
// TestFindPosteriorProbsConsistency for the node-level form of this
// identity, which only holds unconditionally at the required
// start/end nodes.
func TestForwardBackwardLayerConsistency(t *testing.T) {
	m := NewDiscrete(2, 2)
	mustLoadFairBiasedCoin(t, m)

	g := m.ToWDAG()
	if err := g.FindPosteriorProbs(); err != nil {
		t.Fatalf("FindPosteriorProbs: %v", err)
	}
	alpha := g.Alpha()

	T := m.NTimepoints()
	N := m.NState
	// Node ids: 0 is start; for each t, N nodes for A_t then N for B_t.
	for tp := 0; tp < T; tp++ {
		base := 1 + 2*N*tp
		var sum float64
		for i := 0; i < N; i++ {
			id := base + i // A_t[i]
			sum += math.Exp(g.Fw(id) + g.Bw(id) - alpha)
		}
		if math.Abs(sum-1) > eps {
			t.Errorf("timepoint %d: layer posterior sums to %v, want 1", tp, sum)
		}
	}
}

// Property 4: likelihood monotonicity across Baum-Welch iterations.
func TestLikelihoodMonotonicity(t *testing.T) {
	m := NewDiscrete(2, 2)
	mustLoadFairBiasedCoin(t, m)

	var last float64
	for i := 0; i < 50; i++ {
		_, ll, err := m.BaumWelchTraining()
		if err != nil {
			t.Fatalf("BaumWelchTraining: %v", err)
		}
		if i > 0 && ll < last-1e-8 {
			t.Errorf("iteration %d: log-likelihood decreased from %v to %v", i, last, ll)
		}
		last = ll
	}
}

// Property 5: Viterbi path length and range.
func TestViterbiPathLengthAndRange(t *testing.T) {
	m := NewDiscrete(2, 2)
	mustLoadFairBiasedCoin(t, m)

	_, predicted, err := m.ViterbiTraining()
	if err != nil {
		t.Fatalf("ViterbiTraining: %v", err)
	}
	if len(predicted) != m.NTimepoints() {
		t.Fatalf("len(predicted) = %d, want %d", len(predicted), m.NTimepoints())
	}
	for _, s := range predicted {
		if s < 0 || s >= m.NState {
			t.Errorf("predicted state %d out of range [0,%d)", s, m.NState)
		}
	}
}
