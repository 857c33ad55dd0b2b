// Package hmmlib holds a hidden Markov model's parameters in log space,
// unrolls them together with an observation sequence into a trellis
// (via wdaglib), and re-estimates them by Viterbi or Baum-Welch
// training.
package hmmlib

import (
	"math"

	"github.com/kshedden/hmmwdag/wdaglib"
	"gonum.org/v1/gonum/floats"
)

// probTol is the tolerance used when checking that a probability
// vector sums to 1.
const probTol = 1e-6

// Model holds the initial, transition, and emission distributions of
// a single hidden Markov model, in log space, along with the data
// needed to unroll it into a trellis. A Model with NSymbol == 0 is
// continuous: it consumes precomputed per-timepoint log-likelihoods
// rather than a discrete emission table and observation sequence.
type Model struct {
	NState  int
	NSymbol int

	InitLog        []float64
	TransLog       [][]float64
	SymbolEmissLog [][]float64
	Observations   []int
	TimeEmissLog   [][]float64 // [t][state], row-max normalized on load

	// StateFreqs is the real-valued (not log) frequency with which
	// each state appears in the most recent training run.
	StateFreqs []float64

	// RanViterbi and RanBaumWelch record whether the corresponding
	// training operation has ever run. The engine attaches no
	// contract to them; they exist purely for observability.
	RanViterbi   bool
	RanBaumWelch bool

	hasInit         bool
	hasTrans        bool
	hasSymbolEmiss  bool
	hasObservations bool
	hasTimeEmiss    bool
}

// NewDiscrete returns an unpopulated discrete model with nState
// hidden states and nSymbol observable symbols.
func NewDiscrete(nState, nSymbol int) *Model {
	if nState < 1 {
		panic("hmmlib: NState must be >= 1")
	}
	if nSymbol < 1 {
		panic("hmmlib: NSymbol must be >= 1 for a discrete model")
	}
	return &Model{NState: nState, NSymbol: nSymbol}
}

// NewContinuous returns an unpopulated continuous model with nState
// hidden states.
func NewContinuous(nState int) *Model {
	if nState < 1 {
		panic("hmmlib: NState must be >= 1")
	}
	return &Model{NState: nState, NSymbol: 0}
}

// IsDiscrete reports whether this model consumes a discrete emission
// table and observation sequence, as opposed to precomputed
// continuous log-likelihoods.
func (m *Model) IsDiscrete() bool { return m.NSymbol > 0 }

// HasAllData reports whether every parameter table this model's
// variant needs for training has been loaded.
func (m *Model) HasAllData() bool {
	if !m.hasInit || !m.hasTrans {
		return false
	}
	if m.IsDiscrete() {
		return m.hasSymbolEmiss && m.hasObservations
	}
	return m.hasTimeEmiss
}

// NTimepoints returns the number of timepoints in the loaded data.
// Panics if HasAllData is false.
func (m *Model) NTimepoints() int {
	if !m.HasAllData() {
		panic("hmmlib: NTimepoints called before all data is loaded")
	}
	if m.IsDiscrete() {
		return len(m.Observations)
	}
	return len(m.TimeEmissLog)
}

// assertProbVector validates that probs has the expected length, every
// entry lies in [0,1], and the entries sum to 1 within probTol.
func assertProbVector(probs []float64, want int) error {
	if len(probs) != want {
		return &ConfigurationError{Msg: "probability vector has wrong length"}
	}
	for _, p := range probs {
		if p < 0 || p > 1 {
			return &ConfigurationError{Msg: "probability vector entry outside [0,1]"}
		}
	}
	sum := floats.Sum(probs)
	if math.Abs(sum-1) > probTol {
		return &ConfigurationError{Msg: "probability vector does not sum to 1"}
	}
	return nil
}

// SetInit loads the initial-state distribution, converting it to log
// space.
func (m *Model) SetInit(probs []float64) error {
	if err := assertProbVector(probs, m.NState); err != nil {
		return err
	}
	m.InitLog = make([]float64, m.NState)
	for i, p := range probs {
		m.InitLog[i] = logOrZero(p)
	}
	m.hasInit = true
	return nil
}

// SetTrans loads the state transition matrix, converting it to log
// space. probs[i][j] is P(state j at t+1 | state i at t).
func (m *Model) SetTrans(probs [][]float64) error {
	if len(probs) != m.NState {
		return &ConfigurationError{Msg: "transition matrix has wrong number of rows"}
	}
	logTrans := make([][]float64, m.NState)
	for i, row := range probs {
		if err := assertProbVector(row, m.NState); err != nil {
			return err
		}
		logTrans[i] = make([]float64, m.NState)
		for j, p := range row {
			logTrans[i][j] = logOrZero(p)
		}
	}
	m.TransLog = logTrans
	m.hasTrans = true
	return nil
}

// SetSymbolEmiss loads the discrete emission matrix, converting it to
// log space. probs[i][s] is P(symbol s | state i). Only valid on a
// discrete model.
func (m *Model) SetSymbolEmiss(probs [][]float64) error {
	if !m.IsDiscrete() {
		return &ConfigurationError{Msg: "SetSymbolEmiss called on a continuous model"}
	}
	if len(probs) != m.NState {
		return &ConfigurationError{Msg: "emission matrix has wrong number of rows"}
	}
	logEmiss := make([][]float64, m.NState)
	for i, row := range probs {
		if err := assertProbVector(row, m.NSymbol); err != nil {
			return err
		}
		logEmiss[i] = make([]float64, m.NSymbol)
		for s, p := range row {
			logEmiss[i][s] = logOrZero(p)
		}
	}
	m.SymbolEmissLog = logEmiss
	m.hasSymbolEmiss = true
	return nil
}

// SetObservations loads the observed symbol sequence. Only valid on a
// discrete model. Every symbol must lie in [0, NSymbol).
func (m *Model) SetObservations(obs []int) error {
	if !m.IsDiscrete() {
		return &ConfigurationError{Msg: "SetObservations called on a continuous model"}
	}
	for _, s := range obs {
		if s < 0 || s >= m.NSymbol {
			return &DomainError{Msg: "observation symbol out of range"}
		}
	}
	m.Observations = append([]int(nil), obs...)
	m.hasObservations = true
	return nil
}

// SetTimeEmiss loads a T x NState matrix of per-timepoint,
// per-state log-likelihoods. Only valid on a continuous model. No
// entry may be LogZero. Each row is normalized by subtracting its
// row maximum, which does not change any posterior or best-path
// computation since a per-row additive constant cancels.
func (m *Model) SetTimeEmiss(logProbs [][]float64) error {
	if m.IsDiscrete() {
		return &ConfigurationError{Msg: "SetTimeEmiss called on a discrete model"}
	}
	if len(logProbs) == 0 {
		return &ConfigurationError{Msg: "time emission matrix is empty"}
	}

	normalized := make([][]float64, len(logProbs))
	for t, row := range logProbs {
		if len(row) != m.NState {
			return &ConfigurationError{Msg: "time emission row has wrong length"}
		}
		for _, v := range row {
			if v <= wdaglib.LogZero {
				return &DomainError{Msg: "time emission entry is LogZero"}
			}
		}
		normRow := append([]float64(nil), row...)
		floats.AddConst(-floats.Max(normRow), normRow)
		normalized[t] = normRow
	}

	m.TimeEmissLog = normalized
	m.hasTimeEmiss = true
	return nil
}

func logOrZero(p float64) float64 {
	if p == 0 {
		return wdaglib.LogZero
	}
	return math.Log(p)
}
