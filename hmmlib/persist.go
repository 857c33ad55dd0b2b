package hmmlib

import (
	"compress/gzip"
	"encoding/gob"
	"os"
)

// snapshot is the gob-encoded form of a Model. Readiness flags are
// not persisted; LoadModel recomputes them from which tables are
// non-nil.
type snapshot struct {
	NState  int
	NSymbol int

	InitLog        []float64
	TransLog       [][]float64
	SymbolEmissLog [][]float64
	Observations   []int
	TimeEmissLog   [][]float64

	StateFreqs []float64

	RanViterbi   bool
	RanBaumWelch bool
}

// SaveModel gzip-compresses a gob encoding of m and writes it to
// fname, mirroring the teacher's ReadHMM gzip+gob convention.
func SaveModel(fname string, m *Model) error {
	fid, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer fid.Close()

	gid := gzip.NewWriter(fid)
	defer gid.Close()

	snap := snapshot{
		NState:         m.NState,
		NSymbol:        m.NSymbol,
		InitLog:        m.InitLog,
		TransLog:       m.TransLog,
		SymbolEmissLog: m.SymbolEmissLog,
		Observations:   m.Observations,
		TimeEmissLog:   m.TimeEmissLog,
		StateFreqs:     m.StateFreqs,
		RanViterbi:     m.RanViterbi,
		RanBaumWelch:   m.RanBaumWelch,
	}

	return gob.NewEncoder(gid).Encode(&snap)
}

// LoadModel reads a gzip-compressed gob file written by SaveModel and
// reconstructs its readiness flags from which tables are present.
func LoadModel(fname string) (*Model, error) {
	fid, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fid.Close()

	gid, err := gzip.NewReader(fid)
	if err != nil {
		return nil, err
	}
	defer gid.Close()

	var snap snapshot
	if err := gob.NewDecoder(gid).Decode(&snap); err != nil {
		return nil, err
	}

	m := &Model{
		NState:         snap.NState,
		NSymbol:        snap.NSymbol,
		InitLog:        snap.InitLog,
		TransLog:       snap.TransLog,
		SymbolEmissLog: snap.SymbolEmissLog,
		Observations:   snap.Observations,
		TimeEmissLog:   snap.TimeEmissLog,
		StateFreqs:     snap.StateFreqs,
		RanViterbi:     snap.RanViterbi,
		RanBaumWelch:   snap.RanBaumWelch,
	}
	m.hasInit = m.InitLog != nil
	m.hasTrans = m.TransLog != nil
	m.hasSymbolEmiss = m.SymbolEmissLog != nil
	m.hasObservations = m.Observations != nil
	m.hasTimeEmiss = m.TimeEmissLog != nil

	return m, nil
}
