package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/kshedden/hmmwdag/hmmlib"
)

func randRow(n int) []float64 {
	row := make([]float64, n)
	var sum float64
	for i := range row {
		row[i] = rand.Float64() + 0.1
		sum += row[i]
	}
	for i := range row {
		row[i] /= sum
	}
	return row
}

func randStochasticMatrix(nRow, nCol int) [][]float64 {
	rows := make([][]float64, nRow)
	for i := range rows {
		rows[i] = randRow(nCol)
	}
	return rows
}

func expRow(logRow []float64) []float64 {
	row := make([]float64, len(logRow))
	for i, v := range logRow {
		if v <= -1e19 {
			continue
		}
		row[i] = math.Exp(v)
	}
	return row
}

func draw(probs []float64) int {
	u := rand.Float64()
	var cum float64
	for i, p := range probs {
		cum += p
		if u <= cum {
			return i
		}
	}
	return len(probs) - 1
}

// simulate draws a state and observation sequence from m's discrete
// parameters by forward sampling, mirroring HMM::GenStatesSingle and
// HMM::GenObsSingle in the original engine.
func simulate(m *hmmlib.Model, nTime int) (states, obs []int) {
	states = make([]int, nTime)
	obs = make([]int, nTime)

	states[0] = draw(expRow(m.InitLog))
	for t := 1; t < nTime; t++ {
		states[t] = draw(expRow(m.TransLog[states[t-1]]))
	}
	for t := 0; t < nTime; t++ {
		obs[t] = draw(expRow(m.SymbolEmissLog[states[t]]))
	}
	return states, obs
}

func main() {
	var outname string
	flag.StringVar(&outname, "outname", "", "Output gob file name")

	var nState, nSymbol, nTime int
	flag.IntVar(&nState, "nstate", 2, "Number of hidden states")
	flag.IntVar(&nSymbol, "nsymbol", 2, "Number of observation symbols")
	flag.IntVar(&nTime, "ntime", 100, "Number of time points")

	var seed int64
	flag.Int64Var(&seed, "seed", 0, "Random seed, 0 selects a time-based seed")
	flag.Parse()

	if outname == "" {
		fmt.Fprintln(os.Stderr, "'outname' is a required argument")
		os.Exit(1)
	}

	if seed == 0 {
		seed = time.Now().UTC().UnixNano()
	}
	rand.Seed(seed)

	m := hmmlib.NewDiscrete(nState, nSymbol)
	if err := m.SetInit(randRow(nState)); err != nil {
		panic(err)
	}
	if err := m.SetTrans(randStochasticMatrix(nState, nState)); err != nil {
		panic(err)
	}
	if err := m.SetSymbolEmiss(randStochasticMatrix(nState, nSymbol)); err != nil {
		panic(err)
	}

	_, obs := simulate(m, nTime)
	if err := m.SetObservations(obs); err != nil {
		panic(err)
	}

	if err := hmmlib.SaveModel(outname, m); err != nil {
		panic(err)
	}

	fmt.Printf("Wrote %d timepoints, %d states, %d symbols to %s (seed=%d)\n",
		nTime, nState, nSymbol, outname, seed)
}
