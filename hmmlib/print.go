package hmmlib

import (
	"fmt"
	"io"
	"math"
)

// WriteSummary prints the model's parameters, converted back to real
// probability space, to w. labels, if non-nil, names the states and
// must have length NState. This mirrors HMM::Print / the teacher's
// WriteSummary+writeMatrix; it is a diagnostic collaborator, never
// consulted by training or decoding.
func (m *Model) WriteSummary(w io.Writer, title string, labels []string) {
	fmt.Fprintf(w, "%s\n", title)

	fmt.Fprintf(w, "%d states\n", m.NState)
	if m.IsDiscrete() {
		fmt.Fprintf(w, "discrete model, %d symbols\n", m.NSymbol)
	} else {
		fmt.Fprintf(w, "continuous model\n")
	}

	fmt.Fprintf(w, "\nInitial state probabilities:\n")
	if m.hasInit {
		writeRow(w, expRow(m.InitLog), labels)
	} else {
		fmt.Fprintf(w, "\tNOT LOADED\n")
	}

	fmt.Fprintf(w, "\nTransition matrix:\n")
	if m.hasTrans {
		writeHeader(w, labels)
		for i, row := range m.TransLog {
			writeLabeledRow(w, rowLabel(labels, i), expRow(row))
		}
	} else {
		fmt.Fprintf(w, "\tNOT LOADED\n")
	}

	if m.IsDiscrete() {
		fmt.Fprintf(w, "\nSymbol emission probabilities:\n")
		if m.hasSymbolEmiss {
			for i, row := range m.SymbolEmissLog {
				writeLabeledRow(w, rowLabel(labels, i), expRow(row))
			}
		} else {
			fmt.Fprintf(w, "\tNOT LOADED\n")
		}
	}

	if m.StateFreqs != nil {
		fmt.Fprintf(w, "\nState frequencies:\n")
		writeRow(w, m.StateFreqs, labels)
	}

	fmt.Fprintf(w, "\n")
}

func expRow(logRow []float64) []float64 {
	row := make([]float64, len(logRow))
	for i, v := range logRow {
		row[i] = math.Exp(v)
	}
	return row
}

func rowLabel(labels []string, i int) string {
	if labels != nil && i < len(labels) {
		return labels[i]
	}
	return fmt.Sprintf("S%d", i)
}

func writeHeader(w io.Writer, labels []string) {
	if labels == nil {
		return
	}
	for _, l := range labels {
		fmt.Fprintf(w, "\t%s", l)
	}
	fmt.Fprintf(w, "\n")
}

func writeRow(w io.Writer, row []float64, labels []string) {
	for _, v := range row {
		fmt.Fprintf(w, "\t%.5f", v)
	}
	fmt.Fprintf(w, "\n")
}

func writeLabeledRow(w io.Writer, label string, row []float64) {
	fmt.Fprintf(w, "%s", label)
	for _, v := range row {
		fmt.Fprintf(w, "\t%.5f", v)
	}
	fmt.Fprintf(w, "\n")
}
