package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/kshedden/hmmwdag/hmmlib"
	"github.com/kshedden/hmmwdag/wdaglib"
)

func main() {
	gobname := flag.String("gobfile", "", "The model+data file written by generate")
	method := flag.String("method", "baumwelch", "Training method: baumwelch or viterbi")
	maxiter := flag.Int("maxiter", 100, "Maximum number of training iterations")
	renderCenter := flag.Int("rendercenter", -1, "If >= 0, render a trellis window centered here to stdout")
	renderDepth := flag.Int("renderdepth", 2, "Half-width of the rendered trellis window")
	flag.Parse()

	logger := log.New(os.Stderr, "estimate: ", log.LstdFlags)

	if *gobname == "" {
		_, _ = io.WriteString(os.Stderr, "'gobfile' is a required argument\n")
		os.Exit(1)
	}

	m, err := hmmlib.LoadModel(*gobname)
	if err != nil {
		logger.Fatalf("LoadModel: %v", err)
	}

	m.WriteSummary(os.Stdout, "Starting values:", nil)

	var finalLL float64
	iter := 0
	for ; iter < *maxiter; iter++ {
		var changed bool
		var trainErr error

		switch *method {
		case "baumwelch":
			changed, finalLL, trainErr = m.BaumWelchTraining()
		case "viterbi":
			changed, _, trainErr = m.ViterbiTraining()
		default:
			logger.Fatalf("unknown method %q", *method)
		}

		if trainErr != nil {
			var noPath *wdaglib.NoPath
			if errors.As(trainErr, &noPath) {
				logger.Fatalf("no viable path through the trellis: %v", trainErr)
			}
			logger.Fatalf("training failed: %v", trainErr)
		}

		if !changed {
			logger.Printf("converged after %d iterations", iter+1)
			break
		}
	}
	if iter == *maxiter {
		logger.Printf("stopped after reaching maxiter=%d without converging", *maxiter)
	}

	m.WriteSummary(os.Stdout, "Estimated parameters:", nil)
	if *method == "baumwelch" {
		fmt.Printf("Final log-likelihood (bits): %f\n", finalLL)
	}

	if *renderCenter >= 0 {
		if err := m.RenderWindow(os.Stdout, *renderCenter, *renderDepth); err != nil {
			logger.Fatalf("RenderWindow: %v", err)
		}
	}
}
