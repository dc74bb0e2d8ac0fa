// rosterctl is the batch CLI driver: it reads a roster.Input as JSON
// from stdin (or a file given as the first argument), runs the
// engine, and writes the roster.Result as JSON to stdout. Exit code
// follows status: 0 on Optimal/Feasible, 2 on Infeasible/Unknown, 1
// on Error or a usage/parse failure.
package main

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"os"

	"github.com/bruno.lopes/dutyroster/backend/internal/engine"
	"github.com/bruno.lopes/dutyroster/backend/internal/roster"
)

func main() {
	os.Exit(run())
}

func run() int {
	input, err := readInput()
	if err != nil {
		log.Printf("rosterctl: %v", err)
		return 1
	}

	var in roster.Input
	if err := json.Unmarshal(input, &in); err != nil {
		log.Printf("rosterctl: invalid input JSON: %v", err)
		return 1
	}

	eng := engine.New()
	result, err := eng.Solve(context.Background(), in)
	if err != nil {
		log.Printf("rosterctl: %v", err)
		if result.Status == "" {
			result.Status = roster.StatusError
		}
		encodeResult(result)
		return 1
	}

	if encodeErr := encodeResult(result); encodeErr != nil {
		log.Printf("rosterctl: failed to encode result: %v", encodeErr)
		return 1
	}

	return exitCodeFor(result.Status)
}

func readInput() ([]byte, error) {
	if len(os.Args) > 1 {
		return os.ReadFile(os.Args[1])
	}
	return io.ReadAll(os.Stdin)
}

func encodeResult(result roster.Result) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func exitCodeFor(status roster.Status) int {
	switch status {
	case roster.StatusOptimal, roster.StatusFeasible:
		return 0
	case roster.StatusInfeasible, roster.StatusUnknown:
		return 2
	default:
		return 1
	}
}
