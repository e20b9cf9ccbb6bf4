// Package config parses the command-line flags of the routeopt batch
// driver, in the flag.FlagSet style used throughout the retrieved corpus's
// own command entry points.
package config

import (
	"flag"
	"fmt"
)

// Config holds the batch-driver's tunable parameters. Defaults follow the
// standard generation schedule: 40000 explore generations followed by
// 20000 greedy generations, sampled every 100 generations.
type Config struct {
	InputPath  string
	OutputPath string

	Seed    int64
	Workers int

	ExploreGenerations int
	GreedyGenerations  int
	SampleEvery        int
}

// Parse builds a Config from args (typically os.Args[1:]).
func Parse(args []string) (Config, error) {
	fs := flag.NewFlagSet("routeopt", flag.ContinueOnError)

	input := fs.String("input", "", "path to the problem JSON file")
	output := fs.String("output", "", "path to write the result JSON file (stdout if empty)")
	seed := fs.Int64("seed", 1, "base PRNG seed")
	workers := fs.Int("workers", 0, "worker thread count (0 = GOMAXPROCS)")
	explore := fs.Int("explore_generations", 40000, "number of explore-phase generations")
	greedy := fs.Int("greedy_generations", 20000, "number of greedy-phase generations")
	sampleEvery := fs.Int("sample_every", 100, "diagnostic sampling cadence, in generations")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if *input == "" {
		return Config{}, fmt.Errorf("config: -input is required")
	}

	return Config{
		InputPath:          *input,
		OutputPath:         *output,
		Seed:               *seed,
		Workers:            *workers,
		ExploreGenerations: *explore,
		GreedyGenerations:  *greedy,
		SampleEvery:        *sampleEvery,
	}, nil
}
