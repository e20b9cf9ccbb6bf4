// Command routeopt is a batch driver for the waste-pickup routing
// optimiser: it reads a problem description from a JSON file, runs the
// explore and greedy optimisation phases, and writes the winning routes
// back out as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/hamk-uas/logistics-sim/config"
	"github.com/hamk-uas/logistics-sim/driver"
)

// problemFile mirrors the on-disk encoding of a driver.ProblemInput.
type problemFile struct {
	Sites []struct {
		Capacity   float64 `json:"capacity"`
		Level      float64 `json:"level"`
		GrowthRate float64 `json:"growth_rate"`
		LocationID int     `json:"location_index"`
	} `json:"pickup_sites"`
	Depots []struct {
		LocationID int `json:"location_index"`
	} `json:"depots"`
	Terminals []struct {
		LocationID int `json:"location_index"`
	} `json:"terminals"`
	Vehicles []struct {
		LoadCapacity    float64 `json:"load_capacity"`
		HomeDepotIndex  int     `json:"home_depot_index"`
		MaxRouteMinutes int     `json:"max_route_duration"`
	} `json:"vehicles"`
	DistanceMatrix [][]float64 `json:"distance_matrix"`
	DurationMatrix [][]float64 `json:"duration_matrix"`
}

func loadProblem(path string) (driver.ProblemInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return driver.ProblemInput{}, fmt.Errorf("open problem file: %w", err)
	}
	defer f.Close()

	var pf problemFile
	if err := json.NewDecoder(f).Decode(&pf); err != nil {
		return driver.ProblemInput{}, fmt.Errorf("decode problem: %w", err)
	}

	in := driver.ProblemInput{
		DistanceMatrix: pf.DistanceMatrix,
		DurationMatrix: pf.DurationMatrix,
	}
	for _, s := range pf.Sites {
		in.Sites = append(in.Sites, driver.SiteInput{
			Capacity:   s.Capacity,
			Level:      s.Level,
			GrowthRate: s.GrowthRate,
			LocationID: s.LocationID,
		})
	}
	for _, d := range pf.Depots {
		in.Depots = append(in.Depots, driver.LocationInput{LocationID: d.LocationID})
	}
	for _, term := range pf.Terminals {
		in.Terminals = append(in.Terminals, driver.LocationInput{LocationID: term.LocationID})
	}
	for _, v := range pf.Vehicles {
		in.Vehicles = append(in.Vehicles, driver.VehicleInput{
			LoadCapacity:    v.LoadCapacity,
			HomeDepotIndex:  v.HomeDepotIndex,
			MaxRouteMinutes: v.MaxRouteMinutes,
		})
	}
	return in, nil
}

// resultFile mirrors the on-disk encoding of a driver.Result.
type resultFile struct {
	Routes [][][]int `json:"routes"`
	Cost   float64   `json:"cost"`
}

func writeResult(w io.Writer, result driver.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resultFile{Routes: result.Routes, Cost: result.Cost})
}

func run() error {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		return err
	}

	in, err := loadProblem(cfg.InputPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opt := driver.RunOptions{
		Seed:               cfg.Seed,
		Workers:            cfg.Workers,
		ExploreGenerations: cfg.ExploreGenerations,
		GreedyGenerations:  cfg.GreedyGenerations,
		SampleEvery:        cfg.SampleEvery,
		Progress: func(generation int, bestCost float64) {
			log.Printf("generation %d best_cost %.4f", generation, bestCost)
		},
	}

	result, err := driver.Solve(ctx, in, opt)
	if err != nil {
		return fmt.Errorf("solve: %w", err)
	}

	if cfg.OutputPath == "" {
		return writeResult(os.Stdout, result)
	}
	out, err := os.Create(cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer out.Close()
	return writeResult(out, result)
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
