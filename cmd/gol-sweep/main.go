// Command gol-sweep checks that partitioned runs match the serial reference
// for every pattern, seed and worker count that divides the grid size.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"ringlife/internal/engine"
	"ringlife/internal/seed"
	"ringlife/pkg/sims/life"
)

type scenario struct {
	pattern string
	seed    int64
	workers int
}

func (s scenario) String() string {
	return fmt.Sprintf("pattern=%s seed=%d p=%d", s.pattern, s.seed, s.workers)
}

type scenarioResult struct {
	scenario scenario
	// diverged is the first generation that differs from serial, 0 if none.
	diverged    int
	generations int
	population  int
	elapsed     time.Duration
	err         error
}

func main() {
	n := flag.Int("n", 48, "grid side")
	gens := flag.Int("generations", 60, "generations per scenario")
	seeds := flag.Int("seeds", 3, "random seeds per worker count")
	patterns := flag.String("patterns", strings.Join(seed.Names(), ","), "comma-separated patterns")
	workers := flag.Int("workers", runtime.NumCPU(), "number of scenario goroutines")
	flag.Parse()

	sets := scenarios(*n, strings.Split(*patterns, ","), *seeds)
	fmt.Printf("Sweeping %d scenarios (%d workers, n=%d, %d generations)\n", len(sets), *workers, *n, *gens)

	start := time.Now()
	all := sweep(context.Background(), *n, *gens, sets, *workers)
	sort.Slice(all, func(i, j int) bool { return all[i].elapsed > all[j].elapsed })

	failed := 0
	for _, res := range all {
		switch {
		case res.err != nil:
			failed++
			fmt.Printf("ERROR    %s: %v\n", res.scenario, res.err)
		case res.diverged > 0:
			failed++
			fmt.Printf("MISMATCH %s: diverged at generation %d\n", res.scenario, res.diverged)
		}
	}

	fmt.Printf("\nSlowest 5 (elapsed %s):\n", time.Since(start).Round(time.Millisecond))
	for i := 0; i < len(all) && i < 5; i++ {
		res := all[i]
		fmt.Printf("%2d) %s gens=%d live=%d took=%s\n", i+1, res.scenario, res.generations, res.population, res.elapsed.Round(time.Microsecond))
	}
	if failed > 0 {
		fmt.Printf("\n%d of %d scenarios failed\n", failed, len(all))
		os.Exit(1)
	}
	fmt.Printf("\nAll %d scenarios match the serial reference\n", len(all))
}

// divisors returns every worker count that partitions n evenly.
func divisors(n int) []int {
	var out []int
	for p := 1; p <= n; p++ {
		if n%p == 0 {
			out = append(out, p)
		}
	}
	return out
}

func scenarios(n int, patterns []string, seeds int) []scenario {
	var sets []scenario
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		count := 1
		if pattern == "random" {
			count = max(seeds, 1)
		}
		for s := 0; s < count; s++ {
			for _, p := range divisors(n) {
				sets = append(sets, scenario{pattern: pattern, seed: int64(s + 1), workers: p})
			}
		}
	}
	return sets
}

func sweep(ctx context.Context, n, gens int, sets []scenario, workers int) []scenarioResult {
	jobs := make(chan scenario)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < max(workers, 1); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sc := range jobs {
				results <- runScenario(ctx, n, gens, sc)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, sc := range sets {
			jobs <- sc
		}
		close(jobs)
	}()

	var all []scenarioResult
	for res := range results {
		all = append(all, res)
	}
	return all
}

func runScenario(ctx context.Context, n, gens int, sc scenario) scenarioResult {
	res := scenarioResult{scenario: sc}
	initial, err := seed.Build(sc.pattern, n, sc.seed)
	if err != nil {
		res.err = err
		return res
	}
	ref, err := life.New(initial)
	if err != nil {
		res.err = err
		return res
	}
	cfg := engine.Config{Size: n, Workers: sc.workers, Generations: gens}
	start := time.Now()
	cluster, err := engine.NewCluster(ctx, cfg, initial)
	if err != nil {
		res.err = err
		return res
	}
	for g := 1; g <= gens; g++ {
		changed, err := cluster.Step(ctx)
		if err != nil {
			res.err = err
			break
		}
		refChanged := ref.Advance()
		res.generations = g
		if changed != refChanged || !cluster.Snapshot().Equal(ref.Snapshot()) {
			res.diverged = g
			break
		}
	}
	res.elapsed = time.Since(start)
	res.population, _, _ = cluster.Snapshot().Population()
	return res
}
