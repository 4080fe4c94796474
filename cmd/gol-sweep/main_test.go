package main

import (
	"context"
	"slices"
	"testing"
)

func TestDivisors(t *testing.T) {
	if got := divisors(12); !slices.Equal(got, []int{1, 2, 3, 4, 6, 12}) {
		t.Fatalf("divisors(12) = %v", got)
	}
}

func TestScenariosExpandRandomSeeds(t *testing.T) {
	sets := scenarios(4, []string{"glider", " random ", ""}, 2)
	// glider: 3 divisors; random: 2 seeds × 3 divisors
	if len(sets) != 9 {
		t.Fatalf("got %d scenarios, want 9", len(sets))
	}
	if sets[3].pattern != "random" || sets[3].seed != 1 || sets[8].seed != 2 {
		t.Fatalf("unexpected expansion: %v", sets)
	}
}

func TestSweepFindsNoMismatch(t *testing.T) {
	sets := scenarios(12, []string{"small-exploder", "random", "dummy"}, 2)
	all := sweep(context.Background(), 12, 15, sets, 4)
	if len(all) != len(sets) {
		t.Fatalf("got %d results for %d scenarios", len(all), len(sets))
	}
	for _, res := range all {
		if res.err != nil || res.diverged != 0 {
			t.Fatalf("%s: diverged=%d err=%v", res.scenario, res.diverged, res.err)
		}
	}
}

func TestRunScenarioReportsBadPattern(t *testing.T) {
	res := runScenario(context.Background(), 8, 2, scenario{pattern: "nope", workers: 1})
	if res.err == nil {
		t.Fatal("unknown pattern must be reported")
	}
}
