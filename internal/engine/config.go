package engine

import (
	"errors"
	"flag"
	"fmt"
	"strconv"

	"ringlife/internal/core"
	"ringlife/internal/partition"
)

// ErrGenerations reports a negative generation budget.
var ErrGenerations = errors.New("engine: generation budget must not be negative")

// Config is the immutable description of a run, fixed at construction.
type Config struct {
	// Size is the side N of the square torus.
	Size int
	// Workers is the ring size P. Size must be a multiple of it.
	Workers int
	// Generations caps the number of steps Run performs.
	Generations int
	// StopWhenStable ends Run early once a generation changes nothing.
	StopWhenStable bool
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{Size: 32, Workers: 1, Generations: 20, StopWhenStable: true}
}

// FromMap populates a Config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["n"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Size = parsed
		}
	}
	if v, ok := cfg["p"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Workers = parsed
		}
	}
	if v, ok := cfg["generations"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Generations = parsed
		}
	}
	if v, ok := cfg["stop_when_stable"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.StopWhenStable = parsed
		}
	}
	return c
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Size, "n", c.Size, "side of the square torus")
	fs.IntVar(&c.Workers, "p", c.Workers, "number of workers on the ring (must divide n)")
	fs.IntVar(&c.Generations, "generations", c.Generations, "generations to simulate")
	fs.BoolVar(&c.StopWhenStable, "stop-when-stable", c.StopWhenStable, "stop once a generation changes nothing")
}

// Validate reports configuration errors. N mod P != 0 is fatal.
func (c Config) Validate() error {
	if err := partition.Check(c.Size, c.Workers); err != nil {
		return err
	}
	if c.Generations < 0 {
		return fmt.Errorf("%w: %d", ErrGenerations, c.Generations)
	}
	return nil
}

// Parameters describes the configuration for renderers.
func (c Config) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name: "Run",
		Params: []core.Parameter{
			core.IntParam("n", "Grid size", c.Size),
			core.IntParam("p", "Workers", c.Workers),
			core.IntParam("generations", "Generation budget", c.Generations),
			core.BoolParam("stop_when_stable", "Stop when stable", c.StopWhenStable),
		},
	}}}
}
