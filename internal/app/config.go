package app

import "flag"

// Config represents the command-line parameters of the GUI.
type Config struct {
	Pattern string
	Seed    int64
	Scale   int
	TPS     int
	// GPS is the number of generations advanced per second.
	GPS int
	// Panel is the width of the parameter panel in pixels; 0 hides it.
	Panel int
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Pattern: "random", Seed: 42, Scale: 8, TPS: 60, GPS: 8, Panel: 220}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Pattern, "pattern", c.Pattern, "initial pattern")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for the random pattern")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "frames per second")
	fs.IntVar(&c.GPS, "gps", c.GPS, "generations per second")
	fs.IntVar(&c.Panel, "panel", c.Panel, "parameter panel width in pixels (0 hides it)")
}
