package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"ringlife/internal/cliconf"
	"ringlife/internal/engine"
)

type settings struct {
	Rank     int
	Peers    []string
	Run      engine.Config
	Pattern  string
	Seed     int64
	Print    bool
	Every    int
	PNG      string
	Timeout  time.Duration
	LogLevel string
}

func splitPeers(dst *[]string) func(string) error {
	return func(v string) error {
		var peers []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				peers = append(peers, p)
			}
		}
		if len(peers) == 0 {
			return errors.New("at least one peer address is required")
		}
		*dst = peers
		return nil
	}
}

func loadSettings(fs *flag.FlagSet, args []string) (settings, error) {
	var (
		s         settings
		timeoutMS int
	)
	def := engine.DefaultConfig()
	resolvers := []cliconf.Resolver{
		{Flag: "rank", Env: "RINGLIFE_RANK", Default: "0", Usage: "this node's position on the ring", Set: cliconf.Int(&s.Rank)},
		{Flag: "peers", Env: "RINGLIFE_PEERS", Default: "127.0.0.1:7400", Usage: "comma-separated host:port of every rank, in rank order", Set: cliconf.Func(splitPeers(&s.Peers))},
		{Flag: "n", Env: "RINGLIFE_N", Default: fmt.Sprint(def.Size), Usage: "side of the square torus", Set: cliconf.Int(&s.Run.Size)},
		{Flag: "generations", Env: "RINGLIFE_GENERATIONS", Default: fmt.Sprint(def.Generations), Usage: "generations to simulate", Set: cliconf.Int(&s.Run.Generations)},
		{Flag: "stop-when-stable", Env: "RINGLIFE_STOP_WHEN_STABLE", Default: fmt.Sprint(def.StopWhenStable), Usage: "stop once a generation changes nothing", Set: cliconf.Bool(&s.Run.StopWhenStable)},
		{Flag: "pattern", Env: "RINGLIFE_PATTERN", Default: "small-exploder", Usage: "initial pattern, built identically on every rank", Set: cliconf.String(&s.Pattern)},
		{Flag: "seed", Env: "RINGLIFE_SEED", Default: "1", Usage: "seed for the random pattern", Set: cliconf.Int64(&s.Seed)},
		{Flag: "print", Env: "RINGLIFE_PRINT", Default: "true", Usage: "rank 0 prints generations as text", Set: cliconf.Bool(&s.Print)},
		{Flag: "every", Env: "RINGLIFE_EVERY", Default: "1", Usage: "print every k-th generation", Set: cliconf.Int(&s.Every)},
		{Flag: "png", Env: "RINGLIFE_PNG", Default: "", Usage: "rank 0 writes the final grid as PNG to this path", Set: cliconf.String(&s.PNG)},
		{Flag: "connect-timeout-ms", Env: "RINGLIFE_CONNECT_TIMEOUT_MS", Default: "30000", Usage: "how long to wait for the ring to form", Set: cliconf.Int(&timeoutMS)},
		{Flag: "log-level", Env: "RINGLIFE_LOG_LEVEL", Default: "info", Usage: "debug, info, warn or error", Set: cliconf.String(&s.LogLevel)},
	}
	if err := cliconf.Load(fs, args, resolvers); err != nil {
		return s, err
	}
	s.Run.Workers = len(s.Peers)
	s.Timeout = time.Duration(timeoutMS) * time.Millisecond
	if s.Every <= 0 {
		s.Every = 1
	}
	return s, nil
}
