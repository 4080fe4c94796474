// Package cliconf resolves command settings from flags, then RINGLIFE_*
// environment variables, then defaults.
package cliconf

import (
	"flag"
	"fmt"
	"os"
	"strconv"
)

// Setter parses a resolved string into its destination.
type Setter struct {
	set    func(string) error
	isBool bool
}

// Resolver defines how to resolve a single configuration value.
type Resolver struct {
	Flag    string
	Env     string
	Default string
	Usage   string
	Set     Setter
}

// flagValue records whether a flag appeared on the command line, so an
// explicit empty value still wins over the environment.
type flagValue struct {
	v      string
	given  bool
	isBool bool
}

func (f *flagValue) String() string {
	if f == nil {
		return ""
	}
	return f.v
}

func (f *flagValue) Set(v string) error {
	f.v, f.given = v, true
	return nil
}

// IsBoolFlag lets bool resolvers be given bare, as in -stop-when-stable.
func (f *flagValue) IsBoolFlag() bool { return f.isBool }

// Load registers one flag per resolver on fs, parses args and feeds every
// resolver its value. The first setter error is returned with the flag
// name attached.
func Load(fs *flag.FlagSet, args []string, resolvers []Resolver) error {
	vals := make(map[string]*flagValue, len(resolvers))
	for _, r := range resolvers {
		v := &flagValue{isBool: r.Set.isBool}
		vals[r.Flag] = v
		fs.Var(v, r.Flag, fmt.Sprintf("%s (env %s, default %q)", r.Usage, r.Env, r.Default))
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	for _, r := range resolvers {
		value := r.Default
		if fv := vals[r.Flag]; fv.given {
			value = fv.v
		} else if v, ok := os.LookupEnv(r.Env); ok && v != "" {
			value = v
		}
		if err := r.Set.set(value); err != nil {
			return fmt.Errorf("-%s=%q: %w", r.Flag, value, err)
		}
	}
	return nil
}

// Func wraps a custom parser.
func Func(fn func(string) error) Setter { return Setter{set: fn} }

// String stores the value unchanged.
func String(dst *string) Setter {
	return Func(func(v string) error {
		*dst = v
		return nil
	})
}

// Int parses a base-10 integer.
func Int(dst *int) Setter {
	return Func(func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	})
}

// Int64 parses a base-10 64-bit integer.
func Int64(dst *int64) Setter {
	return Func(func(v string) error {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	})
}

// Bool parses anything strconv.ParseBool accepts. The flag may be given
// bare.
func Bool(dst *bool) Setter {
	return Setter{isBool: true, set: func(v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*dst = b
		return nil
	}}
}
