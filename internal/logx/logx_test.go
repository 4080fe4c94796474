package logx

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"Warning": LevelWarn,
		"error":   LevelError,
		"bogus":   LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestStdFiltersAndPrefixes(t *testing.T) {
	var buf bytes.Buffer
	l := &Std{level: LevelWarn, out: log.New(&buf, "", 0)}
	r := l.With("rank 1")

	r.Infof("hidden %d", 1)
	r.Warnf("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info leaked through warn threshold: %q", out)
	}
	if !strings.Contains(out, "[WARN] [rank 1] shown 2") {
		t.Fatalf("unexpected output %q", out)
	}
}
