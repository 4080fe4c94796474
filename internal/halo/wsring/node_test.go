package wsring

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"ringlife/internal/core"
	"ringlife/internal/engine"
	"ringlife/internal/halo"
	"ringlife/internal/seed"
	"ringlife/pkg/sims/life"
)

// startRing listens on p loopback ports and connects every node.
func startRing(t *testing.T, ctx context.Context, n, p int) []*Node {
	t.Helper()
	listeners := make([]net.Listener, p)
	peers := make([]string, p)
	for i := range listeners {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatal(err)
		}
		listeners[i] = ln
		peers[i] = ln.Addr().String()
	}
	nodes := make([]*Node, p)
	for i := range nodes {
		node, err := New(Config{Rank: i, Peers: peers, Size: n, DialBackoff: 100 * time.Millisecond}, listeners[i], nil)
		if err != nil {
			t.Fatal(err)
		}
		nodes[i] = node
		t.Cleanup(func() { node.Close() })
	}

	errs := make([]error, p)
	var wg sync.WaitGroup
	for i, node := range nodes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = node.Connect(ctx)
		}()
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("rank %d connect: %v", i, err)
		}
	}
	return nodes
}

// parallel runs fn for every rank and fails on the first error.
func parallel(t *testing.T, p int, fn func(rank int) error) {
	t.Helper()
	errs := make([]error, p)
	var wg sync.WaitGroup
	for r := 0; r < p; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[r] = fn(r)
		}()
	}
	wg.Wait()
	for r, err := range errs {
		if err != nil {
			t.Fatalf("rank %d: %v", r, err)
		}
	}
}

func TestRingMatchesSerial(t *testing.T) {
	const n, gens = 16, 20
	for _, pattern := range []string{"small-exploder", "random"} {
		initial, err := seed.Build(pattern, n, 99)
		if err != nil {
			t.Fatal(err)
		}
		ref, err := life.New(initial)
		if err != nil {
			t.Fatal(err)
		}
		want := make([]*core.Grid, gens)
		for g := range want {
			ref.Advance()
			want[g] = ref.Snapshot()
		}

		for _, p := range []int{1, 2, 4} {
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			nodes := startRing(t, ctx, n, p)
			cfg := engine.Config{Size: n, Workers: p, Generations: gens}

			sims := make([]*engine.Node, p)
			parallel(t, p, func(r int) error {
				var err error
				sims[r], err = engine.NewNode(ctx, cfg, r, initial, nodes[r], nodes[r])
				return err
			})
			if !sims[0].Snapshot().Equal(initial) {
				t.Fatalf("%s p=%d: initial gather differs", pattern, p)
			}

			for g := 0; g < gens; g++ {
				flags := make([]bool, p)
				parallel(t, p, func(r int) error {
					var err error
					flags[r], err = sims[r].Step(ctx)
					return err
				})
				for r := range flags {
					if flags[r] != flags[0] {
						t.Fatalf("%s p=%d gen %d: ranks disagree on change flag", pattern, p, g+1)
					}
				}
				if !sims[0].Snapshot().Equal(want[g]) {
					t.Fatalf("%s p=%d: generation %d differs from serial reference", pattern, p, g+1)
				}
			}
			cancel()
		}
	}
}

func TestRingRejectsWrongPeer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	peers := []string{ln.Addr().String(), "127.0.0.1:1", "127.0.0.1:2", "127.0.0.1:3"}
	node, err := New(Config{Rank: 0, Peers: peers, Size: 8}, ln, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer node.Close()

	// rank 0's up neighbour is rank 3
	for _, target := range []string{"/ring?from=1", "/gather?from=0", "/gather?from=9"} {
		_, resp, err := websocket.DefaultDialer.DialContext(ctx, "ws://"+node.Addr()+target, nil)
		if err == nil {
			t.Fatalf("%s: handshake should fail", target)
		}
		if resp == nil || resp.StatusCode != 400 {
			t.Fatalf("%s: resp = %v, want 400", target, resp)
		}
	}
}

func TestRouteChecksRanks(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	nodes := startRing(t, ctx, 6, 3)

	err := nodes[0].Send(ctx, 1, halo.TagUp, make([]core.Cell, 6))
	if !errors.Is(err, halo.ErrNoRoute) {
		t.Fatalf("TagUp to RankDown err = %v, want ErrNoRoute", err)
	}
	err = nodes[0].Recv(ctx, 2, halo.TagUp, make([]core.Cell, 6))
	if !errors.Is(err, halo.ErrNoRoute) {
		t.Fatalf("TagUp from RankUp err = %v, want ErrNoRoute", err)
	}
	err = nodes[0].Send(ctx, 2, halo.TagUp, make([]core.Cell, 5))
	if !errors.Is(err, halo.ErrRowSize) {
		t.Fatalf("short row err = %v, want ErrRowSize", err)
	}
}

func TestPeerFailureAbortsStep(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	const n, p = 8, 2
	nodes := startRing(t, ctx, n, p)
	initial, _ := seed.Build("glider", n, 0)
	cfg := engine.Config{Size: n, Workers: p, Generations: 5}

	sims := make([]*engine.Node, p)
	parallel(t, p, func(r int) error {
		var err error
		sims[r], err = engine.NewNode(ctx, cfg, r, initial, nodes[r], nodes[r])
		return err
	})

	nodes[1].Close()
	if _, err := sims[0].Step(ctx); !errors.Is(err, engine.ErrBroken) {
		t.Fatalf("err = %v, want ErrBroken", err)
	}
	if ctx.Err() != nil {
		t.Fatal("step should fail on the closed link, not by timing out")
	}
}

func TestListenRejectsBadRank(t *testing.T) {
	if _, err := Listen(Config{Rank: 2, Peers: []string{"127.0.0.1:0"}, Size: 4}, nil); err == nil {
		t.Fatal("rank outside peers must fail")
	}
	_, err := Listen(Config{Rank: 0, Peers: []string{"127.0.0.1:0", "127.0.0.1:0"}, Size: 3}, nil)
	if err == nil {
		t.Fatal("3 rows over 2 ranks must fail")
	}
}
