// Package wsring carries halo rows and coordinator reports between worker
// processes over websockets.
//
// Each node listens on its own address. It dials its RankDown peer at /ring
// and accepts one /ring connection from its RankUp peer. TagUp rows travel
// on the accepted (up) connection and TagDown rows on the dialed (down)
// one, which keeps routing unambiguous when P == 2 and both neighbours are
// the same process. Ranks other than 0 also dial rank 0 at /gather.
package wsring

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"ringlife/internal/core"
	"ringlife/internal/halo"
	"ringlife/internal/logx"
	"ringlife/internal/partition"
)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("wsring: node closed")

// Config locates a node in the ring.
type Config struct {
	Rank int
	// Peers holds the listen address of every rank, in rank order.
	Peers []string
	// Size is the grid side N.
	Size int
	// DialBackoff caps the wait between connection attempts.
	DialBackoff time.Duration
}

type member struct {
	rank int
	conn *websocket.Conn
}

// Node is one process's endpoint. It implements halo.Link and the engine's
// Collective.
type Node struct {
	cfg  Config
	plan partition.Plan
	log  logx.Logger

	ln       net.Listener
	srv      *http.Server
	upgrader websocket.Upgrader

	upCh     chan *websocket.Conn
	memberCh chan member

	up      *websocket.Conn
	down    *websocket.Conn
	coord   *websocket.Conn
	members []*websocket.Conn

	sendSeq [3]uint32
	recvSeq [3]uint32

	closeOnce sync.Once
	done      chan struct{}
}

// Listen opens the node's listener on cfg.Peers[cfg.Rank].
func Listen(cfg Config, log logx.Logger) (*Node, error) {
	if cfg.Rank < 0 || cfg.Rank >= len(cfg.Peers) {
		return nil, fmt.Errorf("%w: rank=%d peers=%d", partition.ErrRank, cfg.Rank, len(cfg.Peers))
	}
	ln, err := net.Listen("tcp", cfg.Peers[cfg.Rank])
	if err != nil {
		return nil, fmt.Errorf("wsring: listen: %w", err)
	}
	n, err := New(cfg, ln, log)
	if err != nil {
		ln.Close()
		return nil, err
	}
	return n, nil
}

// New serves the node on an existing listener.
func New(cfg Config, ln net.Listener, log logx.Logger) (*Node, error) {
	plan, err := partition.New(cfg.Size, len(cfg.Peers), cfg.Rank)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logx.NoOp{}
	}
	if cfg.DialBackoff <= 0 {
		cfg.DialBackoff = time.Second
	}
	n := &Node{
		cfg:  cfg,
		plan: plan,
		log:  log,
		ln:   ln,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		upCh:     make(chan *websocket.Conn, 1),
		memberCh: make(chan member, len(cfg.Peers)),
		done:     make(chan struct{}),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ring", n.handleRing)
	mux.HandleFunc("/gather", n.handleGather)
	n.srv = &http.Server{Handler: mux}
	go func() {
		if err := n.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			n.log.Errorf("rank %d serve: %v", cfg.Rank, err)
		}
	}()
	return n, nil
}

// Addr returns the listen address.
func (n *Node) Addr() string { return n.ln.Addr().String() }

// Plan returns the node's partition.
func (n *Node) Plan() partition.Plan { return n.plan }

func fromParam(r *http.Request) (int, error) {
	return strconv.Atoi(r.URL.Query().Get("from"))
}

// GET /ring?from=<RankUp>
func (n *Node) handleRing(w http.ResponseWriter, r *http.Request) {
	from, err := fromParam(r)
	if err != nil || from != n.plan.RankUp {
		http.Error(w, fmt.Sprintf("rank %d expects its ring peer to be rank %d", n.plan.Rank, n.plan.RankUp), http.StatusBadRequest)
		return
	}
	conn, err := n.upgrader.Upgrade(w, r, nil)
	if err != nil {
		n.log.Warnf("rank %d ring upgrade: %v", n.plan.Rank, err)
		return
	}
	select {
	case n.upCh <- conn:
		n.log.Infof("rank %d accepted ring link from rank %d", n.plan.Rank, from)
	default:
		n.log.Warnf("rank %d already has an up link, dropping rank %d", n.plan.Rank, from)
		conn.Close()
	}
}

// GET /gather?from=<rank>, rank 0 only
func (n *Node) handleGather(w http.ResponseWriter, r *http.Request) {
	from, err := fromParam(r)
	if n.plan.Rank != 0 || err != nil || from <= 0 || from >= n.plan.P {
		http.Error(w, "gather is served by rank 0 to ranks 1..P-1", http.StatusBadRequest)
		return
	}
	conn, err := n.upgrader.Upgrade(w, r, nil)
	if err != nil {
		n.log.Warnf("gather upgrade: %v", err)
		return
	}
	select {
	case n.memberCh <- member{rank: from, conn: conn}:
		n.log.Infof("coordinator accepted rank %d", from)
	default:
		conn.Close()
	}
}

// Connect establishes every link the node needs and blocks until its peers
// have connected back. Peers may start in any order; dialing retries until
// ctx ends.
func (n *Node) Connect(ctx context.Context) error {
	if n.plan.Solo() {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		conn, err := n.dial(gctx, n.plan.RankDown, "/ring")
		n.down = conn
		return err
	})
	g.Go(func() error {
		select {
		case conn := <-n.upCh:
			n.up = conn
			return nil
		case <-gctx.Done():
			return fmt.Errorf("wsring: waiting for rank %d: %w", n.plan.RankUp, gctx.Err())
		}
	})
	if n.plan.Rank == 0 {
		g.Go(func() error {
			members := make([]*websocket.Conn, n.plan.P)
			for got := 1; got < n.plan.P; {
				select {
				case m := <-n.memberCh:
					if members[m.rank] != nil {
						m.conn.Close()
						continue
					}
					members[m.rank] = m.conn
					got++
				case <-gctx.Done():
					return fmt.Errorf("wsring: waiting for %d ranks to report in: %w", n.plan.P-got, gctx.Err())
				}
			}
			n.members = members
			return nil
		})
	} else {
		g.Go(func() error {
			conn, err := n.dial(gctx, 0, "/gather")
			n.coord = conn
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	n.log.Infof("rank %d connected: up=%d down=%d", n.plan.Rank, n.plan.RankUp, n.plan.RankDown)
	return nil
}

func (n *Node) dial(ctx context.Context, rank int, path string) (*websocket.Conn, error) {
	u := url.URL{
		Scheme:   "ws",
		Host:     n.cfg.Peers[rank],
		Path:     path,
		RawQuery: "from=" + strconv.Itoa(n.plan.Rank),
	}
	wait := 20 * time.Millisecond
	for {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
		if err == nil {
			return conn, nil
		}
		n.log.Debugf("rank %d dial %s: %v", n.plan.Rank, u.String(), err)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("wsring: dial rank %d: %w", rank, errors.Join(ctx.Err(), err))
		case <-n.done:
			return nil, ErrClosed
		case <-time.After(wait):
		}
		wait = min(wait*2, n.cfg.DialBackoff)
	}
}

// Close tears down every connection and the listener.
func (n *Node) Close() error {
	n.closeOnce.Do(func() {
		close(n.done)
		for _, c := range []*websocket.Conn{n.up, n.down, n.coord} {
			if c != nil {
				c.Close()
			}
		}
		for _, c := range n.members {
			if c != nil {
				c.Close()
			}
		}
		n.srv.Close()
	})
	return nil
}

// guard closes conn if ctx ends first, unblocking a pending read or write.
// A link interrupted this way is not reusable; the run is over anyway.
func guard(ctx context.Context, conn *websocket.Conn) (stop func() bool) {
	return context.AfterFunc(ctx, func() { conn.Close() })
}

func (n *Node) write(ctx context.Context, conn *websocket.Conn, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stop := guard(ctx, conn)
	defer stop()
	if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

func (n *Node) read(ctx context.Context, conn *websocket.Conn) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stop := guard(ctx, conn)
	defer stop()
	kind, data, err := conn.ReadMessage()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	if kind != websocket.BinaryMessage {
		return nil, fmt.Errorf("%w: message type %d", ErrFrame, kind)
	}
	return data, nil
}

// route picks the connection for a row transfer and checks the peer rank.
func (n *Node) route(peer int, tag halo.Tag, sending bool) (*websocket.Conn, error) {
	var want int
	var conn *websocket.Conn
	switch {
	case tag == halo.TagUp && sending:
		want, conn = n.plan.RankUp, n.up
	case tag == halo.TagUp:
		want, conn = n.plan.RankDown, n.down
	case tag == halo.TagDown && sending:
		want, conn = n.plan.RankDown, n.down
	case tag == halo.TagDown:
		want, conn = n.plan.RankUp, n.up
	default:
		return nil, fmt.Errorf("%w: unknown %s", halo.ErrNoRoute, tag)
	}
	if peer != want {
		return nil, fmt.Errorf("%w: %s traffic goes to rank %d, not %d", halo.ErrNoRoute, tag, want, peer)
	}
	if conn == nil {
		return nil, fmt.Errorf("%w: link to rank %d not connected", halo.ErrNoRoute, peer)
	}
	return conn, nil
}

// Send implements halo.Link.
func (n *Node) Send(ctx context.Context, to int, tag halo.Tag, row []core.Cell) error {
	if len(row) != n.plan.N {
		return fmt.Errorf("%w: sending %d cells, want %d", halo.ErrRowSize, len(row), n.plan.N)
	}
	conn, err := n.route(to, tag, true)
	if err != nil {
		return err
	}
	kind, err := rowKind(tag)
	if err != nil {
		return err
	}
	n.sendSeq[tag]++
	return n.write(ctx, conn, encode(kind, n.sendSeq[tag], false, false, row))
}

// Recv implements halo.Link.
func (n *Node) Recv(ctx context.Context, from int, tag halo.Tag, row []core.Cell) error {
	if len(row) != n.plan.N {
		return fmt.Errorf("%w: receiving into %d cells, want %d", halo.ErrRowSize, len(row), n.plan.N)
	}
	conn, err := n.route(from, tag, false)
	if err != nil {
		return err
	}
	kind, err := rowKind(tag)
	if err != nil {
		return err
	}
	data, err := n.read(ctx, conn)
	if err != nil {
		return err
	}
	f, err := decode(data, false)
	if err != nil {
		return err
	}
	n.recvSeq[tag]++
	if f.kind != kind || f.seq != n.recvSeq[tag] {
		return fmt.Errorf("%w: got kind %d seq %d, want %s seq %d", ErrDesync, f.kind, f.seq, tag, n.recvSeq[tag])
	}
	return cellsInto(row, f.payload)
}

// Report implements the engine's Collective. Every rank sends its change
// flag and owned rows; rank 0 assembles the grid, ORs the flags and replies
// to every rank with the verdict.
func (n *Node) Report(ctx context.Context, gen int, changed bool, owned []core.Cell) (bool, *core.Grid, error) {
	rowsLen := n.plan.Rows() * n.plan.N
	if len(owned) != rowsLen {
		return false, nil, fmt.Errorf("%w: reporting %d cells, want %d", halo.ErrRowSize, len(owned), rowsLen)
	}
	seq := uint32(gen)

	if n.plan.Rank != 0 {
		if n.coord == nil {
			return false, nil, fmt.Errorf("%w: coordinator link not connected", halo.ErrNoRoute)
		}
		if err := n.write(ctx, n.coord, encode(kindReport, seq, true, changed, owned)); err != nil {
			return false, nil, fmt.Errorf("wsring: report gen %d: %w", gen, err)
		}
		data, err := n.read(ctx, n.coord)
		if err != nil {
			return false, nil, fmt.Errorf("wsring: verdict gen %d: %w", gen, err)
		}
		f, err := decode(data, true)
		if err != nil {
			return false, nil, err
		}
		if f.kind != kindVerdict || f.seq != seq {
			return false, nil, fmt.Errorf("%w: verdict kind %d seq %d, want gen %d", ErrDesync, f.kind, f.seq, gen)
		}
		return f.flag, nil, nil
	}

	g, err := core.NewGrid(n.plan.N)
	if err != nil {
		return false, nil, err
	}
	cells := g.Cells()
	copy(cells, owned)
	global := changed
	for rank := 1; rank < n.plan.P; rank++ {
		data, err := n.read(ctx, n.members[rank])
		if err != nil {
			return false, nil, fmt.Errorf("wsring: gather rank %d gen %d: %w", rank, gen, err)
		}
		f, err := decode(data, true)
		if err != nil {
			return false, nil, err
		}
		if f.kind != kindReport || f.seq != seq {
			return false, nil, fmt.Errorf("%w: rank %d sent kind %d seq %d, want gen %d", ErrDesync, rank, f.kind, f.seq, gen)
		}
		start := rank * rowsLen
		if err := cellsInto(cells[start:start+rowsLen], f.payload); err != nil {
			return false, nil, fmt.Errorf("rank %d: %w", rank, err)
		}
		global = global || f.flag
	}
	verdict := encode(kindVerdict, seq, true, global, nil)
	for rank := 1; rank < n.plan.P; rank++ {
		if err := n.write(ctx, n.members[rank], verdict); err != nil {
			return false, nil, fmt.Errorf("wsring: verdict to rank %d: %w", rank, err)
		}
	}
	return global, g, nil
}
