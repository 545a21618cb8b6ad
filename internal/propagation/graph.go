// Package propagation builds the directed delay-propagation graph and
// computes centrality measures over it. The graph is rebuilt from scratch
// on every analysis run and lives only for that run; nothing here is
// shared or cached across invocations.
package propagation

import (
	"sort"

	"go.uber.org/zap"

	"github.com/SaiPavan214/Flight-Schedule-Optimizer/internal/features"
)

// Mode selects how candidate upstream/downstream pairs are formed within a
// date: adjacent flights in the global daily departure sequence, or
// adjacent flights restricted to the same route.
type Mode int

const (
	ModeGlobal Mode = iota
	ModePerRoute
)

func (m Mode) String() string {
	if m == ModePerRoute {
		return "per_route"
	}
	return "global"
}

// ParseMode parses an adjacency mode name; unknown names map to ModeGlobal.
func ParseMode(s string) Mode {
	if s == "per_route" {
		return ModePerRoute
	}
	return ModeGlobal
}

// halfEdge is one direction of a stored edge, referencing the peer node by
// dense index.
type halfEdge struct {
	peer   int
	weight float64
}

// node carries the per-flight-identity aggregates plus adjacency lists.
type node struct {
	id       string
	avgDelay float64 // mean departure delay over the full record set
	freq     int     // occurrences across all dates
	out      []halfEdge
	in       []halfEdge
}

// Graph is a directed delay-propagation graph keyed by flight identity.
// Nodes are stored in a dense slice in first-seen order, so identical input
// always yields identical iteration order.
type Graph struct {
	nodes []node
	idx   map[string]int
}

// Len returns the node count.
func (g *Graph) Len() int { return len(g.nodes) }

// EdgeCount returns the number of directed edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for i := range g.nodes {
		n += len(g.nodes[i].out)
	}
	return n
}

// Nodes returns the flight identities in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodes))
	for i := range g.nodes {
		out[i] = g.nodes[i].id
	}
	return out
}

// NodeStats returns the aggregate delay and frequency for a flight
// identity, with ok=false for identities absent from the graph.
func (g *Graph) NodeStats(id string) (avgDelay float64, freq int, ok bool) {
	i, exists := g.idx[id]
	if !exists {
		return 0, 0, false
	}
	return g.nodes[i].avgDelay, g.nodes[i].freq, true
}

// Weight returns the edge weight from→to, with ok=false when no edge exists.
func (g *Graph) Weight(from, to string) (float64, bool) {
	fi, ok := g.idx[from]
	if !ok {
		return 0, false
	}
	ti, ok := g.idx[to]
	if !ok {
		return 0, false
	}
	for _, he := range g.nodes[fi].out {
		if he.peer == ti {
			return he.weight, true
		}
	}
	return 0, false
}

func (g *Graph) addNode(id string) int {
	if i, ok := g.idx[id]; ok {
		return i
	}
	i := len(g.nodes)
	g.nodes = append(g.nodes, node{id: id})
	g.idx[id] = i
	return i
}

// setEdge adds a directed edge or updates the weight of an existing one.
func (g *Graph) setEdge(from, to int, weight float64) {
	for j := range g.nodes[from].out {
		if g.nodes[from].out[j].peer == to {
			g.nodes[from].out[j].weight = weight
			for k := range g.nodes[to].in {
				if g.nodes[to].in[k].peer == from {
					g.nodes[to].in[k].weight = weight
				}
			}
			return
		}
	}
	g.nodes[from].out = append(g.nodes[from].out, halfEdge{peer: to, weight: weight})
	g.nodes[to].in = append(g.nodes[to].in, halfEdge{peer: from, weight: weight})
}

// Params configures graph construction.
type Params struct {
	// HorizonMinutes is the buffer-recovery horizon. Edge weight decays
	// linearly from 1 at gap 0 to 0 at the horizon; gaps at or beyond it
	// produce no edge.
	HorizonMinutes float64
	Mode           Mode
}

// Builder constructs propagation graphs.
type Builder struct {
	params Params
	logger *zap.Logger
}

// NewBuilder creates a Builder. A nil logger is replaced with a nop.
func NewBuilder(params Params, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if params.HorizonMinutes <= 0 {
		params.HorizonMinutes = 120
	}
	return &Builder{params: params, logger: logger}
}

// EdgeWeight returns the propagation weight for a gap in minutes: 1 at gap
// zero, linearly decaying to 0 at the horizon, 0 beyond it and for
// negative gaps.
func (b *Builder) EdgeWeight(gapMinutes float64) float64 {
	if gapMinutes < 0 || gapMinutes >= b.params.HorizonMinutes {
		return 0
	}
	return 1 - gapMinutes/b.params.HorizonMinutes
}

// Build constructs the propagation graph over the feature table and
// accumulates each row's PropagationRisk in place. Every distinct flight
// identity becomes a node — including flights with no qualifying edges —
// so downstream joins always resolve.
func (b *Builder) Build(t *features.Table) *Graph {
	g := &Graph{idx: make(map[string]int, len(t.Flights()))}

	// Node aggregates over the full record set, identity-keyed.
	for _, fn := range t.Flights() {
		rows := t.FlightRows(fn)
		i := g.addNode(fn)
		sum := 0.0
		for _, ri := range rows {
			sum += t.Rows[ri].Record.DepDelayMin
		}
		g.nodes[i].avgDelay = sum / float64(len(rows))
		g.nodes[i].freq = len(rows)
	}

	for _, seq := range b.dailySequences(t) {
		for k := 0; k+1 < len(seq); k++ {
			up := &t.Rows[seq[k]]
			down := &t.Rows[seq[k+1]]
			if up.Record.ArrDelayMin <= 0 || down.Record.DepDelayMin <= 0 {
				continue
			}
			gap := down.Record.ScheduledDep.Sub(up.Record.ActualArr).Minutes()
			if gap < 0 || gap >= b.params.HorizonMinutes {
				continue
			}
			w := b.EdgeWeight(gap)
			g.setEdge(g.idx[up.Record.FlightNumber], g.idx[down.Record.FlightNumber], w)
			down.PropagationRisk += w
		}
	}

	b.logger.Debug("propagation graph built",
		zap.String("mode", b.params.Mode.String()),
		zap.Int("nodes", g.Len()),
		zap.Int("edges", g.EdgeCount()))
	return g
}

// dailySequences partitions rows by date (and by route in per-route mode)
// and orders each partition by scheduled departure. Partitions come out in
// sorted key order so construction is deterministic.
func (b *Builder) dailySequences(t *features.Table) [][]int {
	groups := make(map[string][]int)
	for i := range t.Rows {
		key := t.Rows[i].Record.Date
		if b.params.Mode == ModePerRoute {
			key = t.Rows[i].Record.Date + "|" + t.Rows[i].Record.Route
		}
		groups[key] = append(groups[key], i)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([][]int, 0, len(keys))
	for _, k := range keys {
		seq := groups[k]
		sort.SliceStable(seq, func(a, b int) bool {
			return t.Rows[seq[a]].Record.ScheduledDep.Before(t.Rows[seq[b]].Record.ScheduledDep)
		})
		out = append(out, seq)
	}
	return out
}
