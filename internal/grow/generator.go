package grow

import (
	"context"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/biomorph/internal/geom"
	"github.com/san-kum/biomorph/internal/graph"
	"github.com/san-kum/biomorph/internal/metrics"
	"github.com/san-kum/biomorph/internal/morph"
	"github.com/san-kum/biomorph/internal/strategy"
)

// Connectivity passes run every connectivityEvery ticks during growth.
const connectivityEvery = 8

// DefaultBudget bounds wall-clock duration of a run independent of
// convergence.
const DefaultBudget = 10 * time.Second

// Progress is the per-tick view handed to observers. It carries counts
// only, never the live graph.
type Progress struct {
	Phase     Phase
	Tick      int
	NodeCount int
	ConnCount int
	Target    int
}

// Generator drives one generation run. It owns the only live graph
// handle for the duration of the run; external readers only ever see the
// exported snapshot.
type Generator struct {
	settings  morph.Settings
	zone      geom.AABB
	strat     strategy.Strategy
	rng       *rand.Rand
	logger    *log.Logger
	influence geom.ScalarField
	obstacles geom.ObstacleMask
	budget    time.Duration
	onDone    func(*graph.Snapshot)
	observers []func(Progress)

	phase   Phase
	g       *graph.Graph
	history []int // node count per tick, recorded for plotting
}

type Option func(*Generator)

// WithInfluence supplies an externally owned influence field; it is only
// sampled, never mutated.
func WithInfluence(f geom.ScalarField) Option {
	return func(gen *Generator) { gen.influence = f }
}

func WithObstacles(m geom.ObstacleMask) Option {
	return func(gen *Generator) { gen.obstacles = m }
}

func WithBudget(d time.Duration) Option {
	return func(gen *Generator) { gen.budget = d }
}

func WithLogger(l *log.Logger) Option {
	return func(gen *Generator) { gen.logger = l }
}

func WithSeed(seed int64) Option {
	return func(gen *Generator) { gen.rng = rand.New(rand.NewSource(seed)) }
}

// WithCompletion registers the one-shot callback that receives the final
// (possibly partial) snapshot.
func WithCompletion(fn func(*graph.Snapshot)) Option {
	return func(gen *Generator) { gen.onDone = fn }
}

// WithObserver registers a per-tick progress observer.
func WithObserver(fn func(Progress)) Option {
	return func(gen *Generator) { gen.observers = append(gen.observers, fn) }
}

func New(settings morph.Settings, zone geom.AABB, strat strategy.Strategy, opts ...Option) *Generator {
	gen := &Generator{
		settings: settings,
		zone:     zone,
		strat:    strat,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:   log.New(io.Discard),
		budget:   DefaultBudget,
		phase:    Idle,
		g:        graph.New(),
	}
	for _, opt := range opts {
		opt(gen)
	}
	return gen
}

func (gen *Generator) Phase() Phase { return gen.phase }

// History returns the node count recorded at each growth tick.
func (gen *Generator) History() []int {
	out := make([]int, len(gen.history))
	copy(out, gen.history)
	return out
}

// Target is the node count the growing phase aims for:
// clamp(round(maxNodes*density), seedCount, maxNodes).
func Target(s morph.Settings, p morph.Parameters) int {
	t := int(math.Round(float64(s.MaxNodes) * p.Density))
	if t < s.SeedCount {
		t = s.SeedCount
	}
	if t > s.MaxNodes {
		t = s.MaxNodes
	}
	return t
}

// Run executes one full generation: validate, seed, grow, finalize,
// export. It returns the exported snapshot; on cooperative cancellation
// the partial snapshot is still exported and returned alongside the
// error. No state changes occur when validation fails.
func (gen *Generator) Run(ctx context.Context, params morph.Parameters) (*graph.Snapshot, error) {
	if err := gen.validate(params); err != nil {
		return nil, err
	}

	start := time.Now()
	target := Target(gen.settings, params)
	gen.logger.Debug("generation start",
		"type", params.Type, "target", target, "seeds", gen.settings.SeedCount)

	gen.seed(params)

	cancelled, runErr := gen.growLoop(ctx, params, target, start)

	if cancelled {
		// export the partial graph as-is, no pruning
		gen.phase = Cancelled
	} else {
		gen.phase = Finalizing
		gen.finalize(params)
		gen.phase = Complete
	}
	snap := gen.g.Export(params, metrics.Compute(gen.g, gen.zone))
	gen.logger.Debug("generation done",
		"phase", gen.phase, "nodes", gen.g.NodeCount(), "conns", gen.g.ConnCount(),
		"elapsed", time.Since(start))

	if gen.onDone != nil {
		done := gen.onDone
		gen.onDone = nil
		done(snap)
	}
	return snap, runErr
}

func (gen *Generator) validate(params morph.Parameters) error {
	if !gen.zone.Valid() {
		return morph.ErrInvalidZone
	}
	if err := params.Validate(); err != nil {
		return err
	}
	if err := gen.settings.Validate(); err != nil {
		return err
	}
	if gen.strat == nil {
		return morph.ErrUnsupportedBiomorph
	}
	return nil
}

func (gen *Generator) seed(params morph.Parameters) {
	gen.phase = Seeding
	for i := 0; i < gen.settings.SeedCount; i++ {
		gen.g.AddSeed(gen.randomPoint())
	}
	// seed pairs have no lower distance bound
	gen.connectivityPass(0, gen.settings.NodeMaxDistance, params.Connectivity)
	gen.emit(Progress{Phase: Seeding, NodeCount: gen.g.NodeCount(), ConnCount: gen.g.ConnCount()})
}

// growLoop runs ticks until the target is reached, the budget elapses or
// ctx is cancelled. Returns whether the run was cancelled.
func (gen *Generator) growLoop(ctx context.Context, params morph.Parameters, target int, start time.Time) (bool, error) {
	gen.phase = Growing
	tick := 0
	for gen.g.NodeCount() < target {
		select {
		case <-ctx.Done():
			return true, morph.ErrCancelled
		default:
		}
		if time.Since(start) > gen.budget {
			gen.logger.Warn("wall-clock budget exceeded", "tick", tick, "nodes", gen.g.NodeCount())
			return false, &morph.GrowthError{Phase: Growing.String(), Tick: tick, Wrapped: morph.ErrBudgetExceeded}
		}

		for i := 0; i < gen.evaluationsPerTick(params, target); i++ {
			if gen.g.NodeCount() >= target {
				break
			}
			res := gen.strat.EvaluateStep(gen.g, gen.zone, params, gen.influence, gen.obstacles, gen.rng)
			if !res.Valid {
				continue
			}
			n := gen.g.AddNode(gen.zone.Clamp(res.Pos))
			if res.Parent >= 0 && res.Parent != n.ID {
				gen.g.AddConnection(res.Parent, n.ID)
			}
		}

		if tick%connectivityEvery == connectivityEvery-1 {
			gen.connectivityPass(gen.settings.NodeMinDistance, gen.settings.NodeMaxDistance, params.Connectivity)
		}

		gen.history = append(gen.history, gen.g.NodeCount())
		gen.emit(Progress{
			Phase: Growing, Tick: tick, Target: target,
			NodeCount: gen.g.NodeCount(), ConnCount: gen.g.ConnCount(),
		})
		tick++
	}
	return false, nil
}

// evaluationsPerTick scales the per-tick strategy evaluation count with
// GrowthRate, shaped by the configured growth curve.
func (gen *Generator) evaluationsPerTick(params morph.Parameters, target int) int {
	progress := 0.0
	if target > 0 {
		progress = float64(gen.g.NodeCount()) / float64(target)
	}
	rate := params.GrowthRate * gen.settings.CurveValue(1-progress)
	k := 1 + int(math.Round(rate*7))
	return k
}

func (gen *Generator) finalize(params morph.Parameters) {
	// prune isolated non-seed nodes
	for _, n := range gen.g.Nodes() {
		if n.Degree() == 0 && !n.Seed {
			gen.g.RemoveNode(n.ID)
		}
	}
	gen.connectivityPass(gen.settings.NodeMinDistance, gen.settings.NodeMaxDistance, params.Connectivity)
	gen.emit(Progress{Phase: Finalizing, NodeCount: gen.g.NodeCount(), ConnCount: gen.g.ConnCount()})
}

// connectivityPass sweeps unordered node pairs with distance in
// [minDist, maxDist] and connects each independently with probability p.
func (gen *Generator) connectivityPass(minDist, maxDist, p float64) {
	nodes := gen.g.Nodes()
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			if gen.g.Connected(nodes[i].ID, nodes[j].ID) {
				continue
			}
			d := nodes[i].Pos.Dist(nodes[j].Pos)
			if d < minDist || d > maxDist {
				continue
			}
			if gen.rng.Float64() < p {
				gen.g.AddConnection(nodes[i].ID, nodes[j].ID)
			}
		}
	}
}

func (gen *Generator) randomPoint() geom.Vec3 {
	s := gen.zone.Size()
	return geom.Vec3{
		X: gen.zone.Min.X + gen.rng.Float64()*s.X,
		Y: gen.zone.Min.Y + gen.rng.Float64()*s.Y,
		Z: gen.zone.Min.Z + gen.rng.Float64()*s.Z,
	}
}

func (gen *Generator) emit(p Progress) {
	for _, obs := range gen.observers {
		obs(p)
	}
}
