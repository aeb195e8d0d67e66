package grow

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/san-kum/biomorph/internal/geom"
	"github.com/san-kum/biomorph/internal/graph"
	"github.com/san-kum/biomorph/internal/morph"
	"github.com/san-kum/biomorph/internal/strategy"
)

var testZone = geom.AABB{Min: geom.Vec3{X: 0, Y: 0, Z: 0}, Max: geom.Vec3{X: 10, Y: 10, Z: 10}}

func testParams() morph.Parameters {
	return morph.Parameters{
		Density: 0.5, Complexity: 0.5, Connectivity: 0.5, GrowthRate: 0.6,
		Type: morph.TypeMold, Pattern: morph.PatternOrganic,
	}
}

func testSettings() morph.Settings {
	return morph.Settings{
		NodeMinDistance: 0.5,
		NodeMaxDistance: 2.5,
		SeedCount:       5,
		MaxNodes:        20,
		GrowthCurve:     morph.CurveLinear,
	}
}

func TestTarget(t *testing.T) {
	s := testSettings()
	p := testParams()

	// maxNodes=20, density=0.5 => round(10) clamped to [5,20]
	if got := Target(s, p); got != 10 {
		t.Errorf("expected target 10, got %d", got)
	}

	p.Density = 0
	if got := Target(s, p); got != s.SeedCount {
		t.Errorf("target must clamp up to seed count, got %d", got)
	}

	p.Density = 1
	if got := Target(s, p); got != s.MaxNodes {
		t.Errorf("target must clamp down to max nodes, got %d", got)
	}
}

func TestRunCompletesScenario(t *testing.T) {
	gen := New(testSettings(), testZone, strategy.NewMold(), WithSeed(42))

	snap, err := gen.Run(context.Background(), testParams())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if gen.Phase() != Complete {
		t.Fatalf("expected phase complete, got %s", gen.Phase())
	}

	n := len(snap.Positions)
	if n < 5 || n > 10 {
		t.Errorf("expected 5 <= final node count <= 10, got %d", n)
	}

	for _, p := range snap.Positions {
		if !testZone.Contains(p) {
			t.Errorf("node %v outside zone", p)
		}
	}

	g := graph.New()
	if err := g.Import(snap); err != nil {
		t.Errorf("exported snapshot must be structurally valid: %v", err)
	}
}

func TestRunRejectsInvalidZone(t *testing.T) {
	flat := geom.AABB{Min: geom.Vec3{X: 0, Y: 0, Z: 0}, Max: geom.Vec3{X: 10, Y: 0, Z: 10}}
	gen := New(testSettings(), flat, strategy.NewMold(), WithSeed(1))

	snap, err := gen.Run(context.Background(), testParams())
	if !errors.Is(err, morph.ErrInvalidZone) {
		t.Fatalf("expected ErrInvalidZone, got %v", err)
	}
	if snap != nil {
		t.Error("rejected run must not produce a snapshot")
	}
	if gen.Phase() != Idle {
		t.Errorf("rejected run must stay idle, got %s", gen.Phase())
	}
}

func TestRunRejectsBadParameters(t *testing.T) {
	gen := New(testSettings(), testZone, strategy.NewMold())

	p := testParams()
	p.GrowthRate = 2
	if _, err := gen.Run(context.Background(), p); !errors.Is(err, morph.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestRunCancelledExportsPartial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := New(testSettings(), testZone, strategy.NewMold(), WithSeed(7))
	snap, err := gen.Run(ctx, testParams())

	if !errors.Is(err, morph.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if gen.Phase() != Cancelled {
		t.Errorf("expected phase cancelled, got %s", gen.Phase())
	}
	if snap == nil {
		t.Fatal("cancelled run must still export the partial graph")
	}
	// seeds were placed before the first tick check
	if len(snap.Positions) < testSettings().SeedCount {
		t.Errorf("partial snapshot must keep the seeds, got %d nodes", len(snap.Positions))
	}
}

func TestBackgroundRunCancelledSnapshotAfterWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var once sync.Once
	params := testParams()
	params.Density = 1 // target = MaxNodes, plenty of ticks to interrupt

	gen := New(testSettings(), testZone, strategy.NewMold(),
		WithSeed(17),
		WithObserver(func(p Progress) {
			if p.Phase == Growing {
				once.Do(cancel)
			}
		}))

	// the run executes in its own goroutine, as the live view drives it;
	// the reader must wait for the goroutine before touching its results
	var snap *graph.Snapshot
	var runErr error
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		snap, runErr = gen.Run(ctx, params)
	}()
	<-finished

	if !errors.Is(runErr, morph.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", runErr)
	}
	if snap == nil {
		t.Fatal("cancelled background run must still hand back the partial snapshot")
	}
	if len(snap.Positions) < testSettings().SeedCount {
		t.Errorf("partial snapshot lost the seeds, got %d nodes", len(snap.Positions))
	}
	if len(gen.History()) == 0 {
		t.Error("growth history must be readable after the run goroutine exits")
	}
}

func TestRunBudgetExceeded(t *testing.T) {
	// a strategy that never proposes anything keeps the loop from converging
	gen := New(testSettings(), testZone, rejectAll{}, WithBudget(10*time.Millisecond), WithSeed(3))

	snap, err := gen.Run(context.Background(), testParams())
	if !errors.Is(err, morph.ErrBudgetExceeded) {
		t.Fatalf("expected ErrBudgetExceeded, got %v", err)
	}
	if snap == nil {
		t.Fatal("timed-out run must still export")
	}

	var ge *morph.GrowthError
	if !errors.As(err, &ge) {
		t.Fatal("budget error must carry growth context")
	}
	if ge.Phase != Growing.String() {
		t.Errorf("expected growing phase in error, got %s", ge.Phase)
	}
}

func TestConnectivityPassDistanceBounds(t *testing.T) {
	settings := testSettings()
	settings.NodeMaxDistance = 2.0
	gen := New(settings, testZone, strategy.NewMold())
	gen.rng = rand.New(rand.NewSource(5))

	a := gen.g.AddSeed(geom.Vec3{X: 1, Y: 1, Z: 1})
	b := gen.g.AddSeed(geom.Vec3{X: 3, Y: 1, Z: 1}) // exactly at max distance
	c := gen.g.AddSeed(geom.Vec3{X: 9, Y: 9, Z: 9}) // far beyond

	gen.connectivityPass(0, settings.NodeMaxDistance, 1.0)

	if !gen.g.Connected(a.ID, b.ID) {
		t.Error("pair at exactly nodeMaxDistance must be eligible")
	}
	if gen.g.Connected(a.ID, c.ID) || gen.g.Connected(b.ID, c.ID) {
		t.Error("pair beyond nodeMaxDistance must never connect")
	}
}

func TestConnectivityPassProbabilityZero(t *testing.T) {
	gen := New(testSettings(), testZone, strategy.NewMold(), WithSeed(5))
	gen.g.AddSeed(geom.Vec3{X: 1, Y: 1, Z: 1})
	gen.g.AddSeed(geom.Vec3{X: 2, Y: 1, Z: 1})

	gen.connectivityPass(0, 10, 0)
	if gen.g.ConnCount() != 0 {
		t.Error("probability 0 must connect nothing")
	}
}

func TestFinalizePrunesIsolatedNonSeeds(t *testing.T) {
	gen := New(testSettings(), testZone, strategy.NewMold(), WithSeed(9))
	gen.g.AddSeed(geom.Vec3{X: 1, Y: 1, Z: 1})
	orphan := gen.g.AddNode(geom.Vec3{X: 8, Y: 8, Z: 8})

	params := testParams()
	params.Connectivity = 0
	gen.finalize(params)

	if _, ok := gen.g.Node(orphan.ID); ok {
		t.Error("isolated non-seed node must be pruned")
	}
	if gen.g.NodeCount() != 1 {
		t.Errorf("seed must survive pruning, got %d nodes", gen.g.NodeCount())
	}
}

func TestCompletionCallbackFiresOnce(t *testing.T) {
	calls := 0
	gen := New(testSettings(), testZone, strategy.NewMold(),
		WithSeed(11),
		WithCompletion(func(snap *graph.Snapshot) {
			calls++
			if snap == nil {
				t.Error("completion callback must receive the snapshot")
			}
		}))

	if _, err := gen.Run(context.Background(), testParams()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected one completion callback, got %d", calls)
	}
}

func TestObserverSeesMonotonicGrowth(t *testing.T) {
	last := 0
	gen := New(testSettings(), testZone, strategy.NewMold(),
		WithSeed(13),
		WithObserver(func(p Progress) {
			if p.Phase != Growing {
				return
			}
			if p.NodeCount < last {
				t.Errorf("node count decreased during growth: %d -> %d", last, p.NodeCount)
			}
			last = p.NodeCount
		}))

	if _, err := gen.Run(context.Background(), testParams()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
}

type rejectAll struct{}

func (rejectAll) Name() string { return "reject" }

func (rejectAll) EvaluateStep(*graph.Graph, geom.AABB, morph.Parameters,
	geom.ScalarField, geom.ObstacleMask, *rand.Rand) strategy.Result {
	return strategy.Invalid()
}
