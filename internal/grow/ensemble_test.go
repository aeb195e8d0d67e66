package grow

import (
	"context"
	"testing"

	"github.com/san-kum/biomorph/internal/strategy"
)

func TestEnsembleRunsIndependently(t *testing.T) {
	ens := NewEnsemble(testSettings(), testZone, strategy.NewMold(), 4, 100)

	snaps, err := ens.Run(context.Background(), testParams())
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(snaps) != 4 {
		t.Fatalf("expected 4 snapshots, got %d", len(snaps))
	}

	seen := make(map[string]bool)
	for i, snap := range snaps {
		if snap == nil {
			t.Fatalf("snapshot %d is nil", i)
		}
		n := len(snap.Positions)
		if n < 5 || n > 10 {
			t.Errorf("snapshot %d: expected 5 <= nodes <= 10, got %d", i, n)
		}
		if seen[snap.ID] {
			t.Errorf("duplicate snapshot ID %s", snap.ID)
		}
		seen[snap.ID] = true
	}

	// consecutive seeds must diverge
	if snaps[0].Positions[0] == snaps[1].Positions[0] {
		t.Error("different seeds produced identical seed placement")
	}
}

func TestEnsemblePropagatesFailure(t *testing.T) {
	settings := testSettings()
	settings.SeedCount = 0 // invalid
	ens := NewEnsemble(settings, testZone, strategy.NewMold(), 2, 1)

	if _, err := ens.Run(context.Background(), testParams()); err == nil {
		t.Error("expected validation error to propagate")
	}
}
