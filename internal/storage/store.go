// Package storage persists generation runs under a base directory, one
// subdirectory per run holding metadata.json and graph.json.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/san-kum/biomorph/internal/graph"
	"github.com/san-kum/biomorph/internal/morph"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	SnapshotID  string             `json:"snapshot_id"`
	Type        string             `json:"type"`
	Pattern     string             `json:"pattern"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	NodeCount   int                `json:"node_count"`
	ConnCount   int                `json:"connection_count"`
	Metrics     map[string]float64 `json:"metrics"`
	Parameters  morph.Parameters   `json:"parameters"`
	GrowHistory []int              `json:"grow_history,omitempty"`
}

// Save writes a run directory named <type>_<unix>_<suffix> and returns
// the run ID. The snapshot ID suffix keeps runs saved within the same
// second apart.
func (s *Store) Save(snap *graph.Snapshot, seed int64, history []int) (string, error) {
	suffix := snap.ID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	runID := fmt.Sprintf("%s_%d_%s", snap.Parameters.Type, time.Now().Unix(), suffix)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		SnapshotID:  snap.ID,
		Type:        string(snap.Parameters.Type),
		Pattern:     string(snap.Parameters.Pattern),
		Timestamp:   time.Now(),
		Seed:        seed,
		NodeCount:   len(snap.Positions),
		ConnCount:   len(snap.Pairs),
		Metrics:     snap.Metrics,
		Parameters:  snap.Parameters,
		GrowHistory: history,
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "graph.json"), snap); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSnapshot reads a run's graph snapshot and re-validates its
// referential integrity before handing it out.
func (s *Store) LoadSnapshot(runID string) (*graph.Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "graph.json"))
	if err != nil {
		return nil, err
	}
	var snap graph.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	g := graph.New()
	if err := g.Import(&snap); err != nil {
		return nil, fmt.Errorf("corrupt snapshot %s: %w", runID, err)
	}
	return &snap, nil
}
