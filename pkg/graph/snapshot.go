package graph

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SnapshotVersion is the current snapshot file format version.
const SnapshotVersion = "v1"

// Snapshot is the on-disk YAML representation of a prebuilt dependency
// graph. Graph extraction happens upstream; this package only loads the
// result.
type Snapshot struct {
	Version string `yaml:"version"`
	Nodes   []Node `yaml:"nodes"`
	Edges   []Edge `yaml:"edges"`
}

// LoadSnapshot reads a YAML snapshot file into a MemoryBackend.
func LoadSnapshot(path string) (*MemoryBackend, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	return ParseSnapshot(data)
}

// ParseSnapshot decodes YAML snapshot bytes into a MemoryBackend.
func ParseSnapshot(data []byte) (*MemoryBackend, error) {
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if snap.Version != "" && snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %q (want %q)", snap.Version, SnapshotVersion)
	}
	backend := NewMemoryBackend()
	for i, n := range snap.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("snapshot node %d has empty id", i)
		}
		backend.AddNode(n)
	}
	for i, e := range snap.Edges {
		if e.Source == "" || e.Target == "" {
			return nil, fmt.Errorf("snapshot edge %d missing source or target", i)
		}
		backend.AddEdge(e)
	}
	return backend, nil
}

// WriteSnapshot serializes a snapshot to a YAML file.
func WriteSnapshot(path string, snap *Snapshot) error {
	if snap.Version == "" {
		snap.Version = SnapshotVersion
	}
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	return nil
}
