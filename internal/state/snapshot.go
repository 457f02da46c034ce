package state

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/draftfield/internal/field"
)

const snapshotVersion = 1

type snapshotFile struct {
	Version int             `yaml:"version"`
	SavedAt time.Time       `yaml:"saved_at"`
	Fields  []snapshotEntry `yaml:"fields"`
}

type snapshotEntry struct {
	ID        string    `yaml:"id"`
	Value     string    `yaml:"value"`
	Origin    string    `yaml:"origin"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

// Save writes every committed value to path as YAML. The file is replaced
// atomically.
func (m *Manager) Save(path string) error {
	entries := m.Snapshot()
	doc := snapshotFile{Version: snapshotVersion, SavedAt: m.clock()}
	for id, e := range entries {
		doc.Fields = append(doc.Fields, snapshotEntry{
			ID:        id,
			Value:     e.Value,
			Origin:    e.Origin.String(),
			UpdatedAt: e.UpdatedAt,
		})
	}
	sort.Slice(doc.Fields, func(i, j int) bool { return doc.Fields[i].ID < doc.Fields[j].ID })

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("state: encode snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("state: ensure snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*.yaml")
	if err != nil {
		return fmt.Errorf("state: create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("state: write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("state: close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("state: replace snapshot: %w", err)
	}
	m.logger.Printf("state: saved %d fields to %s", len(doc.Fields), path)
	return nil
}

// Load restores values saved by Save. Restored values are stored as
// OriginSystem and never request a rerun. A missing file is not an error.
func (m *Manager) Load(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("state: read %s: %w", path, err)
	}
	var doc snapshotFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("state: parse %s: %w", path, err)
	}
	if doc.Version != snapshotVersion {
		return 0, fmt.Errorf("state: %s: unsupported snapshot version %d", path, doc.Version)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range doc.Fields {
		if f.ID == "" {
			continue
		}
		m.entries[f.ID] = Entry{Value: f.Value, Origin: field.OriginSystem, UpdatedAt: f.UpdatedAt}
	}
	m.logger.Printf("state: restored %d fields from %s", len(doc.Fields), path)
	return len(doc.Fields), nil
}
