// internal/config/config.go
//
// This package handles configuration and the .draftfield directory structure.
// Every project that runs draftfield gets a .draftfield/ folder in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/draftfield/internal/field"
)

const (
	// Dir is the name of the directory we create in each project
	Dir = ".draftfield"

	// ProjectDirEnv overrides the working directory used as the project root.
	ProjectDirEnv = "DRAFTFIELD_PROJECT_DIR"

	defaultTitle  = "draftfield"
	defaultHeight = 4
)

const defaultProjectConfigYAML = `# draftfield project configuration
version: 1

form:
  title: draftfield
  height: 4
  fields:
    - id: notes
      label: Notes
      default: ""
    - id: summary
      label: Summary
      default: ""

# Keys that commit a pending edit without leaving the field.
# Most terminals send ctrl+j for Ctrl+Enter.
keys:
  apply: [ctrl+j, alt+enter]

state:
  persist: true
`

// FieldConfig declares one text field.
type FieldConfig struct {
	ID       string `yaml:"id"`
	Label    string `yaml:"label"`
	Default  string `yaml:"default"`
	Disabled bool   `yaml:"disabled,omitempty"`
	Width    int    `yaml:"width,omitempty"`
}

// FormConfig describes the form shown by the TUI.
type FormConfig struct {
	Title  string        `yaml:"title"`
	Height int           `yaml:"height,omitempty"`
	Fields []FieldConfig `yaml:"fields"`
}

// KeysConfig holds key binding overrides.
type KeysConfig struct {
	Apply []string `yaml:"apply"`
}

// StateConfig controls persistence of committed values.
type StateConfig struct {
	Persist bool `yaml:"persist"`
}

// ProjectConfig models .draftfield/config.yaml.
type ProjectConfig struct {
	Version int         `yaml:"version"`
	Form    FormConfig  `yaml:"form"`
	Keys    KeysConfig  `yaml:"keys"`
	State   StateConfig `yaml:"state"`
}

// Config holds the runtime configuration for draftfield.
type Config struct {
	// ProjectDir is the directory where the user ran `draftfield` from
	ProjectDir string

	// StateRoot is ProjectDir/.draftfield
	StateRoot string

	Project ProjectConfig
}

// InitDir creates the .draftfield directory structure in the given project directory.
//
// Structure created:
// .draftfield/
// ├── config.yaml
// ├── cache/   <- memoized summaries keyed by committed values
// ├── logs/    <- draftfield.log and commits.log
// └── state/   <- committed field values
func InitDir(projectDir string) error {
	root := filepath.Join(projectDir, Dir)
	for _, dir := range []string{
		filepath.Join(root, "cache"),
		filepath.Join(root, "logs"),
		filepath.Join(root, "state"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return ensureProjectConfig(filepath.Join(root, "config.yaml"))
}

// ResolveProjectDir returns the DRAFTFIELD_PROJECT_DIR override or fallback.
func ResolveProjectDir(fallback string) string {
	if dir := strings.TrimSpace(os.Getenv(ProjectDirEnv)); dir != "" {
		return filepath.Clean(dir)
	}
	return fallback
}

// NewConfig creates a new Config instance populated with project settings.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir: projectDir,
		StateRoot:  filepath.Join(projectDir, Dir),
		Project:    defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.StateRoot, "logs")
}

// StateDir returns the path to the state directory
func (c *Config) StateDir() string {
	return filepath.Join(c.StateRoot, "state")
}

// CacheDir returns the directory holding memoized recompute results
func (c *Config) CacheDir() string {
	return filepath.Join(c.StateRoot, "cache")
}

// SnapshotPath is where committed values are persisted between runs.
func (c *Config) SnapshotPath() string {
	return filepath.Join(c.StateDir(), "fields.yaml")
}

// JournalPath is the commit journal file.
func (c *Config) JournalPath() string {
	return filepath.Join(c.LogsDir(), "commits.log")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.StateRoot, "config.yaml")
}

// Descriptors converts the configured fields into field descriptors.
func (c *Config) Descriptors() []field.Descriptor {
	out := make([]field.Descriptor, 0, len(c.Project.Form.Fields))
	for _, f := range c.Project.Form.Fields {
		out = append(out, field.Descriptor{
			ID:       f.ID,
			Label:    f.Label,
			Default:  f.Default,
			Disabled: f.Disabled,
			Width:    f.Width,
		})
	}
	return out
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	pc := ProjectConfig{
		Version: 1,
		Form: FormConfig{
			Title:  defaultTitle,
			Height: defaultHeight,
			Fields: []FieldConfig{{ID: "notes", Label: "Notes"}},
		},
		Keys:  KeysConfig{Apply: []string{"ctrl+j", "alt+enter"}},
		State: StateConfig{Persist: true},
	}
	return pc
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if pc.Form.Height <= 0 {
		pc.Form.Height = defaultHeight
	}
	if len(pc.Keys.Apply) == 0 {
		pc.Keys.Apply = defaultProjectConfig().Keys.Apply
	}
}

func (pc *ProjectConfig) normalize() {
	pc.Form.Title = strings.TrimSpace(pc.Form.Title)
	if pc.Form.Title == "" {
		pc.Form.Title = defaultTitle
	}
	for i := range pc.Form.Fields {
		f := &pc.Form.Fields[i]
		f.ID = strings.TrimSpace(f.ID)
		f.Label = strings.TrimSpace(f.Label)
		if f.Label == "" {
			f.Label = f.ID
		}
	}
	keys := pc.Keys.Apply[:0]
	for _, k := range pc.Keys.Apply {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			keys = append(keys, k)
		}
	}
	pc.Keys.Apply = keys
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if len(pc.Form.Fields) == 0 {
		return fmt.Errorf("form.fields must declare at least one field")
	}
	seen := make(map[string]bool, len(pc.Form.Fields))
	for i, f := range pc.Form.Fields {
		if f.ID == "" {
			return fmt.Errorf("form.fields[%d]: id is required", i)
		}
		if seen[f.ID] {
			return fmt.Errorf("form.fields[%d]: duplicate id %q", i, f.ID)
		}
		seen[f.ID] = true
		if f.Width < 0 {
			return fmt.Errorf("form.fields[%d]: width must be >= 0", i)
		}
	}
	if len(pc.Keys.Apply) == 0 {
		return fmt.Errorf("keys.apply must list at least one key")
	}
	return nil
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}
