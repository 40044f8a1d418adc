// Package preset stores named credential/model presets and the fallback
// order the provider chain walks when the primary provider fails.
package preset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/julianchen24/commitgen/internal/config"
	"github.com/julianchen24/commitgen/internal/provider"
)

// Fields is the credential subset of the configuration a preset captures.
type Fields struct {
	Provider   string `yaml:"provider"`
	Model      string `yaml:"model"`
	APIKey     string `yaml:"apiKey"`
	APIURL     string `yaml:"apiUrl"`
	APIHeaders string `yaml:"apiHeaders"`
}

// Preset is a named, saved credential set.
type Preset struct {
	ID     int    `yaml:"id"`
	Name   string `yaml:"name"`
	Fields Fields `yaml:",inline"`
}

// Fallback holds the ordered preset IDs tried after the primary provider.
type Fallback struct {
	Order []int `yaml:"order"`
}

// File is the on-disk presets document.
type File struct {
	NextID   int      `yaml:"nextId"`
	Presets  []Preset `yaml:"presets"`
	Fallback Fallback `yaml:"fallback"`
}

var (
	storageMu sync.Mutex
	basePath  string
)

// SetBasePath overrides the directory used for the presets file. Use only in
// tests; empty restores the user config dir.
func SetBasePath(path string) {
	storageMu.Lock()
	defer storageMu.Unlock()
	basePath = path
}

func filePath() (string, error) {
	storageMu.Lock()
	base := basePath
	storageMu.Unlock()

	if base == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(dir, "commitgen")
	}
	return filepath.Join(base, "presets.yml"), nil
}

// Load reads the presets file; a missing file yields an empty document.
func Load() (*File, error) {
	path, err := filePath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &File{}, nil
		}
		return nil, err
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &file, nil
}

// Save writes the presets document atomically: a side file is written first
// and renamed over the original.
func Save(file *File) error {
	path, err := filePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(file)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// FieldsFromConfig snapshots the credential fields of cfg.
func FieldsFromConfig(cfg *config.Config) Fields {
	return Fields{
		Provider:   cfg.Provider,
		Model:      cfg.Model,
		APIKey:     cfg.APIKey,
		APIURL:     cfg.APIURL,
		APIHeaders: cfg.APIHeaders,
	}
}

// Apply copies the preset's credential fields into cfg.
func (p *Preset) Apply(cfg *config.Config) {
	cfg.Provider = p.Fields.Provider
	cfg.Model = p.Fields.Model
	cfg.APIKey = p.Fields.APIKey
	cfg.APIURL = p.Fields.APIURL
	cfg.APIHeaders = p.Fields.APIHeaders
}

// sameCredentials compares the de-dup key: provider, model, key, and URL.
// Headers are deliberately excluded.
func sameCredentials(a, b Fields) bool {
	return a.Provider == b.Provider && a.Model == b.Model &&
		a.APIKey == b.APIKey && a.APIURL == b.APIURL
}

// FindDuplicate returns the ID of an existing preset with the same
// credentials, if any.
func (f *File) FindDuplicate(fields Fields) (int, bool) {
	for _, p := range f.Presets {
		if sameCredentials(p.Fields, fields) {
			return p.ID, true
		}
	}
	return 0, false
}

// Add appends a new preset and returns its assigned ID.
func (f *File) Add(name string, fields Fields) int {
	f.NextID++
	id := f.NextID
	f.Presets = append(f.Presets, Preset{ID: id, Name: name, Fields: fields})
	return id
}

// Delete removes the preset with the given ID and drops it from the
// fallback order.
func (f *File) Delete(id int) {
	presets := f.Presets[:0]
	for _, p := range f.Presets {
		if p.ID != id {
			presets = append(presets, p)
		}
	}
	f.Presets = presets

	order := f.Fallback.Order[:0]
	for _, entry := range f.Fallback.Order {
		if entry != id {
			order = append(order, entry)
		}
	}
	f.Fallback.Order = order
}

// ByID returns the preset with the given ID.
func (f *File) ByID(id int) (*Preset, bool) {
	for i := range f.Presets {
		if f.Presets[i].ID == id {
			return &f.Presets[i], true
		}
	}
	return nil, false
}

// Candidates builds the fallback candidates for the provider chain: each
// preset in the configured order, skipping any whose credentials match the
// active configuration, rendered as a full config derived from cfg.
func (f *File) Candidates(cfg *config.Config) []provider.Candidate {
	current := FieldsFromConfig(cfg)

	var candidates []provider.Candidate
	for _, id := range f.Fallback.Order {
		p, ok := f.ByID(id)
		if !ok {
			continue
		}
		if sameCredentials(p.Fields, current) {
			continue
		}

		candidateCfg := *cfg
		p.Apply(&candidateCfg)
		candidates = append(candidates, provider.Candidate{Name: p.Name, Cfg: &candidateCfg})
	}
	return candidates
}
