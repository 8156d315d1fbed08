// Package websites loads the list of websites the reporter summarizes (YAML/JSON).
package websites

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Website is one entry of the websites file. ID is the backend's website_id.
type Website struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Enabled *bool  `json:"enabled" yaml:"enabled"`
}

type fileRegistry struct {
	Websites []Website `json:"websites" yaml:"websites"`
}

// Registry holds the loaded websites in file order.
type Registry struct {
	mu       sync.RWMutex
	websites []Website
	idx      map[string]Website
}

// LoadRegistry loads the websites registry from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("websites file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open websites file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read websites file: %w", err)
	}

	reg, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return NewRegistry(reg.Websites)
}

// NewRegistry validates entries and builds a Registry from them.
func NewRegistry(entries []Website) (*Registry, error) {
	if len(entries) == 0 {
		return nil, errors.New("websites file contains no websites entries")
	}

	reg := &Registry{
		websites: make([]Website, len(entries)),
		idx:      make(map[string]Website, len(entries)),
	}
	for i := range entries {
		w := sanitizeWebsite(entries[i])
		if err := validateWebsite(w); err != nil {
			return nil, fmt.Errorf("websites[%d]: %w", i, err)
		}
		if _, exists := reg.idx[w.ID]; exists {
			return nil, fmt.Errorf("duplicate website id %q", w.ID)
		}
		reg.websites[i] = w
		reg.idx[w.ID] = w
	}
	return reg, nil
}

func parseRegistry(data []byte, ext string) (fileRegistry, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if reg, err := unmarshalRegistry(d.name, data, d.fn); err == nil {
			return reg, nil
		}
	}

	return fileRegistry{}, errors.New("websites file format not recognized (expected YAML or JSON)")
}

type unmarshalFn func([]byte, any) error

func unmarshalRegistry(name string, data []byte, fn unmarshalFn) (fileRegistry, error) {
	var reg fileRegistry
	if err := fn(data, &reg); err != nil {
		return fileRegistry{}, fmt.Errorf("decode %s websites: %w", name, err)
	}
	return reg, nil
}

func sanitizeWebsite(w Website) Website {
	w.ID = strings.TrimSpace(w.ID)
	w.Name = strings.TrimSpace(w.Name)
	if w.Name == "" {
		w.Name = w.ID
	}
	if w.Enabled == nil {
		def := true
		w.Enabled = &def
	}
	return w
}

func validateWebsite(w Website) error {
	if w.ID == "" {
		return errors.New("id is required")
	}
	return nil
}

// ByID returns the website entry for the given id.
func (r *Registry) ByID(id string) (Website, bool) {
	if r == nil {
		return Website{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Website{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.idx[id]
	return w, ok
}

// All returns every configured website.
func (r *Registry) All() []Website {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Website, len(r.websites))
	copy(out, r.websites)
	return out
}

// Enabled returns websites that are enabled.
func (r *Registry) Enabled() []Website {
	all := r.All()
	out := make([]Website, 0, len(all))
	for _, w := range all {
		if w.EnabledValue() {
			out = append(out, w)
		}
	}
	return out
}

// EnabledValue returns enabled flag defaulting to true.
func (w Website) EnabledValue() bool {
	if w.Enabled == nil {
		return true
	}
	return *w.Enabled
}
