// CLAUDE:SUMMARY Thread-safe registry of loaded dictionaries with hot reload and filtered term matching.
package dict

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"

	"github.com/hazyhaar/touchstone-normalize/pkg/translit"
)

// Registry holds all loaded dictionaries and serves match queries.
type Registry struct {
	mu       sync.RWMutex
	dicts    map[string]*Dictionary
	dictsDir string
	tr       translit.Transliterator
	fallback Normalizer
}

// NewRegistry creates an empty registry for dictsDir. Normalizers that
// transliterate go through tr, which must be safe for concurrent use;
// nil uses the process-wide pool.
func NewRegistry(dictsDir string, tr translit.Transliterator) *Registry {
	if tr == nil {
		tr = translit.Default()
	}
	return &Registry{
		dicts:    make(map[string]*Dictionary),
		dictsDir: dictsDir,
		tr:       tr,
		fallback: NewNormalizer(ModeName, tr),
	}
}

// Load scans the dicts directory and loads every dictionary. On error the
// previously loaded set stays in place.
func (r *Registry) Load() error {
	entries, err := os.ReadDir(r.dictsDir)
	if err != nil {
		return fmt.Errorf("read dicts dir %s: %w", r.dictsDir, err)
	}

	newDicts := make(map[string]*Dictionary)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(r.dictsDir, entry.Name())
		if _, err := os.Stat(filepath.Join(dir, "manifest.yaml")); err != nil {
			continue
		}
		d, err := LoadDictionary(dir, r.tr)
		if err != nil {
			return fmt.Errorf("load dictionary %s: %w", entry.Name(), err)
		}
		if _, dup := newDicts[d.Manifest.ID]; dup {
			return fmt.Errorf("duplicate dictionary id %q in %s", d.Manifest.ID, dir)
		}
		newDicts[d.Manifest.ID] = d
	}

	r.mu.Lock()
	r.dicts = newDicts
	r.mu.Unlock()
	return nil
}

// Reload reloads all dictionaries from disk (hot reload).
func (r *Registry) Reload() error {
	return r.Load()
}

// Match is a single dictionary hit.
type Match struct {
	DictID       string            `json:"dict_id"`
	Jurisdiction string            `json:"jurisdiction"`
	EntityType   string            `json:"entity_type"`
	Key          string            `json:"key"`
	Variants     []string          `json:"variants,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// MatchResult is the response for a single term.
type MatchResult struct {
	Term string `json:"term"`
	// Normalized is the key under the first matching dictionary, or the
	// name normalization of Term when nothing matched.
	Normalized string  `json:"normalized"`
	Matches    []Match `json:"matches"`
}

// MatchOptions are optional filters.
type MatchOptions struct {
	Jurisdictions []string
	Types         []string
	Dicts         []string
}

func (o *MatchOptions) admits(m *Manifest) bool {
	if o == nil {
		return true
	}
	if len(o.Jurisdictions) > 0 && !slices.Contains(o.Jurisdictions, m.Jurisdiction) {
		return false
	}
	if len(o.Types) > 0 && !slices.Contains(o.Types, m.EntityType) {
		return false
	}
	if len(o.Dicts) > 0 && !slices.Contains(o.Dicts, m.ID) {
		return false
	}
	return true
}

// Match looks up a term across all (or filtered) dictionaries, each under
// its own normalizer. Dictionaries are visited in sorted ID order.
func (r *Registry) Match(term string, opts *MatchOptions) *MatchResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := &MatchResult{
		Term:    term,
		Matches: []Match{},
	}

	ids := make([]string, 0, len(r.dicts))
	for id := range r.dicts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		d := r.dicts[id]
		if !opts.admits(d.Manifest) {
			continue
		}
		key := d.NormalizeTerm(term)
		if key == "" {
			continue
		}
		entry, ok := d.Entries[key]
		if !ok {
			continue
		}
		if result.Normalized == "" {
			result.Normalized = key
		}
		result.Matches = append(result.Matches, Match{
			DictID:       d.Manifest.ID,
			Jurisdiction: d.Manifest.Jurisdiction,
			EntityType:   d.Manifest.EntityType,
			Key:          key,
			Variants:     entry.Variants,
			Metadata:     entry.Metadata,
		})
	}

	if result.Normalized == "" {
		result.Normalized = r.fallback(term)
	}
	return result
}

// DictInfo is the public metadata for a loaded dictionary.
type DictInfo struct {
	ID           string `json:"id"`
	Version      string `json:"version"`
	Jurisdiction string `json:"jurisdiction"`
	EntityType   string `json:"entity_type"`
	Source       string `json:"source"`
	SourceURL    string `json:"source_url,omitempty"`
	License      string `json:"license"`
	Normalize    string `json:"normalize"`
	Entries      int    `json:"entries"`
	Collisions   int    `json:"collisions"`
}

// ListDicts returns metadata for all loaded dictionaries, sorted by ID.
func (r *Registry) ListDicts() []DictInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]DictInfo, 0, len(r.dicts))
	for _, d := range r.dicts {
		infos = append(infos, DictInfo{
			ID:           d.Manifest.ID,
			Version:      d.Manifest.Version,
			Jurisdiction: d.Manifest.Jurisdiction,
			EntityType:   d.Manifest.EntityType,
			Source:       d.Manifest.Source,
			SourceURL:    d.Manifest.SourceURL,
			License:      d.Manifest.License,
			Normalize:    d.Manifest.Format.Normalize,
			Entries:      len(d.Entries),
			Collisions:   d.Collisions,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// DictCount returns the number of loaded dictionaries.
func (r *Registry) DictCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.dicts)
}

// TotalEntries returns the total number of entries across all dictionaries.
func (r *Registry) TotalEntries() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, d := range r.dicts {
		total += len(d.Entries)
	}
	return total
}
