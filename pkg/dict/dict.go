// CLAUDE:SUMMARY Dictionary loading (CSV or gob) into a normalized-key hashmap with merged raw spellings.
package dict

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hazyhaar/touchstone-normalize/pkg/translit"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Entry is a single normalized key in a dictionary. Variants holds every
// raw spelling that normalized to the key, in first-seen order.
type Entry struct {
	Variants []string          `json:"variants,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Dictionary is one loaded dictionary with its manifest and in-memory hashmap.
type Dictionary struct {
	Manifest   *Manifest         `json:"manifest"`
	Entries    map[string]*Entry `json:"-"`
	Collisions int               `json:"collisions"`
	normalize  Normalizer
}

// Builder accumulates entries under normalized keys.
type Builder struct {
	mode       string
	normalize  Normalizer
	entries    map[string]*Entry
	collisions int
}

// NewBuilder returns a Builder keyed by the normalizer for mode.
func NewBuilder(mode string, tr translit.Transliterator) *Builder {
	if mode == "" {
		mode = ModeName
	}
	return &Builder{
		mode:      mode,
		normalize: NewNormalizer(mode, tr),
		entries:   make(map[string]*Entry),
	}
}

// Add normalizes raw and stores it. When the key already exists the raw
// spelling joins its variants and the first metadata is kept. Add reports
// false when raw has no usable key.
func (b *Builder) Add(raw string, meta map[string]string) bool {
	raw = strings.TrimSpace(raw)
	key := b.normalize(raw)
	if key == "" {
		return false
	}
	e, ok := b.entries[key]
	if !ok {
		b.entries[key] = &Entry{Variants: []string{raw}, Metadata: meta}
		return true
	}
	b.collisions++
	if !slices.Contains(e.Variants, raw) {
		e.Variants = append(e.Variants, raw)
	}
	if e.Metadata == nil {
		e.Metadata = meta
	}
	return true
}

// Entries returns the accumulated map. The Builder must not be used after.
func (b *Builder) Entries() map[string]*Entry { return b.entries }

// Collisions counts Add calls that landed on an existing key.
func (b *Builder) Collisions() int { return b.collisions }

// LoadDictionary reads a manifest.yaml and loads data from gob or csv.
// A nil tr uses the process-wide transliteration pool.
func LoadDictionary(dir string, tr translit.Transliterator) (*Dictionary, error) {
	manifestPath := filepath.Join(dir, "manifest.yaml")
	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	d := &Dictionary{
		Manifest:  manifest,
		Entries:   make(map[string]*Entry),
		normalize: NewNormalizer(manifest.Format.Normalize, tr),
	}

	// Gob takes priority over CSV.
	gobPath := filepath.Join(dir, "data.gob")
	if _, err := os.Stat(gobPath); err == nil {
		if err := d.loadGob(gobPath); err != nil {
			return nil, fmt.Errorf("dict %s: %w", manifest.ID, err)
		}
		return d, nil
	}

	dataPath := filepath.Join(dir, manifest.DataFile)
	if err := d.loadCSV(dataPath, tr); err != nil {
		return nil, fmt.Errorf("dict %s: %w", manifest.ID, err)
	}
	return d, nil
}

func (d *Dictionary) loadCSV(path string, tr translit.Transliterator) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	// Transcode non-UTF-8 encodings declared in the manifest.
	var reader io.Reader = f
	if enc := d.Manifest.Format.Encoding; enc != "" && !isUTF8(enc) {
		e, err := htmlindex.Get(enc)
		if err != nil {
			return fmt.Errorf("unsupported encoding %q: %w", enc, err)
		}
		reader = transform.NewReader(f, e.NewDecoder())
	}

	r := csv.NewReader(reader)
	if delim := d.Manifest.Format.Delimiter; delim != "" {
		r.Comma = []rune(delim)[0]
	}
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	var header []string
	if d.Manifest.Format.HasHeader {
		header, err = r.Read()
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}
		for i := range header {
			header[i] = strings.TrimSpace(header[i])
		}
	}

	keyIdx := 0
	if col := d.Manifest.Format.KeyColumn; col != "" && header != nil {
		keyIdx = slices.Index(header, col)
		if keyIdx < 0 {
			return fmt.Errorf("key column %q not found in header %v", col, header)
		}
	}

	metaIdx := make(map[string]int)
	for _, mc := range d.Manifest.MetadataCols {
		if i := slices.Index(header, mc.Column); i >= 0 {
			metaIdx[mc.Name] = i
		}
	}

	b := NewBuilder(d.Manifest.Format.Normalize, tr)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read row: %w", err)
		}
		if keyIdx >= len(record) {
			continue
		}

		var meta map[string]string
		if len(metaIdx) > 0 {
			meta = make(map[string]string, len(metaIdx))
			for name, idx := range metaIdx {
				if idx < len(record) {
					meta[name] = strings.TrimSpace(record[idx])
				}
			}
		}
		b.Add(record[keyIdx], meta)
	}

	d.Entries = b.Entries()
	d.Collisions = b.Collisions()
	if d.Collisions > 0 {
		slog.Warn("key collisions after normalization", "dict", d.Manifest.ID, "collisions", d.Collisions)
	}
	return nil
}

// Lookup searches for a term in this dictionary after normalization.
func (d *Dictionary) Lookup(term string) (*Entry, bool) {
	key := d.normalize(term)
	if key == "" {
		return nil, false
	}
	e, ok := d.Entries[key]
	return e, ok
}

// NormalizeTerm applies this dictionary's normalizer to a term.
func (d *Dictionary) NormalizeTerm(term string) string {
	return d.normalize(term)
}

func isUTF8(enc string) bool {
	e := strings.ToLower(strings.ReplaceAll(enc, "-", ""))
	return e == "utf8" || e == ""
}
