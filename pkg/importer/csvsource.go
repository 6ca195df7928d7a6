// CLAUDE:SUMMARY Declarative CSV import adapter: column lookup, row filter, normalizer mode, gob + manifest output.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hazyhaar/touchstone-normalize/pkg/dict"
	"github.com/hazyhaar/touchstone-normalize/pkg/translit"
)

// Column names a logical field and the header spellings it may appear
// under. Header matching ignores case and surrounding spaces.
type Column struct {
	Name    string
	Headers []string
}

// Filter keeps a row only when Column holds one of Allow (case-insensitive).
// Rows where the column is missing or empty are kept.
type Filter struct {
	Column Column
	Allow  []string
}

// SourceSpec describes a CSV source completely; csvSource does the rest.
type SourceSpec struct {
	AdapterID    string
	Dict         string
	Desc         string
	URL          string
	LicenseName  string
	Jurisdiction string
	EntityType   string
	SourceName   string
	Version      string
	// Zipped sources are unpacked and the first .csv inside is read.
	Zipped    bool
	Delimiter rune
	Key       Column
	Metadata  []Column
	Filter    *Filter
	// Normalize is the dict normalizer mode used for keys.
	Normalize string
}

type csvSource struct {
	spec SourceSpec
}

// NewCSVSource returns an Adapter for spec.
func NewCSVSource(spec SourceSpec) Adapter {
	if spec.Delimiter == 0 {
		spec.Delimiter = ','
	}
	if spec.Normalize == "" {
		spec.Normalize = dict.ModeName
	}
	return &csvSource{spec: spec}
}

func (s *csvSource) ID() string          { return s.spec.AdapterID }
func (s *csvSource) DictID() string      { return s.spec.Dict }
func (s *csvSource) Description() string { return s.spec.Desc }
func (s *csvSource) DefaultURL() string  { return s.spec.URL }
func (s *csvSource) License() string     { return s.spec.LicenseName }

func (s *csvSource) Import(ctx context.Context, sourceURL, outputDir string) (*Stats, error) {
	dlDir := filepath.Join(outputDir, "_download", s.spec.AdapterID)
	if err := ensureDir(dlDir); err != nil {
		return nil, err
	}
	defer os.RemoveAll(dlDir)

	name := "source.csv"
	if s.spec.Zipped {
		name = "source.zip"
	}
	path := filepath.Join(dlDir, name)
	if err := downloadFile(ctx, sourceURL, path); err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}

	if s.spec.Zipped {
		files, err := unzipFile(path, dlDir)
		if err != nil {
			return nil, fmt.Errorf("unzip: %w", err)
		}
		if path = findCSV(files); path == "" {
			return nil, fmt.Errorf("no CSV found in ZIP")
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// One transliteration context for the whole run.
	b := dict.NewBuilder(s.spec.Normalize, translit.NewContext())
	stats, err := s.parse(ctx, f, b)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	dictDir := filepath.Join(outputDir, s.spec.Dict)
	if err := ensureDir(dictDir); err != nil {
		return nil, err
	}
	if err := b.SaveGob(filepath.Join(dictDir, "data.gob")); err != nil {
		return nil, fmt.Errorf("save gob: %w", err)
	}
	err = writeManifest(dictDir, &dict.Manifest{
		ID:           s.spec.Dict,
		Version:      s.spec.Version,
		Jurisdiction: s.spec.Jurisdiction,
		EntityType:   s.spec.EntityType,
		Source:       s.spec.SourceName,
		SourceURL:    sourceURL,
		License:      s.spec.LicenseName,
		DataFile:     "data.gob",
		Format:       dict.FormatSpec{Normalize: s.spec.Normalize},
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// parse streams rows from r into b.
func (s *csvSource) parse(ctx context.Context, r io.Reader, b *dict.Builder) (*Stats, error) {
	cr := csv.NewReader(r)
	cr.Comma = s.spec.Delimiter
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	keyCol := columnIndex(header, s.spec.Key)
	if keyCol < 0 {
		return nil, fmt.Errorf("column %q not found in header %v", s.spec.Key.Name, header)
	}
	metaCols := make(map[string]int, len(s.spec.Metadata))
	for _, c := range s.spec.Metadata {
		if i := columnIndex(header, c); i >= 0 {
			metaCols[c.Name] = i
		}
	}
	filterCol := -1
	if s.spec.Filter != nil {
		filterCol = columnIndex(header, s.spec.Filter.Column)
	}

	stats := &Stats{Normalize: s.spec.Normalize}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed rows are skipped, as the bulk files carry a few.
			stats.Skipped++
			continue
		}
		stats.Rows++
		if stats.Rows%100000 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if filterCol >= 0 && filterCol < len(record) {
			v := strings.TrimSpace(record[filterCol])
			if v != "" && !slices.ContainsFunc(s.spec.Filter.Allow, func(a string) bool { return strings.EqualFold(a, v) }) {
				stats.Skipped++
				continue
			}
		}
		if keyCol >= len(record) {
			stats.Skipped++
			continue
		}

		var meta map[string]string
		if len(metaCols) > 0 {
			meta = make(map[string]string, len(metaCols))
			for name, i := range metaCols {
				if i < len(record) {
					meta[name] = strings.TrimSpace(record[i])
				}
			}
		}
		if !b.Add(record[keyCol], meta) {
			stats.Skipped++
		}
	}

	stats.Entries = len(b.Entries())
	stats.Collisions = b.Collisions()
	return stats, nil
}

func columnIndex(header []string, c Column) int {
	for i, h := range header {
		h = strings.TrimSpace(h)
		for _, want := range c.Headers {
			if strings.EqualFold(h, want) {
				return i
			}
		}
	}
	return -1
}
