// CLAUDE:SUMMARY Import adapter contract, global adapter registry, and the run wrapper that records each import.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/hazyhaar/touchstone-normalize/pkg/metrics"
)

// Adapter defines a data source importer that downloads a source, keys it
// with a dictionary normalizer, and writes a gob dictionary.
type Adapter interface {
	// ID returns the unique identifier of this adapter (e.g. "census-surnames-us").
	ID() string
	// DictID returns the target dictionary ID (e.g. "surnames-us").
	DictID() string
	// Description returns a human-readable description.
	Description() string
	// DefaultURL returns the default source URL used for seeding the database.
	DefaultURL() string
	// License returns the license identifier for this source.
	License() string
	// Import downloads the source from sourceURL and writes data.gob and
	// manifest.yaml into outputDir/DictID().
	Import(ctx context.Context, sourceURL, outputDir string) (*Stats, error)
}

// Stats summarizes one import.
type Stats struct {
	Rows       int
	Entries    int
	Collisions int
	// Skipped counts rows dropped by a filter or with no usable key.
	Skipped   int
	Normalize string
}

var (
	registryMu sync.RWMutex
	adapters   = make(map[string]Adapter)
)

// Register adds an adapter to the global registry.
func Register(a Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	adapters[a.ID()] = a
}

// Get returns a registered adapter by ID, or an error if not found.
func Get(id string) (Adapter, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	a, ok := adapters[id]
	if !ok {
		return nil, fmt.Errorf("unknown import source: %q", id)
	}
	return a, nil
}

// All returns all registered adapters sorted by ID.
func All() []Adapter {
	registryMu.RLock()
	defer registryMu.RUnlock()
	result := make([]Adapter, 0, len(adapters))
	for _, a := range adapters {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID() < result[j].ID() })
	return result
}

// Run imports a from the URL stored in sources and records the run.
func Run(ctx context.Context, a Adapter, sources *SourceDB, outputDir string, logger *slog.Logger) (*Stats, error) {
	url, err := sources.GetURL(a.ID())
	if err != nil {
		return nil, err
	}

	start := time.Now()
	logger.Info("import started", "adapter", a.ID(), "url", url)
	stats, err := a.Import(ctx, url, outputDir)
	if err != nil {
		if recErr := sources.RecordRun(a.ID(), start, nil, err); recErr != nil {
			logger.Error("record import run", "adapter", a.ID(), "error", recErr)
		}
		return nil, fmt.Errorf("import %s: %w", a.ID(), err)
	}
	if err := sources.RecordRun(a.ID(), start, stats, nil); err != nil {
		return stats, err
	}

	metrics.ImportEntries.WithLabelValues(a.DictID()).Set(float64(stats.Entries))
	logger.Info("import complete",
		"adapter", a.ID(),
		"entries", stats.Entries,
		"collisions", stats.Collisions,
		"skipped", stats.Skipped,
		"normalize", stats.Normalize,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return stats, nil
}
