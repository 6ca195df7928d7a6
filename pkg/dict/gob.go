// CLAUDE:SUMMARY Gob snapshots of built dictionaries, tagged with the normalizer that produced their keys.
package dict

import (
	"encoding/gob"
	"fmt"
	"os"
)

// snapshot is the gob payload. Keys are only meaningful under the
// normalizer they were built with, so the mode travels with them.
type snapshot struct {
	Normalize  string
	Collisions int
	Entries    map[string]*Entry
}

// loadGob reads a snapshot into d, refusing one built with a different
// normalizer than the manifest declares.
func (d *Dictionary) loadGob(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open gob file: %w", err)
	}
	defer f.Close()

	var s snapshot
	if err := gob.NewDecoder(f).Decode(&s); err != nil {
		return fmt.Errorf("decode gob: %w", err)
	}
	if d.Manifest != nil && s.Normalize != d.Manifest.Format.Normalize {
		return fmt.Errorf("gob keys built with normalizer %q, manifest declares %q", s.Normalize, d.Manifest.Format.Normalize)
	}
	d.Entries = s.Entries
	if d.Entries == nil {
		d.Entries = make(map[string]*Entry)
	}
	d.Collisions = s.Collisions
	return nil
}

// SaveGob writes the builder's entries to a gob file at path.
func (b *Builder) SaveGob(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gob file: %w", err)
	}
	defer f.Close()

	s := snapshot{Normalize: b.mode, Collisions: b.collisions, Entries: b.entries}
	if err := gob.NewEncoder(f).Encode(&s); err != nil {
		return fmt.Errorf("encode gob: %w", err)
	}
	return f.Close()
}
