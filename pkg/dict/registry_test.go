package dict

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func setupRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	dir := t.TempDir()

	// Dict 1: French surnames
	d1 := filepath.Join(dir, "noms-fr")
	os.MkdirAll(d1, 0o755)
	os.WriteFile(filepath.Join(d1, "manifest.yaml"), []byte(`id: noms-fr
version: "1.0"
jurisdiction: fr
entity_type: surname
source: test
data_file: data.csv
format:
  delimiter: ";"
  has_header: true
  key_column: "term"
  normalize: name_ascii
metadata_columns:
  - name: freq
    column: "frequency"
`), 0o644)
	os.WriteFile(filepath.Join(d1, "data.csv"), []byte("term;frequency\nDUPONT;1200\nMartin;3500\nÉlodie;800\n"), 0o644)

	// Dict 2: UK first names
	d2 := filepath.Join(dir, "firstnames-uk")
	os.MkdirAll(d2, 0o755)
	os.WriteFile(filepath.Join(d2, "manifest.yaml"), []byte(`id: firstnames-uk
version: "1.0"
jurisdiction: uk
entity_type: first_name
source: test
data_file: data.csv
format:
  delimiter: ";"
  has_header: true
  key_column: "term"
  normalize: name
`), 0o644)
	os.WriteFile(filepath.Join(d2, "data.csv"), []byte("term\nJames\nEmma\nMartin\n"), 0o644)

	reg := NewRegistry(dir, nil)
	if err := reg.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return reg, dir
}

func TestRegistryLoad(t *testing.T) {
	reg, _ := setupRegistry(t)

	if reg.DictCount() != 2 {
		t.Errorf("DictCount = %d, want 2", reg.DictCount())
	}
	if reg.TotalEntries() != 6 {
		t.Errorf("TotalEntries = %d, want 6", reg.TotalEntries())
	}
}

func TestMatch(t *testing.T) {
	reg, _ := setupRegistry(t)

	result := reg.Match("DUPONT", nil)
	if result.Term != "DUPONT" {
		t.Errorf("Term = %q, want DUPONT", result.Term)
	}
	if result.Normalized != "dupont" {
		t.Errorf("Normalized = %q, want dupont", result.Normalized)
	}
	if len(result.Matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(result.Matches))
	}
	m := result.Matches[0]
	if m.DictID != "noms-fr" {
		t.Errorf("DictID = %q, want noms-fr", m.DictID)
	}
	if m.Metadata["freq"] != "1200" {
		t.Errorf("freq = %q, want 1200", m.Metadata["freq"])
	}
	if len(m.Variants) != 1 || m.Variants[0] != "DUPONT" {
		t.Errorf("variants = %v, want [DUPONT]", m.Variants)
	}
}

func TestMatch_PerDictNormalizer(t *testing.T) {
	reg, _ := setupRegistry(t)

	// noms-fr strips accents, firstnames-uk does not.
	result := reg.Match("elodie", nil)
	if len(result.Matches) != 1 || result.Matches[0].DictID != "noms-fr" {
		t.Fatalf("matches = %+v, want noms-fr only", result.Matches)
	}
	if result.Matches[0].Key != "elodie" {
		t.Errorf("Key = %q, want elodie", result.Matches[0].Key)
	}
}

func TestMatch_MultiDict(t *testing.T) {
	reg, _ := setupRegistry(t)

	result := reg.Match("Martin", nil)
	if len(result.Matches) != 2 {
		t.Errorf("matches = %d, want 2 (noms-fr + firstnames-uk)", len(result.Matches))
	}
}

func TestMatch_NoMatch(t *testing.T) {
	reg, _ := setupRegistry(t)

	result := reg.Match("Xylocopal O'Neil", nil)
	if len(result.Matches) != 0 {
		t.Errorf("matches = %d, want 0", len(result.Matches))
	}
	if result.Normalized != "xylocopal oneil" {
		t.Errorf("Normalized = %q, want xylocopal oneil", result.Normalized)
	}
}

func TestMatch_Filters(t *testing.T) {
	reg, _ := setupRegistry(t)

	tests := []struct {
		name string
		opts *MatchOptions
		want []string
	}{
		{"jurisdiction", &MatchOptions{Jurisdictions: []string{"fr"}}, []string{"noms-fr"}},
		{"type", &MatchOptions{Types: []string{"first_name"}}, []string{"firstnames-uk"}},
		{"dict", &MatchOptions{Dicts: []string{"firstnames-uk"}}, []string{"firstnames-uk"}},
		{"none", &MatchOptions{Jurisdictions: []string{"de"}}, nil},
		{"empty", &MatchOptions{}, []string{"firstnames-uk", "noms-fr"}},
	}
	for _, tt := range tests {
		result := reg.Match("Martin", tt.opts)
		if len(result.Matches) != len(tt.want) {
			t.Errorf("%s: matches = %d, want %d", tt.name, len(result.Matches), len(tt.want))
			continue
		}
		for i, id := range tt.want {
			if result.Matches[i].DictID != id {
				t.Errorf("%s: match %d = %q, want %q", tt.name, i, result.Matches[i].DictID, id)
			}
		}
	}
}

func TestMatch_Deterministic(t *testing.T) {
	reg, _ := setupRegistry(t)

	for i := 0; i < 20; i++ {
		result := reg.Match("Martin", nil)
		if len(result.Matches) != 2 {
			t.Fatalf("iteration %d: matches = %d, want 2", i, len(result.Matches))
		}
		if result.Matches[0].DictID != "firstnames-uk" || result.Matches[1].DictID != "noms-fr" {
			t.Errorf("iteration %d: order = %s, %s", i, result.Matches[0].DictID, result.Matches[1].DictID)
		}
	}
}

func TestMatch_Concurrent(t *testing.T) {
	reg, _ := setupRegistry(t)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				if got := reg.Match("Élodie", nil); len(got.Matches) != 1 {
					t.Errorf("matches = %d, want 1", len(got.Matches))
					return
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := reg.Reload(); err != nil {
			t.Errorf("Reload: %v", err)
		}
	}()
	wg.Wait()
}

func TestListDicts(t *testing.T) {
	reg, _ := setupRegistry(t)

	infos := reg.ListDicts()
	if len(infos) != 2 {
		t.Fatalf("ListDicts = %d, want 2", len(infos))
	}
	if infos[0].ID != "firstnames-uk" || infos[1].ID != "noms-fr" {
		t.Errorf("order = %s, %s", infos[0].ID, infos[1].ID)
	}
	if infos[1].Normalize != ModeNameASCII {
		t.Errorf("normalize = %q, want %q", infos[1].Normalize, ModeNameASCII)
	}
	if infos[1].Entries != 3 {
		t.Errorf("entries = %d, want 3", infos[1].Entries)
	}
}

func TestReload(t *testing.T) {
	reg, dir := setupRegistry(t)

	d3 := filepath.Join(dir, "villes-fr")
	os.MkdirAll(d3, 0o755)
	os.WriteFile(filepath.Join(d3, "manifest.yaml"), []byte(`id: villes-fr
version: "1.0"
jurisdiction: fr
entity_type: city
source: test
data_file: data.csv
format:
  delimiter: ";"
  has_header: true
  key_column: "term"
  normalize: address_latin
`), 0o644)
	os.WriteFile(filepath.Join(d3, "data.csv"), []byte("term\nParis\nМосква\n"), 0o644)

	if err := reg.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if reg.DictCount() != 3 {
		t.Errorf("after reload: %d dicts, want 3", reg.DictCount())
	}
	if got := reg.Match("moskva", &MatchOptions{Types: []string{"city"}}); len(got.Matches) != 1 {
		t.Errorf("moskva matches = %d, want 1", len(got.Matches))
	}
}

func TestReload_KeepsOldSetOnError(t *testing.T) {
	reg, dir := setupRegistry(t)

	bad := filepath.Join(dir, "zz-bad")
	os.MkdirAll(bad, 0o755)
	os.WriteFile(filepath.Join(bad, "manifest.yaml"), []byte("id: zz\nformat:\n  normalize: bogus\n"), 0o644)

	if err := reg.Reload(); err == nil {
		t.Fatal("Reload succeeded with a bad manifest")
	}
	if reg.DictCount() != 2 {
		t.Errorf("DictCount = %d, want 2 (old set kept)", reg.DictCount())
	}
}

func TestLoad_DuplicateID(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a", "b"} {
		d := filepath.Join(dir, name)
		os.MkdirAll(d, 0o755)
		os.WriteFile(filepath.Join(d, "manifest.yaml"), []byte("id: same\n"), 0o644)
		os.WriteFile(filepath.Join(d, "data.csv"), []byte("x\n"), 0o644)
	}
	if err := NewRegistry(dir, nil).Load(); err == nil {
		t.Error("expected error for duplicate dictionary id")
	}
}

func TestEmptyRegistry(t *testing.T) {
	reg := NewRegistry(t.TempDir(), nil)
	if err := reg.Load(); err != nil {
		t.Fatalf("Load empty: %v", err)
	}
	if reg.DictCount() != 0 || reg.TotalEntries() != 0 {
		t.Errorf("DictCount = %d, TotalEntries = %d, want 0", reg.DictCount(), reg.TotalEntries())
	}
	if result := reg.Match("anything", nil); len(result.Matches) != 0 {
		t.Errorf("matches = %d, want 0", len(result.Matches))
	}
}
