package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/hazyhaar/touchstone-normalize/pkg/translit"
)

func TestParseConfig(t *testing.T) {
	cfg := defaultConfig()
	err := parseConfig([]byte(`
addr: ":9000"
latinize: true
address_min_length: 0
check_interval: 6h
`), &cfg)
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	if cfg.Addr != ":9000" || !cfg.Latinize || cfg.AddressMinLength != 0 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.CheckInterval != 6*time.Hour {
		t.Errorf("check_interval = %s, want 6h", cfg.CheckInterval)
	}
	// Untouched keys keep their defaults.
	if cfg.DictsDir != "dicts" || cfg.NameSeparator != " " || cfg.RateLimit != 600 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestParseConfig_Errors(t *testing.T) {
	for _, data := range []string{
		"addr: [",
		"address_min_length: -1",
		"rate_limit: -5",
		"check_interval: 0s",
	} {
		cfg := defaultConfig()
		if err := parseConfig([]byte(data), &cfg); err == nil {
			t.Errorf("parseConfig(%q) succeeded, want error", data)
		}
	}
}

func TestLineNormalizer(t *testing.T) {
	tr := translit.NewContext()
	tests := []struct {
		flags normalizeFlags
		in    string
		want  string
	}{
		{normalizeFlags{mode: "address", minLength: -1}, "123 Main St.", "123 main st"},
		{normalizeFlags{mode: "address", minLength: -1}, "abc", ""},
		{normalizeFlags{mode: "address", minLength: 1}, "abc", "abc"},
		{normalizeFlags{mode: "address", latinize: true, minLength: -1}, "Москва", "moskva"},
		{normalizeFlags{mode: "keywords"}, "160 Broad Street", "160 broad st"},
		{normalizeFlags{mode: "name", sep: "-"}, "Müller & Co.", "müller-co"},
		{normalizeFlags{mode: "prenormalize"}, "STRASSE", "strasse"},
		{normalizeFlags{mode: "tokens", minLength: -1, sep: "|"}, "O'Brien, Jr.", "OBrien|Jr"},
		{normalizeFlags{mode: "ascii"}, "Café", "Cafe"},
	}
	for _, tt := range tests {
		line, err := lineNormalizer(tt.flags, tr)
		if err != nil {
			t.Fatalf("%+v: %v", tt.flags, err)
		}
		if got := line(tt.in); got != tt.want {
			t.Errorf("%s(%q) = %q, want %q", tt.flags.mode, tt.in, got, tt.want)
		}
	}

	if _, err := lineNormalizer(normalizeFlags{mode: "bogus"}, tr); err == nil {
		t.Error("unknown mode accepted")
	}
}

func TestNormalizeLines(t *testing.T) {
	in := strings.NewReader("Café\n\nМосква\n")
	var out bytes.Buffer
	if err := normalizeLines(in, &out, translit.NewContext().ASCII); err != nil {
		t.Fatal(err)
	}
	if got, want := out.String(), "Cafe\n\nMoskva\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
