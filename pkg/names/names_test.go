package names

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPrenormalize(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"John Smith", "john smith"},
		{"STRAßE", "strasse"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Prenormalize(tt.input); got != tt.want {
			t.Errorf("Prenormalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		input  string
		minLen int
		want   []string
	}{
		{"O'Brien", 1, []string{"OBrien"}},
		{"Müller & Co.", 1, []string{"Müller", "Co"}},
		{"Jean-Luc Picard", 1, []string{"Jean", "Luc", "Picard"}},
		{"Ali bin Omar", 3, []string{"Ali", "bin", "Omar"}},
		{"Xi Jinping", 3, []string{"Jinping"}},
		{"   ", 1, []string{}},
	}
	for _, tt := range tests {
		got := Tokenize(tt.input, tt.minLen)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Tokenize(%q, %d) mismatch (-want +got):\n%s", tt.input, tt.minLen, diff)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input, sep string
		want       string
		ok         bool
	}{
		{"Müller & Co.", " ", "müller co", true},
		{"John  SMITH", " ", "john smith", true},
		{"O'Brien, Patrick", "-", "obrien-patrick", true},
		{"Jean-Luc Picard", "", "jeanlucpicard", true},
		{"Владимир Путин", DefaultSeparator, "владимир путин", true},
		{"Spaß", " ", "spass", true},
		{"", " ", "", false},
		{"   ", " ", "", false},
		{"...", " ", "", false},
		{"'.'", " ", "", false},
	}
	for _, tt := range tests {
		got, ok := Normalize(tt.input, tt.sep)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Normalize(%q, %q) = %q, %v; want %q, %v", tt.input, tt.sep, got, ok, tt.want, tt.ok)
		}
	}
}
