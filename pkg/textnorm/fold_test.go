package textnorm

import "testing"

func TestFold(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"John SMITH", "john smith"},
		{"MÜLLER", "müller"},
		{"Spaß", "spass"},
		{"STRASSE", "strasse"},
		{"O'Brien", "o'brien"},
		{"ΣΊΣΥΦΟΣ", "σίσυφοσ"},
		{"Владимир ПУТИН", "владимир путин"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Fold(tt.input); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLower(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"123 Main St", "123 main st"},
		{"АМУРСКАЯ", "амурская"},
		// Lowercasing keeps ß; only folding expands it.
		{"Spaß", "spaß"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Lower(tt.input); got != tt.want {
			t.Errorf("Lower(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
