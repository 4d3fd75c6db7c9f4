package filter

import (
	"encoding/json"
	"testing"
)

func TestParseDeficiency(t *testing.T) {
	tests := []struct {
		in   string
		want Deficiency
	}{
		{"none", None},
		{"protanopia", Protanopia},
		{"deuteranopia", Deuteranopia},
		{"tritanopia", Tritanopia},
		{"achromatopsia", Achromatopsia},
		{"  Protanopia ", Protanopia},
		{"ACHROMATOPSIA", Achromatopsia},
		{"", None},
		{"not-a-real-type", None},
		{"protanomaly", None},
	}
	for _, tt := range tests {
		if got := ParseDeficiency(tt.in); got != tt.want {
			t.Errorf("ParseDeficiency(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDeficiencyString(t *testing.T) {
	for _, d := range Deficiencies {
		if got := ParseDeficiency(d.String()); got != d {
			t.Errorf("ParseDeficiency(%q) = %v, want %v", d.String(), got, d)
		}
	}
	if got := Deficiency(99).String(); got != "none" {
		t.Errorf("Deficiency(99).String() = %q, want none", got)
	}
	if got := Deuteranopia.Title(); got != "Deuteranopia" {
		t.Errorf("Title() = %q", got)
	}
}

func TestDeficiencyJSON(t *testing.T) {
	var v struct {
		Type Deficiency `json:"type"`
	}
	if err := json.Unmarshal([]byte(`{"type":"tritanopia"}`), &v); err != nil {
		t.Fatal(err)
	}
	if v.Type != Tritanopia {
		t.Errorf("decoded %v, want tritanopia", v.Type)
	}
	if err := json.Unmarshal([]byte(`{"type":"mystery"}`), &v); err != nil {
		t.Fatalf("unknown type should decode without error: %v", err)
	}
	if v.Type != None {
		t.Errorf("decoded %v, want none", v.Type)
	}
	out, err := json.Marshal(State{Type: Protanopia, Intensity: 0.5, Active: true})
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"type":"protanopia","intensity":0.5,"isActive":true}`; string(out) != want {
		t.Errorf("Marshal(State) = %s, want %s", out, want)
	}
}
