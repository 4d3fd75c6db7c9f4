package filter

import "strings"

// Deficiency is a color-vision deficiency type.
type Deficiency uint8

const (
	None Deficiency = iota
	Protanopia
	Deuteranopia
	Tritanopia
	Achromatopsia
)

// Deficiencies lists every type in menu order.
var Deficiencies = []Deficiency{None, Protanopia, Deuteranopia, Tritanopia, Achromatopsia}

var deficiencyNames = [...]string{
	None:          "none",
	Protanopia:    "protanopia",
	Deuteranopia:  "deuteranopia",
	Tritanopia:    "tritanopia",
	Achromatopsia: "achromatopsia",
}

func (d Deficiency) String() string {
	if int(d) < len(deficiencyNames) {
		return deficiencyNames[d]
	}
	return deficiencyNames[None]
}

// Title returns the display name, e.g. "Protanopia".
func (d Deficiency) Title() string {
	s := d.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseDeficiency maps a wire name to a Deficiency. Unknown names map to None.
func ParseDeficiency(s string) Deficiency {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range deficiencyNames {
		if name == s {
			return Deficiency(i)
		}
	}
	return None
}

func (d Deficiency) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText never fails; unknown names decode as None.
func (d *Deficiency) UnmarshalText(text []byte) error {
	*d = ParseDeficiency(string(text))
	return nil
}
