package main

import (
	"fmt"
	"math"

	"github.com/alex-vit/cvfilter/filter"
)

// percent converts an intensity to a 0-100 slider position.
func percent(intensity float64) int {
	return int(math.Round(filter.ClampIntensity(intensity) * 100))
}

// nearestPreset rounds a percentage to the closest menu preset
// (10, 20, ..., 100) so values set from the slider still show a checkmark.
func nearestPreset(level int) int {
	return min(max(((level+5)/10)*10, 10), 100)
}

func tooltip(st filter.State) string {
	if !st.Active {
		return "CVFilter: off"
	}
	return fmt.Sprintf("CVFilter: %s %d%%", st.Type.Title(), percent(st.Intensity))
}
