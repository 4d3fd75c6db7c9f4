// Command cvfilter-preview writes a filtered copy of an image as PNG.
package main

import (
	"flag"
	"log"

	"github.com/alex-vit/cvfilter/filter"
	"github.com/alex-vit/cvfilter/internal/preview"
)

func main() {
	typ := flag.String("type", "deuteranopia", "filter: none, protanopia, deuteranopia, tritanopia or achromatopsia")
	intensity := flag.Float64("intensity", filter.DefaultIntensity, "filter intensity in [0, 1]")
	imagePath := flag.String("image", "", "source image (default: built-in color chart)")
	outPath := flag.String("out", "cvfilter-preview.png", "output PNG")
	width := flag.Int("width", 0, "maximum output width in pixels (0 keeps the source size)")
	flag.Parse()

	log.SetFlags(0)

	src := preview.Chart(16, 8, 40)
	if *imagePath != "" {
		img, err := preview.Load(*imagePath, *width)
		if err != nil {
			log.Fatalf("cvfilter-preview: %v", err)
		}
		src = img
	} else if *width > 0 {
		src = preview.Fit(src, *width)
	}

	d := filter.ParseDeficiency(*typ)
	if d == filter.None && *typ != "none" {
		log.Printf("cvfilter-preview: unknown type %q, writing the unfiltered image", *typ)
	}
	level := filter.ClampIntensity(*intensity)
	m := filter.BuildMatrix(d, level)

	if err := preview.WritePNG(*outPath, preview.Transform(src, m)); err != nil {
		log.Fatalf("cvfilter-preview: %v", err)
	}
	log.Printf("cvfilter-preview: wrote %s (%s at %.0f%%)", *outPath, d, level*100)
}
