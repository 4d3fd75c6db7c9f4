//go:build ignore

// Generates cvfilter.ico (unfiltered color wheel at 16 and 32 px) for the
// installer and the executable resource.
// Invoked by: go run gen_icon.go
package main

import (
	"fmt"
	"os"

	"github.com/alex-vit/cvfilter/filter"
	"github.com/alex-vit/cvfilter/icon"
)

func main() {
	if err := os.WriteFile("cvfilter.ico", icon.Generate(filter.Identity()), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("wrote cvfilter.ico")
}
