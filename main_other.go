//go:build !windows

package main

import "log"

func main() {
	log.SetFlags(0)
	log.Fatal("CVFilter: the tray app needs Windows; use cmd/cvfilterd or cmd/cvfilter-term instead")
}
