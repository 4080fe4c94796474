//go:build !ebiten

package main

import (
	"fmt"
	"os"
)

// Headless builds have no window; point at the tagged build and the
// terminal driver instead.
func main() {
	fmt.Fprintln(os.Stderr, "ca: built without the ebiten tag, no window available.")
	fmt.Fprintln(os.Stderr, "  go run -tags ebiten ./cmd/ca       window")
	fmt.Fprintln(os.Stderr, "  go run ./cmd/gol -view tui         terminal")
	os.Exit(2)
}
