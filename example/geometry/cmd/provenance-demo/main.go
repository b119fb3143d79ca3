// Command provenance-demo evaluates YAML scene files through the tracked geometry kernel and prints the
// operation trees of the resulting solids.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
