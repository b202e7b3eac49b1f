// Command filtersim builds, runs and inspects RC filter entities.
package main

import (
	"github.com/tebeka/atexit"

	"github.com/sarchlab/filterkit/cmd/filtersim/cmd"
)

func main() {
	cmd.Execute()
	atexit.Exit(0)
}
