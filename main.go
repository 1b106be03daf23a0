// -- main.go --
package main

import (
	"github.com/Beckjiang/autocomposer/cmd"
	"github.com/Beckjiang/autocomposer/internal/observability"
)

func main() {
	// Flush any buffered log entries on exit.
	defer observability.Sync()

	cmd.Execute()
}
